// internal/providers/providers.go
package providers

import (
	"context"

	"nutrition-engine/internal/models"
)

// StructuredSource is the curated reference database tier. Lookup returns a
// profile scaled to the requested amount, or nil when the food is unknown.
type StructuredSource interface {
	Lookup(ctx context.Context, name string, grams float64) (*models.Profile, error)
}

// CommercialAPI is the paid ingredient-nutrition API tier.
type CommercialAPI interface {
	Lookup(ctx context.Context, name string, grams float64) (*models.Profile, error)
}

// GenerativeEstimator is the last-resort tier plus the decomposition and
// serving-size collaborators. Implementations reconstruct structured answers
// from model text and report unparsable output as a FormatError.
type GenerativeEstimator interface {
	EstimateProfile(ctx context.Context, name string, grams float64) (*models.Profile, error)
	DecomposeComponents(ctx context.Context, name, summary string) ([]models.FoodComponent, error)
	EstimateServingSize(ctx context.Context, name string, isRecipeComponent bool) (models.ServingEstimate, error)
}
