// internal/resolver/serving.go
package resolver

import (
	"context"
	"log/slog"
	"time"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/providers"
)

// ServingEstimator produces a typical weight for a named food. It never
// fails: on any transport or format problem it answers with the defined
// fallback ("1 serving", 100 g), which callers treat as low confidence but
// never special-case structurally.
type ServingEstimator struct {
	generative providers.GenerativeEstimator
	timeout    time.Duration
}

func NewServingEstimator(generative providers.GenerativeEstimator, timeout time.Duration) *ServingEstimator {
	if timeout <= 0 {
		timeout = DefaultShortTimeout
	}
	return &ServingEstimator{generative: generative, timeout: timeout}
}

func (s *ServingEstimator) Estimate(ctx context.Context, name string, isRecipeComponent bool) models.ServingEstimate {
	if s.generative == nil {
		return models.FallbackServing
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	estimate, err := s.generative.EstimateServingSize(ctx, name, isRecipeComponent)
	if err != nil || estimate.Grams <= 0 {
		slog.Debug("serving estimation failed, using fallback", "food", name, "error", err)
		return models.FallbackServing
	}

	return estimate
}
