// internal/resolver/decompose.go
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/providers"
)

// Decomposer splits an unrecognized composite food into named parts with
// estimated amounts, largest portion first.
type Decomposer struct {
	generative providers.GenerativeEstimator
	timeout    time.Duration
}

func NewDecomposer(generative providers.GenerativeEstimator, timeout time.Duration) *Decomposer {
	if timeout <= 0 {
		timeout = DefaultLongTimeout
	}
	return &Decomposer{generative: generative, timeout: timeout}
}

// Decompose returns the component list, or nil on failure or an empty
// result. A nil return is not an error: the caller falls back to resolving
// the composite name directly as a single low-confidence item.
func (d *Decomposer) Decompose(ctx context.Context, name, summary string) []models.FoodComponent {
	if d.generative == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	components, err := d.generative.DecomposeComponents(ctx, name, summary)
	if err != nil {
		slog.Warn("decomposition failed", "food", name, "error", err)
		return nil
	}

	kept := components[:0]
	for _, c := range components {
		if c.Name != "" && c.EstimatedGrams > 0 {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].EstimatedGrams > kept[j].EstimatedGrams
	})

	if len(kept) == 0 {
		return nil
	}
	return kept
}
