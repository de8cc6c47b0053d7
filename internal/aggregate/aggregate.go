// internal/aggregate/aggregate.go
package aggregate

import (
	"nutrition-engine/internal/models"
	"nutrition-engine/internal/units"
)

// Merge sums per-component profiles into one whole-item profile. Each input
// is already scaled to its component's own amount, so this is a plain sum,
// never an average or a per-100g renormalization.
//
// A merged field is known iff at least one component reported it; components
// that lacked a field simply do not contribute, they never zero out the sum.
// The second return is false when no component contributed any known field;
// that case must surface as "no data", not as a zero-filled profile.
//
// Summation is commutative, so callers may resolve components in any order
// or concurrently. Merging a single profile reproduces it exactly.
func Merge(name string, components []*models.Profile) (*models.Profile, bool) {
	merged := models.NewProfile(name, 0)
	found := false

	for _, component := range components {
		if component == nil {
			continue
		}
		merged.Grams += component.Grams
		for n, a := range component.Nutrients {
			found = true
			target := units.Canonical(n)
			v, ok := units.Convert(n, a, target)
			if !ok {
				continue
			}
			if existing, known := merged.Nutrients[n]; known {
				merged.Nutrients[n] = models.Amount{Value: existing.Value + v, Unit: target}
			} else {
				merged.Nutrients[n] = models.Amount{Value: v, Unit: target}
			}
		}
	}

	if !found {
		return nil, false
	}
	return merged, true
}
