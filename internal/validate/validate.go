// internal/validate/validate.go
package validate

import (
	"math"

	"nutrition-engine/internal/models"
)

// Calorie plausibility ceilings. A single ready-to-eat item above the lower
// bound, or a composite meal above the higher one, is rejected as bad data.
const (
	DefaultSingleItemCalorieLimit = 500
	DefaultCompositeCalorieLimit  = 2000
)

// Gate decides whether a candidate profile is structurally valid and
// numerically plausible. Every profile — freshly resolved or read back from
// the cache — passes through the gate before display or reuse; a failing
// cached profile forces re-resolution, which is how stale entries self-heal.
type Gate struct {
	SingleItemCalorieLimit float64
	CompositeCalorieLimit  float64
}

func NewGate() Gate {
	return Gate{
		SingleItemCalorieLimit: DefaultSingleItemCalorieLimit,
		CompositeCalorieLimit:  DefaultCompositeCalorieLimit,
	}
}

var macroFields = []models.Nutrient{
	models.Calories,
	models.Protein,
	models.Carbohydrate,
	models.Fat,
}

// IsValid reports whether at least one macro field is known, finite, and
// greater than zero. A profile with no usable macro is not displayable.
func (g Gate) IsValid(p *models.Profile) bool {
	if p == nil {
		return false
	}
	for _, n := range macroFields {
		a, ok := p.Get(n)
		if ok && usable(a.Value) && a.Value > 0 {
			return true
		}
	}
	return false
}

// IsReasonable reports whether the calorie value is present and within the
// plausibility ceiling for the item kind. An unknown or unusable calorie
// value is automatically unreasonable.
func (g Gate) IsReasonable(p *models.Profile, isComposite bool) bool {
	if p == nil {
		return false
	}
	a, ok := p.Get(models.Calories)
	if !ok || !usable(a.Value) {
		return false
	}

	limit := g.SingleItemCalorieLimit
	if isComposite {
		limit = g.CompositeCalorieLimit
	}
	return a.Value <= limit
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
