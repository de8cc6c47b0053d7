// internal/units/units.go
package units

import (
	"math"

	"nutrition-engine/internal/models"
)

// Retinol activity conversion for IU-denominated Vitamin A values.
const retinolMcgPerIU = 0.3

// Vitamin D: 40 IU per microgram cholecalciferol.
const vitaminDMcgPerIU = 0.025

// canonical maps every nutrient to the unit profiles must carry after
// normalization. Macros in grams, minerals in milligrams, vitamins mostly in
// micrograms, matching the USDA reference data.
var canonical = map[models.Nutrient]models.Unit{
	models.Calories:     models.Kcal,
	models.Protein:      models.Grams,
	models.Carbohydrate: models.Grams,
	models.Fat:          models.Grams,
	models.SaturatedFat: models.Grams,
	models.Fiber:        models.Grams,
	models.Sugar:        models.Grams,
	models.Sodium:       models.Milligrams,
	models.Cholesterol:  models.Milligrams,
	models.Potassium:    models.Milligrams,
	models.Calcium:      models.Milligrams,
	models.Iron:         models.Milligrams,
	models.Magnesium:    models.Milligrams,
	models.Phosphorus:   models.Milligrams,
	models.Zinc:         models.Milligrams,
	models.Copper:       models.Milligrams,
	models.Manganese:    models.Milligrams,
	models.Selenium:     models.Micrograms,
	models.Iodine:       models.Micrograms,
	models.VitaminA:     models.Micrograms,
	models.VitaminC:     models.Milligrams,
	models.VitaminD:     models.Micrograms,
	models.VitaminE:     models.Milligrams,
	models.VitaminK:     models.Micrograms,
	models.VitaminB1:    models.Milligrams,
	models.VitaminB2:    models.Milligrams,
	models.VitaminB3:    models.Milligrams,
	models.VitaminB5:    models.Milligrams,
	models.VitaminB6:    models.Milligrams,
	models.VitaminB12:   models.Micrograms,
	models.Folate:       models.Micrograms,
	models.Choline:      models.Milligrams,
	models.Omega3:       models.Grams,
	models.Omega6:       models.Grams,
}

// Canonical returns the unit a nutrient is stored in after normalization.
func Canonical(n models.Nutrient) models.Unit {
	if u, ok := canonical[n]; ok {
		return u
	}
	return models.Grams
}

// mass factors relative to grams.
var massGrams = map[models.Unit]float64{
	models.Grams:      1,
	models.Milligrams: 1e-3,
	models.Micrograms: 1e-6,
}

// Convert translates an amount of a nutrient into the target unit. The
// second return is false when no defined conversion exists, which callers
// must treat as "value unknown" rather than passing the raw number through.
func Convert(n models.Nutrient, a models.Amount, target models.Unit) (float64, bool) {
	if a.Unit == target {
		return a.Value, true
	}

	if a.Unit == models.IU {
		var mcg float64
		switch n {
		case models.VitaminA:
			mcg = a.Value * retinolMcgPerIU
		case models.VitaminD:
			mcg = a.Value * vitaminDMcgPerIU
		default:
			return 0, false
		}
		return Convert(n, models.Amount{Value: mcg, Unit: models.Micrograms}, target)
	}

	from, okFrom := massGrams[a.Unit]
	to, okTo := massGrams[target]
	if !okFrom || !okTo {
		return 0, false
	}
	return a.Value * from / to, true
}

// Normalize rewrites every known field of a profile into its canonical unit.
// Fields with no defined conversion or a non-finite value are demoted to
// unknown instead of being returned in a unit the rest of the engine does
// not expect.
func Normalize(p *models.Profile) {
	if p == nil {
		return
	}
	for n, a := range p.Nutrients {
		if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
			delete(p.Nutrients, n)
			continue
		}
		target := Canonical(n)
		v, ok := Convert(n, a, target)
		if !ok {
			delete(p.Nutrients, n)
			continue
		}
		p.Nutrients[n] = models.Amount{Value: v, Unit: target}
	}
}
