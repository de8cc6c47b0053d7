// internal/units/units_test.go
package units

import (
	"math"
	"testing"

	"nutrition-engine/internal/models"
)

func TestConvertMassUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount models.Amount
		target models.Unit
		want   float64
	}{
		{"mg to g", models.Amount{Value: 800, Unit: models.Milligrams}, models.Grams, 0.8},
		{"g to mg", models.Amount{Value: 1.5, Unit: models.Grams}, models.Milligrams, 1500},
		{"mcg to mg", models.Amount{Value: 400, Unit: models.Micrograms}, models.Milligrams, 0.4},
		{"mg to mcg", models.Amount{Value: 0.9, Unit: models.Milligrams}, models.Micrograms, 900},
		{"same unit", models.Amount{Value: 42, Unit: models.Grams}, models.Grams, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Convert(models.Sodium, tt.amount, tt.target)
			if !ok {
				t.Fatal("expected a defined conversion")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertVitaminAFromIU(t *testing.T) {
	// 1 IU retinol = 0.3 mcg RAE.
	got, ok := Convert(models.VitaminA, models.Amount{Value: 1000, Unit: models.IU}, models.Micrograms)
	if !ok {
		t.Fatal("vitamin A IU conversion must be defined")
	}
	if math.Abs(got-300) > 1e-9 {
		t.Errorf("1000 IU vitamin A: got %v mcg, want 300", got)
	}
}

func TestConvertVitaminDFromIU(t *testing.T) {
	// 40 IU = 1 mcg cholecalciferol.
	got, ok := Convert(models.VitaminD, models.Amount{Value: 400, Unit: models.IU}, models.Micrograms)
	if !ok {
		t.Fatal("vitamin D IU conversion must be defined")
	}
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("400 IU vitamin D: got %v mcg, want 10", got)
	}
}

func TestConvertUndefinedIsUnknown(t *testing.T) {
	// IU has no defined meaning for iron; the caller must treat the value
	// as unknown, not pass the raw number through.
	if _, ok := Convert(models.Iron, models.Amount{Value: 10, Unit: models.IU}, models.Milligrams); ok {
		t.Error("IU iron conversion must be undefined")
	}
	if _, ok := Convert(models.Calories, models.Amount{Value: 100, Unit: models.Kcal}, models.Grams); ok {
		t.Error("kcal to grams must be undefined")
	}
}

func TestNormalizeRewritesToCanonicalUnits(t *testing.T) {
	p := models.NewProfile("fortified cereal", 40)
	p.Set(models.VitaminA, 1000, models.IU)
	p.Set(models.Sodium, 0.2, models.Grams)
	p.Set(models.Protein, 5, models.Grams)

	Normalize(p)

	a, ok := p.Get(models.VitaminA)
	if !ok || a.Unit != models.Micrograms || math.Abs(a.Value-300) > 1e-9 {
		t.Errorf("vitamin A: got %+v, want 300 mcg", a)
	}

	sodium, ok := p.Get(models.Sodium)
	if !ok || sodium.Unit != models.Milligrams || math.Abs(sodium.Value-200) > 1e-9 {
		t.Errorf("sodium: got %+v, want 200 mg", sodium)
	}

	protein, _ := p.Get(models.Protein)
	if protein.Unit != models.Grams || protein.Value != 5 {
		t.Errorf("protein already canonical, got %+v", protein)
	}
}

func TestNormalizeDropsUnconvertibleFields(t *testing.T) {
	p := models.NewProfile("dirty data", 100)
	p.Set(models.Iron, 50, models.IU)
	p.Set(models.Calories, math.NaN(), models.Kcal)
	p.Set(models.Fiber, math.Inf(1), models.Grams)
	p.Set(models.Carbohydrate, 20, models.Grams)

	Normalize(p)

	if p.Known(models.Iron) {
		t.Error("unconvertible iron must become unknown")
	}
	if p.Known(models.Calories) {
		t.Error("NaN calories must become unknown")
	}
	if p.Known(models.Fiber) {
		t.Error("infinite fiber must become unknown")
	}
	if !p.Known(models.Carbohydrate) {
		t.Error("clean field must survive normalization")
	}
}

func TestNormalizeNilProfile(t *testing.T) {
	Normalize(nil) // must not panic
}

func TestCanonicalCoversAllNutrients(t *testing.T) {
	for _, n := range models.AllNutrients {
		if _, ok := canonical[n]; !ok {
			t.Errorf("nutrient %s has no canonical unit", n)
		}
	}
}
