// internal/aggregate/aggregate_test.go
package aggregate

import (
	"math"
	"testing"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/units"
)

func profileWith(name string, grams float64, fields map[models.Nutrient]float64) *models.Profile {
	p := models.NewProfile(name, grams)
	for n, v := range fields {
		p.Set(n, v, units.Canonical(n))
	}
	return p
}

func TestMergeSumsWithoutNormalizing(t *testing.T) {
	// 50g at 100 kcal plus 100g at 100 kcal is 200 kcal, not an average
	// and not a per-100g rescale.
	a := profileWith("rice", 50, map[models.Nutrient]float64{models.Calories: 100})
	b := profileWith("beans", 100, map[models.Nutrient]float64{models.Calories: 100})

	merged, found := Merge("rice and beans", []*models.Profile{a, b})
	if !found {
		t.Fatal("expected found=true")
	}

	calories, ok := merged.Get(models.Calories)
	if !ok {
		t.Fatal("expected calories to be known")
	}
	if calories.Value != 200 {
		t.Errorf("expected 200 kcal, got %v", calories.Value)
	}
	if merged.Grams != 150 {
		t.Errorf("expected 150g total, got %v", merged.Grams)
	}
}

func TestMergeIsCommutative(t *testing.T) {
	a := profileWith("chicken", 150, map[models.Nutrient]float64{
		models.Calories: 240,
		models.Protein:  45,
	})
	b := profileWith("rice", 100, map[models.Nutrient]float64{
		models.Calories:     130,
		models.Carbohydrate: 28,
	})
	c := profileWith("broccoli", 80, map[models.Nutrient]float64{
		models.Calories: 27,
		models.Fiber:    2.1,
	})

	forward, _ := Merge("plate", []*models.Profile{a, b, c})
	backward, _ := Merge("plate", []*models.Profile{c, b, a})

	if len(forward.Nutrients) != len(backward.Nutrients) {
		t.Fatalf("field counts differ: %d vs %d", len(forward.Nutrients), len(backward.Nutrients))
	}
	for n, amount := range forward.Nutrients {
		other, ok := backward.Get(n)
		if !ok {
			t.Fatalf("field %s missing after permutation", n)
		}
		if math.Abs(amount.Value-other.Value) > 1e-9 {
			t.Errorf("field %s: %v vs %v", n, amount.Value, other.Value)
		}
	}
}

func TestMergeIdentity(t *testing.T) {
	original := profileWith("apple", 182, map[models.Nutrient]float64{
		models.Calories:     95,
		models.Carbohydrate: 25,
		models.Fiber:        4.4,
	})

	merged, found := Merge("apple", []*models.Profile{original})
	if !found {
		t.Fatal("expected found=true")
	}
	if merged.Grams != original.Grams {
		t.Errorf("grams changed: %v vs %v", merged.Grams, original.Grams)
	}
	if len(merged.Nutrients) != len(original.Nutrients) {
		t.Fatalf("field count changed: %d vs %d", len(merged.Nutrients), len(original.Nutrients))
	}
	for n, amount := range original.Nutrients {
		got, ok := merged.Get(n)
		if !ok || got.Value != amount.Value {
			t.Errorf("field %s not reproduced: got %v want %v", n, got.Value, amount.Value)
		}
	}
}

func TestMergeUnknownPropagation(t *testing.T) {
	// A merged field is known iff at least one component knew it; a
	// component with no sodium data must not zero out the sum.
	a := profileWith("soup", 200, map[models.Nutrient]float64{
		models.Calories: 120,
		models.Sodium:   800,
	})
	b := profileWith("bread", 60, map[models.Nutrient]float64{
		models.Calories: 160,
	})

	merged, _ := Merge("soup and bread", []*models.Profile{a, b})

	sodium, ok := merged.Get(models.Sodium)
	if !ok {
		t.Fatal("sodium known in one component, must be known in merge")
	}
	if sodium.Value != 800 {
		t.Errorf("expected sodium 800, got %v", sodium.Value)
	}

	if merged.Known(models.Fiber) {
		t.Error("fiber unknown in every component, must stay unknown")
	}
}

func TestMergeNoComponentsIsNotFound(t *testing.T) {
	merged, found := Merge("mystery", nil)
	if found {
		t.Error("expected found=false for zero components")
	}
	if merged != nil {
		t.Error("expected nil profile, not a zero-filled one")
	}

	merged, found = Merge("mystery", []*models.Profile{nil, nil})
	if found || merged != nil {
		t.Error("nil components must not produce a profile")
	}
}

func TestMergeEmptyProfilesAreNotFound(t *testing.T) {
	a := models.NewProfile("unknown thing", 100)
	b := models.NewProfile("another unknown", 50)

	_, found := Merge("meal", []*models.Profile{a, b})
	if found {
		t.Error("components with zero known fields must yield found=false")
	}
}
