// internal/models/profile_test.go
package models

import "testing"

func TestUnknownIsAbsenceNotZero(t *testing.T) {
	p := NewProfile("egg white", 33)
	p.Set(Fat, 0, Grams) // measured zero

	if !p.Known(Fat) {
		t.Error("a measured zero is a known value")
	}
	if p.Known(Protein) {
		t.Error("an unreported field is unknown")
	}

	a, ok := p.Get(Fat)
	if !ok || a.Value != 0 {
		t.Errorf("got (%+v, %v)", a, ok)
	}
	if _, ok := p.Get(Protein); ok {
		t.Error("Get on an unknown field must report false")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewProfile("yogurt", 170)
	p.Set(Calories, 100, Kcal)

	c := p.Clone()
	c.Set(Calories, 999, Kcal)
	c.Set(Sugar, 12, Grams)

	original, _ := p.Get(Calories)
	if original.Value != 100 {
		t.Errorf("clone write leaked into the original: %v", original.Value)
	}
	if p.Known(Sugar) {
		t.Error("clone write leaked a new field into the original")
	}
}

func TestFoodSpecIsComposite(t *testing.T) {
	if (FoodSpec{Name: "apple", Grams: 150}).IsComposite() {
		t.Error("plain food is not composite")
	}
	if !(FoodSpec{Name: "dinner", Components: []string{"rice", "fish"}}).IsComposite() {
		t.Error("declared components make a spec composite")
	}
}

func TestSetOnZeroValueProfile(t *testing.T) {
	var p Profile
	p.Set(Calories, 50, Kcal)
	if !p.Known(Calories) {
		t.Error("Set must initialize the nutrient map")
	}
}
