// internal/models/profile.go
package models

import (
	"time"
)

// Nutrient identifies one tracked nutrient field.
type Nutrient string

const (
	Calories     Nutrient = "calories"
	Protein      Nutrient = "protein"
	Carbohydrate Nutrient = "carbohydrates"
	Fat          Nutrient = "fat"
	SaturatedFat Nutrient = "saturated_fat"
	Fiber        Nutrient = "fiber"
	Sugar        Nutrient = "sugar"
	Sodium       Nutrient = "sodium"
	Cholesterol  Nutrient = "cholesterol"
	Potassium    Nutrient = "potassium"
	Calcium      Nutrient = "calcium"
	Iron         Nutrient = "iron"
	Magnesium    Nutrient = "magnesium"
	Phosphorus   Nutrient = "phosphorus"
	Zinc         Nutrient = "zinc"
	Copper       Nutrient = "copper"
	Manganese    Nutrient = "manganese"
	Selenium     Nutrient = "selenium"
	Iodine       Nutrient = "iodine"
	VitaminA     Nutrient = "vitamin_a"
	VitaminC     Nutrient = "vitamin_c"
	VitaminD     Nutrient = "vitamin_d"
	VitaminE     Nutrient = "vitamin_e"
	VitaminK     Nutrient = "vitamin_k"
	VitaminB1    Nutrient = "vitamin_b1"
	VitaminB2    Nutrient = "vitamin_b2"
	VitaminB3    Nutrient = "vitamin_b3"
	VitaminB5    Nutrient = "vitamin_b5"
	VitaminB6    Nutrient = "vitamin_b6"
	VitaminB12   Nutrient = "vitamin_b12"
	Folate       Nutrient = "folate"
	Choline      Nutrient = "choline"
	Omega3       Nutrient = "omega_3"
	Omega6       Nutrient = "omega_6"
)

// AllNutrients lists every tracked nutrient in a stable order.
var AllNutrients = []Nutrient{
	Calories, Protein, Carbohydrate, Fat, SaturatedFat, Fiber, Sugar, Sodium,
	Cholesterol, Potassium, Calcium, Iron, Magnesium, Phosphorus, Zinc,
	Copper, Manganese, Selenium, Iodine, VitaminA, VitaminC, VitaminD,
	VitaminE, VitaminK, VitaminB1, VitaminB2, VitaminB3, VitaminB5,
	VitaminB6, VitaminB12, Folate, Choline, Omega3, Omega6,
}

type Unit string

const (
	Kcal       Unit = "kcal"
	Grams      Unit = "g"
	Milligrams Unit = "mg"
	Micrograms Unit = "mcg"
	IU         Unit = "iu"
)

// Amount is a measured nutrient value. An Amount only exists for nutrients a
// provider actually reported; "unknown" is represented by the absence of the
// map entry, never by a zero value.
type Amount struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Profile is the nutrient profile of one food at one specific amount.
// Nutrients holds only the fields a provider reported.
type Profile struct {
	Name      string              `json:"name"`
	Grams     float64             `json:"grams"`
	Nutrients map[Nutrient]Amount `json:"nutrients"`
}

func NewProfile(name string, grams float64) *Profile {
	return &Profile{
		Name:      name,
		Grams:     grams,
		Nutrients: make(map[Nutrient]Amount),
	}
}

// Set records a known value for a nutrient.
func (p *Profile) Set(n Nutrient, value float64, unit Unit) {
	if p.Nutrients == nil {
		p.Nutrients = make(map[Nutrient]Amount)
	}
	p.Nutrients[n] = Amount{Value: value, Unit: unit}
}

// Get returns the reported amount and whether the nutrient is known.
func (p *Profile) Get(n Nutrient) (Amount, bool) {
	a, ok := p.Nutrients[n]
	return a, ok
}

// Known reports whether a provider supplied a value for the nutrient.
func (p *Profile) Known(n Nutrient) bool {
	_, ok := p.Nutrients[n]
	return ok
}

func (p *Profile) Clone() *Profile {
	c := NewProfile(p.Name, p.Grams)
	for n, a := range p.Nutrients {
		c.Nutrients[n] = a
	}
	return c
}

// Tier identifies which data provider produced a profile.
type Tier string

const (
	TierStructured Tier = "structured"
	TierCommercial Tier = "commercial"
	TierGenerative Tier = "generative"
	TierAggregated Tier = "aggregated"
	TierNone       Tier = ""
)

// FoodComponent is one named part of a decomposed composite food.
type FoodComponent struct {
	Name           string  `json:"name"`
	EstimatedGrams float64 `json:"estimated_grams"`
}

// ServingEstimate is a typical single-serving weight for a named food.
type ServingEstimate struct {
	Description string  `json:"description"`
	Grams       float64 `json:"grams"`
}

// FallbackServing is returned when serving-size estimation fails. Callers
// treat it as low confidence but must not special-case it structurally.
var FallbackServing = ServingEstimate{Description: "1 serving", Grams: 100}

// FoodSpec describes one resolution request: a single food, or a meal given
// as a list of component names. HeadlineScore is the surrounding app's score
// for the analysis; it participates in the cache identity.
type FoodSpec struct {
	Name          string   `json:"name"`
	Grams         float64  `json:"grams"`
	Components    []string `json:"components,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	HeadlineScore float64  `json:"headline_score"`
}

// IsComposite reports whether the spec was declared as a multi-component meal.
func (s FoodSpec) IsComposite() bool {
	return len(s.Components) > 0
}

// CacheEntry is one persisted resolution result.
type CacheEntry struct {
	Identity  string    `json:"identity"`
	Profile   *Profile  `json:"profile"`
	Tier      Tier      `json:"tier"`
	Timestamp time.Time `json:"timestamp"`
}
