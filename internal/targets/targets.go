// internal/targets/targets.go
package targets

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"nutrition-engine/internal/models"
)

//go:embed rda.yaml
var rdaYAML []byte

// Sex is the demographic sex axis of the bracket table.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexAny    Sex = "any"
)

type bracket struct {
	Nutrient models.Nutrient `yaml:"nutrient"`
	Sex      Sex             `yaml:"sex"`
	AgeMin   int             `yaml:"age_min"`
	AgeMax   int             `yaml:"age_max"` // 0 = open-ended
	Amount   float64         `yaml:"amount"`
}

// ageSpecific reports whether the bracket constrains age at all.
func (b bracket) ageSpecific() bool {
	return b.AgeMin > 0 || b.AgeMax > 0
}

func (b bracket) matchesAge(age int) bool {
	if !b.ageSpecific() {
		return true
	}
	if age < b.AgeMin {
		return false
	}
	if b.AgeMax > 0 && age > b.AgeMax {
		return false
	}
	return true
}

type tableFile struct {
	Units    map[models.Nutrient]models.Unit `yaml:"units"`
	Brackets []bracket                       `yaml:"brackets"`
}

// Lookup resolves recommended daily amounts through a bracket-fallback
// chain: sex+age match, then sex-only, then age-only, then universal. It
// never interpolates or invents a number; an unmatched query is simply
// unknown.
type Lookup struct {
	units    map[models.Nutrient]models.Unit
	brackets []bracket
}

func NewLookup() (*Lookup, error) {
	var f tableFile
	if err := yaml.Unmarshal(rdaYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse RDA table: %w", err)
	}
	return &Lookup{units: f.Units, brackets: f.Brackets}, nil
}

// Unit returns the fixed unit a nutrient's target is expressed in. The unit
// table is independent of bracket resolution.
func (l *Lookup) Unit(n models.Nutrient) (models.Unit, bool) {
	u, ok := l.units[n]
	return u, ok
}

// Target returns the recommended daily amount for (nutrient, age, sex), or
// false when no bracket applies.
func (l *Lookup) Target(n models.Nutrient, age int, sex Sex) (models.Amount, bool) {
	unit, ok := l.units[n]
	if !ok {
		return models.Amount{}, false
	}

	// Fallback ranks, most specific first. Rank 5 (any-sex, any-age) is the
	// universal entry.
	type rankFn func(b bracket) bool
	ranks := []rankFn{
		func(b bracket) bool { return b.Sex == sex && b.ageSpecific() && b.matchesAge(age) },
		func(b bracket) bool { return b.Sex == sex && !b.ageSpecific() },
		func(b bracket) bool { return b.Sex == SexAny && b.ageSpecific() && b.matchesAge(age) },
		func(b bracket) bool { return b.Sex == SexAny && !b.ageSpecific() },
	}

	for _, match := range ranks {
		for _, b := range l.brackets {
			if b.Nutrient != n {
				continue
			}
			if match(b) {
				return models.Amount{Value: b.Amount, Unit: unit}, true
			}
		}
	}

	return models.Amount{}, false
}
