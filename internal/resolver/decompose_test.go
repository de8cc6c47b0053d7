// internal/resolver/decompose_test.go
package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/providers"
)

func TestDecomposeSortsLargestFirst(t *testing.T) {
	generative := &stubGenerative{
		decomposeFn: func(name, summary string) ([]models.FoodComponent, error) {
			return []models.FoodComponent{
				{Name: "dressing", EstimatedGrams: 30},
				{Name: "lettuce", EstimatedGrams: 120},
				{Name: "croutons", EstimatedGrams: 40},
			}, nil
		},
	}
	d := NewDecomposer(generative, time.Second)

	components := d.Decompose(context.Background(), "caesar salad", "")
	if len(components) != 3 {
		t.Fatalf("expected 3 components, got %d", len(components))
	}
	want := []string{"lettuce", "croutons", "dressing"}
	for i, name := range want {
		if components[i].Name != name {
			t.Errorf("position %d: got %s, want %s", i, components[i].Name, name)
		}
	}
}

func TestDecomposeDropsDegenerateComponents(t *testing.T) {
	generative := &stubGenerative{
		decomposeFn: func(name, summary string) ([]models.FoodComponent, error) {
			return []models.FoodComponent{
				{Name: "", EstimatedGrams: 50},
				{Name: "phantom", EstimatedGrams: 0},
				{Name: "phantom", EstimatedGrams: -10},
				{Name: "noodles", EstimatedGrams: 200},
			}, nil
		},
	}
	d := NewDecomposer(generative, time.Second)

	components := d.Decompose(context.Background(), "stir fry", "")
	if len(components) != 1 || components[0].Name != "noodles" {
		t.Errorf("expected only the usable component, got %+v", components)
	}
}

func TestDecomposeFailureIsNil(t *testing.T) {
	generative := &stubGenerative{
		decomposeFn: func(name, summary string) ([]models.FoodComponent, error) {
			return nil, &providers.TransportError{Provider: "stub", Err: errors.New("timeout")}
		},
	}
	d := NewDecomposer(generative, time.Second)

	if got := d.Decompose(context.Background(), "casserole", ""); got != nil {
		t.Errorf("failure must yield nil, got %+v", got)
	}

	d = NewDecomposer(nil, time.Second)
	if got := d.Decompose(context.Background(), "casserole", ""); got != nil {
		t.Errorf("unconfigured estimator must yield nil, got %+v", got)
	}
}
