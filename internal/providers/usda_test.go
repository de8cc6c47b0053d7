// internal/providers/usda_test.go
package providers

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"nutrition-engine/internal/models"
)

func newTestSource(t *testing.T) *USDASource {
	t.Helper()
	source, err := NewUSDASource(filepath.Join(t.TempDir(), "nutrition.db"))
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	t.Cleanup(func() { source.Close() })
	return source
}

func seedFood(t *testing.T, s *USDASource, name string, popularity int, calories, protein float64) int64 {
	t.Helper()
	res, err := s.db.Exec(
		`INSERT INTO foods (name, popularity_score) VALUES (?, ?)`,
		name, popularity,
	)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := res.LastInsertId()

	// Per-100g values; most columns deliberately left NULL.
	_, err = s.db.Exec(
		`INSERT INTO nutrition (food_id, calories, protein, sodium) VALUES (?, ?, ?, ?)`,
		id, calories, protein, 74.0,
	)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestLookupScalesToRequestedAmount(t *testing.T) {
	s := newTestSource(t)
	seedFood(t, s, "chicken breast", 100, 165, 31)

	profile, err := s.Lookup(context.Background(), "chicken breast", 150)
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil {
		t.Fatal("expected a match")
	}
	if profile.Grams != 150 {
		t.Errorf("grams: got %v", profile.Grams)
	}

	calories, _ := profile.Get(models.Calories)
	if math.Abs(calories.Value-247.5) > 1e-9 {
		t.Errorf("calories: got %v, want 165*1.5=247.5", calories.Value)
	}
	protein, _ := profile.Get(models.Protein)
	if math.Abs(protein.Value-46.5) > 1e-9 {
		t.Errorf("protein: got %v, want 46.5", protein.Value)
	}
}

func TestLookupNullColumnsStayUnknown(t *testing.T) {
	s := newTestSource(t)
	seedFood(t, s, "plain rice", 50, 130, 2.7)

	profile, err := s.Lookup(context.Background(), "plain rice", 100)
	if err != nil {
		t.Fatal(err)
	}

	if !profile.Known(models.Sodium) {
		t.Error("seeded sodium must be known")
	}
	// NULL in the database is unknown, not zero.
	for _, n := range []models.Nutrient{models.Fiber, models.VitaminC, models.Iron} {
		if profile.Known(n) {
			t.Errorf("%s was NULL, must stay unknown", n)
		}
	}
}

func TestLookupMatchesAlias(t *testing.T) {
	s := newTestSource(t)
	id := seedFood(t, s, "garbanzo beans", 40, 164, 8.9)
	if _, err := s.db.Exec(`INSERT INTO aliases (food_id, alias) VALUES (?, ?)`, id, "chickpeas"); err != nil {
		t.Fatal(err)
	}

	profile, err := s.Lookup(context.Background(), "Chickpeas", 100)
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil {
		t.Fatal("alias lookup must match")
	}
	calories, _ := profile.Get(models.Calories)
	if calories.Value != 164 {
		t.Errorf("calories: got %v", calories.Value)
	}
}

func TestLookupSubstringPrefersPopular(t *testing.T) {
	s := newTestSource(t)
	seedFood(t, s, "apple pie filling", 10, 100, 0.2)
	seedFood(t, s, "apple, raw, with skin", 90, 52, 0.3)

	profile, err := s.Lookup(context.Background(), "apple", 100)
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil {
		t.Fatal("substring lookup must match")
	}
	calories, _ := profile.Get(models.Calories)
	if calories.Value != 52 {
		t.Errorf("expected the popular match, got %v kcal", calories.Value)
	}
}

func TestLookupUnknownFoodIsNilNil(t *testing.T) {
	s := newTestSource(t)
	seedFood(t, s, "banana", 80, 89, 1.1)

	profile, err := s.Lookup(context.Background(), "xylocarp", 100)
	if err != nil {
		t.Errorf("a clean miss is not an error: %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile, got %+v", profile)
	}

	// Blank names never hit the database.
	profile, err = s.Lookup(context.Background(), "   ", 100)
	if err != nil || profile != nil {
		t.Errorf("blank name: got (%v, %v)", profile, err)
	}
}
