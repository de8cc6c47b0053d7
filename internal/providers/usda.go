// internal/providers/usda.go
package providers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/units"
)

// nutritionColumns maps the nutrition table's per-100g columns onto nutrient
// fields. NULL columns stay unknown.
var nutritionColumns = []struct {
	column   string
	nutrient models.Nutrient
}{
	{"calories", models.Calories},
	{"protein", models.Protein},
	{"carbohydrates", models.Carbohydrate},
	{"fat", models.Fat},
	{"saturated_fat", models.SaturatedFat},
	{"fiber", models.Fiber},
	{"sugar", models.Sugar},
	{"sodium", models.Sodium},
	{"cholesterol", models.Cholesterol},
	{"potassium", models.Potassium},
	{"calcium", models.Calcium},
	{"iron", models.Iron},
	{"magnesium", models.Magnesium},
	{"phosphorus", models.Phosphorus},
	{"zinc", models.Zinc},
	{"copper", models.Copper},
	{"manganese", models.Manganese},
	{"selenium", models.Selenium},
	{"iodine", models.Iodine},
	{"vitamin_a", models.VitaminA},
	{"vitamin_c", models.VitaminC},
	{"vitamin_d", models.VitaminD},
	{"vitamin_e", models.VitaminE},
	{"vitamin_k", models.VitaminK},
	{"vitamin_b1", models.VitaminB1},
	{"vitamin_b2", models.VitaminB2},
	{"vitamin_b3", models.VitaminB3},
	{"vitamin_b5", models.VitaminB5},
	{"vitamin_b6", models.VitaminB6},
	{"vitamin_b12", models.VitaminB12},
	{"folate", models.Folate},
	{"choline", models.Choline},
	{"omega_3", models.Omega3},
	{"omega_6", models.Omega6},
}

// USDASource serves the structured reference tier from a local sqlite
// database populated from USDA FoodData Central exports.
type USDASource struct {
	db *sql.DB
}

func NewUSDASource(dbPath string) (*USDASource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open nutrition database: %w", err)
	}

	source := &USDASource{db: db}
	if err := source.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return source, nil
}

func (s *USDASource) Close() error {
	return s.db.Close()
}

func (s *USDASource) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        fdc_id INTEGER UNIQUE,
        name TEXT NOT NULL,
        description TEXT,
        category TEXT,
        data_source TEXT,
        popularity_score INTEGER DEFAULT 0
    );

    CREATE TABLE IF NOT EXISTS nutrition (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        food_id INTEGER NOT NULL UNIQUE,
        calories REAL, protein REAL, carbohydrates REAL, fat REAL,
        fiber REAL, sugar REAL, sodium REAL, saturated_fat REAL,
        cholesterol REAL, potassium REAL, calcium REAL, iron REAL,
        magnesium REAL, phosphorus REAL, zinc REAL, copper REAL,
        manganese REAL, selenium REAL, iodine REAL,
        vitamin_a REAL, vitamin_c REAL, vitamin_d REAL, vitamin_e REAL,
        vitamin_k REAL, vitamin_b1 REAL, vitamin_b2 REAL, vitamin_b3 REAL,
        vitamin_b5 REAL, vitamin_b6 REAL, vitamin_b12 REAL,
        folate REAL, choline REAL, omega_3 REAL, omega_6 REAL,
        FOREIGN KEY (food_id) REFERENCES foods(id)
    );

    CREATE TABLE IF NOT EXISTS aliases (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        food_id INTEGER NOT NULL,
        alias TEXT NOT NULL,
        FOREIGN KEY (food_id) REFERENCES foods(id)
    );

    CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name);
    CREATE INDEX IF NOT EXISTS idx_aliases_alias ON aliases(alias);
    CREATE INDEX IF NOT EXISTS idx_nutrition_food_id ON nutrition(food_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Lookup resolves a food name against the reference database: exact name
// match first, then aliases, then a substring match, each ranked by
// popularity. Stored values are per 100 g; the result is scaled to the
// requested amount before it is returned.
func (s *USDASource) Lookup(ctx context.Context, name string, grams float64) (*models.Profile, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	foodID, err := s.findFood(ctx, needle)
	if err != nil {
		return nil, err
	}
	if foodID == 0 {
		return nil, nil
	}

	profile, err := s.loadNutrition(ctx, foodID, name, grams)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		units.Normalize(profile)
	}
	return profile, nil
}

func (s *USDASource) findFood(ctx context.Context, needle string) (int64, error) {
	queries := []struct {
		query string
		arg   string
	}{
		{`SELECT id FROM foods WHERE name = ? ORDER BY popularity_score DESC LIMIT 1`, needle},
		{`SELECT f.id FROM foods f JOIN aliases a ON a.food_id = f.id
		  WHERE a.alias = ? ORDER BY f.popularity_score DESC LIMIT 1`, needle},
		{`SELECT id FROM foods WHERE name LIKE '%' || ? || '%'
		  ORDER BY popularity_score DESC, length(name) ASC LIMIT 1`, needle},
	}

	for _, q := range queries {
		var id int64
		err := s.db.QueryRowContext(ctx, q.query, q.arg).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, &TransportError{Provider: "usda", Err: err}
		}
	}

	return 0, nil
}

func (s *USDASource) loadNutrition(ctx context.Context, foodID int64, name string, grams float64) (*models.Profile, error) {
	cols := make([]string, len(nutritionColumns))
	for i, c := range nutritionColumns {
		cols[i] = c.column
	}

	query := fmt.Sprintf(`SELECT %s FROM nutrition WHERE food_id = ?`, strings.Join(cols, ", "))

	values := make([]sql.NullFloat64, len(nutritionColumns))
	dest := make([]interface{}, len(values))
	for i := range values {
		dest[i] = &values[i]
	}

	err := s.db.QueryRowContext(ctx, query, foodID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &TransportError{Provider: "usda", Err: err}
	}

	scale := grams / 100.0
	profile := models.NewProfile(name, grams)
	for i, c := range nutritionColumns {
		if !values[i].Valid {
			continue
		}
		profile.Set(c.nutrient, values[i].Float64*scale, units.Canonical(c.nutrient))
	}

	return profile, nil
}
