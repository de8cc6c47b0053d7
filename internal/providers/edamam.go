// internal/providers/edamam.go
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/units"
)

const gramMeasureURI = "http://www.edamam.com/ontologies/edamam.owl#Measure_gram"

// edamamNutrients maps Edamam nutrient codes onto nutrient fields with the
// units the API reports them in.
var edamamNutrients = map[string]struct {
	nutrient models.Nutrient
	unit     models.Unit
}{
	"ENERC_KCAL": {models.Calories, models.Kcal},
	"PROCNT":     {models.Protein, models.Grams},
	"CHOCDF":     {models.Carbohydrate, models.Grams},
	"FAT":        {models.Fat, models.Grams},
	"FASAT":      {models.SaturatedFat, models.Grams},
	"FIBTG":      {models.Fiber, models.Grams},
	"SUGAR":      {models.Sugar, models.Grams},
	"NA":         {models.Sodium, models.Milligrams},
	"CHOLE":      {models.Cholesterol, models.Milligrams},
	"K":          {models.Potassium, models.Milligrams},
	"CA":         {models.Calcium, models.Milligrams},
	"FE":         {models.Iron, models.Milligrams},
	"MG":         {models.Magnesium, models.Milligrams},
	"P":          {models.Phosphorus, models.Milligrams},
	"ZN":         {models.Zinc, models.Milligrams},
	"VITA_RAE":   {models.VitaminA, models.Micrograms},
	"VITC":       {models.VitaminC, models.Milligrams},
	"VITD":       {models.VitaminD, models.Micrograms},
	"TOCPHA":     {models.VitaminE, models.Milligrams},
	"VITK1":      {models.VitaminK, models.Micrograms},
	"THIA":       {models.VitaminB1, models.Milligrams},
	"RIBF":       {models.VitaminB2, models.Milligrams},
	"NIA":        {models.VitaminB3, models.Milligrams},
	"VITB6A":     {models.VitaminB6, models.Milligrams},
	"VITB12":     {models.VitaminB12, models.Micrograms},
	"FOLDFE":     {models.Folate, models.Micrograms},
}

// EdamamClient is the commercial ingredient-nutrition tier, backed by the
// Edamam food-database API: parser endpoint to identify the ingredient,
// nutrients endpoint for the amounts.
type EdamamClient struct {
	appID   string
	appKey  string
	baseURL string
	client  *http.Client
}

func NewEdamamClient(appID, appKey string, timeout time.Duration) *EdamamClient {
	return &EdamamClient{
		appID:   appID,
		appKey:  appKey,
		baseURL: "https://api.edamam.com",
		client:  &http.Client{Timeout: timeout},
	}
}

type edamamParserResponse struct {
	Hints []struct {
		Food struct {
			FoodID string `json:"foodId"`
			Label  string `json:"label"`
		} `json:"food"`
	} `json:"hints"`
}

type edamamNutrientsResponse struct {
	TotalNutrients map[string]struct {
		Quantity float64 `json:"quantity"`
	} `json:"totalNutrients"`
}

func (c *EdamamClient) Lookup(ctx context.Context, name string, grams float64) (*models.Profile, error) {
	foodID, err := c.searchFood(ctx, name)
	if err != nil {
		return nil, err
	}
	if foodID == "" {
		return nil, nil
	}

	nutrients, err := c.analyzeFood(ctx, foodID, grams)
	if err != nil {
		return nil, err
	}
	if len(nutrients) == 0 {
		return nil, nil
	}

	profile := models.NewProfile(name, grams)
	for code, quantity := range nutrients {
		mapping, ok := edamamNutrients[code]
		if !ok {
			continue
		}
		profile.Set(mapping.nutrient, quantity, mapping.unit)
	}
	units.Normalize(profile)

	return profile, nil
}

func (c *EdamamClient) searchFood(ctx context.Context, query string) (string, error) {
	u := fmt.Sprintf(
		"%s/api/food-database/v2/parser?ingr=%s&app_id=%s&app_key=%s",
		c.baseURL, url.QueryEscape(query), c.appID, c.appKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &TransportError{Provider: "edamam", Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Provider: "edamam", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Provider: "edamam", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Provider: "edamam", Err: fmt.Errorf("parser API error %d: %s", resp.StatusCode, string(body))}
	}

	var pr edamamParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return "", &FormatError{Provider: "edamam", Msg: "parser response", Err: err}
	}
	if len(pr.Hints) == 0 {
		return "", nil
	}

	return pr.Hints[0].Food.FoodID, nil
}

func (c *EdamamClient) analyzeFood(ctx context.Context, foodID string, grams float64) (map[string]float64, error) {
	payload := map[string]interface{}{
		"ingredients": []map[string]interface{}{{
			"quantity":   grams,
			"measureURI": gramMeasureURI,
			"foodId":     foodID,
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, &FormatError{Provider: "edamam", Msg: "nutrients payload", Err: err}
	}

	u := fmt.Sprintf(
		"%s/api/food-database/v2/nutrients?app_id=%s&app_key=%s",
		c.baseURL, c.appID, c.appKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, &TransportError{Provider: "edamam", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Provider: "edamam", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: "edamam", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Provider: "edamam", Err: fmt.Errorf("nutrients API error %d: %s", resp.StatusCode, string(body))}
	}

	var nr edamamNutrientsResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, &FormatError{Provider: "edamam", Msg: "nutrients response", Err: err}
	}

	nutrients := make(map[string]float64, len(nr.TotalNutrients))
	for code, v := range nr.TotalNutrients {
		nutrients[code] = v.Quantity
	}
	return nutrients, nil
}
