// internal/providers/generative.go
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/units"
)

// GenerativeClient reconstructs nutrition answers from a chat-completion
// model. It is the last-resort tier and also backs decomposition and
// serving-size estimation. The model is instructed to answer with strict
// JSON; anything that still comes back unparsable is a FormatError, which
// the resolver treats the same as "no data".
type GenerativeClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewGenerativeClient(baseURL, apiKey, model string, timeout time.Duration) *GenerativeClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &GenerativeClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

func (c *GenerativeClient) EstimateProfile(ctx context.Context, name string, grams float64) (*models.Profile, error) {
	prompt := fmt.Sprintf(`You are a nutrition database. Estimate the nutrient content of %.0f grams of "%s".

Respond with ONLY a JSON object. Every value is a number for the stated unit; omit any nutrient you cannot estimate. NEVER invent a value you are not confident about — omitting is correct, zero means "measured zero".

{
  "calories": kcal, "protein": g, "carbohydrates": g, "fat": g,
  "saturated_fat": g, "fiber": g, "sugar": g, "sodium": mg,
  "cholesterol": mg, "potassium": mg, "calcium": mg, "iron": mg,
  "magnesium": mg, "phosphorus": mg, "zinc": mg, "copper": mg,
  "manganese": mg, "selenium": mcg, "iodine": mcg,
  "vitamin_a": mcg, "vitamin_c": mg, "vitamin_d": mcg, "vitamin_e": mg,
  "vitamin_k": mcg, "vitamin_b1": mg, "vitamin_b2": mg, "vitamin_b3": mg,
  "vitamin_b5": mg, "vitamin_b6": mg, "vitamin_b12": mcg,
  "folate": mcg, "choline": mg, "omega_3": g, "omega_6": g
}

Return only valid JSON, no markdown, no backticks, no commentary.`, grams, name)

	raw, err := c.complete(ctx, prompt, 800)
	if err != nil {
		return nil, err
	}

	body := extractJSON(raw)
	if body == "" || !gjson.Valid(body) {
		return nil, &FormatError{Provider: "generative", Msg: "no JSON object in completion"}
	}

	profile := models.NewProfile(name, grams)
	for _, n := range models.AllNutrients {
		v := gjson.Get(body, string(n))
		if !v.Exists() || v.Type != gjson.Number {
			continue
		}
		profile.Set(n, v.Float(), units.Canonical(n))
	}
	units.Normalize(profile)

	if len(profile.Nutrients) == 0 {
		return nil, &FormatError{Provider: "generative", Msg: "completion contained no nutrient values"}
	}

	return profile, nil
}

func (c *GenerativeClient) DecomposeComponents(ctx context.Context, name, summary string) ([]models.FoodComponent, error) {
	contextText := ""
	if summary != "" {
		contextText = fmt.Sprintf("\n\nDescription of the dish: %s", summary)
	}

	prompt := fmt.Sprintf(`Break the dish "%s" into its main ingredients with realistic portion weights for one serving.%s

Respond with ONLY a JSON object:
{
  "components": [
    {"name": "ingredient name", "grams": number}
  ]
}

List 2-8 components. Weights are edible grams per serving.
Return only valid JSON, no markdown, no backticks, no commentary.`, name, contextText)

	raw, err := c.complete(ctx, prompt, 600)
	if err != nil {
		return nil, err
	}

	body := extractJSON(raw)
	if body == "" || !gjson.Valid(body) {
		return nil, &FormatError{Provider: "generative", Msg: "no JSON object in completion"}
	}

	var components []models.FoodComponent
	gjson.Get(body, "components").ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name").String()
		grams := item.Get("grams").Float()
		if name != "" && grams > 0 {
			components = append(components, models.FoodComponent{
				Name:           name,
				EstimatedGrams: grams,
			})
		}
		return true
	})

	// Largest portion first.
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].EstimatedGrams > components[j].EstimatedGrams
	})

	return components, nil
}

func (c *GenerativeClient) EstimateServingSize(ctx context.Context, name string, isRecipeComponent bool) (models.ServingEstimate, error) {
	kind := "a typical single serving"
	if isRecipeComponent {
		kind = "a typical amount used as one ingredient in a dish"
	}

	prompt := fmt.Sprintf(`Estimate %s of "%s" by weight.

Respond with ONLY a JSON object:
{"description": "human readable portion, e.g. 1 medium apple", "grams": number}

Return only valid JSON, no markdown, no backticks, no commentary.`, kind, name)

	raw, err := c.complete(ctx, prompt, 200)
	if err != nil {
		return models.ServingEstimate{}, err
	}

	body := extractJSON(raw)
	if body == "" || !gjson.Valid(body) {
		return models.ServingEstimate{}, &FormatError{Provider: "generative", Msg: "no JSON object in completion"}
	}

	grams := gjson.Get(body, "grams").Float()
	if grams <= 0 {
		return models.ServingEstimate{}, &FormatError{Provider: "generative", Msg: "non-positive serving weight"}
	}

	description := gjson.Get(body, "description").String()
	if description == "" {
		description = "1 serving"
	}

	return models.ServingEstimate{Description: description, Grams: grams}, nil
}

// complete runs one chat completion and returns the raw assistant text.
func (c *GenerativeClient) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": 0,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", &FormatError{Provider: "generative", Msg: "request payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &TransportError{Provider: "generative", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Provider: "generative", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Provider: "generative", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Provider: "generative", Err: fmt.Errorf("completion API error %d: %s", resp.StatusCode, truncate(string(body), 200))}
	}

	content := gjson.GetBytes(body, "choices.0.message.content").String()
	if content == "" {
		return "", &FormatError{Provider: "generative", Msg: "empty completion"}
	}

	return content, nil
}

// extractJSON strips markdown fences and slices out the first balanced-ish
// JSON object from model output. Returns "" when no object is present.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
