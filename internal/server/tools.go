// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/targets"
)

type ResolveNutritionParams struct {
	Name          string   `json:"name" description:"Food or meal name"`
	Grams         float64  `json:"grams" description:"Requested amount in grams"`
	Components    []string `json:"components,omitempty" description:"Component names when the food is a declared meal"`
	Summary       string   `json:"summary,omitempty" description:"Optional descriptive text used for decomposition"`
	HeadlineScore float64  `json:"headline_score,omitempty" description:"Headline score of the surrounding analysis (part of the cache identity)"`
}

type GetTargetParams struct {
	Nutrient string `json:"nutrient" description:"Nutrient field name, e.g. magnesium"`
	Age      int    `json:"age" description:"Age in years"`
	Sex      string `json:"sex" description:"male, female, or any"`
}

type EstimateServingParams struct {
	Name              string `json:"name" description:"Food name"`
	IsRecipeComponent bool   `json:"is_recipe_component" description:"Whether the food is one ingredient of a dish"`
}

type DecomposeFoodParams struct {
	Name    string `json:"name" description:"Composite food name"`
	Summary string `json:"summary,omitempty" description:"Optional descriptive text"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	return nil
}

// handleResolveNutrition runs the full tiered resolution pipeline. "Not
// found" is a successful tool call with an explicit data-unavailable
// payload, never a zero-filled nutrition panel.
func (s *NutritionServer) handleResolveNutrition(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ResolveNutritionParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if params.Name == "" {
		return nil, fmt.Errorf("food name is required")
	}

	spec := models.FoodSpec{
		Name:          params.Name,
		Grams:         params.Grams,
		Components:    params.Components,
		Summary:       params.Summary,
		HeadlineScore: params.HeadlineScore,
	}

	result, err := s.engine.Resolve(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve nutrition: %w", err)
	}

	if !result.Found {
		return s.createJSONResponse(map[string]interface{}{
			"found":  false,
			"status": "data unavailable",
		})
	}

	return s.createJSONResponse(result)
}

// handleGetTarget maps (nutrient, demographic) to a recommended daily
// amount through the bracket-fallback chain.
func (s *NutritionServer) handleGetTarget(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetTargetParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if params.Nutrient == "" {
		return nil, fmt.Errorf("nutrient is required")
	}

	sex := targets.Sex(params.Sex)
	if sex == "" {
		sex = targets.SexAny
	}

	amount, ok := s.targets.Target(models.Nutrient(params.Nutrient), params.Age, sex)
	if !ok {
		return s.createJSONResponse(map[string]interface{}{
			"nutrient": params.Nutrient,
			"known":    false,
		})
	}

	return s.createJSONResponse(map[string]interface{}{
		"nutrient": params.Nutrient,
		"known":    true,
		"amount":   amount.Value,
		"unit":     amount.Unit,
	})
}

// handleEstimateServing returns a typical weight for a named food; failures
// inside the estimator already degrade to the defined fallback.
func (s *NutritionServer) handleEstimateServing(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params EstimateServingParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if params.Name == "" {
		return nil, fmt.Errorf("food name is required")
	}

	estimate := s.serving.Estimate(ctx, params.Name, params.IsRecipeComponent)
	return s.createJSONResponse(estimate)
}

// handleDecomposeFood splits a composite food into parts without resolving
// them.
func (s *NutritionServer) handleDecomposeFood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params DecomposeFoodParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if params.Name == "" {
		return nil, fmt.Errorf("food name is required")
	}

	components := s.decomposer.Decompose(ctx, params.Name, params.Summary)
	return s.createJSONResponse(map[string]interface{}{
		"components": components,
	})
}

// Register all tools - handled manually in the HTTP handler, so this just
// validates that every tool has a handler.
func (s *NutritionServer) registerTools() error {
	tools := []string{
		"resolve_nutrition",
		"get_target",
		"estimate_serving",
		"decompose_food",
	}

	for _, name := range tools {
		slog.Debug("registered tool", "tool", name)
	}

	return nil
}
