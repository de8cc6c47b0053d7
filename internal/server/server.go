// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"nutrition-engine/internal/resolver"
	"nutrition-engine/internal/targets"
)

type Config struct {
	Host string
	Port int
}

// NutritionServer exposes the resolution engine as MCP tools over HTTP. Tool
// requests and results use the MCP protocol types; routing is handled
// directly on the HTTP mux.
type NutritionServer struct {
	httpServer *http.Server
	engine     *resolver.Engine
	serving    *resolver.ServingEstimator
	decomposer *resolver.Decomposer
	targets    *targets.Lookup
	config     *Config
}

func NewNutritionServer(cfg *Config, engine *resolver.Engine, serving *resolver.ServingEstimator, decomposer *resolver.Decomposer, targetLookup *targets.Lookup) (*NutritionServer, error) {
	srv := &NutritionServer{
		engine:     engine,
		serving:    serving,
		decomposer: decomposer,
		targets:    targetLookup,
		config:     cfg,
	}

	// Create HTTP server with MCP handler
	mux := http.NewServeMux()

	if err := srv.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	mux.HandleFunc("/", srv.handleHTTP)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return srv, nil
}

func (s *NutritionServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	// CORS preflight.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	var result *protocol.CallToolResult
	var err error

	switch request.Name {
	case "resolve_nutrition":
		result, err = s.handleResolveNutrition(r.Context(), &request)
	case "get_target":
		result, err = s.handleGetTarget(&request)
	case "estimate_serving":
		result, err = s.handleEstimateServing(r.Context(), &request)
	case "decompose_food":
		result, err = s.handleDecomposeFood(r.Context(), &request)
	default:
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *NutritionServer) Start(ctx context.Context) error {
	slog.Info("starting nutrition engine server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *NutritionServer) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

func (s *NutritionServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
