// cmd/nutrition-engine/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nutrition-engine/internal/cache"
	"nutrition-engine/internal/config"
	"nutrition-engine/internal/logging"
	"nutrition-engine/internal/providers"
	"nutrition-engine/internal/resolver"
	"nutrition-engine/internal/server"
	"nutrition-engine/internal/targets"
	"nutrition-engine/internal/validate"
)

var (
	host      = flag.String("host", "", "Host address (overrides HOST)")
	port      = flag.Int("port", 0, "Port for HTTP transport (overrides PORT)")
	usdaPath  = flag.String("usda-db", "", "USDA nutrition database path (overrides USDA_DB_PATH)")
	cachePath = flag.String("cache-db", "", "Result cache database path (overrides CACHE_DB_PATH)")
	version   = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("nutrition-engine version 1.0.0")
		os.Exit(0)
	}

	logging.Init()
	cfg := config.Load()

	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *usdaPath != "" {
		cfg.USDAPath = *usdaPath
	}
	if *cachePath != "" {
		cfg.CachePath = *cachePath
	}

	// Data providers, in tier order. The commercial and generative tiers
	// are optional; an unconfigured tier is simply skipped during
	// resolution.
	usda, err := providers.NewUSDASource(cfg.USDAPath)
	if err != nil {
		slog.Error("failed to open USDA database", "path", cfg.USDAPath, "error", err)
		os.Exit(1)
	}
	defer usda.Close()

	var commercial providers.CommercialAPI
	if cfg.EdamamAppID != "" && cfg.EdamamAppKey != "" {
		commercial = providers.NewEdamamClient(cfg.EdamamAppID, cfg.EdamamAppKey, cfg.ShortTimeout)
	} else {
		slog.Warn("commercial nutrition API not configured, tier disabled")
	}

	var generative providers.GenerativeEstimator
	if cfg.OpenAIKey != "" {
		generative = providers.NewGenerativeClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel, cfg.LongTimeout)
	} else {
		slog.Warn("generative estimator not configured, tier disabled")
	}

	resultCache, err := cache.New(cfg.CachePath)
	if err != nil {
		slog.Error("failed to open result cache", "path", cfg.CachePath, "error", err)
		os.Exit(1)
	}
	defer resultCache.Close()

	targetLookup, err := targets.NewLookup()
	if err != nil {
		slog.Error("failed to load RDA table", "error", err)
		os.Exit(1)
	}

	gate := validate.NewGate()
	tiered := resolver.NewTieredResolver(usda, commercial, generative, gate).
		WithTimeouts(cfg.ShortTimeout, cfg.LongTimeout)
	decomposer := resolver.NewDecomposer(generative, cfg.LongTimeout)
	serving := resolver.NewServingEstimator(generative, cfg.ShortTimeout)
	engine := resolver.NewEngine(tiered, decomposer, serving, gate, resultCache)

	srv, err := server.NewNutritionServer(
		&server.Config{Host: cfg.Host, Port: cfg.Port},
		engine, serving, decomposer, targetLookup,
	)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		slog.Info("received shutdown signal")
	case err := <-errCh:
		slog.Error("server error", "error", err)
	}

	slog.Info("shutting down")
	cancel()
	if err := srv.Stop(); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
