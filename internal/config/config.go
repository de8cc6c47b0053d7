// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all engine configuration.
type Config struct {
	Host string
	Port int

	// Data stores
	USDAPath  string
	CachePath string

	// Commercial nutrition API
	EdamamAppID  string
	EdamamAppKey string

	// Generative estimator
	OpenAIBaseURL string
	OpenAIKey     string
	OpenAIModel   string

	// Provider timeouts: short for the structured source and serving-size
	// estimation, long for generative fallbacks on content-heavy inputs.
	ShortTimeout time.Duration
	LongTimeout  time.Duration
}

// Load reads configuration from the environment with defaults. A .env file
// is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Host: getEnv("HOST", "0.0.0.0"),
		Port: getIntEnv("PORT", 8014),

		USDAPath:  getEnv("USDA_DB_PATH", "/data/nutrition.db"),
		CachePath: getEnv("CACHE_DB_PATH", "/data/result-cache.db"),

		EdamamAppID:  getEnv("EDAMAM_APP_ID", ""),
		EdamamAppKey: getEnv("EDAMAM_APP_KEY", ""),

		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ShortTimeout: getDurationEnv("SHORT_TIMEOUT", 8*time.Second),
		LongTimeout:  getDurationEnv("LONG_TIMEOUT", 90*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
