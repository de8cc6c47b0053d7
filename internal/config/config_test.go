// internal/config/config_test.go
package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8014 {
		t.Errorf("port: got %d, want 8014", cfg.Port)
	}
	if cfg.ShortTimeout != 8*time.Second {
		t.Errorf("short timeout: got %v", cfg.ShortTimeout)
	}
	if cfg.LongTimeout != 90*time.Second {
		t.Errorf("long timeout: got %v", cfg.LongTimeout)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("model: got %s", cfg.OpenAIModel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("USDA_DB_PATH", "/tmp/test-nutrition.db")
	t.Setenv("SHORT_TIMEOUT", "3s")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("port: got %d", cfg.Port)
	}
	if cfg.USDAPath != "/tmp/test-nutrition.db" {
		t.Errorf("usda path: got %s", cfg.USDAPath)
	}
	if cfg.ShortTimeout != 3*time.Second {
		t.Errorf("short timeout: got %v", cfg.ShortTimeout)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("LONG_TIMEOUT", "ninety seconds")

	cfg := Load()

	if cfg.Port != 8014 {
		t.Errorf("malformed port must fall back to default, got %d", cfg.Port)
	}
	if cfg.LongTimeout != 90*time.Second {
		t.Errorf("malformed duration must fall back to default, got %v", cfg.LongTimeout)
	}
}
