// internal/logging/logging.go
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger. In production
// (ENVIRONMENT=production) it emits JSON for log aggregation; otherwise the
// human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithResolution returns a logger with resolution context fields attached.
// Use this for all logging within one resolution request.
func WithResolution(requestID, food string) *slog.Logger {
	return slog.With(
		"request_id", requestID,
		"food", food,
	)
}
