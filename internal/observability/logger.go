package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide JSON logger. Every record picks up the
// active trace/span ids through the trace handler wrapper.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler))
}
