package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger writing text lines to stdout.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
