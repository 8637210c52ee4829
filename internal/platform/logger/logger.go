package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Text output to stdout keeps local runs
// readable; the handler is swappable without touching call sites since all
// consumers take *slog.Logger.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
