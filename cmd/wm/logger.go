package main

import (
	"log/slog"
	"os"
)

// newLogger builds the structured logger handed to ops and reducer,
// following the same slog.NewTextHandler-on-stderr construction the
// daemon's state synchronizer uses.
func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
