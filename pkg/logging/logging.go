// Package logging configures the process-wide slog default handler.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default slog handler. Verbosity comes from the
// LOG_LEVEL environment variable (debug, info, warn, error) and is overridden
// by the debug flag. When jsonFormat is set, logs are emitted as JSON lines
// for collection inside the cluster; otherwise a text handler is used.
func Setup(debug, jsonFormat bool) {
	level := levelFromEnv()
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
