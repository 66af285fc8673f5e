package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/google/wire"
)

// LevelEnv selects the log level (debug, info, warn, error)
const LevelEnv = "DLOOP_LOG_LEVEL"

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg.Debug, os.Getenv(LevelEnv))
}

func newLogger(w io.Writer, debug bool, levelName string) *slog.Logger {
	level := parseLevel(levelName)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time in non-debug mode for cleaner output
			if a.Key == slog.TimeKey && !debug {
				return slog.Attr{}
			}
			// Shorten source paths
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(val string) slog.Level {
	switch strings.ToLower(val) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// unknown or empty value, keep default
		return slog.LevelInfo
	}
}

// shortPath returns the path relative to the module root when possible
func shortPath(file string) string {
	if idx := strings.Index(file, "dloop/"); idx != -1 {
		return file[idx+len("dloop/"):]
	}
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
