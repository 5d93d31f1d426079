package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the diagnostic logger of a fleet process.
// It writes to Stderr so it never mixes with console output or the log artifact.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, attrs ...any) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	})).With(attrs...)
}

// ForDebug returns a stderr logger in debug mode and a warn-level one otherwise.
func ForDebug(debug bool, attrs ...any) *slog.Logger {
	if debug {
		return New(slog.LevelDebug, attrs...)
	}
	return New(slog.LevelWarn, attrs...)
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
