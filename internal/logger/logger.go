// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr. Format "console" gives the
// human-readable writer; anything else writes JSON lines.
func New(level, format, env string) zerolog.Logger {
	return newWithWriter(os.Stderr, level, format, env)
}

func newWithWriter(out io.Writer, level, format, env string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	w := out
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "api-films").
		Str("env", env).
		Logger()
}
