// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures and returns the root logger. Level is a zerolog level
// name (an unknown value falls back to info); format "pretty" selects the
// human-readable console writer for local development, anything else emits
// JSON for log collectors.
func Setup(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(os.Stdout)
	if format == "pretty" {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	return logger.With().Timestamp().Caller().Logger()
}
