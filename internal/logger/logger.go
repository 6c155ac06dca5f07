// Package logger provides structured JSON logging using zerolog.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is attached to every log line.
const ServiceName = "scaffold-service"

// Init configures the global logger. Unknown or empty levels select info.
// Pretty output is meant for local development only.
func Init(level string, pretty bool) {
	InitWithWriter(level, pretty, os.Stderr)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(level string, pretty bool, out io.Writer) {
	zerolog.SetGlobalLevel(parseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the global logger.
func Logger() *zerolog.Logger {
	return &log.Logger
}
