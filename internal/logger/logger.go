package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a timestamped logger writing to w at the given level
func New(level zerolog.Level, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(level)
}

// ParseLevel parses a level name, falling back when it is empty or unknown
func ParseLevel(name string, fallback zerolog.Level) zerolog.Level {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return fallback
	}
	return level
}
