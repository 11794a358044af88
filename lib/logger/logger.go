// Package logger builds the zerolog root logger of the indexer.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log formats.
const (
	LogFormatPlain = "plain"
	LogFormatText  = "text"
	LogFormatJSON  = "json"
)

// Log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// New returns a logger writing to stderr with the given format and level.
func New(format, level string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stderr, format, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, format, level string) (zerolog.Logger, error) {
	var out io.Writer

	switch strings.ToLower(format) {
	case LogFormatPlain, LogFormatText:
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	case LogFormatJSON:
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("unsupported log format: %s", format)
	}

	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to parse log level (%s): %w", level, err)
	}

	if l == zerolog.NoLevel {
		return zerolog.Nop(), fmt.Errorf("empty log level")
	}

	return zerolog.New(out).Level(l).With().Timestamp().Logger(), nil
}
