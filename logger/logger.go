// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"regexp"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stdout at the given level. An unknown or empty
// level falls back to info.
func New(level string) zerolog.Logger {
	return NewWithWriter(NewIPMaskingWriter(os.Stdout), level)
}

func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(lvl)
}

// IPMaskingWriter masks the first two octets of IPv4 addresses before
// passing output on.
type IPMaskingWriter struct {
	writer  io.Writer
	ipRegex *regexp.Regexp
}

func NewIPMaskingWriter(w io.Writer) *IPMaskingWriter {
	return &IPMaskingWriter{
		writer:  w,
		ipRegex: regexp.MustCompile(`\b(\d{1,3}\.\d{1,3})\.(\d{1,3}\.\d{1,3})\b`),
	}
}

func (w *IPMaskingWriter) Write(p []byte) (int, error) {
	masked := w.ipRegex.ReplaceAll(p, []byte("*.*.${2}"))
	if _, err := w.writer.Write(masked); err != nil {
		return 0, err
	}
	// Report the caller's length; masking changes the byte count.
	return len(p), nil
}
