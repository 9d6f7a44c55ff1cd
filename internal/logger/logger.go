package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var base atomic.Pointer[zerolog.Logger]

// Init configures the global JSON logger.
//
// Parameters:
//   - level:  debug|info|warn|error (anything else falls back to info).
//   - pretty: human readable console output instead of JSON lines.
func Init(level string, pretty bool) {
	InitWithWriter(os.Stdout, level, pretty)
}

// InitWithWriter is Init with an explicit destination; tests use it to capture output.
func InitWithWriter(out io.Writer, level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
	base.Store(&l)
}

// L returns the global logger. Before Init it lazily starts at info level.
func L() *zerolog.Logger {
	if l := base.Load(); l != nil {
		return l
	}
	Init("info", false)
	return base.Load()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
