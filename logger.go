package auth

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to Logger
type ZerologLogger struct {
	l zerolog.Logger
}

var _ Logger = (*ZerologLogger)(nil)

// NewZerologLogger wraps l
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

func (z *ZerologLogger) Debug(msg string, args ...any) {
	z.l.Debug().Fields(args).Msg(msg)
}

func (z *ZerologLogger) Info(msg string, args ...any) {
	z.l.Info().Fields(args).Msg(msg)
}

func (z *ZerologLogger) Warn(msg string, args ...any) {
	z.l.Warn().Fields(args).Msg(msg)
}

func (z *ZerologLogger) Error(msg string, args ...any) {
	z.l.Error().Fields(args).Msg(msg)
}

// Zerolog returns the wrapped logger
func (z *ZerologLogger) Zerolog() zerolog.Logger {
	return z.l
}

// GetLogger returns a child logger tagged with name
func (z *ZerologLogger) GetLogger(name string) Logger {
	return &ZerologLogger{l: z.l.With().Str("logger", name).Logger()}
}

// NewConsoleLogger builds the logger used by the CLI. Debug enables the
// debug level and the human readable console writer.
func NewConsoleLogger(w io.Writer, debug bool) *ZerologLogger {
	if w == nil {
		w = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
		w = zerolog.ConsoleWriter{Out: w}
	}

	return NewZerologLogger(zerolog.New(w).Level(level).With().Timestamp().Logger())
}

// resolveLogger picks the named logger from provider, falling back to
// logger and finally to the stdout logger
func resolveLogger(name string, provider LoggerProvider, logger Logger) Logger {
	if provider != nil {
		if l := provider.GetLogger(name); l != nil {
			return l
		}
	}
	return ensureLogger(logger)
}
