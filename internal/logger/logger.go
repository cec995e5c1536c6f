package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	// Level is a zerolog level name. Empty means info, or debug when
	// Verbose is set.
	Level         string
	Verbose       bool
	HumanReadable bool
	NoColor       bool
	Writer        io.Writer
}

func (o Options) level() (zerolog.Level, error) {
	switch {
	case o.Level != "":
		return zerolog.ParseLevel(strings.ToLower(o.Level))
	case o.Verbose:
		return zerolog.DebugLevel, nil
	default:
		return zerolog.InfoLevel, nil
	}
}

// Logger wraps zerolog with the few calls the CLI makes. A nil *Logger
// discards everything.
type Logger struct {
	base zerolog.Logger
}

// New creates a Logger writing JSON lines, or console lines on stderr when
// HumanReadable is set.
func New(opts Options) (*Logger, error) {
	level, err := opts.level()
	if err != nil {
		return nil, err
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	if opts.HumanReadable {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			NoColor:    opts.NoColor,
			TimeFormat: time.TimeOnly,
		}
	}

	return &Logger{base: zerolog.New(writer).Level(level).With().Timestamp().Logger()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{base: l.base.With().Fields(fields).Logger()}
}

// WithStack returns a derived logger tagged with a stack name.
func (l *Logger) WithStack(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{base: l.base.With().Str("stack", name).Logger()}
}

// Info writes a progress line.
func (l *Logger) Info(msg string) { l.emit(zerolog.InfoLevel, nil, msg) }

// Debug writes a line shown only with --verbose.
func (l *Logger) Debug(msg string) { l.emit(zerolog.DebugLevel, nil, msg) }

// Warn writes a warning.
func (l *Logger) Warn(msg string) { l.emit(zerolog.WarnLevel, nil, msg) }

// Error writes msg, attaching err under the "error" key when non-nil.
func (l *Logger) Error(err error, msg string) { l.emit(zerolog.ErrorLevel, err, msg) }

func (l *Logger) emit(level zerolog.Level, err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.WithLevel(level)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}
