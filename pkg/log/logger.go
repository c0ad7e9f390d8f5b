package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// Output formats accepted by New.
const (
	FormatJSON    = "json"    // zerolog JSON lines
	FormatConsole = "console" // zerolog human-readable console output
	FormatSlog    = "slog"    // log/slog JSON with Cloud Logging field names
)

// Options configures New.
type Options struct {
	Level  string
	Format string
	// File, when set, receives a copy of every record and is rotated by size.
	File string
	// Stdout defaults to os.Stdout.
	Stdout io.Writer
}

// New builds the process logger described by opts and routes library warnings
// (errors.Warn) into it. The returned closer releases the log file, if any.
func New(opts Options) (Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	var closer io.Closer = nopCloser{}
	var file io.Writer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		file = rotating
		closer = rotating
	}

	var logger Logger
	switch strings.ToLower(opts.Format) {
	case FormatJSON, "":
		w := out
		if file != nil {
			w = zerolog.MultiLevelWriter(out, file)
		}
		logger = NewZerologLogger(w, level)
	case FormatConsole:
		w := io.Writer(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"})
		if file != nil {
			// the file always gets machine-readable lines
			w = zerolog.MultiLevelWriter(w, file)
		}
		logger = NewZerologLogger(w, level)
	case FormatSlog:
		w := out
		if file != nil {
			w = io.MultiWriter(out, file)
		}
		logger = NewSlogLogger(SetupLogger(w, level))
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	RouteWarnings(logger)
	return logger, closer, nil
}

// RouteWarnings sends errors.Warn output to logger. zerolog backends keep the
// structured fields of warnings that implement zerolog.LogObjectMarshaler.
func RouteWarnings(logger Logger) {
	if zl, ok := logger.(*zerologLogger); ok {
		errors.SetZerologWarnFunc(zl.warnObject)
		return
	}
	errors.SetZerologWarnFunc(func(w error) {
		logger.Warn(w.Error(), ErrorTypeKey, fmt.Sprintf("%T", w))
	})
}

// SetupLogger installs and returns a JSON slog logger whose records use Cloud
// Logging attribute names and carry stack traces extracted from errors.
func SetupLogger(w io.Writer, level Level) *slog.Logger {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
		// Replace attributes to convert to CloudLogging format.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	logger := slog.New(WrapByErrFmtHandler(handler))
	slog.SetDefault(logger)
	return logger
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps an existing slog logger.
func NewSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, fields...) }
func (s *slogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, fields...) }
func (s *slogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, fields...) }

func (s *slogLogger) Error(msg string, fields ...any) {
	err, rest := splitError(fields)
	if err != nil {
		rest = append([]any{ErrAttr(err)}, rest...)
	}
	s.l.Error(msg, rest...)
}

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(fields...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
