package log

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// zerologLogger adapts zerolog.Logger to Logger.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a Logger writing zerolog JSON lines to w.
func NewZerologLogger(w io.Writer, level Level) Logger {
	zl := zerolog.New(w).
		Level(toZerologLevel(level)).
		With().
		Timestamp().
		Logger()
	return &zerologLogger{zl: zl}
}

func (z *zerologLogger) Debug(msg string, fields ...any) { z.emit(z.zl.Debug(), msg, fields) }
func (z *zerologLogger) Info(msg string, fields ...any)  { z.emit(z.zl.Info(), msg, fields) }
func (z *zerologLogger) Warn(msg string, fields ...any)  { z.emit(z.zl.Warn(), msg, fields) }

func (z *zerologLogger) Error(msg string, fields ...any) {
	e := z.zl.Error()
	err, rest := splitError(fields)
	if err != nil {
		e = e.Err(err)
		if st := extractStacktrace(err); st != "" {
			e = e.Str(StacktraceAttrKey, st)
		}
		e = e.Str(ErrorTypeKey, errorKind(err))
		var m zerolog.LogObjectMarshaler
		if errors.As(err, &m) {
			e = e.Object("error_detail", m)
		}
	}
	z.emit(e, msg, rest)
}

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: z.zl.With().Fields(fields).Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

func (z *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	if len(fields) > 0 {
		e = e.Fields(fields)
	}
	e.Msg(msg)
}

// warnObject logs a library warning, embedding its structured fields.
func (z *zerologLogger) warnObject(w error) {
	e := z.zl.Warn()
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		e = e.EmbedObject(m)
	}
	e.Msg(w.Error())
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
