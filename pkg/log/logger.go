package log

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// SetupLogger installs a log/slog JSON backend writing to w and makes it both
// the global provider and the slog default. Errors passed under the "error"
// key get their stacktrace extracted by ErrFmtHandler.
func SetupLogger(w io.Writer, loglevel string) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	p := NewSlogProvider(w, level)
	SetProvider(p)
	slog.SetDefault(p.l.l)
	return nil
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("loglevel", "must be one of debug, info, warn, error", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps an existing slog logger.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...any) { s.l.Error(msg, fields...) }

func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{l: s.l.With(fields...)}
}

func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

// SlogProvider is a LoggerProvider backed by log/slog.
type SlogProvider struct {
	w     io.Writer
	level *slog.LevelVar
	l     *SlogLogger
}

// NewSlogProvider creates a provider emitting JSON records to w.
func NewSlogProvider(w io.Writer, level Level) *SlogProvider {
	lv := new(slog.LevelVar)
	lv.Set(slog.Level(level))
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	return &SlogProvider{
		w:     w,
		level: lv,
		l:     NewSlogLogger(slog.New(WrapByErrFmtHandler(h))),
	}
}

func (p *SlogProvider) GetLogger() Logger { return p.l }

func (p *SlogProvider) GetLoggerWithName(name string) Logger {
	return p.l.With(ComponentKey, name)
}

func (p *SlogProvider) SetLevel(level Level) { p.level.Set(slog.Level(level)) }
