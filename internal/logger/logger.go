package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	baseOnce sync.Once
	base     *slog.Logger
)

// Init replaces the process-wide handler. Call once from main before any
// logger is created; later calls are ignored.
func Init(environment string) {
	baseOnce.Do(func() {
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		var handler slog.Handler
		if strings.EqualFold(environment, "production") {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			opts.Level = slog.LevelDebug
			handler = slog.NewTextHandler(os.Stdout, opts)
		}
		base = slog.New(handler)
		slog.SetDefault(base)
	})
}

func root() *slog.Logger {
	if base != nil {
		return base
	}
	return slog.Default()
}

type Logger struct {
	component string
	file      string
	function  string
	slog      *slog.Logger
}

func New(component string) Logger {
	l := Logger{component: component}
	l.slog = l.build()
	return l
}

func (l Logger) File(file string) Logger {
	l.file = file
	l.slog = l.build()
	return l
}

func (l Logger) Function(function string) Logger {
	l.function = function
	l.slog = l.build()
	return l
}

func (l Logger) build() *slog.Logger {
	attrs := []any{"component", l.component}
	if l.file != "" {
		attrs = append(attrs, "file", l.file)
	}
	if l.function != "" {
		attrs = append(attrs, "function", l.function)
	}
	return root().With(attrs...)
}

func (l Logger) logger() *slog.Logger {
	if l.slog == nil {
		return root()
	}
	return l.slog
}

func (l Logger) Debug(msg string, args ...any) {
	l.logger().Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.logger().Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.logger().Warn(msg, args...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.logger().Error(msg, append([]any{"error", err}, args...)...)
}

// ErMsg logs an error-level message without an underlying error.
func (l Logger) ErMsg(msg string, args ...any) {
	l.logger().Error(msg, args...)
}

// Err logs err and returns it wrapped with msg, so errors.Is keeps working.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// ErrMsg returns msg as an error without logging it.
func (l Logger) ErrMsg(msg string) error {
	return errors.New(msg)
}

// Error logs msg at error level and returns it as an error.
func (l Logger) Error(msg string, args ...any) error {
	l.logger().Error(msg, args...)
	return errors.New(msg)
}

// Slog exposes the underlying structured logger for bridges such as gorm's.
func (l Logger) Slog() *slog.Logger {
	return l.logger()
}
