// Package logger builds the process-wide slog.Logger.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	slogsentry "github.com/samber/slog-sentry/v2"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Proton-105/creator-bot/pkg/config"
)

// Logger bundles the slog logger with the level it was built with so the
// level can be changed at runtime.
type Logger struct {
	*slog.Logger

	level  *slog.LevelVar
	closer io.Closer
}

// Options tweak New beyond what config carries.
type Options struct {
	// Output overrides stdout. Mostly useful in tests.
	Output io.Writer
	// Sentry forwards error records to Sentry. sentry.Init must already have run.
	Sentry bool
}

// New creates a Logger from cfg. Records are masked before they reach any
// handler.
func New(cfg config.LoggerConfig, opts Options) (*Logger, error) {
	level := new(slog.LevelVar)
	parsed, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	level.Set(parsed)

	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)
	if opts.Output != nil {
		out = opts.Output
	}
	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(out, rotating)
		closer = rotating
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	if opts.Sentry {
		sentryHandler := slogsentry.Option{Level: slog.LevelError, AddSource: true}.NewSentryHandler()
		handler = newFanout(handler, sentryHandler)
	}

	return &Logger{
		Logger: slog.New(NewMaskingHandler(handler)),
		level:  level,
		closer: closer,
	}, nil
}

// SetLevel changes the minimum level of every record emitted through l.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level reports the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// WatchLevel re-reads logger.level whenever viper sees the config file change.
func (l *Logger) WatchLevel(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := ParseLevel(v.GetString("logger.level"))
		if err != nil {
			l.Warn("ignoring invalid log level from config", slog.String("file", e.Name), slog.Any("error", err))
			return
		}
		if next != l.Level() {
			l.SetLevel(next)
			l.Info("log level changed", slog.String("level", next.String()))
		}
	})
	v.WatchConfig()
}

// Close flushes the rotating file, when one is configured.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// ParseLevel maps config level names onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// fanout delivers every record to all handlers that accept its level.
type fanout struct {
	handlers []slog.Handler
}

func newFanout(handlers ...slog.Handler) *fanout {
	return &fanout{handlers: handlers}
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: next}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &fanout{handlers: next}
}
