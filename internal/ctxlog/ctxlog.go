// Package ctxlog provides context-aware structured logging utilities.
package ctxlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Dir    string `yaml:"dir"`
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var (
	mx      sync.Mutex
	logFile io.Closer
)

// Setup installs the logger described by config as the default logger and stores it in ctx.
// A log file opened by a previous call is closed.
func Setup(ctx context.Context, w io.Writer, name string, config Config) (context.Context, error) {
	mx.Lock()
	defer mx.Unlock()

	logger, closer, err := New(w, name, config)
	if err != nil {
		return ctx, err
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = closer

	slog.SetDefault(logger)

	return Store(ctx, logger), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger writing to w, and to a timestamped file under config.Dir when set.
// The returned closer releases that file.
func New(w io.Writer, name string, config Config) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if config.Level != "" {
		if err := level.UnmarshalText([]byte(config.Level)); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	var newHandler func(io.Writer, *slog.HandlerOptions) slog.Handler
	switch strings.ToLower(config.Format) {
	case "", "json":
		newHandler = func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) }
	case "text":
		newHandler = func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) }
	default:
		return nil, nil, fmt.Errorf("log format %q: must be json or text", config.Format)
	}

	var closer io.Closer = nopCloser{}
	if config.Dir != "" {
		err := os.MkdirAll(config.Dir, 0755)
		if err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}

		f, err := os.Create(filepath.Join(config.Dir, name+"-"+time.Now().Format("2006-01-02-15-04-05.log")))
		if err != nil {
			return nil, nil, fmt.Errorf("create log file: %w", err)
		}
		closer = f

		w = io.MultiWriter(w, f)
	}

	return slog.New(newHandler(w, opts)).With("app", name), closer, nil
}

// Shutdown closes the log file opened by Setup, if any.
func Shutdown() error {
	mx.Lock()
	defer mx.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

type ctxKey struct{}

var key ctxKey

func Store(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, key, log)
}

func Get(ctx context.Context) *slog.Logger {
	log, ok := ctx.Value(key).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return log
}

func Close(ctx context.Context, name string, closer io.Closer) error {
	logger := Get(ctx)
	err := closer.Close()
	if err != nil {
		logger.Error("failed to close", "closer", name, "error", err)
		return err
	}
	return nil
}

func With(ctx context.Context, kv ...any) context.Context {
	return Store(ctx, Get(ctx).With(kv...))
}
