// Package logging hands out component loggers writing to stderr. The level
// comes from FOCUSFLOW_LOG and defaults to warn so the CLI stays quiet.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu   sync.RWMutex
	root = newLogger(os.Stderr, os.Getenv("FOCUSFLOW_LOG"))
)

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug/info/warn/error to a slog level. Unknown is warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Init replaces the root logger.
func Init(w io.Writer, level string) {
	mu.Lock()
	root = newLogger(w, level)
	mu.Unlock()
}

// Root returns the root logger.
func Root() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// WithField returns the root logger with one attribute attached.
func WithField(key string, value any) *slog.Logger {
	return Root().With(key, value)
}

// Store returns a logger for the local store.
func Store() *slog.Logger {
	return WithField("component", "store")
}

// Remote returns a logger for the API client.
func Remote() *slog.Logger {
	return WithField("component", "remote")
}

// Sync returns a logger for the sync scheduler.
func Sync() *slog.Logger {
	return WithField("component", "sync")
}

// Goals returns a logger for the daily goal evaluator.
func Goals() *slog.Logger {
	return WithField("component", "goals")
}

// App returns a logger for service orchestration.
func App() *slog.Logger {
	return WithField("component", "app")
}

// CLI returns a logger for command handling.
func CLI() *slog.Logger {
	return WithField("component", "cli")
}
