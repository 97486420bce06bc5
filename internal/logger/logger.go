package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	mu     sync.RWMutex
	global = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// New builds a JSON logger writing to w. The "dev" env logs at debug level.
func New(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// Set replaces the process-wide logger. A nil logger resets it to discard.
func Set(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	global = l
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
