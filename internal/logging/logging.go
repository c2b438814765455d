// Package logging provides the process-wide structured logger.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init replaces the global logger with one writing to stderr at the given
// level ("debug", "info", "warn", "error"). Development mode uses zap's
// console encoder.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	Set(l)
	return nil
}

// Set swaps the global logger. Tests use it with zaptest.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// L returns the global logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

func Debug(msg string, keysAndValues ...any) {
	L().Sugar().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	L().Sugar().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	L().Sugar().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	L().Sugar().Errorw(msg, keysAndValues...)
}
