package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level and encoding for the process logger.
type Config struct {
	Debug bool `yaml:"debug"`
	JSON  bool `yaml:"json"`
}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// New builds a logger writing to stderr.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true
	if cfg.JSON {
		zc.Encoding = "json"
	}
	if cfg.Debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return zc.Build()
}

// Setup installs the process-wide logger and returns a cleanup that flushes it.
func Setup(cfg Config) (func() error, error) {
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	global = l
	mu.Unlock()

	l.Debug("logger.initialized", zap.Bool("debug", cfg.Debug), zap.Bool("json", cfg.JSON))

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()
		// stderr sync fails on some terminals; nothing useful to report
		_ = global.Sync()
		global = zap.NewNop()
		return nil
	}
	return cleanup, nil
}

// L returns the process-wide logger; a no-op logger until Setup runs.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
