package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op logger until Init is called so
// packages can log from tests without any setup.
var Log = zap.NewNop()

var initOnce sync.Once

// Init builds the default development logger. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		InitWithLevel(zapcore.InfoLevel)
	})
}

// InitWithLevel replaces Log with a console logger at the given level.
func InitWithLevel(level zapcore.Level) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	l, err := cfg.Build()
	if err != nil {
		// Fall back to something that always works
		l = zap.NewExample()
	}
	Log = l
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
