package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process wide logger. It is a no-op logger until Init is called so
// packages can log from tests without setup.
var Log = zap.NewNop()

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Init builds the development logger used by the engine.
func Init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	l, err := cfg.Build()
	if err != nil {
		// Keep the previous logger, there is nowhere to report this.
		return
	}
	Log = l
}

// SetLevel changes the level of the logger built by Init at runtime.
// Unknown names leave the level untouched and return false.
func SetLevel(name string) bool {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return false
	}
	level.SetLevel(l)
	return true
}

// Level reports the current level name.
func Level() string {
	return level.Level().String()
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Log.Sync()
}

// Replace swaps Log and returns a function restoring the previous logger,
// mirroring zap.ReplaceGlobals.
func Replace(l *zap.Logger) func() {
	prev := Log
	Log = l
	return func() { Log = prev }
}
