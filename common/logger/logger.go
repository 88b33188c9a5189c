package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides a unified leveled logging facade for the orchestration
// subsystem so packages never depend on the logging backend directly.

// LogLevel represents log severity levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	log   = newDefault()
)

func newDefault() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLevel adjusts the global logging level.
func SetLevel(lv LogLevel) {
	switch lv {
	case LevelDebug:
		level.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		level.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		level.SetLevel(zapcore.WarnLevel)
	case LevelError:
		level.SetLevel(zapcore.ErrorLevel)
	}
}

// UseZap swaps the backing logger, e.g. to share the host process logger.
func UseZap(l *zap.Logger) {
	if l != nil {
		log = l.Sugar()
	}
}

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	_ = log.Sync()
}
