// Package logger provides the process-wide structured logger used by every
// command and core component. It follows the teacher's shape: a package
// global plus thin level wrappers, so call sites read `logger.Info(...)`
// without threading a logger through every leaf function, while components
// that need injected loggers can still call New directly.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger instance. Set by Init.
var Log *zap.Logger

// Stage values recognized by Init.
const (
	StageProd  = "production"
	StageStage = "staging"
	StageTest  = "test"
	StageDev   = "development"
)

// Init initializes the global logger for the given deployment stage.
func Init(stage string) {
	Log = New(stage)
}

// New builds a fresh *zap.Logger for the given stage without touching the
// global. Scheduler jobs and background workers that want a named child
// logger should call New once at startup and pass the result down.
func New(stage string) *zap.Logger {
	var cfg zap.Config
	if stage == StageProd || stage == StageStage {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if stage == StageTest {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	built, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return built
}

func Info(msg string, fields ...zapcore.Field)  { Log.Info(msg, fields...) }
func Error(msg string, fields ...zapcore.Field) { Log.Error(msg, fields...) }
func Debug(msg string, fields ...zapcore.Field) { Log.Debug(msg, fields...) }
func Warn(msg string, fields ...zapcore.Field)  { Log.Warn(msg, fields...) }
func Fatal(msg string, fields ...zapcore.Field) { Log.Fatal(msg, fields...) }

// With creates a child logger and adds structured context to it.
func With(fields ...zapcore.Field) *zap.Logger { return Log.With(fields...) }

// Sync flushes any buffered log entries.
func Sync() error { return Log.Sync() }
