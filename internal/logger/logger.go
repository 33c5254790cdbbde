package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger. Development mode uses the console
// encoder with colored levels; production logs JSON with ISO8601
// timestamps.
func New(development bool) (*zap.Logger, error) {
	var cfg zap.Config

	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
	}

	return cfg.Build()
}

// Must creates a logger or panics
func Must(development bool) *zap.Logger {
	log, err := New(development)
	if err != nil {
		panic(err)
	}
	return log
}

// ForRun returns a child logger scoped to one backtest run. Every line
// it emits carries the run id and fill mode.
func ForRun(log *zap.Logger, runID, mode string) *zap.Logger {
	return log.With(zap.String("run_id", runID), zap.String("mode", mode))
}
