// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var zapLogger *zap.Logger

// Log discards everything until Init runs, so library code can log freely
// from tests.
var Log = zap.NewNop().Sugar()

// New returns a JSON logger on w using zap's production encoding with
// ISO8601 timestamps.
func New(
	w io.Writer,
	level zapcore.Level,
) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.Lock(zapcore.AddSync(w))
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), sink, cfg.Level)
	return zap.New(core, zap.ErrorOutput(sink))
}

// Init installs a logger on w at the LOG_LEVEL level as Log. Only the first
// call has an effect.
func Init(
	w io.Writer,
) *zap.SugaredLogger {
	if zapLogger == nil {
		zapLogger = New(w, LevelFromEnv())
		Log = zapLogger.Sugar()
	}
	return Log
}

// LevelFromEnv reads LOG_LEVEL, defaulting to info.
func LevelFromEnv() zapcore.Level {
	level, err := zapcore.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func Sync() {
	if zapLogger != nil {
		_ = zapLogger.Sync()
	}
}
