package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nghiack7/data-ingestion-service/internal/config"
)

// Fields is a map of structured logging fields
type Fields map[string]interface{}

// Logger defines the logging interface used across the service
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(err error, format string, args ...interface{})
	WithFields(fields Fields) Logger
}

// zapLogger implements Logger on top of zap's sugared logger
type zapLogger struct {
	sugar *zap.SugaredLogger
}

var _ Logger = (*zapLogger)(nil)

// NewLogger creates a logger configured from the application config
func NewLogger(cfg *config.Config) Logger {
	level := zapcore.InfoLevel
	if cfg != nil {
		if parsed, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsed
		}
	}

	zapCfg := zap.NewProductionConfig()
	if cfg != nil && cfg.Logging.Format == "text" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	base, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fall back to a no-frills logger rather than failing startup
		base = zap.NewNop()
	}

	return &zapLogger{sugar: base.Sugar()}
}

// NewNopLogger returns a logger that discards everything. Used in tests.
func NewNopLogger() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *zapLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *zapLogger) Fatalf(err error, format string, args ...interface{}) {
	l.sugar.With("error", err).Fatalf(format, args...)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &zapLogger{sugar: l.sugar.With(kv...)}
}
