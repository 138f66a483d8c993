package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option adjusts the logger configuration built by New.
type Option func(*zap.Config) error

// WithLevel sets the minimum enabled level from its text form ("debug", "info", ...).
func WithLevel(level string) Option {
	return func(cfg *zap.Config) error {
		if level == "" {
			return nil
		}
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		cfg.Level = lvl
		return nil
	}
}

// WithFile additionally writes log entries to path. An empty path is ignored.
func WithFile(path string) Option {
	return func(cfg *zap.Config) error {
		if path != "" {
			cfg.OutputPaths = append(cfg.OutputPaths, path)
		}
		return nil
	}
}

// New creates a production-ready structured logger configured for JSON output.
func New(opts ...Option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
