// Package logging provides the shared Zap logger for complianced, with field
// helpers that keep customer PII out of the audit trail.
//
// Compliance verdicts are logged for audit, but the inputs they were computed
// from include exactly the data a marketing SaaS must not spill into log
// aggregation: dates of birth and medical credentials. Use the field helpers
// in this package (DateOfBirth, CustomerID) instead of zap.String for those
// values; they log presence and derived facts (age), never the raw value.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `koanf:"level"`
	// Format is json or console. Defaults to json.
	Format string `koanf:"format"`
}

// New builds a logger from config.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == "console" {
		zapCfg.Encoding = "console"
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
