package app

import (
	"go.uber.org/zap"

	"tableflip.dev/tierit/pkg/store"
)

// NewLogger builds the process logger. The development preset is used when
// the config says so; anything else gets production, quieted to warnings so
// CLI output stays readable. When outputs are given, logs go there instead of
// stderr, which the terminal UI needs.
func NewLogger(cfg store.Config, outputs ...string) (*zap.Logger, error) {
	var zc zap.Config

	if cfg != nil && cfg.Environment() == "development" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	if len(outputs) > 0 {
		zc.OutputPaths = outputs
		zc.ErrorOutputPaths = outputs
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}
