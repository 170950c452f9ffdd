// Package logging builds the process logger: zap does the encoding and
// writing, and the rest of the code logs through log/slog.
package logging

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New returns a zap logger configured for env ("production" gives JSON
// output, anything else the coloured development console) and a slog.Logger
// writing through it. Unknown levels fall back to info.
func New(level, env string) (*zap.Logger, *slog.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zl, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return zl, slog.New(zapslog.NewHandler(zl.Core())), nil
}
