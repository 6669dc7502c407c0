// Package logging builds the zap logger shared by the CLI commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/spellbook/internal/model"
)

// New builds a logger writing to stderr. Format "json" uses the production
// encoder, anything else the console encoder. verbose forces debug level.
func New(cfg model.LoggingConfig, verbose bool) (*zap.Logger, error) {
	var config zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.Development = false
		config.DisableStacktrace = true
	}

	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if cfg.Level != "" {
		parsed, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	if verbose {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.Level = level

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
