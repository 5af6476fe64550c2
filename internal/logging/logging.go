// Package logging builds the zap loggers used across factorydash.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger writing to stderr. verbose lowers the
// level to debug.
func New(verbose bool) (*zap.Logger, error) {
	return build(verbose, []string{"stderr"})
}

// NewFile is New writing to path instead of stderr. Used while a full screen
// UI owns the terminal. An empty path returns a no-op logger.
func NewFile(verbose bool, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	return build(verbose, []string{path})
}

func build(verbose bool, outputs []string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = outputs
	config.ErrorOutputPaths = outputs

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
