// Package logging builds the zap logger shared by the CLI and the TUI. The TUI owns the
// terminal, so log output goes to a file or nowhere.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// File receives JSON log lines. Empty or "-" disables logging.
	File    string
	Verbose bool
}

func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" || opts.File == "-" {
		return zap.NewNop(), nil
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{opts.File}
	config.ErrorOutputPaths = []string{opts.File}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("app", "limetred")), nil
}
