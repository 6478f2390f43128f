// Package logging builds the zap logger used for diagnostics.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stderr. Verbose enables debug
// output and quiet limits output to warnings and errors; verbose wins.
// Every entry carries a run identifier.
func New(verbose, quiet bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel

	switch {
	case verbose:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.WarnLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if !verbose {
		cfg.DisableCaller = true
		cfg.EncoderConfig.TimeKey = ""
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger.With(zap.String("run", uuid.NewString())), nil
}
