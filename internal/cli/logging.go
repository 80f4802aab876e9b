package cli

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the diagnostic logger. The interactive panel owns the
// terminal, so without a log file it gets a no-op logger; one-shot commands
// fall back to stderr.
func newLogger(path string, verbose, interactive bool) (*zap.Logger, error) {
	if path == "" && interactive {
		return zap.NewNop(), nil
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if path == "" {
		// Keep stdout clean for the reply; only problems reach stderr.
		if !verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
	} else {
		config.OutputPaths = []string{path}
		config.ErrorOutputPaths = []string{path}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
