package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process logger. Production mode emits JSON at info level,
// otherwise a human readable development logger is returned.
func New(prod bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if prod {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
