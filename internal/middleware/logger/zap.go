package logger

import (
	"go.uber.org/zap"
)

// NewLogger builds the zap.Logger shared by every component in the service.
// The development config keeps console-friendly output; switch to
// zap.NewProduction() for JSON logs when running behind a collector.
func NewLogger() (*zap.Logger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return logger, nil
}
