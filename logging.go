package znp

import "go.uber.org/zap"

// newDefaultLogger returns the logger a Mediator uses when the caller's
// Config leaves Logger nil.
func newDefaultLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
