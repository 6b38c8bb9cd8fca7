package util

import "go.uber.org/zap"

func NewLogger(env string) *zap.SugaredLogger {
	var logger *zap.SugaredLogger

	if env == "production" {
		logger = zap.Must(zap.NewProduction()).Sugar()
	} else {
		logger = zap.Must(zap.NewDevelopment()).Sugar()
	}

	return logger
}

// Same as NewLogger but every entry carries the id of the current run.
func NewRunLogger(env string, runID string) *zap.SugaredLogger {
	return NewLogger(env).With("run", runID)
}
