// Package logutil carries over the donor's config/logrus.go logging
// convention field-for-field: a JSON-formatted logrus logger and a single
// structured LogError call every multi-step workflow funnels through.
package logutil

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger constructs a logger configured the way the donor's package-level
// logger was: JSON formatter, error level, stdout. Returned as a value
// instead of held in a package var, since CoreContext callers may construct
// more than one per process (tests in particular).
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.ErrorLevel)
	logger.SetOutput(os.Stdout)
	return logger
}

// LogError is the donor's config.LogError, unchanged in shape: a single
// structured breadcrumb for a failing operation, logged before the error is
// returned to the caller.
func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	if err == nil {
		return
	}
	if data != nil {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": funcName,
			"context":  context,
			"data":     data,
		}).Error(err.Error())
	} else {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": funcName,
			"context":  context,
		}).Error(err.Error())
	}
}
