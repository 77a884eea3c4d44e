// Package logging configures the process logger and the HTTP request log.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Common field names.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldClientIP  = "ip"
)

// New builds a logger writing to stdout with the given level and format ("text" or "json").
func New(level, format string) (*logrus.Logger, error) {
	return NewWithWriter(os.Stdout, level, format)
}

func NewWithWriter(w io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return logger, nil
}

// Component returns an entry tagged with the component name.
func Component(logger logrus.FieldLogger, name string) logrus.FieldLogger {
	return logger.WithField(FieldComponent, name)
}

// Discard is a logger for tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
