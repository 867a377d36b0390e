// Package logging builds the structured logger shared by the CLI and the
// pipeline packages.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields represents structured logging fields.
type Fields = logrus.Fields

// NewLogger returns a JSON logger on stderr at the given level.
// Unknown levels fall back to info.
func NewLogger(level string) *logrus.Logger {
	return New(os.Stderr, level)
}

// New returns a JSON logger writing to w.
func New(w io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
