package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a JSON logger writing to out. An unknown level falls back
// to info.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
		logger.WithField("level", level).Warn("unknown log level, using info")
		return logger
	}
	logger.SetLevel(lvl)
	return logger
}
