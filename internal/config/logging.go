package config

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger builds the application logger from the log settings.
func (s *Settings) NewLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "distro",
	})

	if level, err := log.ParseLevel(strings.ToLower(s.LogLevel)); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	if strings.EqualFold(s.LogFormat, "json") {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}
