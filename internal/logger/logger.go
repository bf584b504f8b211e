// Package logger configures the process-wide structured logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ceddyai/golf-voice/internal/config"
)

// New builds a logrus logger for the given configuration. Develop and test
// environments get a colored text formatter; everything else logs JSON.
func New(cfg config.Config) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	level := logrus.InfoLevel
	if cfg.Debug {
		level = logrus.DebugLevel
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := logrus.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	l.SetLevel(level)

	if cfg.Environment == config.EnvDevelop || cfg.Environment == config.EnvTest {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			PadLevelText:  true,
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}
