// Package log wraps a single shared logrus logger so every subsystem
// reports through one configurable sink
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Setup reconfigures the global logger. Safe to call before any run,
// not during one
func Setup(cfg Config) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case "file":
		out = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxAge,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		}
	default:
		return fmt.Errorf("%w: %q", errInvalidOutput, cfg.Output)
	}

	logger.SetLevel(level)
	logger.SetOutput(out)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// Infof logs at info level tagged with the subsystem
func Infof(subsystem, format string, args ...interface{}) {
	logger.WithField("subsystem", subsystem).Infof(format, args...)
}

// Infoln logs a line at info level tagged with the subsystem
func Infoln(subsystem string, args ...interface{}) {
	logger.WithField("subsystem", subsystem).Infoln(args...)
}

// Debugf logs at debug level tagged with the subsystem
func Debugf(subsystem, format string, args ...interface{}) {
	logger.WithField("subsystem", subsystem).Debugf(format, args...)
}

// Warnf logs at warn level tagged with the subsystem
func Warnf(subsystem, format string, args ...interface{}) {
	logger.WithField("subsystem", subsystem).Warnf(format, args...)
}

// Errorf logs at error level tagged with the subsystem
func Errorf(subsystem, format string, args ...interface{}) {
	logger.WithField("subsystem", subsystem).Errorf(format, args...)
}
