package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the service-wide logger. It writes to stdout until Init is called.
var Logger = logrus.New()

// Config controls log level and optional rotated file output
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // Empty logs to stdout only
	MaxSize    int    // Megabytes before rotation
	MaxBackups int    // Rotated files to keep
	MaxAge     int    // Days to keep rotated files
	Compress   bool
}

// Init configures Logger from config
func Init(config Config) error {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	writers := []io.Writer{os.Stdout}
	if config.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputFile), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		writers = append(writers, &lumberjack.Logger{
			Filename:   config.OutputFile,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))

	Logger = logger
	return nil
}

// WithFields starts an entry on the service logger
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}
