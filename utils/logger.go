package utils

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// init initializes the global logger configuration when the package is imported.
func init() {
	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

// SetLogLevel switches the global log level; unknown levels fall back to info
func SetLogLevel(level string) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		Warn("unknown log level, using info", map[string]any{"level": level})
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// Debug logs a message at debug level with optional fields
func Debug(message string, fields map[string]any) {
	log.WithFields(fields).Debug(message)
}

// Info logs a message at info level with optional fields
func Info(message string, fields map[string]any) {
	log.WithFields(fields).Info(message)
}

// Warn logs a message at warning level with optional fields
func Warn(message string, fields map[string]any) {
	log.WithFields(fields).Warn(message)
}

// Error logs a message at error level with optional fields
func Error(message string, fields map[string]any) {
	log.WithFields(fields).Error(message)
}

// Fatal logs a message at fatal level and exits the application
func Fatal(message string, fields map[string]any) {
	log.WithFields(fields).Fatal(message)
}
