// Package logger provides the structured logger shared by chatsync packages.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the process-wide logger.
var Logger = newLogger(os.Stderr, log.InfoLevel)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix: "chatsync",
		Level:  level,
	})
	l.SetTimeFormat("")
	return l
}

// Configure sets the level and destination of Logger.
// An empty level falls back to CHATSYNC_LOG_LEVEL and then to info.
// An empty file keeps stderr.
func Configure(level, file string) error {
	if level == "" {
		level = os.Getenv("CHATSYNC_LOG_LEVEL")
	}

	var out io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		out = f
	}

	Logger = newLogger(out, ParseLevel(level))
	return nil
}

// SetOutput redirects Logger, keeping its level. Used by tests to capture output.
func SetOutput(w io.Writer) {
	Logger = newLogger(w, Logger.GetLevel())
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}
