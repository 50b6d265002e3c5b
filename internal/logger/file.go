package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileTimestampLayout prefixes every line of the run log
const FileTimestampLayout = "2006-01-02 15:04:05"

// FileLogger writes the run log: one line per message, formatted as
// "2006-01-02 15:04:05 - LEVEL - message". The file is truncated when the
// logger is created, so it only ever holds the latest run.
type FileLogger struct {
	runLog   *os.File
	logLevel string
	now      func() time.Time
	mu       sync.Mutex
}

// NewFileLogger creates the run log at path at debug level.
// Parent directories are created as needed.
func NewFileLogger(path string) (*FileLogger, error) {
	return newFileLoggerWithLevel(path, "debug")
}

// newFileLoggerWithLevel creates the run log at path with a minimum level.
func newFileLoggerWithLevel(path string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	return &FileLogger{
		runLog:   file,
		logLevel: normalizeLogLevel(logLevel),
		now:      time.Now,
	}, nil
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("trace", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("debug", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("info", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("warn", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("error", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(level) {
		return
	}

	// Multi-line messages keep the prefix on every line
	lines := strings.Split(message, "\n")
	var b strings.Builder
	ts := fl.now().Format(FileTimestampLayout)
	for _, line := range lines {
		fmt.Fprintf(&b, "%s - %s - %s\n", ts, levelName(level), line)
	}
	fl.writeRunLog(b.String())
}

// levelName returns the upper-case label written to the run log
func levelName(level string) string {
	if level == "warn" {
		return "WARNING"
	}
	return strings.ToUpper(level)
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}
