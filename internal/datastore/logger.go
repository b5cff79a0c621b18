// Package datastore logging setup for database operations
package datastore

import (
	"io"
	"log/slog"
	"sync"

	"github.com/mvirtanen/timesheet-go/internal/logging"
)

var (
	datastoreLogger   *slog.Logger
	datastoreLevelVar = new(slog.LevelVar)
	loggerCloseFunc   func() error
	loggerOnce        sync.Once
	loggerMu          sync.RWMutex

	defaultLogPath = "logs/datastore.log"
)

// InitializeLogger initializes the datastore logger with the specified log
// file path. Safe to call multiple times, initialization happens only once.
func InitializeLogger(logFilePath string) error {
	var initErr error

	loggerOnce.Do(func() {
		if logFilePath == "" {
			logFilePath = defaultLogPath
		}

		datastoreLevelVar.Set(slog.LevelInfo)

		var err error
		loggerMu.Lock()
		datastoreLogger, loggerCloseFunc, err = logging.NewFileLogger(logFilePath, "datastore", datastoreLevelVar)
		loggerMu.Unlock()
		if err != nil {
			// Fall back to a no-op logger instead of failing the store
			loggerMu.Lock()
			datastoreLogger = newNoopLogger()
			loggerCloseFunc = func() error { return nil }
			loggerMu.Unlock()
			initErr = err
		}
	})

	return initErr
}

// getLogger returns the logger, initializing it with the default path if
// needed.
func getLogger() *slog.Logger {
	loggerMu.RLock()
	if datastoreLogger != nil {
		defer loggerMu.RUnlock()
		return datastoreLogger
	}
	loggerMu.RUnlock()

	_ = InitializeLogger(defaultLogPath)

	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if datastoreLogger == nil {
		return newNoopLogger()
	}
	return datastoreLogger
}

// SetLogLevel adjusts the datastore log level at runtime.
func SetLogLevel(level slog.Level) {
	datastoreLevelVar.Set(level)
}

// CloseLogger releases the log file writer.
func CloseLogger() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if loggerCloseFunc != nil {
		return loggerCloseFunc()
	}
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
