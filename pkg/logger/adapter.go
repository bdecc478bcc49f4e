package logger

import (
	"go.uber.org/zap"
)

// LoggerAdapter provides a unified interface for both single and multi-logger
type LoggerAdapter struct {
	multiLogger  *MultiLogger
	singleLogger *zap.Logger
	useMulti     bool
}

// NewLoggerAdapter creates a new logger adapter
func NewLoggerAdapter(multiLogger *MultiLogger) *LoggerAdapter {
	return &LoggerAdapter{
		multiLogger: multiLogger,
		useMulti:    true,
	}
}

// NewSingleLoggerAdapter routes every category to one logger (tests, CLI)
func NewSingleLoggerAdapter(logger *zap.Logger) *LoggerAdapter {
	return &LoggerAdapter{
		singleLogger: logger,
		useMulti:     false,
	}
}

// Download returns the download logger
func (la *LoggerAdapter) Download() *zap.Logger {
	if la.useMulti {
		return la.multiLogger.Download()
	}
	return la.singleLogger
}

// Expiry returns the expiry logger
func (la *LoggerAdapter) Expiry() *zap.Logger {
	if la.useMulti {
		return la.multiLogger.Expiry()
	}
	return la.singleLogger
}

// Access returns the HTTP access logger
func (la *LoggerAdapter) Access() *zap.Logger {
	if la.useMulti {
		return la.multiLogger.Access()
	}
	return la.singleLogger
}

// Error returns the error logger
func (la *LoggerAdapter) Error() *zap.Logger {
	if la.useMulti {
		return la.multiLogger.Error()
	}
	return la.singleLogger
}

// General returns the general logger
func (la *LoggerAdapter) General() *zap.Logger {
	if la.useMulti {
		return la.multiLogger.General()
	}
	return la.singleLogger
}

// LogError logs an error to both category and error logs
func (la *LoggerAdapter) LogError(category LogCategory, msg string, fields ...zap.Field) {
	if la.useMulti {
		la.multiLogger.LogError(category, msg, fields...)
	} else {
		la.singleLogger.Error(msg, append(fields, zap.String("category", string(category)))...)
	}
}

// LogDownloadEvent records an extraction outcome
func (la *LoggerAdapter) LogDownloadEvent(event string, fields ...zap.Field) {
	if la.useMulti {
		la.multiLogger.LogDownloadEvent(event, fields...)
	} else {
		la.singleLogger.Info(event, fields...)
	}
}

// LogExpiryEvent records a file lifecycle event
func (la *LoggerAdapter) LogExpiryEvent(event string, fields ...zap.Field) {
	if la.useMulti {
		la.multiLogger.LogExpiryEvent(event, fields...)
	} else {
		la.singleLogger.Info(event, fields...)
	}
}

// Sync flushes all loggers
func (la *LoggerAdapter) Sync() error {
	if la.useMulti {
		return la.multiLogger.Sync()
	}
	return la.singleLogger.Sync()
}

// GetMultiLogger returns the underlying multi-logger (if available)
func (la *LoggerAdapter) GetMultiLogger() *MultiLogger {
	return la.multiLogger
}

// LogsDir returns the category log directory, empty for a single logger
func (la *LoggerAdapter) LogsDir() string {
	if la.useMulti {
		return la.multiLogger.LogsDir()
	}
	return ""
}
