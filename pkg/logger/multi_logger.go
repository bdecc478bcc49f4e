package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogCategory represents different log categories
type LogCategory string

const (
	CategoryDownload LogCategory = "download" // Extraction outcomes (JSON)
	CategoryExpiry   LogCategory = "expiry"   // File lifecycle sweeps (JSON)
	CategoryAccess   LogCategory = "access"   // HTTP access log (JSON)
	CategoryError    LogCategory = "error"    // Application errors (JSON)
)

// Categories lists every category with its own log file
var Categories = []LogCategory{
	CategoryDownload,
	CategoryExpiry,
	CategoryAccess,
	CategoryError,
}

// ValidCategory reports whether c names a log file category
func ValidCategory(c LogCategory) bool {
	for _, category := range Categories {
		if category == c {
			return true
		}
	}
	return false
}

// MultiLogger provides categorized logging with separate output files.
// Raw yt-dlp output is written by the extractor directly, not through here.
type MultiLogger struct {
	loggers map[LogCategory]*zap.Logger
	files   []*os.File
	general *zap.Logger
	config  MultiLoggerConfig
	mu      sync.RWMutex
}

// MultiLoggerConfig contains configuration for multi-output logging
type MultiLoggerConfig struct {
	Level   string      // debug, info, warn, error
	LogsDir string      // Directory for log files
	General *zap.Logger // Console logger; a nop logger when nil
}

// NewMultiLogger creates a new multi-output logger
func NewMultiLogger(config MultiLoggerConfig) (*MultiLogger, error) {
	if config.LogsDir == "" {
		return nil, fmt.Errorf("logs_dir must be specified")
	}

	if err := os.MkdirAll(config.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	general := config.General
	if general == nil {
		general = zap.NewNop()
	}

	ml := &MultiLogger{
		loggers: make(map[LogCategory]*zap.Logger),
		general: general,
		config:  config,
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	for _, category := range Categories {
		categoryLevel := level
		if category == CategoryError {
			categoryLevel = zapcore.ErrorLevel
		}

		logger, err := ml.createStructuredLogger(category, categoryLevel)
		if err != nil {
			ml.Close()
			return nil, fmt.Errorf("failed to create %s logger: %w", category, err)
		}
		ml.loggers[category] = logger
	}

	return ml, nil
}

// createStructuredLogger creates a JSON-formatted logger for a category
func (ml *MultiLogger) createStructuredLogger(category LogCategory, level zapcore.Level) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = ""

	encoder := zapcore.NewJSONEncoder(encoderConfig)

	file, err := os.OpenFile(ml.categoryLogPath(category), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	ml.files = append(ml.files, file)

	core := zapcore.NewCore(encoder, zapcore.AddSync(file), level)
	return zap.New(core).With(zap.String("category", string(category))), nil
}

// categoryLogPath generates a log file path for a category with current date
func (ml *MultiLogger) categoryLogPath(category LogCategory) string {
	filename := fmt.Sprintf("%s-%s.log", category, time.Now().Format("20060102"))
	return filepath.Join(ml.config.LogsDir, filename)
}

// LogsDir returns the logs directory path
func (ml *MultiLogger) LogsDir() string {
	return ml.config.LogsDir
}

// GetLogger returns the structured logger for a specific category
func (ml *MultiLogger) GetLogger(category LogCategory) *zap.Logger {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	if logger, ok := ml.loggers[category]; ok {
		return logger
	}

	return ml.loggers[CategoryError]
}

// Download returns the download logger
func (ml *MultiLogger) Download() *zap.Logger {
	return ml.GetLogger(CategoryDownload)
}

// Expiry returns the expiry logger
func (ml *MultiLogger) Expiry() *zap.Logger {
	return ml.GetLogger(CategoryExpiry)
}

// Access returns the HTTP access logger
func (ml *MultiLogger) Access() *zap.Logger {
	return ml.GetLogger(CategoryAccess)
}

// Error returns the error logger
func (ml *MultiLogger) Error() *zap.Logger {
	return ml.GetLogger(CategoryError)
}

// General returns the console logger
func (ml *MultiLogger) General() *zap.Logger {
	return ml.general
}

// LogAppError logs an application-level error
func (ml *MultiLogger) LogAppError(msg string, fields ...zap.Field) {
	ml.Error().Error(msg, fields...)
	ml.general.Error(msg, fields...)
}

// LogError logs to a category and mirrors the entry to the error log
func (ml *MultiLogger) LogError(category LogCategory, msg string, fields ...zap.Field) {
	if category != CategoryError {
		ml.GetLogger(category).Error(msg, fields...)
	}
	ml.LogAppError(msg, fields...)
}

// LogDownloadEvent logs an extraction event with structured data
func (ml *MultiLogger) LogDownloadEvent(event string, fields ...zap.Field) {
	ml.Download().Info(event, fields...)
}

// LogExpiryEvent logs a file lifecycle event with structured data
func (ml *MultiLogger) LogExpiryEvent(event string, fields ...zap.Field) {
	ml.Expiry().Info(event, fields...)
}

// Sync flushes all loggers
func (ml *MultiLogger) Sync() error {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	var lastErr error
	for _, logger := range ml.loggers {
		if err := logger.Sync(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Close flushes all loggers and closes their files
func (ml *MultiLogger) Close() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	var lastErr error
	for _, logger := range ml.loggers {
		if err := logger.Sync(); err != nil {
			lastErr = err
		}
	}
	for _, file := range ml.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
	}
	ml.files = nil
	return lastErr
}
