package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/savevid-go/internal/domain"
)

// LoadConfig loads configuration from file and environment. Every key can be
// overridden with SAVEVID_<SECTION>_<KEY>, e.g. SAVEVID_SERVER_PORT.
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.savevid")
		v.AddConfigPath("/etc/savevid")
	}

	// Registered defaults make every key visible to AutomaticEnv.
	for key, value := range configValues(config) {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("SAVEVID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// configValues flattens config into viper keys. Durations are written as
// strings so saved files stay readable.
func configValues(config *domain.Config) map[string]interface{} {
	return map[string]interface{}{
		"server.host": config.Server.Host,
		"server.port": config.Server.Port,

		"download.temp_dir":             config.Download.TempDir,
		"download.ytdlp_binary":         config.Download.YTDLPBinary,
		"download.format":               config.Download.Format,
		"download.user_agent":           config.Download.UserAgent,
		"download.cookie_file":          config.Download.CookieFile,
		"download.no_check_certificate": config.Download.NoCheckCertificate,
		"download.file_ttl":             config.Download.FileTTL.String(),
		"download.cleanup_interval":     config.Download.CleanupInterval.String(),
		"download.concurrent_limit":     config.Download.ConcurrentLimit,
		"download.timeout":              config.Download.Timeout.String(),

		"storage.database_path": config.Storage.DatabasePath,

		"notification.enabled": config.Notification.Enabled,
		"notification.sound":   config.Notification.Sound,
		"notification.method":  config.Notification.Method,

		"logging.level":       config.Logging.Level,
		"logging.format":      config.Logging.Format,
		"logging.output_path": config.Logging.OutputPath,
		"logging.logs_dir":    config.Logging.LogsDir,
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.TempDir = expandPath(config.Download.TempDir)
	config.Download.CookieFile = expandPath(config.Download.CookieFile)
	config.Storage.DatabasePath = expandPath(config.Storage.DatabasePath)
	config.Logging.LogsDir = expandPath(config.Logging.LogsDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	// $HOME falls back to the user's home dir when the variable is unset
	if strings.Contains(path, "$HOME") && os.Getenv("HOME") == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return os.ExpandEnv(path)
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Download.TempDir == "" {
		return fmt.Errorf("download temp directory not configured")
	}

	if config.Download.YTDLPBinary == "" {
		return fmt.Errorf("yt-dlp binary not configured")
	}

	if config.Download.FileTTL <= 0 {
		return fmt.Errorf("file ttl must be positive")
	}

	if config.Download.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}

	if config.Download.ConcurrentLimit < 1 {
		return fmt.Errorf("concurrent limit must be at least 1")
	}

	if config.Download.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	if config.Storage.DatabasePath == "" {
		return fmt.Errorf("storage database path not configured")
	}

	if config.Logging.LogsDir == "" {
		return fmt.Errorf("logs directory not configured")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range configValues(config) {
		v.Set(key, value)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
