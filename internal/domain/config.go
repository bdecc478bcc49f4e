package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig contains extraction and file lifecycle configuration
type DownloadConfig struct {
	TempDir            string        `mapstructure:"temp_dir"`
	YTDLPBinary        string        `mapstructure:"ytdlp_binary"`
	Format             string        `mapstructure:"format"`
	UserAgent          string        `mapstructure:"user_agent"`
	CookieFile         string        `mapstructure:"cookie_file"`
	NoCheckCertificate bool          `mapstructure:"no_check_certificate"`
	FileTTL            time.Duration `mapstructure:"file_ttl"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
	ConcurrentLimit    int           `mapstructure:"concurrent_limit"` // per platform
	Timeout            time.Duration `mapstructure:"timeout"`
}

// StorageConfig contains file registry configuration
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sound   bool   `mapstructure:"sound"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	LogsDir    string `mapstructure:"logs_dir"`    // category log files
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Download: DownloadConfig{
			TempDir:            "$HOME/.savevid/tmp",
			YTDLPBinary:        "yt-dlp",
			Format:             "best",
			UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			NoCheckCertificate: true,
			FileTTL:            time.Minute,
			CleanupInterval:    5 * time.Second,
			ConcurrentLimit:    2,
			Timeout:            5 * time.Minute,
		},
		Storage: StorageConfig{
			DatabasePath: "$HOME/.savevid/files.db",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Sound:   false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
			LogsDir:    "$HOME/.savevid/logs",
		},
	}
}
