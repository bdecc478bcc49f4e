package infrastructure

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/yourusername/savevid-go/internal/domain"
	"go.uber.org/zap"
)

// NotificationService sends desktop notifications about file lifecycle events
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
	run    func(name string, args ...string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if n == nil {
		return nil
	}
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	var name string
	var args []string
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		if n.config.Sound {
			script += ` sound name "Glass"`
		}
		name, args = "osascript", []string{"-e", script}
	case "notify-send":
		name, args = "notify-send", []string{"--app-name=savevid", title, message}
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err := n.run(name, args...); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))
	return nil
}

// NotifyFileReady announces a file ready for retrieval
func (n *NotificationService) NotifyFileReady(title string, platform domain.Platform) {
	n.Send("Video Ready", fmt.Sprintf("%s %s (%s)", platform.Info().Emoji, truncateString(title, 40), platform.Info().Name))
}

// NotifyDownloadFailed announces a failed extraction
func (n *NotificationService) NotifyDownloadFailed(url string, platform domain.Platform, err error) {
	n.Send("Download Failed", fmt.Sprintf("%s (%s): %s", truncateString(url, 30), platform, truncateString(firstLine(err.Error()), 60)))
}

// NotifyFilesExpired announces a sweep that removed files
func (n *NotificationService) NotifyFilesExpired(count int) {
	n.Send("Files Expired", fmt.Sprintf("%d file(s) removed", count))
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
