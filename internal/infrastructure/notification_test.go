package infrastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/savevid-go/internal/domain"
	"go.uber.org/zap"
)

type recordedCommand struct {
	name string
	args []string
}

func newRecordingNotifier(config *domain.NotificationConfig, err error) (*NotificationService, *[]recordedCommand) {
	var calls []recordedCommand
	n := NewNotificationService(config, zap.NewNop())
	n.run = func(name string, args ...string) error {
		calls = append(calls, recordedCommand{name: name, args: args})
		return err
	}
	return n, &calls
}

func TestNotification_Disabled(t *testing.T) {
	n, calls := newRecordingNotifier(&domain.NotificationConfig{Enabled: false, Method: "notify-send"}, nil)

	assert.NoError(t, n.Send("t", "m"))
	assert.Empty(t, *calls)
}

func TestNotification_NotifySend(t *testing.T) {
	n, calls := newRecordingNotifier(&domain.NotificationConfig{Enabled: true, Method: "notify-send"}, nil)

	n.NotifyFileReady("dance", domain.PlatformTikTok)

	if assert.Len(t, *calls, 1) {
		call := (*calls)[0]
		assert.Equal(t, "notify-send", call.name)
		assert.Equal(t, "Video Ready", call.args[1])
		assert.Contains(t, call.args[2], "TikTok")
	}
}

func TestNotification_OSAScriptQuotes(t *testing.T) {
	n, calls := newRecordingNotifier(&domain.NotificationConfig{Enabled: true, Sound: true, Method: "osascript"}, nil)

	assert.NoError(t, n.Send(`say "hi"`, "body"))

	if assert.Len(t, *calls, 1) {
		script := (*calls)[0].args[1]
		assert.Contains(t, script, `with title "say \"hi\""`)
		assert.Contains(t, script, "sound name")
	}
}

func TestNotification_UnknownMethod(t *testing.T) {
	n, calls := newRecordingNotifier(&domain.NotificationConfig{Enabled: true, Method: "pager"}, nil)

	assert.NoError(t, n.Send("t", "m"))
	assert.Empty(t, *calls)
}

func TestNotification_CommandError(t *testing.T) {
	n, _ := newRecordingNotifier(&domain.NotificationConfig{Enabled: true, Method: "notify-send"}, errors.New("no display"))

	assert.Error(t, n.Send("t", "m"))
}

func TestNotification_NilServiceIsNoop(t *testing.T) {
	var n *NotificationService
	assert.NoError(t, n.Send("t", "m"))
	n.NotifyFilesExpired(2)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abc...", truncateString("abcdef", 3))
}
