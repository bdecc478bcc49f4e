package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInfo() *MediaInfo {
	return &MediaInfo{
		FilePath: "/tmp/savevid-1/clip.mp4",
		Title:    "clip",
		Uploader: "someone",
		Duration: 42,
	}
}

func TestNewMediaFile(t *testing.T) {
	before := time.Now()
	file := NewMediaFile("https://youtu.be/abc", PlatformYouTube, newTestInfo(), "/tmp/savevid-1", time.Minute)

	assert.NotEmpty(t, file.ID)
	assert.Equal(t, "https://youtu.be/abc", file.URL)
	assert.Equal(t, PlatformYouTube, file.Platform)
	assert.Equal(t, "clip", file.Title)
	assert.Equal(t, "someone", file.Uploader)
	assert.Equal(t, 42, file.Duration)
	assert.Equal(t, "/tmp/savevid-1", file.Dir)
	assert.Equal(t, FileStatusReady, file.Status)
	assert.Nil(t, file.DeliveredAt)
	assert.False(t, file.ExpiresAt.Before(before.Add(time.Minute)))
}

func TestNewMediaFile_UniqueIDs(t *testing.T) {
	a := NewMediaFile("u", PlatformTikTok, newTestInfo(), "", time.Minute)
	b := NewMediaFile("u", PlatformTikTok, newTestInfo(), "", time.Minute)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestMediaFile_MarkDelivered(t *testing.T) {
	file := NewMediaFile("u", PlatformTikTok, newTestInfo(), "", time.Minute)

	file.MarkDelivered()

	assert.Equal(t, FileStatusDelivered, file.Status)
	assert.NotNil(t, file.DeliveredAt)
	assert.False(t, file.IsClaimable(time.Now()))
}

func TestMediaFile_IsExpired(t *testing.T) {
	file := NewMediaFile("u", PlatformTikTok, newTestInfo(), "", time.Minute)

	assert.False(t, file.IsExpired(file.CreatedAt))
	assert.True(t, file.IsExpired(file.ExpiresAt))
	assert.True(t, file.IsExpired(file.ExpiresAt.Add(time.Second)))
	assert.True(t, file.IsClaimable(file.CreatedAt))
	assert.False(t, file.IsClaimable(file.ExpiresAt))
}

func TestMediaFile_Response(t *testing.T) {
	file := NewMediaFile("u", PlatformInstagram, newTestInfo(), "", time.Minute)

	resp := file.Response()

	assert.True(t, resp.Success)
	assert.Equal(t, PlatformInstagram, resp.Platform)
	assert.Equal(t, "clip", resp.Title)
	assert.Equal(t, "someone", resp.Uploader)
	assert.Equal(t, 42, resp.Duration)
	assert.Equal(t, file.ID, resp.FileID)
	assert.Empty(t, resp.Error)
}

func TestDownloadResponse_FailureShape(t *testing.T) {
	data, err := json.Marshal(NewFailureResponse("Video not found"))
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, false, raw["success"])
	assert.Equal(t, "Video not found", raw["error"])
	assert.NotContains(t, raw, "file_id")
	assert.NotContains(t, raw, "duration")
	assert.Len(t, raw, 2)
}

func TestDownloadResponse_FailureShapeDropsStrayFields(t *testing.T) {
	data, err := json.Marshal(&DownloadResponse{Success: false, Error: "boom", Duration: 7, Title: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, string(data))
}

func TestDownloadResponse_SuccessKeepsZeroDuration(t *testing.T) {
	data, err := json.Marshal(DownloadResponse{Success: true, Platform: PlatformYouTube, Title: "Live", FileID: "abc"})
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(0), raw["duration"])
	assert.Equal(t, "abc", raw["file_id"])
}

func TestDownloadResponse_SuccessShape(t *testing.T) {
	payload := `{"success":true,"platform":"youtube","title":"T","uploader":"U","duration":42,"file_id":"abc123"}`

	var resp DownloadResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, PlatformYouTube, resp.Platform)
	assert.Equal(t, "T", resp.Title)
	assert.Equal(t, "U", resp.Uploader)
	assert.Equal(t, 42, resp.Duration)
	assert.Equal(t, "abc123", resp.FileID)
}
