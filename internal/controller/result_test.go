package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/savevid-go/internal/domain"
)

func TestRenderResponse_Success(t *testing.T) {
	result := RenderResponse(&domain.DownloadResponse{
		Success:  true,
		Platform: domain.PlatformTikTok,
		Title:    "dance",
		Uploader: "someone",
		Duration: 15,
		FileID:   "f1",
	})

	assert.Equal(t, ResultSuccess, result.Kind)
	assert.True(t, result.IsSuccess())
	assert.Equal(t, Badge{Emoji: "🎵", Name: "TikTok"}, result.Badge)
	assert.Equal(t, "/get-file/f1", result.DownloadLink)
	assert.Contains(t, result.Text(), "1 minute")
	assert.Contains(t, result.Text(), "15 seconds")
}

func TestRenderResponse_Failure(t *testing.T) {
	result := RenderResponse(domain.NewFailureResponse("URL must not be empty"))

	assert.Equal(t, ResultFailure, result.Kind)
	assert.False(t, result.IsSuccess())
	assert.Equal(t, "URL must not be empty", result.Message)
	assert.Equal(t, failureHint, result.Hint)
	assert.Contains(t, result.Text(), failureHint)
}

func TestRenderTransportError(t *testing.T) {
	result := RenderTransportError(errors.New("dial tcp: connection refused"))

	assert.Equal(t, ResultTransport, result.Kind)
	assert.Equal(t, "An error occurred: dial tcp: connection refused", result.Message)
	assert.Empty(t, result.Hint)
	assert.Empty(t, result.DownloadLink)
}

func TestPanelFor(t *testing.T) {
	assert.Equal(t, PanelNone, PanelFor(StateIdle))
	assert.Equal(t, PanelLoading, PanelFor(StateLoading))
	assert.Equal(t, PanelResult, PanelFor(StateSuccess))
	assert.Equal(t, PanelResult, PanelFor(StateError))
}

func TestRequestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "invalid", RequestState(99).String())
}
