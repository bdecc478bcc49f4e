package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/savevid-go/internal/controller"
	"github.com/yourusername/savevid-go/internal/domain"
)

func TestDownload_PostsJSON(t *testing.T) {
	var got domain.DownloadRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/download", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"platform":"youtube","title":"T","uploader":"U","duration":42,"file_id":"abc123"}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).Download(context.Background(), "https://youtu.be/x")
	require.NoError(t, err)

	assert.Equal(t, "https://youtu.be/x", got.URL)
	assert.True(t, resp.Success)
	assert.Equal(t, domain.PlatformYouTube, resp.Platform)
	assert.Equal(t, 42, resp.Duration)
	assert.Equal(t, "abc123", resp.FileID)
}

func TestDownload_DecodesFailureWhateverStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Video not found"}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).Download(context.Background(), "https://youtu.be/x")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Video not found", resp.Error)
}

func TestDownload_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	_, err := New(server.URL).Download(context.Background(), "https://youtu.be/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
	assert.Contains(t, err.Error(), "502")
}

func TestDownload_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := New(addr).Download(context.Background(), "https://youtu.be/x")
	require.Error(t, err)
}

func TestClient_DrivesController(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"Video not found"}`))
	}))
	defer server.Close()

	c := controller.New(New(server.URL), nil)
	require.NoError(t, c.Submit(context.Background(), "https://youtu.be/x"))

	screen := c.Screen()
	assert.Equal(t, controller.StateError, screen.State)
	assert.Contains(t, screen.Result.Text(), "Video not found")
}

func TestFetchFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-file/abc123", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="clip.mp4"`)
		w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	path, err := New(server.URL).FetchFile(context.Background(), "abc123", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "clip.mp4"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))
}

func TestFetchFile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "file not found or already deleted", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(server.URL).FetchFile(context.Background(), "gone", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "already deleted")
}

func TestFileURL(t *testing.T) {
	c := New("http://localhost:5000/")
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
	assert.Equal(t, "http://localhost:5000/get-file/abc123", c.FileURL("abc123"))
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "clip.mp4", attachmentName(`attachment; filename="clip.mp4"`))
	assert.Equal(t, "passwd", attachmentName(`attachment; filename="../../etc/passwd"`))
	assert.Empty(t, attachmentName(""))
	assert.Empty(t, attachmentName("attachment"))
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","version":"1.0.0","expiry":{"running":true},"files":{"total":3,"ready":2,"delivered":1}}`))
	}))
	defer server.Close()

	status, err := New(server.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.True(t, status.Expiry.Running)
	assert.Equal(t, int64(2), status.Files.Ready)
}

func TestDownloadAs_ForcesPlatformPath(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"success":true,"platform":"instagram","file_id":"f"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.DownloadAs(context.Background(), "https://example.com/reel/1", domain.PlatformInstagram)
	require.NoError(t, err)
	_, err = c.DownloadAs(context.Background(), "https://youtu.be/x", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"/download/instagram", "/download"}, paths)
}
