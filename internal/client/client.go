package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/savevid-go/internal/domain"
)

// Client talks to the savevid server over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Download posts the URL to /download and decodes the payload. The body is
// decoded whatever the status code; a body that is not JSON is an error.
func (c *Client) Download(ctx context.Context, mediaURL string) (*domain.DownloadResponse, error) {
	return c.postDownload(ctx, "/download", mediaURL)
}

// DownloadAs is Download with the platform forced instead of detected
func (c *Client) DownloadAs(ctx context.Context, mediaURL string, platform domain.Platform) (*domain.DownloadResponse, error) {
	if platform == "" {
		return c.Download(ctx, mediaURL)
	}
	return c.postDownload(ctx, "/download/"+url.PathEscape(string(platform)), mediaURL)
}

func (c *Client) postDownload(ctx context.Context, path, mediaURL string) (*domain.DownloadResponse, error) {
	data, err := json.Marshal(domain.DownloadRequest{URL: mediaURL})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result domain.DownloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	return &result, nil
}

// FileURL resolves the retrieval link of a file against the server
func (c *Client) FileURL(fileID string) string {
	return c.baseURL + "/get-file/" + url.PathEscape(fileID)
}

// FetchFile downloads a file into dir and returns its path
func (c *Client) FetchFile(ctx context.Context, fileID, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FileURL(fileID), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("fetch file %s: status %d: %s", fileID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	name := attachmentName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = fileID
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// HealthStatus is the decoded /health payload
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Expiry  struct {
		Running bool `json:"running"`
	} `json:"expiry"`
	Files domain.FileStats `json:"files"`
}

// Health reads the server health endpoint
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &status, nil
}

// attachmentName extracts a safe file name from a Content-Disposition header
func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
