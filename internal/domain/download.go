package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DownloadRequest is the body of POST /download
type DownloadRequest struct {
	URL string `json:"url"`
}

// DownloadResponse is the body returned by POST /download.
// Success responses carry the media fields, failures carry Error.
type DownloadResponse struct {
	Success  bool     `json:"success"`
	Platform Platform `json:"platform,omitempty"`
	Title    string   `json:"title,omitempty"`
	Uploader string   `json:"uploader,omitempty"`
	Duration int      `json:"duration"`
	FileID   string   `json:"file_id,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// MarshalJSON keeps failures to {success, error}. Successes always carry
// duration, even when it is zero.
func (r DownloadResponse) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Success: false, Error: r.Error})
	}
	type plain DownloadResponse
	return json.Marshal(plain(r))
}

// NewFailureResponse builds a failure payload
func NewFailureResponse(msg string) *DownloadResponse {
	return &DownloadResponse{Success: false, Error: msg}
}

// FileStatus represents the lifecycle state of a transient file
type FileStatus string

const (
	FileStatusReady     FileStatus = "ready"
	FileStatusDelivered FileStatus = "delivered"
)

// MediaFile is a downloaded file kept on the server until it expires
type MediaFile struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	URL         string     `json:"url" gorm:"not null"`
	Platform    Platform   `json:"platform" gorm:"not null"`
	Title       string     `json:"title"`
	Uploader    string     `json:"uploader"`
	Duration    int        `json:"duration"`
	FilePath    string     `json:"file_path" gorm:"not null"`
	Dir         string     `json:"dir"` // per-download temp directory, removed on expiry
	Status      FileStatus `json:"status" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt   time.Time  `json:"expires_at" gorm:"not null;index"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// NewMediaFile registers extracted media as a ready file living for ttl
func NewMediaFile(url string, platform Platform, info *MediaInfo, dir string, ttl time.Duration) *MediaFile {
	now := time.Now()
	return &MediaFile{
		ID:        uuid.New().String(),
		URL:       url,
		Platform:  platform,
		Title:     info.Title,
		Uploader:  info.Uploader,
		Duration:  info.Duration,
		FilePath:  info.FilePath,
		Dir:       dir,
		Status:    FileStatusReady,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// MarkDelivered marks the file as handed out; the link is single use
func (f *MediaFile) MarkDelivered() {
	f.Status = FileStatusDelivered
	now := time.Now()
	f.DeliveredAt = &now
}

// IsExpired reports whether the file outlived its ttl at the given time
func (f *MediaFile) IsExpired(now time.Time) bool {
	return !now.Before(f.ExpiresAt)
}

// IsClaimable reports whether the file can still be retrieved
func (f *MediaFile) IsClaimable(now time.Time) bool {
	return f.Status == FileStatusReady && !f.IsExpired(now)
}

// Response builds the success payload for the file
func (f *MediaFile) Response() *DownloadResponse {
	return &DownloadResponse{
		Success:  true,
		Platform: f.Platform,
		Title:    f.Title,
		Uploader: f.Uploader,
		Duration: f.Duration,
		FileID:   f.ID,
	}
}
