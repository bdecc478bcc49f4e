package domain

import "context"

// Extractor defines the interface for media extraction backends
type Extractor interface {
	// Extract downloads the media behind url into dir and reports what it got
	Extract(ctx context.Context, url string, platform Platform, dir string) (*MediaInfo, error)
}

// MediaInfo describes an extracted media file
type MediaInfo struct {
	FilePath string
	Title    string
	Uploader string
	Duration int // seconds
}
