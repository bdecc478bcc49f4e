package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yourusername/savevid-go/internal/domain"
	"github.com/yourusername/savevid-go/internal/infrastructure"
	"github.com/yourusername/savevid-go/pkg/logger"
	"go.uber.org/zap"
)

// Errors reported to clients. Their text is the payload message.
var (
	ErrEmptyURL       = errors.New("URL must not be empty")
	ErrUnsupportedURL = errors.New("Invalid URL. Use a URL from TikTok, Instagram, Facebook, or YouTube")
	ErrFileNotFound   = errors.New("file not found or already deleted")
	ErrFileMissing    = errors.New("file is no longer on disk")
)

// File fetch outcomes recorded in metrics
const (
	fetchDelivered = "delivered"
	fetchNotFound  = "not_found"
	fetchMissing   = "missing"
)

// DownloadService extracts media into transient files and hands them out once
type DownloadService struct {
	repo               domain.FileRepository
	extractor          domain.Extractor
	notifier           *infrastructure.NotificationService
	metrics            *infrastructure.Metrics
	config             *domain.DownloadConfig
	logger             *logger.LoggerAdapter
	platformSemaphores map[domain.Platform]chan struct{}
	now                func() time.Time
}

// NewDownloadService creates a new download service
func NewDownloadService(
	repo domain.FileRepository,
	extractor domain.Extractor,
	notifier *infrastructure.NotificationService,
	metrics *infrastructure.Metrics,
	config *domain.DownloadConfig,
	log *logger.LoggerAdapter,
) *DownloadService {
	limit := config.ConcurrentLimit
	if limit < 1 {
		limit = 1
	}

	// Different platforms extract in parallel; each platform has its own slots.
	platformSemaphores := make(map[domain.Platform]chan struct{}, len(domain.Platforms))
	for _, platform := range domain.Platforms {
		platformSemaphores[platform] = make(chan struct{}, limit)
	}

	return &DownloadService{
		repo:               repo,
		extractor:          extractor,
		notifier:           notifier,
		metrics:            metrics,
		config:             config,
		logger:             log,
		platformSemaphores: platformSemaphores,
		now:                time.Now,
	}
}

// Download extracts rawURL and registers the result. forced overrides URL
// detection when non-empty. Every path yields a payload.
func (s *DownloadService) Download(ctx context.Context, rawURL string, forced domain.Platform) *domain.DownloadResponse {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		s.metrics.ObserveDownload(domain.PlatformUnknown, infrastructure.OutcomeInvalid)
		s.logger.LogDownloadEvent("download_rejected", zap.String("reason", "empty_url"))
		return domain.NewFailureResponse(ErrEmptyURL.Error())
	}

	platform := forced
	if platform == "" {
		platform = domain.DetectPlatform(url)
	}
	if !domain.ValidatePlatform(platform) {
		s.metrics.ObserveDownload(domain.PlatformUnknown, infrastructure.OutcomeUnsupported)
		s.logger.LogDownloadEvent("download_rejected",
			zap.String("reason", "unsupported_url"),
			zap.String("url", url))
		return domain.NewFailureResponse(ErrUnsupportedURL.Error())
	}

	file, err := s.fetch(ctx, url, platform)
	if err != nil {
		s.metrics.ObserveDownload(platform, infrastructure.OutcomeFailed)
		s.logger.LogError(logger.CategoryDownload, "Download failed",
			zap.String("url", url),
			zap.String("platform", string(platform)),
			zap.Error(err))
		s.notifier.NotifyDownloadFailed(url, platform, err)
		return domain.NewFailureResponse(err.Error())
	}

	s.metrics.ObserveDownload(platform, infrastructure.OutcomeSuccess)
	s.logger.LogDownloadEvent("download_succeeded",
		zap.String("file_id", file.ID),
		zap.String("url", url),
		zap.String("platform", string(platform)),
		zap.String("title", file.Title),
		zap.String("file", file.FilePath),
		zap.Time("expires_at", file.ExpiresAt))
	s.notifier.NotifyFileReady(file.Title, platform)

	return file.Response()
}

// fetch runs the extractor in a fresh temp dir and registers the file
func (s *DownloadService) fetch(ctx context.Context, url string, platform domain.Platform) (*domain.MediaFile, error) {
	platformSem := s.platformSemaphores[platform]
	select {
	case platformSem <- struct{}{}:
		defer func() { <-platformSem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := os.MkdirAll(s.config.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	dir, err := os.MkdirTemp(s.config.TempDir, string(platform)+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	extractCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	s.logger.Download().Debug("Extracting",
		zap.String("url", url),
		zap.String("platform", string(platform)),
		zap.String("dir", dir))

	start := time.Now()
	info, err := s.extractor.Extract(extractCtx, url, platform, dir)
	s.metrics.ObserveExtract(platform, time.Since(start))
	if err == nil && info == nil {
		err = errors.New("extractor returned no media")
	}
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	if info.Title == "" {
		info.Title = string(platform) + "_video"
	}
	if info.Uploader == "" {
		info.Uploader = "Unknown"
	}
	if info.Duration < 0 {
		info.Duration = 0
	}

	file := domain.NewMediaFile(url, platform, info, dir, s.config.FileTTL)
	if err := s.repo.Create(file); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to register file: %w", err)
	}
	s.metrics.FileRegistered()

	return file, nil
}

// ClaimFile hands out a ready file once. The caller streams FilePath.
func (s *DownloadService) ClaimFile(id string) (*domain.MediaFile, error) {
	file, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up file: %w", err)
	}

	if file == nil || !file.IsClaimable(s.now()) {
		s.metrics.ObserveFetch(fetchNotFound)
		return nil, ErrFileNotFound
	}

	if _, err := os.Stat(file.FilePath); err != nil {
		s.metrics.ObserveFetch(fetchMissing)
		s.logger.LogError(logger.CategoryExpiry, "Registered file missing on disk",
			zap.String("file_id", id),
			zap.String("file", file.FilePath),
			zap.Error(err))
		return nil, ErrFileMissing
	}

	// A concurrent claim or sweep may have moved the record since the lookup.
	now := s.now()
	claimed, err := s.repo.MarkDelivered(id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark file delivered: %w", err)
	}
	if !claimed {
		s.metrics.ObserveFetch(fetchNotFound)
		return nil, ErrFileNotFound
	}
	file.Status = domain.FileStatusDelivered
	file.DeliveredAt = &now

	s.metrics.ObserveFetch(fetchDelivered)
	s.logger.LogExpiryEvent("file_delivered",
		zap.String("file_id", id),
		zap.String("platform", string(file.Platform)))

	return file, nil
}

// Stats returns registry counts
func (s *DownloadService) Stats() (*domain.FileStats, error) {
	return s.repo.GetStats()
}
