package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/savevid-go/internal/domain"
	"github.com/yourusername/savevid-go/internal/infrastructure"
	"github.com/yourusername/savevid-go/pkg/logger"
)

// ExpiryManager removes transient files once their ttl has passed
type ExpiryManager struct {
	repo     domain.FileRepository
	notifier *infrastructure.NotificationService
	metrics  *infrastructure.Metrics
	config   *domain.DownloadConfig
	logger   *logger.LoggerAdapter
	mu       sync.RWMutex
	running  bool
	stopChan chan struct{}
	workerWg sync.WaitGroup
}

// NewExpiryManager creates a new expiry manager
func NewExpiryManager(
	repo domain.FileRepository,
	notifier *infrastructure.NotificationService,
	metrics *infrastructure.Metrics,
	config *domain.DownloadConfig,
	log *logger.LoggerAdapter,
) *ExpiryManager {
	return &ExpiryManager{
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
		config:   config,
		logger:   log,
	}
}

// Start purges what a previous process left behind, then sweeps on every tick
func (em *ExpiryManager) Start(ctx context.Context) error {
	em.mu.Lock()
	if em.running {
		em.mu.Unlock()
		return fmt.Errorf("expiry manager already running")
	}
	em.running = true
	em.stopChan = make(chan struct{})
	em.mu.Unlock()

	em.logger.LogExpiryEvent("expiry_started", zap.Duration("interval", em.config.CleanupInterval))

	if _, err := em.Sweep(time.Now()); err != nil {
		em.logger.LogError(logger.CategoryExpiry, "Initial sweep failed", zap.Error(err))
	}
	if stats, err := em.repo.GetStats(); err == nil {
		em.metrics.SetFilesActive(stats.Total)
	}

	em.workerWg.Add(1)
	go em.run(ctx, em.stopChan)

	return nil
}

// Stop stops the sweeper and waits for it to exit
func (em *ExpiryManager) Stop() error {
	em.mu.Lock()
	if !em.running {
		em.mu.Unlock()
		return fmt.Errorf("expiry manager not running")
	}
	em.running = false
	close(em.stopChan)
	em.mu.Unlock()

	em.workerWg.Wait()
	em.logger.LogExpiryEvent("expiry_stopped")

	return nil
}

// IsRunning returns whether the expiry manager is running
func (em *ExpiryManager) IsRunning() bool {
	em.mu.RLock()
	defer em.mu.RUnlock()
	return em.running
}

func (em *ExpiryManager) run(ctx context.Context, stopChan <-chan struct{}) {
	defer em.workerWg.Done()

	ticker := time.NewTicker(em.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			em.logger.LogExpiryEvent("expiry_worker_stopped", zap.String("reason", "context_cancelled"))
			em.mu.Lock()
			em.running = false
			em.mu.Unlock()
			return
		case <-stopChan:
			em.logger.LogExpiryEvent("expiry_worker_stopped", zap.String("reason", "stop_signal"))
			return
		case now := <-ticker.C:
			if _, err := em.Sweep(now); err != nil {
				em.logger.LogError(logger.CategoryExpiry, "Sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep deletes every file expiring at or before now and returns how many
// were removed. Ready and delivered files are treated alike.
func (em *ExpiryManager) Sweep(now time.Time) (int, error) {
	expired, err := em.repo.FindExpired(now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired files: %w", err)
	}

	removed := 0
	for _, file := range expired {
		if err := em.removeFromDisk(file); err != nil {
			em.logger.LogError(logger.CategoryExpiry, "Failed to remove expired file",
				zap.String("file_id", file.ID),
				zap.String("file", file.FilePath),
				zap.Error(err))
			continue
		}
		if err := em.repo.Delete(file.ID); err != nil {
			em.logger.LogError(logger.CategoryExpiry, "Failed to delete file record",
				zap.String("file_id", file.ID),
				zap.Error(err))
			continue
		}

		removed++
		em.logger.LogExpiryEvent("file_expired",
			zap.String("file_id", file.ID),
			zap.String("platform", string(file.Platform)),
			zap.String("status", string(file.Status)),
			zap.String("file", file.FilePath))
	}

	if removed > 0 {
		em.metrics.FilesExpired(removed)
		em.notifier.NotifyFilesExpired(removed)
	}
	return removed, nil
}

// removeFromDisk deletes the file's temp dir, or just the file when the dir
// is not inside the configured temp dir. Missing files are fine.
func (em *ExpiryManager) removeFromDisk(file *domain.MediaFile) error {
	if file.Dir != "" && isWithin(em.config.TempDir, file.Dir) {
		return os.RemoveAll(file.Dir)
	}
	if file.FilePath == "" {
		return nil
	}
	if err := os.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// isWithin reports whether path lies strictly inside root
func isWithin(root, path string) bool {
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
