package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/savevid-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteFileRepository implements domain.FileRepository using SQLite
type SQLiteFileRepository struct {
	db *gorm.DB
}

// NewSQLiteFileRepository opens (and migrates) the file registry at dbPath
func NewSQLiteFileRepository(dbPath string) (*SQLiteFileRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.MediaFile{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteFileRepository{db: db}, nil
}

// Timestamps are stored in UTC so expiry comparisons in SQL stay ordered.
func normalize(file *domain.MediaFile) {
	file.ExpiresAt = file.ExpiresAt.UTC()
	if file.DeliveredAt != nil {
		at := file.DeliveredAt.UTC()
		file.DeliveredAt = &at
	}
}

// Create registers a new file
func (r *SQLiteFileRepository) Create(file *domain.MediaFile) error {
	normalize(file)
	return r.db.Create(file).Error
}

// Update updates an existing file
func (r *SQLiteFileRepository) Update(file *domain.MediaFile) error {
	normalize(file)
	result := r.db.Model(file).Select("*").Updates(file)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkDelivered flips a ready, unexpired record to delivered in one
// statement. It reports false when the record is gone, already delivered
// or expired at now.
func (r *SQLiteFileRepository) MarkDelivered(id string, now time.Time) (bool, error) {
	now = now.UTC()
	result := r.db.Model(&domain.MediaFile{}).
		Where("id = ? AND status = ? AND expires_at > ?", id, domain.FileStatusReady, now).
		Updates(map[string]interface{}{
			"status":       domain.FileStatusDelivered,
			"delivered_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete deletes a file record by ID
func (r *SQLiteFileRepository) Delete(id string) error {
	return r.db.Delete(&domain.MediaFile{}, "id = ?", id).Error
}

// FindByID finds a file by ID, returning nil when it does not exist
func (r *SQLiteFileRepository) FindByID(id string) (*domain.MediaFile, error) {
	var file domain.MediaFile
	err := r.db.First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

// FindExpired finds all files whose expiry is at or before now, oldest first
func (r *SQLiteFileRepository) FindExpired(now time.Time) ([]*domain.MediaFile, error) {
	var files []*domain.MediaFile
	err := r.db.Where("expires_at <= ?", now.UTC()).
		Order("expires_at ASC").
		Find(&files).Error
	return files, err
}

// GetStats returns registry statistics
func (r *SQLiteFileRepository) GetStats() (*domain.FileStats, error) {
	stats := &domain.FileStats{}

	if err := r.db.Model(&domain.MediaFile{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.FileStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.MediaFile{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.FileStatusReady:
			stats.Ready = sc.Count
		case domain.FileStatusDelivered:
			stats.Delivered = sc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteFileRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
