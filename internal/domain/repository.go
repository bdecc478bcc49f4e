package domain

import "time"

// FileRepository defines the interface for transient file persistence
type FileRepository interface {
	// Create registers a new file
	Create(file *MediaFile) error

	// Update updates an existing file. Missing records are not recreated.
	Update(file *MediaFile) error

	// MarkDelivered atomically moves a ready file that has not expired at
	// now to delivered. It reports whether this call won the claim.
	MarkDelivered(id string, now time.Time) (bool, error)

	// Delete deletes a file record by ID
	Delete(id string) error

	// FindByID finds a file by ID, returning nil when it does not exist
	FindByID(id string) (*MediaFile, error)

	// FindExpired finds all files whose expiry is at or before now
	FindExpired(now time.Time) ([]*MediaFile, error)

	// GetStats returns registry statistics
	GetStats() (*FileStats, error)
}

// FileStats represents registry statistics
type FileStats struct {
	Total     int64 `json:"total"`
	Ready     int64 `json:"ready"`
	Delivered int64 `json:"delivered"`
}
