package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/savevid-go/internal/app"
	"github.com/yourusername/savevid-go/internal/domain"
)

// Version is reported by /health; overridden at build time with -ldflags
var Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	expiryMgr *app.ExpiryManager
	service   *app.DownloadService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(expiryMgr *app.ExpiryManager, service *app.DownloadService) *HealthHandler {
	return &HealthHandler{
		expiryMgr: expiryMgr,
		service:   service,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Expiry  struct {
		Running bool `json:"running"`
	} `json:"expiry"`
	Files domain.FileStats `json:"files"`
	Error string           `json:"error,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: Version,
	}
	response.Expiry.Running = h.expiryMgr.IsRunning()

	stats, err := h.service.Stats()
	if err != nil {
		response.Status = "degraded"
		response.Error = err.Error()
	} else {
		response.Files = *stats
	}

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.expiryMgr.IsRunning() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "expiry manager not running",
		})
		return
	}

	if _, err := h.service.Stats(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "file registry unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
