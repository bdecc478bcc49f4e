package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/savevid-go/internal/app"
	"github.com/yourusername/savevid-go/internal/domain"
	"go.uber.org/zap"
)

// DownloadHandler handles download and file retrieval requests
type DownloadHandler struct {
	service *app.DownloadService
	logger  *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(service *app.DownloadService, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		service: service,
		logger:  logger,
	}
}

// Download handles POST /download. Failures are payloads, not status codes.
func (h *DownloadHandler) Download(c *gin.Context) {
	h.download(c, "")
}

// DownloadPlatform handles POST /download/:platform
func (h *DownloadHandler) DownloadPlatform(c *gin.Context) {
	platform := domain.Platform(c.Param("platform"))
	if !domain.ValidatePlatform(platform) {
		c.JSON(http.StatusNotFound, domain.NewFailureResponse("unknown platform: "+string(platform)))
		return
	}
	h.download(c, platform)
}

func (h *DownloadHandler) download(c *gin.Context, platform domain.Platform) {
	var req domain.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Malformed download request", zap.Error(err))
		c.JSON(http.StatusOK, domain.NewFailureResponse("invalid request body: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, h.service.Download(c.Request.Context(), req.URL, platform))
}

// GetFile handles GET /get-file/:id. A link works once.
func (h *DownloadHandler) GetFile(c *gin.Context) {
	id := c.Param("id")

	file, err := h.service.ClaimFile(id)
	if err != nil {
		if errors.Is(err, app.ErrFileNotFound) || errors.Is(err, app.ErrFileMissing) {
			c.String(http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("Failed to claim file", zap.String("id", id), zap.Error(err))
		c.String(http.StatusInternalServerError, "Error: %v", err)
		return
	}

	c.FileAttachment(file.FilePath, filepath.Base(file.FilePath))
}
