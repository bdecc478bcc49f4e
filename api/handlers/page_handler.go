package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/savevid-go/internal/domain"
)

// platformTab is one tab of the download page
type platformTab struct {
	Key         string
	Emoji       string
	Name        string
	Placeholder string
	Active      bool
}

// PageHandler serves the download page
type PageHandler struct {
	tabs []platformTab
}

// NewPageHandler builds the tab row from the platform table
func NewPageHandler() *PageHandler {
	tabs := make([]platformTab, 0, len(domain.Platforms))
	for i, p := range domain.Platforms {
		info := p.Info()
		tabs = append(tabs, platformTab{
			Key:         string(p),
			Emoji:       info.Emoji,
			Name:        info.Name,
			Placeholder: info.Placeholder,
			Active:      i == 0,
		})
	}
	return &PageHandler{tabs: tabs}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Platforms":   h.tabs,
		"Placeholder": h.tabs[0].Placeholder,
	})
}

// Favicon handles the favicon routes with an empty response
func (h *PageHandler) Favicon(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
