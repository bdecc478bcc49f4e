package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yourusername/savevid-go/pkg/logger"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LogWebSocketHandler streams a log category over a WebSocket
type LogWebSocketHandler struct {
	logReader    *logger.LogReader
	logger       *zap.Logger
	pingInterval time.Duration
}

// NewLogWebSocketHandler creates a new WebSocket handler
func NewLogWebSocketHandler(logsDir string, log *zap.Logger) *LogWebSocketHandler {
	return &LogWebSocketHandler{
		logReader:    logger.NewLogReader(logsDir),
		logger:       log,
		pingInterval: 30 * time.Second,
	}
}

// HandleWebSocket handles GET /api/v1/logs/stream?category=<name>. The last
// 50 entries are replayed, then new ones follow as they are written.
func (h *LogWebSocketHandler) HandleWebSocket(c *gin.Context) {
	category := logger.LogCategory(c.DefaultQuery("category", string(logger.CategoryDownload)))
	if !logger.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket client connected",
		zap.String("category", string(category)),
		zap.String("remote_addr", c.Request.RemoteAddr))

	// The tail resumes where the replay stopped.
	entries, offset, err := h.logReader.ReadTodayLogsWithOffset(category, 50)
	if err != nil {
		h.logger.Warn("Failed to replay log entries", zap.Error(err))
		offset = 0
	}
	for _, entry := range entries {
		if err := writeEntry(conn, entry); err != nil {
			return
		}
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	entryChan := make(chan logger.LogEntry, 100)
	go func() {
		if err := h.logReader.TailLogs(ctx, category, offset, entryChan); err != nil {
			h.logger.Error("Log tailing error", zap.Error(err))
		}
	}()

	// Reads only detect the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case entry := <-entryChan:
			if err := writeEntry(conn, entry); err != nil {
				h.logger.Debug("Failed to send log entry", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func writeEntry(conn *websocket.Conn, entry logger.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
