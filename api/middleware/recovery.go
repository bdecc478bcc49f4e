package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/savevid-go/internal/domain"
	"github.com/yourusername/savevid-go/pkg/logger"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a JSON failure payload with status 500
func Recovery(logAdapter *logger.LoggerAdapter) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logAdapter.LogError(logger.CategoryAccess, "Panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.String("client_ip", c.ClientIP()),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, domain.NewFailureResponse("Internal server error"))
			}
		}()
		c.Next()
	}
}
