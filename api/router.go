package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/savevid-go/api/handlers"
	"github.com/yourusername/savevid-go/api/middleware"
	"github.com/yourusername/savevid-go/internal/app"
	"github.com/yourusername/savevid-go/internal/infrastructure"
	"github.com/yourusername/savevid-go/pkg/logger"
	"github.com/yourusername/savevid-go/web"
)

// SetupRouter sets up the HTTP router
func SetupRouter(
	service *app.DownloadService,
	expiryMgr *app.ExpiryManager,
	metrics *infrastructure.Metrics,
	logAdapter *logger.LoggerAdapter,
	logsDir string,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logAdapter))
	router.Use(middleware.Recovery(logAdapter))
	router.Use(middleware.CORS())

	// Page and embedded assets
	tmpl := template.Must(template.ParseFS(web.GetTemplatesFS(), "index.html"))
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(web.GetStaticFS()))

	pageHandler := handlers.NewPageHandler()
	router.GET("/", pageHandler.Index)
	router.GET("/favicon.ico", pageHandler.Favicon)
	router.GET("/favicon.png", pageHandler.Favicon)

	// Download endpoints
	downloadHandler := handlers.NewDownloadHandler(service, logAdapter.Download())
	router.POST("/download", downloadHandler.Download)
	router.POST("/download/:platform", downloadHandler.DownloadPlatform)
	router.GET("/get-file/:id", downloadHandler.GetFile)

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(expiryMgr, service)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Log endpoints
	v1 := router.Group("/api/v1")
	{
		logHandler := handlers.NewLogHandler(logsDir)
		wsHandler := handlers.NewLogWebSocketHandler(logsDir, logAdapter.General())
		logs := v1.Group("/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/stream", wsHandler.HandleWebSocket)
			logs.GET("/:category", logHandler.GetLogs)
			logs.GET("/:category/search", logHandler.SearchLogs)
			logs.GET("/:category/export", logHandler.ExportLogs)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
