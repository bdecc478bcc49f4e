package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/savevid-go/api"
	"github.com/yourusername/savevid-go/api/handlers"
	"github.com/yourusername/savevid-go/internal/app"
	"github.com/yourusername/savevid-go/internal/domain"
	"github.com/yourusername/savevid-go/internal/infrastructure"
	"github.com/yourusername/savevid-go/pkg/logger"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	detach     = flag.Bool("detach", false, "Run the server in the background")
)

func main() {
	flag.Parse()

	if *detach {
		startAsDaemon()
		return
	}

	runServer()
}

// startAsDaemon re-executes the binary without -detach in a new session
func startAsDaemon() {
	execPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get executable path: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}

	args := []string{}
	if *configPath != "" {
		args = append(args, "-config", *configPath)
	}

	cmd := exec.Command(execPath, args...)
	cmd.Dir = cwd
	cmd.Env = os.Environ()
	setDaemonAttr(cmd)

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", os.DevNull, err)
		os.Exit(1)
	}
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start daemon: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Server started as daemon (PID: %d)\n", cmd.Process.Pid)
}

func runServer() {
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	general, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		general = logger.NewDefault()
		general.Warn("Falling back to default logger", zap.Error(err))
	}
	defer general.Sync()

	// Categorized JSON logs: download, expiry, access, error
	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
		Level:   config.Logging.Level,
		LogsDir: config.Logging.LogsDir,
		General: general,
	})
	if err != nil {
		general.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer multiLog.Close()

	logAdapter := logger.NewLoggerAdapter(multiLog)
	log := logAdapter.General()

	log.Info("Starting savevid server",
		zap.String("version", handlers.Version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("temp_dir", config.Download.TempDir),
		zap.Duration("file_ttl", config.Download.FileTTL))

	if err := createDirectories(config); err != nil {
		log.Fatal("Failed to create directories", zap.Error(err))
	}

	repo, err := infrastructure.NewSQLiteFileRepository(config.Storage.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	notifier := infrastructure.NewNotificationService(&config.Notification, log)
	metrics := infrastructure.NewMetrics()
	extractor := infrastructure.NewYTDLPExtractor(&config.Download, config.Logging.LogsDir, logAdapter.Download())

	service := app.NewDownloadService(repo, extractor, notifier, metrics, &config.Download, logAdapter)
	expiryMgr := app.NewExpiryManager(repo, notifier, metrics, &config.Download, logAdapter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := expiryMgr.Start(ctx); err != nil {
		log.Fatal("Failed to start expiry manager", zap.Error(err))
	}

	router := api.SetupRouter(service, expiryMgr, metrics, logAdapter, config.Logging.LogsDir)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := expiryMgr.Stop(); err != nil {
		log.Error("Error stopping expiry manager", zap.Error(err))
	}

	log.Info("Server exited")
}

func createDirectories(config *domain.Config) error {
	dirs := []string{
		config.Download.TempDir,
		config.Logging.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
