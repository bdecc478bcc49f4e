package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/savevid-go/internal/domain"
	"go.uber.org/zap"
)

// YTDLPExtractor implements domain.Extractor by running yt-dlp
type YTDLPExtractor struct {
	config  *domain.DownloadConfig
	logsDir string
	logger  *zap.Logger
}

// NewYTDLPExtractor creates an extractor; raw yt-dlp output goes to logsDir
func NewYTDLPExtractor(config *domain.DownloadConfig, logsDir string, logger *zap.Logger) *YTDLPExtractor {
	return &YTDLPExtractor{
		config:  config,
		logsDir: logsDir,
		logger:  logger,
	}
}

// ytdlpInfo is the subset of the --print-json document we use
type ytdlpInfo struct {
	Title       string  `json:"title"`
	Uploader    string  `json:"uploader"`
	Duration    float64 `json:"duration"`
	Filename    string  `json:"_filename"`
	AltFilename string  `json:"filename"`
}

// Args builds the yt-dlp argument list for url, writing into dir
func (e *YTDLPExtractor) Args(url, dir string) []string {
	format := e.config.Format
	if format == "" {
		format = "best"
	}

	args := []string{
		"-f", format,
		"-o", filepath.Join(dir, "%(title)s.%(ext)s"),
		"--no-warnings",
		"--quiet",
		"--print-json",
		"--no-simulate",
		"--restrict-filenames",
	}
	if e.config.NoCheckCertificate {
		args = append(args, "--no-check-certificate")
	}
	if e.config.UserAgent != "" {
		args = append(args, "--add-header", "User-Agent:"+e.config.UserAgent)
	}
	if e.config.CookieFile != "" && fileExists(e.config.CookieFile) {
		args = append(args, "--cookies", e.config.CookieFile)
	}
	return append(args, url)
}

// Extract downloads url into dir and reports what was saved
func (e *YTDLPExtractor) Extract(ctx context.Context, url string, platform domain.Platform, dir string) (*domain.MediaInfo, error) {
	args := e.Args(url, dir)

	downloadLog, err := e.openLogFile()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer downloadLog.Close()

	cmdLine := ShellEscapeCommand(e.config.YTDLPBinary, args...)
	writeLogHeader(downloadLog, string(platform), cmdLine)
	e.logger.Debug("Running yt-dlp", zap.String("platform", string(platform)), zap.String("cmd", cmdLine))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.YTDLPBinary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(downloadLog, &stderr)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		msg := ytdlpErrorMessage(stderr.String(), err)
		writeLogFooter(downloadLog, false, msg)
		return nil, errors.New(msg)
	}

	info := parseInfo(stdout.Bytes())

	filePath := info.Filename
	if filePath == "" {
		filePath = info.AltFilename
	}
	if filePath == "" || !fileExists(filePath) {
		filePath, err = newestMediaFile(dir)
		if err != nil {
			writeLogFooter(downloadLog, false, err.Error())
			return nil, err
		}
	}

	writeLogFooter(downloadLog, true, "Downloaded: "+filePath)

	return &domain.MediaInfo{
		FilePath: filePath,
		Title:    info.Title,
		Uploader: info.Uploader,
		Duration: int(info.Duration),
	}, nil
}

// parseInfo decodes the first JSON object printed by yt-dlp
func parseInfo(out []byte) ytdlpInfo {
	var info ytdlpInfo
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		if json.Unmarshal(line, &info) == nil {
			return info
		}
	}
	return info
}

// ytdlpErrorMessage prefers the last "ERROR:" line yt-dlp printed
func ytdlpErrorMessage(stderr string, runErr error) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	return fmt.Sprintf("yt-dlp failed: %v", runErr)
}

// newestMediaFile finds the most recently written media file in dir
func newestMediaFile(dir string) (string, error) {
	var newest string
	var newestMod time.Time

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isMediaFile(path) {
			return nil
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest, newestMod = path, info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan download directory: %w", err)
	}
	if newest == "" {
		return "", fmt.Errorf("no files downloaded")
	}
	return newest, nil
}

// openLogFile opens today's raw yt-dlp log
func (e *YTDLPExtractor) openLogFile() (*os.File, error) {
	if err := os.MkdirAll(e.logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	path := filepath.Join(e.logsDir, "ytdlp-"+time.Now().Format("20060102")+".log")
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// writeLogHeader writes the download start marker
func writeLogHeader(file *os.File, platform, cmdLine string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(file, "\n=== [%s] Download (%s) ===\n", timestamp, platform)
	fmt.Fprintf(file, "$ %s\n", cmdLine)
}

// writeLogFooter writes the download end marker
func writeLogFooter(file *os.File, success bool, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	fmt.Fprintf(file, "[%s] %s: %s\n", timestamp, status, message)
	file.WriteString("=== END ===\n\n")
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// isMediaFile checks if a file is a media file yt-dlp may have produced
func isMediaFile(path string) bool {
	if strings.HasSuffix(path, ".part") || strings.HasSuffix(path, ".info.json") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mkv", ".avi", ".mov", ".webm", ".m4v", ".flv", ".3gp",
		".m4a", ".mp3", ".jpg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
