package logger

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "server.log")

	log, err := New(Config{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)
	log.Info("hello", zap.String("k", "v"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "chatty", Format: "console", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
}

func TestMultiLogger_RequiresDir(t *testing.T) {
	_, err := NewMultiLogger(MultiLoggerConfig{})
	assert.Error(t, err)
}

func TestMultiLogger_WritesCategoryFiles(t *testing.T) {
	dir := t.TempDir()
	ml, err := NewMultiLogger(MultiLoggerConfig{Level: "info", LogsDir: dir})
	require.NoError(t, err)

	ml.LogDownloadEvent("download_succeeded", zap.String("platform", "tiktok"))
	ml.LogExpiryEvent("file_expired", zap.String("file_id", "abc"))
	ml.LogError(CategoryDownload, "extract failed", zap.String("platform", "youtube"))
	require.NoError(t, ml.Close())

	reader := NewLogReader(dir)

	downloads, err := reader.ReadTodayLogs(CategoryDownload, 0)
	require.NoError(t, err)
	require.Len(t, downloads, 2)
	assert.Equal(t, "download_succeeded", downloads[0].Message)
	assert.Equal(t, "download", downloads[0].Category)
	assert.Equal(t, "tiktok", downloads[0].Fields["platform"])
	assert.Equal(t, "error", downloads[1].Level)

	expiry, err := reader.ReadTodayLogs(CategoryExpiry, 0)
	require.NoError(t, err)
	require.Len(t, expiry, 1)
	assert.Equal(t, "abc", expiry[0].Fields["file_id"])

	errs, err := reader.ReadTodayLogs(CategoryError, 0)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "extract failed", errs[0].Message)
}

func TestLogReader_MissingFileIsEmpty(t *testing.T) {
	entries, err := NewLogReader(t.TempDir()).ReadTodayLogs(CategoryAccess, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func writeLog(t *testing.T, reader *LogReader, category LogCategory, lines ...string) {
	t.Helper()
	var data []byte
	for _, line := range lines {
		data = append(data, line+"\n"...)
	}
	require.NoError(t, os.WriteFile(reader.GetTodayLogPath(category), data, 0644))
}

func TestLogReader_LimitAndPlainLines(t *testing.T) {
	reader := NewLogReader(t.TempDir())
	writeLog(t, reader, CategoryAccess,
		`{"level":"info","message":"one"}`,
		`{"level":"info","message":"two"}`,
		`not json at all`,
	)

	entries, err := reader.ReadTodayLogs(CategoryAccess, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Message)
	assert.Equal(t, "not json at all", entries[1].Message)
	assert.Equal(t, "access", entries[1].Category)
}

func TestLogReader_Search(t *testing.T) {
	reader := NewLogReader(t.TempDir())
	writeLog(t, reader, CategoryDownload,
		`{"level":"info","message":"download_succeeded","platform":"tiktok"}`,
		`{"level":"error","message":"extract failed","platform":"youtube"}`,
		`{"level":"info","message":"download_succeeded","platform":"youtube"}`,
	)

	matches, err := reader.SearchLogs(CategoryDownload, time.Now(), "YouTube", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = reader.SearchLogs(CategoryDownload, time.Now(), "youtube", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "download_succeeded", matches[0].Message)

	matches, err = reader.SearchLogs(CategoryDownload, time.Now(), "vimeo", 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func appendLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	for _, line := range lines {
		_, err = f.WriteString(line + "\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())
}

func startTail(t *testing.T, reader *LogReader, category LogCategory, offset int64) (chan LogEntry, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	entries := make(chan LogEntry, 10)
	done := make(chan error, 1)
	go func() { done <- reader.TailLogs(ctx, category, offset, entries) }()
	return entries, func() {
		cancel()
		assert.NoError(t, <-done)
	}
}

func nextEntry(t *testing.T, entries chan LogEntry) LogEntry {
	t.Helper()
	select {
	case entry := <-entries:
		return entry
	case <-time.After(2 * time.Second):
		t.Fatal("tail did not deliver an entry")
		return LogEntry{}
	}
}

func TestLogReader_Tail(t *testing.T) {
	reader := NewLogReader(t.TempDir())
	reader.pollInterval = 10 * time.Millisecond
	writeLog(t, reader, CategoryExpiry, `{"level":"info","message":"old"}`)

	replay, offset, err := reader.ReadTodayLogsWithOffset(CategoryExpiry, 50)
	require.NoError(t, err)
	require.Len(t, replay, 1)

	entries, stop := startTail(t, reader, CategoryExpiry, offset)
	appendLog(t, reader.GetTodayLogPath(CategoryExpiry), `{"level":"info","message":"new"}`)

	assert.Equal(t, "new", nextEntry(t, entries).Message)
	stop()
}

func TestLogReader_TailResumesAfterReplay(t *testing.T) {
	reader := NewLogReader(t.TempDir())
	reader.pollInterval = 10 * time.Millisecond
	path := reader.GetTodayLogPath(CategoryDownload)
	appendLog(t, path, `{"level":"info","message":"first"}`)

	replay, offset, err := reader.ReadTodayLogsWithOffset(CategoryDownload, 50)
	require.NoError(t, err)
	require.Len(t, replay, 1)

	// written after the replay but before the tail starts
	appendLog(t, path, `{"level":"info","message":"between"}`)
	entries, stop := startTail(t, reader, CategoryDownload, offset)
	appendLog(t, path, `{"level":"info","message":"after"}`)

	assert.Equal(t, "between", nextEntry(t, entries).Message)
	assert.Equal(t, "after", nextEntry(t, entries).Message)
	stop()
}

func TestLogReader_ReplayLeavesPartialLineToTail(t *testing.T) {
	reader := NewLogReader(t.TempDir())
	reader.pollInterval = 10 * time.Millisecond
	path := reader.GetTodayLogPath(CategoryAccess)
	appendLog(t, path, `{"level":"info","message":"done"}`)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"level":"info",`)
	require.NoError(t, err)

	replay, offset, err := reader.ReadTodayLogsWithOffset(CategoryAccess, 50)
	require.NoError(t, err)
	require.Len(t, replay, 1)
	assert.Equal(t, "done", replay[0].Message)

	entries, stop := startTail(t, reader, CategoryAccess, offset)
	_, err = f.WriteString(`"message":"half"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "half", nextEntry(t, entries).Message)
	stop()
}

func TestLogReader_TailWaitsForFile(t *testing.T) {
	reader := NewLogReader(t.TempDir())
	reader.pollInterval = 10 * time.Millisecond

	replay, offset, err := reader.ReadTodayLogsWithOffset(CategoryError, 50)
	require.NoError(t, err)
	assert.Empty(t, replay)
	assert.Zero(t, offset)

	entries, stop := startTail(t, reader, CategoryError, offset)
	time.Sleep(30 * time.Millisecond)
	appendLog(t, reader.GetTodayLogPath(CategoryError),
		`{"level":"error","message":"one"}`,
		`{"level":"error","message":"two"}`,
	)

	assert.Equal(t, "one", nextEntry(t, entries).Message)
	assert.Equal(t, "two", nextEntry(t, entries).Message)
	stop()
}

func TestLogReader_TailRollsOverToNextDay(t *testing.T) {
	reader := NewLogReader(t.TempDir())
	reader.pollInterval = 10 * time.Millisecond

	var mu sync.Mutex
	day := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	reader.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return day
	}

	firstPath := reader.GetTodayLogPath(CategoryExpiry)
	appendLog(t, firstPath, `{"level":"info","message":"yesterday"}`)
	_, offset, err := reader.ReadTodayLogsWithOffset(CategoryExpiry, 50)
	require.NoError(t, err)

	entries, stop := startTail(t, reader, CategoryExpiry, offset)
	appendLog(t, firstPath, `{"level":"info","message":"last of day"}`)
	assert.Equal(t, "last of day", nextEntry(t, entries).Message)

	mu.Lock()
	day = day.Add(2 * time.Minute)
	mu.Unlock()
	nextPath := reader.GetTodayLogPath(CategoryExpiry)
	require.NotEqual(t, firstPath, nextPath)
	appendLog(t, nextPath, `{"level":"info","message":"first of day"}`)

	assert.Equal(t, "first of day", nextEntry(t, entries).Message)
	stop()
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory("queue"))
}

func TestSingleLoggerAdapter(t *testing.T) {
	adapter := NewSingleLoggerAdapter(zap.NewNop())
	assert.NotNil(t, adapter.Download())
	assert.NotNil(t, adapter.Expiry())
	assert.Empty(t, adapter.LogsDir())
	adapter.LogError(CategoryDownload, "x")
	adapter.LogDownloadEvent("y")
	adapter.LogExpiryEvent("z")
}
