package logger

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogEntry represents a parsed log entry
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Category  string                 `json:"category"`
	Caller    string                 `json:"caller,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogReader provides functionality to read and stream log files
type LogReader struct {
	logsDir      string
	pollInterval time.Duration
	now          func() time.Time
}

// NewLogReader creates a new log reader
func NewLogReader(logsDir string) *LogReader {
	return &LogReader{
		logsDir:      logsDir,
		pollInterval: 100 * time.Millisecond,
		now:          time.Now,
	}
}

// GetLogPath returns the path to a category log file for a specific date
func (lr *LogReader) GetLogPath(category LogCategory, date time.Time) string {
	filename := fmt.Sprintf("%s-%s.log", category, date.Format("20060102"))
	return filepath.Join(lr.logsDir, filename)
}

// GetTodayLogPath returns the path to today's log file for a category
func (lr *LogReader) GetTodayLogPath(category LogCategory) string {
	return lr.GetLogPath(category, lr.now())
}

// parseLine decodes one JSON line. Keys beyond the fixed ones land in Fields;
// non-JSON lines become plain info entries.
func parseLine(category LogCategory, line string) LogEntry {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{
			Timestamp: time.Now().Format(time.RFC3339),
			Level:     "info",
			Message:   line,
			Category:  string(category),
		}
	}

	entry := LogEntry{Category: string(category)}
	for key, value := range raw {
		str, _ := value.(string)
		switch key {
		case "timestamp":
			entry.Timestamp = str
		case "level":
			entry.Level = str
		case "message":
			entry.Message = str
		case "caller":
			entry.Caller = str
		case "category":
			if str != "" {
				entry.Category = str
			}
		default:
			if entry.Fields == nil {
				entry.Fields = make(map[string]interface{})
			}
			entry.Fields[key] = value
		}
	}
	return entry
}

// ReadLogs reads the last limit entries of a category log file
func (lr *LogReader) ReadLogs(category LogCategory, date time.Time, limit int) ([]LogEntry, error) {
	entries, _, err := lr.readLogs(category, lr.GetLogPath(category, date), limit, true)
	return entries, err
}

// ReadTodayLogs reads today's log entries for a category
func (lr *LogReader) ReadTodayLogs(category LogCategory, limit int) ([]LogEntry, error) {
	return lr.ReadLogs(category, lr.now(), limit)
}

// ReadTodayLogsWithOffset reads today's last limit entries and returns the
// byte offset just past them. Passing the offset to TailLogs continues
// without gaps or repeats. A trailing line without newline is left for the tail.
func (lr *LogReader) ReadTodayLogsWithOffset(category LogCategory, limit int) ([]LogEntry, int64, error) {
	return lr.readLogs(category, lr.GetTodayLogPath(category), limit, false)
}

func (lr *LogReader) readLogs(category LogCategory, path string, limit int, partial bool) ([]LogEntry, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []LogEntry{}, 0, nil
		}
		return nil, 0, err
	}
	defer file.Close()

	var lines []string
	var offset int64
	reader := bufio.NewReader(file)
	for {
		chunk, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, err
		}
		complete := err == nil
		if complete || partial {
			offset += int64(len(chunk))
			if line := strings.TrimSpace(chunk); line != "" {
				lines = append(lines, line)
			}
		}
		if !complete {
			break
		}
	}

	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	entries := make([]LogEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, parseLine(category, line))
	}
	return entries, offset, nil
}

// SearchLogs returns entries whose message, level, caller or field values
// contain query, case-insensitively
func (lr *LogReader) SearchLogs(category LogCategory, date time.Time, query string, limit int) ([]LogEntry, error) {
	entries, err := lr.ReadLogs(category, date, 0)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	filtered := []LogEntry{}
	for _, entry := range entries {
		if entryMatches(entry, query) {
			filtered = append(filtered, entry)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered, nil
}

func entryMatches(entry LogEntry, query string) bool {
	if strings.Contains(strings.ToLower(entry.Message), query) ||
		strings.Contains(strings.ToLower(entry.Level), query) ||
		strings.Contains(strings.ToLower(entry.Caller), query) {
		return true
	}
	for _, value := range entry.Fields {
		if strings.Contains(strings.ToLower(fmt.Sprint(value)), query) {
			return true
		}
	}
	return false
}

// TailLogs follows today's log file for a category from offset and sends new
// entries until ctx is done. It waits for the file to appear and moves on to
// the next day's file once that one exists.
func (lr *LogReader) TailLogs(ctx context.Context, category LogCategory, offset int64, entryChan chan<- LogEntry) error {
	logPath := lr.GetTodayLogPath(category)

	var file *os.File
	for {
		f, err := os.Open(logPath)
		if err == nil {
			file = f
			break
		}
		if !os.IsNotExist(err) {
			return err
		}
		if !lr.wait(ctx) {
			return nil
		}
		if next := lr.GetTodayLogPath(category); next != logPath {
			logPath, offset = next, 0
		}
	}
	defer func() { file.Close() }()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	reader := bufio.NewReader(file)
	var pending string
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		chunk, err := reader.ReadString('\n')
		pending += chunk
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}

			// The old file is drained; switch once the new day's file exists.
			if next := lr.GetTodayLogPath(category); next != logPath {
				if f, err := os.Open(next); err == nil {
					file.Close()
					file, logPath = f, next
					reader = bufio.NewReader(file)
					if line := strings.TrimSpace(pending); line != "" && !lr.send(ctx, entryChan, parseLine(category, line)) {
						return nil
					}
					pending = ""
					continue
				}
			}

			if !lr.wait(ctx) {
				return nil
			}
			continue
		}

		line := strings.TrimSpace(pending)
		pending = ""
		if line == "" {
			continue
		}

		if !lr.send(ctx, entryChan, parseLine(category, line)) {
			return nil
		}
	}
}

// wait sleeps one poll interval, reporting false when ctx is done first
func (lr *LogReader) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(lr.pollInterval):
		return true
	}
}

func (lr *LogReader) send(ctx context.Context, entryChan chan<- LogEntry, entry LogEntry) bool {
	select {
	case entryChan <- entry:
		return true
	case <-ctx.Done():
		return false
	}
}
