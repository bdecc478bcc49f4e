package controller

import (
	"fmt"
	"strings"

	"github.com/yourusername/savevid-go/internal/domain"
)

const (
	expiryNotice = "💡 The file is deleted automatically after 1 minute"
	failureHint  = "Make sure the URL is valid and the video is still available"
)

// ResultKind tells which outcome a Result renders
type ResultKind string

const (
	ResultSuccess   ResultKind = "success"
	ResultFailure   ResultKind = "failure"   // backend reported success=false
	ResultTransport ResultKind = "transport" // request or decode error
)

// Badge is the platform label shown next to the title
type Badge struct {
	Emoji string
	Name  string
}

// Result is the rendered content of the result panel
type Result struct {
	Kind         ResultKind
	Title        string
	Uploader     string
	Duration     int
	Badge        Badge
	DownloadLink string
	Notice       string
	Message      string
	Hint         string
}

// FileLink builds the retrieval path for a file identifier
func FileLink(fileID string) string {
	return "/get-file/" + fileID
}

// RenderResponse renders a structurally valid backend payload
func RenderResponse(resp *domain.DownloadResponse) *Result {
	if !resp.Success {
		return &Result{
			Kind:    ResultFailure,
			Message: resp.Error,
			Hint:    failureHint,
		}
	}

	info := resp.Platform.Info()
	return &Result{
		Kind:         ResultSuccess,
		Title:        resp.Title,
		Uploader:     resp.Uploader,
		Duration:     resp.Duration,
		Badge:        Badge{Emoji: info.Emoji, Name: info.Name},
		DownloadLink: FileLink(resp.FileID),
		Notice:       expiryNotice,
	}
}

// RenderTransportError renders a failure to reach or decode the backend
func RenderTransportError(err error) *Result {
	return &Result{
		Kind:    ResultTransport,
		Message: fmt.Sprintf("An error occurred: %s", err.Error()),
	}
}

// IsSuccess reports whether the result carries a download link
func (r *Result) IsSuccess() bool {
	return r.Kind == ResultSuccess
}

// Text renders the result as plain text
func (r *Result) Text() string {
	var b strings.Builder

	switch r.Kind {
	case ResultSuccess:
		fmt.Fprintf(&b, "📝 Title: %s [%s %s]\n", r.Title, r.Badge.Emoji, r.Badge.Name)
		fmt.Fprintf(&b, "👤 Uploader: %s\n", r.Uploader)
		fmt.Fprintf(&b, "⏱️ Duration: %d seconds\n", r.Duration)
		fmt.Fprintf(&b, "⬇️ Download: %s\n", r.DownloadLink)
		b.WriteString(r.Notice)
	case ResultFailure:
		fmt.Fprintf(&b, "❌ %s\n", r.Message)
		b.WriteString(r.Hint)
	default:
		fmt.Fprintf(&b, "❌ %s", r.Message)
	}

	return b.String()
}
