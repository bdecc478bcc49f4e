// Package tui is a terminal front end for the download form.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/savevid-go/internal/controller"
	"github.com/yourusername/savevid-go/internal/domain"
)

// Model is the Bubbletea model for the download form
type Model struct {
	ctrl    *controller.Controller
	baseURL string

	urlInput textinput.Model
	spinner  spinner.Model

	// pending covers the gap between Enter and the controller entering Loading
	pending  bool
	width    int
	quitting bool
}

// NewModel creates a TUI model over ctrl. baseURL prefixes download links.
func NewModel(ctrl *controller.Controller, baseURL string) Model {
	screen := ctrl.Screen()

	urlInput := textinput.New()
	urlInput.Placeholder = screen.Placeholder
	urlInput.Focus()
	urlInput.CharLimit = 512
	urlInput.Width = 70

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctrl:     ctrl,
		baseURL:  baseURL,
		urlInput: urlInput,
		spinner:  s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// loading reports whether a submission is in flight
func (m Model) loading() bool {
	return m.pending || m.ctrl.Screen().State == controller.StateLoading
}

// selectPlatform switches tabs and resets the input to the new placeholder
func (m Model) selectPlatform(platform domain.Platform) Model {
	m.ctrl.SelectPlatform(platform)
	m.urlInput.SetValue("")
	m.urlInput.Placeholder = m.ctrl.Screen().Placeholder
	return m
}

// shiftPlatform moves the active tab by delta, wrapping around
func (m Model) shiftPlatform(delta int) Model {
	active := m.ctrl.Screen().ActivePlatform
	idx := 0
	for i, p := range domain.Platforms {
		if p == active {
			idx = i
			break
		}
	}
	n := len(domain.Platforms)
	return m.selectPlatform(domain.Platforms[((idx+delta)%n+n)%n])
}
