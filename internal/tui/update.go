package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/savevid-go/internal/domain"
)

var (
	keyQuit   = key.NewBinding(key.WithKeys("esc", "ctrl+c"))
	keyLeft   = key.NewBinding(key.WithKeys("left"))
	keyRight  = key.NewBinding(key.WithKeys("right"))
	keySubmit = key.NewBinding(key.WithKeys("enter"))
	keyTab    = key.NewBinding(key.WithKeys("1", "2", "3", "4"))
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case submitDoneMsg:
		m.pending = false
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keyLeft):
		return m.shiftPlatform(-1), nil

	case key.Matches(msg, keyRight):
		return m.shiftPlatform(1), nil

	// Digits pick a tab only while the input is empty, so URLs can contain them.
	case key.Matches(msg, keyTab) && m.urlInput.Value() == "":
		idx := int(msg.Runes[0] - '1')
		return m.selectPlatform(domain.Platforms[idx]), nil

	case key.Matches(msg, keySubmit):
		if m.loading() {
			return m, nil
		}
		m.pending = true
		return m, tea.Batch(m.spinner.Tick, submitURL(m.ctrl, m.urlInput.Value()))
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	m.ctrl.SetURL(m.urlInput.Value())
	return m, cmd
}
