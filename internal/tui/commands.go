package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/savevid-go/internal/controller"
)

// submitURL runs one submission; the outcome is read back from the controller
func submitURL(ctrl *controller.Controller, url string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Submit(context.Background(), url)
		return submitDoneMsg{err: err}
	}
}
