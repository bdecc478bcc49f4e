package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/savevid-go/internal/controller"
	"github.com/yourusername/savevid-go/internal/domain"
)

// Styles with adaptive colors for light/dark backgrounds
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.AdaptiveColor{Light: "63", Dark: "62"})

	inactiveTabStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	successBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"}).
			Padding(0, 1)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Padding(0, 1)
)

// View renders the form
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	screen := m.ctrl.Screen()

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎬 savevid"))
	b.WriteString("\n\n")
	b.WriteString(m.viewTabs(screen.ActivePlatform))
	b.WriteString("\n\n")
	b.WriteString(m.urlInput.View())
	b.WriteString("\n\n")

	switch {
	case m.loading():
		b.WriteString(m.spinner.View() + " Downloading, please wait...")
	case screen.Panel == controller.PanelResult && screen.Result != nil:
		b.WriteString(m.viewResult(screen.Result))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("←/→ or 1-4: platform • enter: download • esc: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewTabs(active domain.Platform) string {
	tabs := make([]string, 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		info := p.Info()
		label := info.Emoji + " " + info.Name
		if p == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewResult(result *controller.Result) string {
	if !result.IsSuccess() {
		return errorBoxStyle.Render(result.Text())
	}

	// Show an absolute link so it can be opened from the terminal.
	shown := *result
	shown.DownloadLink = m.baseURL + result.DownloadLink
	return successBoxStyle.Render(shown.Text())
}
