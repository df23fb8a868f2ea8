package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/tfrgo/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneParameters:
		content = m.renderParameters()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4 // Title (2) + status (1) + padding (1)
	if contentHeight < 0 {
		contentHeight = 0
	}

	contentContainer := lipgloss.NewStyle().
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		contentContainer,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("TFRGO - Severance & Pension Fund Simulator")

	breadcrumb := m.currentScene.String()
	if m.configPath != "" {
		breadcrumb = fmt.Sprintf("%s / %s", breadcrumb, m.configPath)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		SubtitleStyle.Render(breadcrumb),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("p", "parameters"),
		formatShortcut("r", "results"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	if m.status != "" {
		note := SubtitleStyle.Render(m.status)
		width := m.width - lipgloss.Width(statusText) - lipgloss.Width(note) - 2
		statusText = statusText + strings.Repeat(" ", max(1, width)) + note
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderLoading renders a loading message
func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return m.renderApp(tuistyles.BorderStyle.Render("⠋ " + message))
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	)
	return m.renderApp(content)
}

// renderParameters renders the inputs next to a short summary of the latest result
func (m Model) renderParameters() string {
	params := m.parametersModel.View()
	if m.result == nil {
		return params
	}

	var summary []string
	summary = append(summary, TitleStyle.Render("Best"))
	for _, v := range m.result.WinningVehicles() {
		summary = append(summary, fmt.Sprintf("%-24s %s", v.Label, tuistyles.FormatCurrency(v.TotalNet)))
	}
	for _, s := range m.result.WinningStrategies() {
		summary = append(summary, fmt.Sprintf("%-24s %s", s.Label, tuistyles.FormatCurrency(s.TotalNet)))
	}
	summary = append(summary, "", HelpStyle.Render("r for the full tables"))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		params,
		"  ",
		tuistyles.BorderStyle.Padding(0, 1).Render(strings.Join(summary, "\n")),
	)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	helpText := `
TFRGO - Severance & Pension Fund Simulator

KEYBOARD SHORTCUTS:
  p        Navigate to Parameters
  r        Navigate to Results
  ?        Show this help
  ESC      Go back
  q/Ctrl+C Quit

PARAMETERS:
  ↑/↓ or k/j   Select an input
  ←/→ or -/+   Adjust the selected input (recalculates)
  x            Reset to the loaded inputs
  Ctrl+S       Save the inputs to the config file

RESULTS:
  Vehicles compare leaving the severance with the employer against the
  negotiated fund, open fund, individual plan and external plan.
  Strategies split the monthly saving between fund and external plan.
  Winners are highlighted.
`

	return BorderStyle.Render(helpText)
}
