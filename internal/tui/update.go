package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/tfrgo/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// Standard tea.Msg types
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.parametersModel.SetSize(msg.Width, msg.Height-4)
		m.resultsModel.SetSize(msg.Width, msg.Height-4)
		return m, nil

	// Custom messages
	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.ConfigLoadedMsg:
		m.config = msg.Config
		m.engine = engineFor(msg.Config)
		m.parametersModel.SetConfig(msg.Config.Simulation)
		m.loadingMessage = "Calculating..."
		return m, calculateCmd(m.engine, msg.Config.Simulation)

	case tuimsg.ParametersChangedMsg:
		if m.config != nil {
			m.config.Simulation = msg.Simulation
		}
		return m, calculateCmd(m.engine, msg.Simulation)

	case tuimsg.CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.result = msg.Result
		m.resultsModel.SetResult(msg.Result)
		return m, nil

	case tuimsg.SaveConfigMsg:
		if m.config == nil {
			return m, nil
		}
		cfg := *m.config
		cfg.Simulation = msg.Simulation
		return m, saveConfigCmd(m.configPath, cfg)

	case tuimsg.SaveCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = fmt.Sprintf("Saved to %s", msg.Filename)
		m.parametersModel.SetConfig(m.parametersModel.Config())
		return m, nil
	}

	// Delegate to scene-specific update handlers
	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	// Global keyboard shortcuts
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		return m.navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneParameters {
			target := m.previousScene
			if target == m.currentScene {
				target = SceneParameters
			}
			return m.navigate(target)
		}

	case "p":
		return m.navigate(SceneParameters)

	case "r":
		return m.navigate(SceneResults)
	}

	// Let the current scene handle other keys
	return m.updateCurrentScene(msg)
}

func (m Model) navigate(scene Scene) (tea.Model, tea.Cmd) {
	if m.currentScene == scene {
		return m, nil
	}
	return m, func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	}
	return m, cmd
}
