package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/config"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/rgehrsitz/tfrgo/internal/tui/scenes"
	"github.com/rgehrsitz/tfrgo/internal/tui/tuimsg"
)

// DefaultConfigFile is where inputs are saved when no config file was given
const DefaultConfigFile = "tfr_config.yaml"

// interactiveScenarioName labels results produced from the sliders
const interactiveScenarioName = "interactive"

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Configuration and data
	configPath string
	config     *domain.Configuration
	result     *compare.ScenarioResult

	engine *compare.CompareEngine

	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string

	// Last save or calculation outcome shown in the status bar
	status string
}

// NewModel creates a new application model. An empty configPath starts from the default inputs.
func NewModel(configPath string) Model {
	return Model{
		currentScene:    SceneParameters,
		previousScene:   SceneParameters,
		configPath:      configPath,
		engine:          compare.NewCompareEngine(nil),
		parametersModel: scenes.NewParametersModel(),
		resultsModel:    scenes.NewResultsModel(),
		width:           80,
		height:          24,
		loading:         true,
		loadingMessage:  "Loading configuration...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

// Config returns the loaded configuration, nil until loading finishes
func (m Model) Config() *domain.Configuration {
	return m.config
}

// Result returns the latest calculation result
func (m Model) Result() *compare.ScenarioResult {
	return m.result
}

// CurrentScene returns the scene on display
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// Err returns the error on display, if any
func (m Model) Err() error {
	return m.err
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		if path == "" {
			return tuimsg.ConfigLoadedMsg{Config: parser.CreateExampleConfiguration()}
		}

		cfg, err := parser.LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.ConfigLoadedMsg{Config: cfg}
	}
}

// calculateCmd returns a command that evaluates every vehicle and strategy for the inputs
func calculateCmd(engine *compare.CompareEngine, sim domain.SimulationConfig) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.Evaluate(context.Background(), interactiveScenarioName, &sim)
		return tuimsg.CalculationCompleteMsg{Result: result, Err: err}
	}
}

// saveConfigCmd returns a command that writes the configuration to disk
func saveConfigCmd(path string, cfg domain.Configuration) tea.Cmd {
	if path == "" {
		path = DefaultConfigFile
	}
	return func() tea.Msg {
		err := config.NewInputParser().SaveConfiguration(&cfg, path)
		return tuimsg.SaveCompleteMsg{Filename: path, Err: err}
	}
}

// engineFor builds an engine bound to the configuration's rules
func engineFor(cfg *domain.Configuration) *compare.CompareEngine {
	return compare.NewCompareEngine(calculation.NewCalculationEngineWithRules(cfg.EffectiveRules()))
}
