package tuimsg

import (
	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/domain"
)

// ConfigLoadedMsg signals configuration has been loaded
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ParametersChangedMsg carries the edited inputs; it triggers a recalculation
type ParametersChangedMsg struct {
	Simulation domain.SimulationConfig
}

// CalculationCompleteMsg signals a calculation has finished
type CalculationCompleteMsg struct {
	Result *compare.ScenarioResult
	Err    error
}

// SaveConfigMsg asks the root model to write the edited inputs back to the config file
type SaveConfigMsg struct {
	Simulation domain.SimulationConfig
}

// SaveCompleteMsg signals a save operation has finished
type SaveCompleteMsg struct {
	Filename string
	Err      error
}
