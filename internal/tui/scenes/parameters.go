package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/rgehrsitz/tfrgo/internal/tui/components"
	"github.com/rgehrsitz/tfrgo/internal/tui/tuimsg"
	"github.com/rgehrsitz/tfrgo/internal/tui/tuistyles"
)

type parameterKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Reset key.Binding
	Save  key.Binding
}

func (k parameterKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Reset, k.Save}
}

func (k parameterKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var parameterKeys = parameterKeyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
	Left:  key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/-", "decrease")),
	Right: key.NewBinding(key.WithKeys("right", "+", "="), key.WithHelp("→/+", "increase")),
	Reset: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),
	Save:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
}

// ParametersModel represents the parameter editing scene
type ParametersModel struct {
	original      domain.SimulationConfig
	current       domain.SimulationConfig
	sliders       []*components.ParameterSlider
	focusedSlider int
	width         int
	height        int
	modified      bool
	help          help.Model
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	m := &ParametersModel{help: help.New()}
	m.SetConfig(domain.DefaultSimulationConfig())
	return m
}

// SetConfig replaces the inputs being edited and rebuilds the sliders
func (m *ParametersModel) SetConfig(cfg domain.SimulationConfig) {
	m.original = cfg
	m.current = cfg
	m.modified = false
	m.buildSliders()
}

// Config returns the edited inputs
func (m *ParametersModel) Config() domain.SimulationConfig {
	return m.current
}

// Modified reports whether the inputs differ from the loaded ones
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// Sliders returns the sliders in display order
func (m *ParametersModel) Sliders() []*components.ParameterSlider {
	return m.sliders
}

// FocusedSlider returns the slider that arrow keys adjust
func (m *ParametersModel) FocusedSlider() *components.ParameterSlider {
	if m.focusedSlider < len(m.sliders) {
		return m.sliders[m.focusedSlider]
	}
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// buildSliders creates one slider per editable input, with the steps of the input form
func (m *ParametersModel) buildSliders() {
	c := m.current
	years := decimal.NewFromInt(int64(c.HorizonYears))

	m.sliders = []*components.ParameterSlider{
		components.NewParameterSlider("Gross annual income", domain.ParamIncome, c.GrossAnnualIncome, dec("1000"), dec("200000"), dec("1000")).
			WithDescription("Gross yearly salary"),
		components.NewParameterSlider("Years of participation", domain.ParamHorizonYears, years,
			decimal.NewFromInt(domain.MinHorizonYears), decimal.NewFromInt(domain.MaxHorizonYears), dec("1")).
			WithUnit(components.UnitYears),
		components.NewParameterSlider("Fund gross return", domain.ParamReturnRate, c.GrossAnnualReturnRate, dec("0"), dec("0.15"), dec("0.005")).
			WithUnit(components.UnitPercent),
		components.NewParameterSlider("Inflation", domain.ParamInflation, c.InflationRate, dec("0"), dec("0.10"), dec("0.005")).
			WithUnit(components.UnitPercent).
			WithDescription("Drives the employer balance revaluation"),
		components.NewParameterSlider("External plan return", domain.ParamExternalReturn, c.ExternalPlanReturnRate, dec("0"), dec("0.15"), dec("0.005")).
			WithUnit(components.UnitPercent),
		components.NewParameterSlider("Monthly voluntary", domain.ParamMonthly, c.MonthlyVoluntaryContribution, dec("0"), dec("2000"), dec("20")),
		components.NewParameterSlider("Employer match", domain.ParamEmployerMatch, c.EmployerMatchRate, dec("0"), dec("0.05"), dec("0.0005")).
			WithUnit(components.UnitPercent).
			WithDescription("Share of income the employer adds to the negotiated fund"),
		components.NewParameterSlider("Minimum for match", domain.ParamMinimumVoluntary, c.MinimumVoluntaryRate, dec("0"), dec("0.05"), dec("0.0005")).
			WithUnit(components.UnitPercent),
		components.NewParameterSlider("Fund bond share", domain.ParamBondFraction, c.BondFraction, dec("0"), dec("1"), dec("0.05")).
			WithUnit(components.UnitPercent).
			WithDescription("Bond gains are taxed at the preferential rate"),
		components.NewParameterSlider("External plan bond share", domain.ParamExternalBondFraction, c.ExternalPlanBondFraction, dec("0"), dec("1"), dec("0.05")).
			WithUnit(components.UnitPercent),
	}

	if m.focusedSlider >= len(m.sliders) {
		m.focusedSlider = 0
	}
	m.sliders[m.focusedSlider].SetFocused(true)
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m *ParametersModel) handleKeyPress(msg tea.KeyMsg) (*ParametersModel, tea.Cmd) {
	switch {
	case key.Matches(msg, parameterKeys.Up):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, parameterKeys.Down):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, parameterKeys.Left):
		m.sliders[m.focusedSlider].Decrement()
		return m, m.applyChanges()

	case key.Matches(msg, parameterKeys.Right):
		m.sliders[m.focusedSlider].Increment()
		return m, m.applyChanges()

	case key.Matches(msg, parameterKeys.Reset):
		m.SetConfig(m.original)
		return m, m.changed()

	case key.Matches(msg, parameterKeys.Save):
		cfg := m.current
		return m, func() tea.Msg {
			return tuimsg.SaveConfigMsg{Simulation: cfg}
		}
	}

	return m, nil
}

func (m *ParametersModel) moveFocus(delta int) {
	next := m.focusedSlider + delta
	if next < 0 || next >= len(m.sliders) {
		return
	}
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = next
	m.sliders[m.focusedSlider].SetFocused(true)
}

// applyChanges writes every slider back into the inputs and asks for a recalculation
func (m *ParametersModel) applyChanges() tea.Cmd {
	for _, s := range m.sliders {
		if err := s.Apply(&m.current); err != nil {
			return func() tea.Msg { return tuimsg.ErrorMsg{Err: err} }
		}
	}
	m.modified = !sameInputs(&m.current, &m.original)
	return m.changed()
}

func (m *ParametersModel) changed() tea.Cmd {
	cfg := m.current
	return func() tea.Msg {
		return tuimsg.ParametersChangedMsg{Simulation: cfg}
	}
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	title := tuistyles.TitleStyle.Render("Inputs")

	var rows []string
	for _, s := range m.sliders {
		rows = append(rows, s.RenderCompact())
	}
	list := tuistyles.BorderStyle.Padding(0, 1).Render(strings.Join(rows, "\n"))

	var detail string
	if focused := m.FocusedSlider(); focused != nil && focused.Description != "" {
		detail = tuistyles.SubtitleStyle.Render(focused.Description)
	}

	status := ""
	if m.modified {
		status = tuistyles.InfoStyle.Render("⚠ Modified - x to reset, ctrl+s to save")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		list,
		detail,
		status,
		m.help.View(parameterKeys),
	)
}

func sameInputs(a, b *domain.SimulationConfig) bool {
	for _, name := range domain.SweepableParameters {
		va, _ := a.Parameter(name)
		vb, _ := b.Parameter(name)
		if !va.Equal(vb) {
			return false
		}
	}
	return a.ExternalPlanBondFraction.Equal(b.ExternalPlanBondFraction)
}
