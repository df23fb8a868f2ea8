package scenes

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/rgehrsitz/tfrgo/internal/tui/tuimsg"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestParametersModel_Defaults(t *testing.T) {
	m := NewParametersModel()

	require.Len(t, m.Sliders(), len(domain.SweepableParameters))
	assert.Equal(t, domain.ParamIncome, m.FocusedSlider().Parameter)
	assert.False(t, m.Modified())
	assert.True(t, m.Config().GrossAnnualIncome.Equal(dec("28000")))
}

func TestParametersModel_AdjustEmitsChange(t *testing.T) {
	m := NewParametersModel()

	m, cmd := m.Update(keyMsg("right"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.ParametersChangedMsg)
	require.True(t, ok)
	assert.True(t, msg.Simulation.GrossAnnualIncome.Equal(dec("29000")), "got %s", msg.Simulation.GrossAnnualIncome)
	assert.True(t, m.Modified())

	m, _ = m.Update(keyMsg("-"))
	assert.True(t, m.Config().GrossAnnualIncome.Equal(dec("28000")))
	assert.False(t, m.Modified(), "back to the loaded value")
}

func TestParametersModel_FocusMoves(t *testing.T) {
	m := NewParametersModel()

	m, cmd := m.Update(keyMsg("up"))
	assert.Nil(t, cmd)
	assert.Equal(t, domain.ParamIncome, m.FocusedSlider().Parameter, "already at the top")

	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, domain.ParamHorizonYears, m.FocusedSlider().Parameter)

	m, _ = m.Update(keyMsg("right"))
	assert.Equal(t, 36, m.Config().HorizonYears)

	focused := 0
	for _, s := range m.Sliders() {
		if s.IsFocused {
			focused++
		}
	}
	assert.Equal(t, 1, focused)
}

func TestParametersModel_Reset(t *testing.T) {
	m := NewParametersModel()
	m, _ = m.Update(keyMsg("right"))
	m, _ = m.Update(keyMsg("right"))
	require.True(t, m.Modified())

	m, cmd := m.Update(keyMsg("x"))
	require.NotNil(t, cmd)
	assert.False(t, m.Modified())
	assert.True(t, m.Config().GrossAnnualIncome.Equal(dec("28000")))

	msg, ok := cmd().(tuimsg.ParametersChangedMsg)
	require.True(t, ok)
	assert.True(t, msg.Simulation.GrossAnnualIncome.Equal(dec("28000")))
}

func TestParametersModel_Save(t *testing.T) {
	m := NewParametersModel()
	m, _ = m.Update(keyMsg("right"))

	_, cmd := m.Update(keyMsg("ctrl+s"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.SaveConfigMsg)
	require.True(t, ok)
	assert.True(t, msg.Simulation.GrossAnnualIncome.Equal(dec("29000")))
}

func TestParametersModel_View(t *testing.T) {
	m := NewParametersModel()
	view := m.View()
	assert.Contains(t, view, "Inputs")
	assert.Contains(t, view, "Gross annual income")
	assert.Contains(t, view, "Fund bond share")
	assert.NotContains(t, view, "Modified")

	m, _ = m.Update(keyMsg("+"))
	assert.Contains(t, m.View(), "Modified")
}

func TestResultsModel(t *testing.T) {
	m := NewResultsModel()
	assert.Contains(t, m.View(), "No results to display yet")

	cfg := domain.DefaultSimulationConfig()
	cfg.MonthlyVoluntaryContribution = dec("100")
	cfg.BondFraction = dec("0.4")
	result, err := compare.NewCompareEngine(nil).Evaluate(context.Background(), "test", &cfg)
	require.NoError(t, err)

	m.SetResult(result)
	assert.Same(t, result, m.Result())

	view := m.View()
	assert.Contains(t, view, "Employer balance")
	assert.Contains(t, view, "Best vehicle")
	assert.Contains(t, view, "Best strategy")
	assert.Contains(t, view, "vs employer")
	assert.Contains(t, view, "Negotiated fund")
	assert.Contains(t, view, "Fund min + plan rest")
	assert.Contains(t, view, "€222305")

	_, cmd := m.Update(keyMsg("right"))
	assert.Nil(t, cmd)
}
