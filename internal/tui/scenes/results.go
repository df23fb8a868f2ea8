package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/rgehrsitz/tfrgo/internal/tui/components"
	"github.com/rgehrsitz/tfrgo/internal/tui/tuistyles"
)

// ResultsModel represents the results display scene
type ResultsModel struct {
	result *compare.ScenarioResult
	width  int
	height int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResult updates the result to display
func (m *ResultsModel) SetResult(result *compare.ScenarioResult) {
	m.result = result
}

// Result returns the result on display
func (m *ResultsModel) Result() *compare.ScenarioResult {
	return m.result
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	// Results scene is read-only
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return renderNoResultsState()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderKeyMetrics(m.result),
		"",
		renderVehicleTable(m.result.Vehicles),
		"",
		renderStrategyTable(m.result.Strategies),
		"",
		renderHints(m.result.Hints),
	)
}

// renderNoResultsState renders empty state
func renderNoResultsState() string {
	return `No results to display yet.

Adjust an input on the Parameters screen (press 'p') to calculate.`
}

// renderKeyMetrics renders the best vehicle and best strategy against the employer balance
func renderKeyMetrics(result *compare.ScenarioResult) string {
	employer, ok := vehicleByKind(result.Vehicles, domain.VehicleEmployerBalance)
	if !ok {
		return ""
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("Employer balance", employer.TotalNet).
			WithDescription("Severance left with the employer"),
	}
	if best := result.WinningVehicles(); len(best) > 0 {
		cards = append(cards, components.NewMetricCard("Best vehicle", best[0].NetAmount).
			WithTrend(employer.NetAmount, "vs employer").
			WithDescription(best[0].Label))
	}
	if best := result.WinningStrategies(); len(best) > 0 {
		cards = append(cards, components.NewMetricCard("Best strategy", best[0].TotalNet).
			WithTrend(employer.TotalNet, "vs employer").
			WithDescription(best[0].Label))
	}

	return components.MetricGrid(cards, 3)
}

// renderVehicleTable renders one row per vehicle, winners highlighted
func renderVehicleTable(vehicles []domain.VehicleResult) string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Vehicles"))
	content.WriteString("\n")

	header := fmt.Sprintf("%-24s %10s %10s %10s %10s %11s",
		"Vehicle", "Final", "Exit tax", "Net", "Saving", "Total net")
	content.WriteString(tuistyles.TableHeaderStyle.Render(header))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", lipgloss.Width(header)))
	content.WriteString("\n")

	for _, v := range vehicles {
		row := fmt.Sprintf("%-24s %10s %10s %10s %10s %11s",
			v.Label,
			tuistyles.FormatCurrency(v.FinalCapital),
			tuistyles.FormatCurrency(v.LiquidationTax),
			tuistyles.FormatCurrency(v.NetAmount),
			tuistyles.FormatCurrency(v.TaxSaving),
			tuistyles.FormatCurrency(v.TotalNet))
		content.WriteString(rowStyle(v.Winner).Render(row))
		content.WriteString("\n")
	}

	return tuistyles.BorderStyle.Padding(0, 1).Render(strings.TrimRight(content.String(), "\n"))
}

// renderStrategyTable renders the four ways of splitting the voluntary saving
func renderStrategyTable(strategies []domain.StrategyResult) string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Strategies"))
	content.WriteString("\n")

	header := fmt.Sprintf("%-24s %10s %10s %10s %10s %11s",
		"Strategy", "Fund/yr", "Plan/yr", "Fund net", "Plan net", "Total net")
	content.WriteString(tuistyles.TableHeaderStyle.Render(header))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", lipgloss.Width(header)))
	content.WriteString("\n")

	for _, s := range strategies {
		row := fmt.Sprintf("%-24s %10s %10s %10s %10s %11s",
			s.Label,
			tuistyles.FormatCurrency(s.FundAnnualContribution),
			tuistyles.FormatCurrency(s.ExternalAnnualContribution),
			tuistyles.FormatCurrency(s.FundNet),
			tuistyles.FormatCurrency(s.ExternalNet),
			tuistyles.FormatCurrency(s.TotalNet))
		content.WriteString(rowStyle(s.Winner).Render(row))
		content.WriteString("\n")
	}

	return tuistyles.BorderStyle.Padding(0, 1).Render(strings.TrimRight(content.String(), "\n"))
}

// renderHints renders the monthly thresholds
func renderHints(h domain.ContributionHints) string {
	return tuistyles.SubtitleStyle.Render(fmt.Sprintf(
		"Monthly: %s earns the match • %s deductible max with match • %s deductible max open/PIP",
		h.MonthlyForEmployerMatch.StringFixed(2),
		h.MaxDeductibleMonthlyWithMatch.StringFixed(2),
		h.MaxDeductibleMonthly.StringFixed(2)))
}

func rowStyle(winner bool) lipgloss.Style {
	if winner {
		return tuistyles.TableHighlightStyle
	}
	return tuistyles.TableCellStyle
}

func vehicleByKind(vehicles []domain.VehicleResult, kind domain.VehicleKind) (domain.VehicleResult, bool) {
	for _, v := range vehicles {
		if v.Kind == kind {
			return v, true
		}
	}
	return domain.VehicleResult{}, false
}
