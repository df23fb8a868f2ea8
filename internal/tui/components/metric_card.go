package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/tfrgo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays a single amount with label and an optional change against a reference
type MetricCard struct {
	Label       string
	Value       decimal.Decimal
	Trend       *Trend
	Description string
	Width       int
}

// Trend is the change against a reference amount
type Trend struct {
	Delta     decimal.Decimal
	Reference string // e.g. "vs employer"
}

// IsPositive reports whether the change is an improvement
func (t *Trend) IsPositive() bool {
	return !t.Delta.IsNegative()
}

// NewMetricCard creates a new metric card
func NewMetricCard(label string, value decimal.Decimal) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 30,
	}
}

// WithTrend adds the change against a reference amount
func (m *MetricCard) WithTrend(reference decimal.Decimal, referenceLabel string) *MetricCard {
	m.Trend = &Trend{
		Delta:     m.Value.Sub(reference),
		Reference: referenceLabel,
	}
	return m
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// TrendText renders the change, e.g. "▲ €4521 vs employer"
func (m *MetricCard) TrendText() string {
	if m.Trend == nil {
		return ""
	}
	text := fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Trend.IsPositive()), tuistyles.FormatCurrency(m.Trend.Delta.Abs()))
	if m.Trend.Reference != "" {
		text += " " + m.Trend.Reference
	}
	return text
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	value := tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(m.Value))

	var trend string
	if m.Trend != nil {
		trend = "\n" + tuistyles.MetricTrendStyle(m.Trend.IsPositive()).Render(m.TrendText())
	}

	var desc string
	if m.Description != "" {
		desc = "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width)

	return cardStyle.Render(label + "\n" + value + trend + desc)
}

// MetricGrid renders multiple metric cards in a grid layout
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows []string
	var currentRow []string
	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = nil
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
