package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing vehicles, strategies and variants
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("SEVERANCE ALLOCATION COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	base := compSet.BaseResult
	if base != nil {
		tf.writeVehicles(&sb, base)
		tf.writeStrategies(&sb, base)
	}

	// Variants (deltas from base)
	if len(compSet.Variants) > 0 {
		nameWidth := 30
		numWidth := 14

		sb.WriteString("\nVARIANTS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("%-*s %-*s %*s %*s\n",
			nameWidth, "Scenario",
			numWidth+6, "Best Strategy",
			numWidth, "Total Net",
			numWidth, "vs Base"))

		if base != nil {
			sb.WriteString(tf.variantRow(base, nameWidth, numWidth, true))
		}
		for i := range compSet.Variants {
			sb.WriteString(tf.variantRow(&compSet.Variants[i], nameWidth, numWidth, false))
		}
		sb.WriteString(strings.Repeat("=", 80) + "\n")
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) writeVehicles(sb *strings.Builder, result *ScenarioResult) {
	sb.WriteString("VEHICLES\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-26s %12s %12s %12s %12s\n",
		"Vehicle", "Final", "Net", "Tax Saving", "Total Net"))

	for _, v := range result.Vehicles {
		label := v.Label
		if v.Winner {
			label = "★ " + label
		}
		sb.WriteString(fmt.Sprintf("%-26s %12s %12s %12s %12s\n",
			tf.truncate(label, 26),
			"€"+tf.formatDecimal(v.FinalCapital),
			"€"+tf.formatDecimal(v.NetAmount),
			"€"+tf.formatDecimal(v.TaxSaving),
			"€"+tf.formatDecimal(v.TotalNet)))
	}
	sb.WriteString("\n")
}

func (tf *TableFormatter) writeStrategies(sb *strings.Builder, result *ScenarioResult) {
	sb.WriteString("STRATEGIES\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-26s %12s %12s %12s %12s\n",
		"Strategy", "Fund/yr", "Plan/yr", "Plan Net", "Total Net"))

	for _, s := range result.Strategies {
		label := s.Label
		if s.Winner {
			label = "★ " + label
		}
		sb.WriteString(fmt.Sprintf("%-26s %12s %12s %12s %12s\n",
			tf.truncate(label, 26),
			"€"+s.FundAnnualContribution.StringFixed(0),
			"€"+s.ExternalAnnualContribution.StringFixed(0),
			"€"+tf.formatDecimal(s.ExternalNet),
			"€"+tf.formatDecimal(s.TotalNet)))
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")
}

// variantRow formats a single scenario row
func (tf *TableFormatter) variantRow(result *ScenarioResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	delta := fmt.Sprintf("%s€%s", tf.deltaSymbol(result.StrategyDiffFromBase), tf.formatDecimal(result.StrategyDiffFromBase.Abs()))
	if isBase {
		name += " (base)"
		delta = "-"
	} else if result.StrategyDiffFromBase.IsNegative() {
		delta = "-" + delta
	}

	return fmt.Sprintf("%-*s %-*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth+6, tf.truncate(winnerLabels(result.WinningStrategies()), numWidth+6),
		numWidth, "€"+tf.formatDecimal(result.BestStrategyTotal),
		numWidth, delta)
}

func winnerLabels(winners []domain.StrategyResult) string {
	switch len(winners) {
	case 0:
		return "-"
	case 1:
		return winners[0].Label
	default:
		return fmt.Sprintf("%d-way tie", len(winners))
	}
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + for gains; losses get their sign from the caller
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
