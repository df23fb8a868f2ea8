package breakeven

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a formatted table for one break-even result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN RESULT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	req := result.Request
	if req.Name != "" {
		sb.WriteString(fmt.Sprintf("Question:    %s\n", req.Name))
	}
	if req.Description != "" {
		sb.WriteString(fmt.Sprintf("             %s\n", req.Description))
	}
	sb.WriteString(fmt.Sprintf("Parameter:   %s in [%s, %s]\n",
		req.Parameter, tf.formatValue(req.Parameter, req.Min), tf.formatValue(req.Parameter, req.Max)))
	sb.WriteString(fmt.Sprintf("Competitors: %s vs %s\n", req.First, req.Second))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", tf.formatStatus(result.Converged)))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence: %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("BREAK-EVEN VALUE\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%s = %s\n", req.Parameter, tf.formatValue(req.Parameter, result.Value)))
	sb.WriteString(fmt.Sprintf("%s leads below it, the other above\n", result.LeaderBelow))
	sb.WriteString("\n")

	sb.WriteString("TOTALS AT BREAK-EVEN\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-40s €%s\n", req.First.String(), tf.formatCurrency(result.FirstTotal)))
	sb.WriteString(fmt.Sprintf("%-40s €%s\n", req.Second.String(), tf.formatCurrency(result.SecondTotal)))
	sb.WriteString(fmt.Sprintf("%-40s %s€%s\n", "Difference", tf.deltaSymbol(result.Difference), tf.formatCurrency(result.Difference.Abs())))
	sb.WriteString("\n")

	return sb.String()
}

// FormatMulti formats results from several searches
func (tf *TableFormatter) FormatMulti(result *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-32s %-18s %14s %12s\n", "Question", "Parameter", "Break-even", "Total"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		sb.WriteString(fmt.Sprintf("%-32s %-18s %14s %12s\n",
			tf.truncate(res.Request.Name, 32),
			tf.truncate(res.Request.Parameter, 18),
			tf.formatValue(res.Request.Parameter, res.Value),
			"€"+tf.formatShort(res.FirstTotal)))
	}
	sb.WriteString("\n")

	if len(result.Failed) > 0 {
		sb.WriteString("NO BREAK-EVEN IN RANGE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		names := make([]string, 0, len(result.Failed))
		for name := range result.Failed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", name, result.Failed[name]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *Result) (string, error) {
	return jf.marshal(result)
}

// FormatMulti formats multiple results as JSON
func (jf *JSONFormatter) FormatMulti(result *MultiResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

// formatValue shows rates as percentages, money with two decimals and years whole
func (tf *TableFormatter) formatValue(parameter string, v decimal.Decimal) string {
	switch parameter {
	case domain.ParamHorizonYears:
		return v.StringFixed(0) + " years"
	case domain.ParamIncome, domain.ParamMonthly:
		return "€" + v.StringFixed(2)
	default:
		return v.Mul(decimal.NewFromInt(100)).StringFixed(3) + "%"
	}
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsNegative() {
		return "-"
	}
	return "+"
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
