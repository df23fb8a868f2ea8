package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Points) == 0 {
		return "", fmt.Errorf("no points in analysis")
	}
	var buf bytes.Buffer
	param := analysis.Parameter

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n",
		FormatParameterValue(param.Unit, param.MinValue), FormatParameterValue(param.Unit, param.MaxValue), param.Steps)
	if param.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintln(&buf)

	kinds := pointKinds(analysis.Points[0])
	fmt.Fprintf(&buf, "%-12s", param.Name)
	for _, k := range kinds {
		fmt.Fprintf(&buf, " %16s", k)
	}
	fmt.Fprintf(&buf, "  %s\n", "Winner")
	fmt.Fprintln(&buf, strings.Repeat("-", 100))

	for _, p := range analysis.Points {
		fmt.Fprintf(&buf, "%-12s", FormatParameterValue(param.Unit, p.Value))
		for _, k := range kinds {
			v, _ := p.Table.Vehicle(k)
			fmt.Fprintf(&buf, " %16s", FormatCurrency(v.TotalNet))
		}
		fmt.Fprintf(&buf, "  %s\n", joinKinds(p.Winners))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RANGE OF TOTAL NET:")
	for _, r := range analysis.Summary.Ranges {
		fmt.Fprintf(&buf, "  %-18s %s to %s\n", r.Kind, FormatCurrency(r.MinTotalNet), FormatCurrency(r.MaxTotalNet))
	}
	fmt.Fprintln(&buf)

	if len(analysis.Summary.WinnerChanges) > 0 {
		fmt.Fprintln(&buf, "WINNER CHANGES AT:")
		for _, v := range analysis.Summary.WinnerChanges {
			fmt.Fprintf(&buf, "  %s = %s\n", param.Name, FormatParameterValue(param.Unit, v))
		}
		fmt.Fprintln(&buf)
	}

	if len(analysis.Summary.Recommendations) > 0 {
		fmt.Fprintln(&buf, "RECOMMENDATIONS:")
		for _, rec := range analysis.Summary.Recommendations {
			fmt.Fprintf(&buf, "  • %s\n", rec)
		}
	}

	return buf.String(), nil
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV, one row per point and vehicle
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Points) == 0 {
		return "", fmt.Errorf("no points in analysis")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"parameter_name", "parameter_value", "vehicle", "final_capital", "liquidation_tax", "tax_saving", "total_net", "winner"}); err != nil {
		return "", err
	}
	for _, p := range analysis.Points {
		for _, v := range p.Table.Vehicles {
			row := []string{
				analysis.Parameter.Name,
				p.Value.String(),
				string(v.Kind),
				v.FinalCapital.StringFixed(2),
				v.LiquidationTax.StringFixed(2),
				v.TaxSaving.StringFixed(2),
				v.TotalNet.StringFixed(2),
				fmt.Sprintf("%t", v.Winner),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "console", "console-lite":
		return SensitivityConsoleFormatter{}
	case "csv", "detailed-csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{}
	}
}

// FormatParameterValue renders a swept value according to its unit
func FormatParameterValue(unit string, v decimal.Decimal) string {
	switch unit {
	case "percent":
		return fmt.Sprintf("%.2f%%", v.Mul(decimal.NewFromInt(100)).InexactFloat64())
	case "euros":
		return FormatCurrency(v)
	case "years":
		return v.StringFixed(0) + "y"
	default:
		return v.String()
	}
}

func pointKinds(p domain.SensitivityPoint) []domain.VehicleKind {
	if p.Table == nil {
		return nil
	}
	kinds := make([]domain.VehicleKind, 0, len(p.Table.Vehicles))
	for _, v := range p.Table.Vehicles {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}

func joinKinds(kinds []domain.VehicleKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
