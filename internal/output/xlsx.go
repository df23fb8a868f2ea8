package output

import (
	"bytes"
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/xuri/excelize/v2"
)

// XLSXFormatter exports a scenario as a workbook with Inputs, Vehicles and Strategies sheets
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(result *compare.ScenarioResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	inputs := "Inputs"
	f.SetSheetName("Sheet1", inputs)
	in := result.Inputs
	rows := [][]any{
		{"Parameter", "Value"},
		{"Scenario", result.ScenarioName},
		{"Gross annual income", in.GrossAnnualIncome.InexactFloat64()},
		{"Years", in.HorizonYears},
		{"Fund gross return", in.GrossAnnualReturnRate.InexactFloat64()},
		{"Inflation", in.InflationRate.InexactFloat64()},
		{"External plan return", in.ExternalPlanReturnRate.InexactFloat64()},
		{"Employer match rate", in.EmployerMatchRate.InexactFloat64()},
		{"Minimum voluntary rate", in.MinimumVoluntaryRate.InexactFloat64()},
		{"Monthly voluntary", in.MonthlyVoluntaryContribution.InexactFloat64()},
		{"Fund bond share", in.BondFraction.InexactFloat64()},
		{"External plan bond share", in.ExternalPlanBondFraction.InexactFloat64()},
		{"Monthly for employer match", result.Hints.MonthlyForEmployerMatch.Round(2).InexactFloat64()},
		{"Max deductible monthly (negotiated)", result.Hints.MaxDeductibleMonthlyWithMatch.Round(2).InexactFloat64()},
		{"Max deductible monthly (open/PIP)", result.Hints.MaxDeductibleMonthly.Round(2).InexactFloat64()},
	}
	if err := writeRows(f, inputs, rows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(inputs, "A1", "B1", header)
	_ = f.SetColWidth(inputs, "A", "A", 36)

	vehicles := "Vehicles"
	if _, err := f.NewSheet(vehicles); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", vehicles, err)
	}
	rows = [][]any{{"Vehicle", "Growth Rate", "Final Capital", "Contributions", "Exit Tax", "Exit Rate", "Net", "Tax Saving", "Total Net", "Annualized", "Winner"}}
	for _, v := range result.Vehicles {
		var annualized any = ""
		if v.AnnualizedReturn.Valid {
			annualized = v.AnnualizedReturn.Decimal.InexactFloat64()
		}
		rows = append(rows, []any{
			v.Label,
			v.NetGrowthRate.InexactFloat64(),
			v.FinalCapital.Round(2).InexactFloat64(),
			v.TotalContributions.Round(2).InexactFloat64(),
			v.LiquidationTax.Round(2).InexactFloat64(),
			v.LiquidationTaxRate.InexactFloat64(),
			v.NetAmount.Round(2).InexactFloat64(),
			v.TaxSaving.Round(2).InexactFloat64(),
			v.TotalNet.Round(2).InexactFloat64(),
			annualized,
			v.Winner,
		})
	}
	if err := writeRows(f, vehicles, rows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(vehicles, "A1", "K1", header)
	_ = f.SetColWidth(vehicles, "A", "A", 26)

	strategies := "Strategies"
	if _, err := f.NewSheet(strategies); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", strategies, err)
	}
	rows = [][]any{{"Strategy", "Fund / year", "Plan / year", "Saving / year", "Fund Net", "Plan Net", "Total Net", "Winner"}}
	for _, s := range result.Strategies {
		rows = append(rows, []any{
			s.Label,
			s.FundAnnualContribution.Round(2).InexactFloat64(),
			s.ExternalAnnualContribution.Round(2).InexactFloat64(),
			s.AnnualTaxSaving.Round(2).InexactFloat64(),
			s.FundNet.Round(2).InexactFloat64(),
			s.ExternalNet.Round(2).InexactFloat64(),
			s.TotalNet.Round(2).InexactFloat64(),
			s.Winner,
		})
	}
	if err := writeRows(f, strategies, rows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(strategies, "A1", "H1", header)
	_ = f.SetColWidth(strategies, "A", "A", 26)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
