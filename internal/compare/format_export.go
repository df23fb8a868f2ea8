package compare

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// XLSXFormatter exports a comparison as a workbook: a summary sheet with the variants, and
// one sheet per scenario with its vehicles and strategies.
type XLSXFormatter struct{}

// Format returns the workbook bytes
func (xf *XLSXFormatter) Format(compSet *ComparisonSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	_ = f.SetCellValue(summarySheet, "A1", "Severance Allocation Comparison")
	_ = f.SetCellValue(summarySheet, "A2", "Base Scenario")
	_ = f.SetCellValue(summarySheet, "B2", compSet.BaseScenarioName)

	headers := []string{"Scenario", "Description", "Best Strategy", "Best Strategy Total", "Best Vehicle Net", "Diff from Base", "% Change"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(summarySheet, cell, h)
	}

	scenarios := compSet.scenarios()
	for i, sr := range scenarios {
		row := i + 5
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), sr.ScenarioName)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), sr.Description)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), winnerLabels(sr.WinningStrategies()))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), sr.BestStrategyTotal.Round(2).InexactFloat64())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), sr.BestVehicleNet.Round(2).InexactFloat64())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("F%d", row), sr.StrategyDiffFromBase.Round(2).InexactFloat64())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("G%d", row), sr.StrategyPctFromBase.Round(2).InexactFloat64())
	}

	recRow := len(scenarios) + 7
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", recRow), "Recommendations")
	for i, rec := range compSet.Recommendations {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", recRow+1+i), rec)
	}

	for i, sr := range scenarios {
		sheet := sheetName(i, sr.ScenarioName)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		writeScenarioSheet(f, sheet, sr)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeScenarioSheet(f *excelize.File, sheet string, sr *ScenarioResult) {
	vehicleHeaders := []string{"Vehicle", "Growth Rate", "Final Capital", "Contributions", "Liquidation Tax", "Net", "Tax Saving", "Total Net", "Winner"}
	for i, h := range vehicleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, v := range sr.Vehicles {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), v.Label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), v.NetGrowthRate.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), v.FinalCapital.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), v.TotalContributions.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), v.LiquidationTax.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), v.NetAmount.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), v.TaxSaving.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), v.TotalNet.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), formatBool(v.Winner))
	}

	start := len(sr.Vehicles) + 4
	strategyHeaders := []string{"Strategy", "Fund Annual", "Plan Annual", "Annual Tax Saving", "Fund Net", "Plan Net", "Total Net", "Winner"}
	for i, h := range strategyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, start)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, s := range sr.Strategies {
		row := start + 1 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.FundAnnualContribution.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.ExternalAnnualContribution.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.AnnualTaxSaving.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.FundNet.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), s.ExternalNet.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), s.TotalNet.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), formatBool(s.Winner))
	}
}

// sheetName keeps names unique and within the 31 character limit
func sheetName(index int, name string) string {
	prefix := fmt.Sprintf("%d ", index+1)
	r := []rune(name)
	if limit := 31 - len(prefix); len(r) > limit {
		r = r[:limit]
	}
	return prefix + string(r)
}

// PDFFormatter renders a printable comparison report
type PDFFormatter struct{}

// Format returns the PDF bytes
func (pf *PDFFormatter) Format(compSet *ComparisonSet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Severance Allocation Comparison")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Base Scenario: %s", compSet.BaseScenarioName))
	pdf.Ln(5)
	if compSet.ConfigPath != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Configuration: %s", compSet.ConfigPath))
		pdf.Ln(5)
	}

	if base := compSet.BaseResult; base != nil {
		in := base.Inputs
		pdf.Cell(0, 6, fmt.Sprintf("Income: EUR %s   Years: %d   Fund return: %s%%   Plan return: %s%%   Monthly: EUR %s",
			in.GrossAnnualIncome.StringFixed(0), in.HorizonYears,
			in.GrossAnnualReturnRate.Shift(2).StringFixed(2), in.ExternalPlanReturnRate.Shift(2).StringFixed(2),
			in.MonthlyVoluntaryContribution.StringFixed(2)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 6, "Vehicle", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Final", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Net", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Total Net", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, v := range base.Vehicles {
			label := v.Label
			if v.Winner {
				label += " *"
			}
			pdf.CellFormat(60, 6, label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, v.FinalCapital.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, v.NetAmount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, v.TotalNet.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(6)

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 6, "Strategy", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Fund/yr", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Plan/yr", "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, "Total Net", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, s := range base.Strategies {
			label := s.Label
			if s.Winner {
				label += " *"
			}
			pdf.CellFormat(60, 6, label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, s.FundAnnualContribution.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, s.ExternalAnnualContribution.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(60, 6, s.TotalNet.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	if len(compSet.Variants) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(80, 6, "Variant", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Best Total", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "vs Base", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, v := range compSet.Variants {
			pdf.CellFormat(80, 6, v.ScenarioName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, v.BestStrategyTotal.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 6, v.StrategyDiffFromBase.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	for _, rec := range compSet.Recommendations {
		pdf.MultiCell(0, 5, "- "+asciiEuro(rec), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// asciiEuro replaces the euro sign, which the core PDF fonts cannot encode from UTF-8
func asciiEuro(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '€' {
			out = append(out, []rune("EUR ")...)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// scenarios returns the base followed by the variants
func (cs *ComparisonSet) scenarios() []*ScenarioResult {
	out := make([]*ScenarioResult, 0, len(cs.Variants)+1)
	if cs.BaseResult != nil {
		out = append(out, cs.BaseResult)
	}
	for i := range cs.Variants {
		out = append(out, &cs.Variants[i])
	}
	return out
}
