package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildTestResult(t *testing.T) *compare.ScenarioResult {
	t.Helper()
	cfg := domain.DefaultSimulationConfig()
	cfg.MonthlyVoluntaryContribution = decimal.NewFromInt(100)
	cfg.BondFraction = decimal.RequireFromString("0.4")

	result, err := compare.NewCompareEngine(nil).Evaluate(context.Background(), "base", &cfg)
	require.NoError(t, err)
	return result
}

func TestFormatterFunc(t *testing.T) {
	called := false
	var received *compare.ScenarioResult

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(result *compare.ScenarioResult) ([]byte, error) {
			called = true
			received = result
			return []byte("test output"), nil
		},
	}

	result := &compare.ScenarioResult{ScenarioName: "x"}
	out, err := formatter.Format(result)

	assert.NoError(t, err)
	assert.True(t, called, "Should call the function")
	assert.Same(t, result, received, "Should pass the result")
	assert.Equal(t, []byte("test output"), out)
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestWriteFormatted(t *testing.T) {
	t.Chdir(t.TempDir())

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(*compare.ScenarioResult) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, &compare.ScenarioResult{}, "txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "tfr_report_"), "Should have correct prefix")
	assert.True(t, strings.HasSuffix(filename, ".txt"), "Should have correct extension")

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(*compare.ScenarioResult) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, &compare.ScenarioResult{}, "txt")
	assert.Error(t, err)
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error")
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "SEVERANCE SIMULATION SUMMARY")
	assert.Contains(t, content, "Income: €28000.00  Years: 35  Monthly: €100.00")
	assert.Contains(t, content, "Best strategy: Fund min + plan rest")
	assert.Contains(t, content, "over leaving the severance with the employer")
}

func TestConsoleFormatter_NoVehicles(t *testing.T) {
	result := &compare.ScenarioResult{Inputs: domain.DefaultSimulationConfig()}
	out, err := ConsoleFormatter{}.Format(result)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No vehicles evaluated")
}

func TestConsoleVerboseFormatter(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "DETAILED SEVERANCE AND PENSION FUND ANALYSIS")
	assert.Contains(t, content, "Income tax bands: 23.00% up to €28000.00, 35.00% up to €50000.00, 43.00% above €50000.00")
	assert.Contains(t, content, "Voluntary contributions deductible up to €5164.57 a year")
	assert.Contains(t, content, "Gross annual income:")
	// 0.55% of 28000 over twelve months
	assert.Contains(t, content, "€12.83")
	assert.Contains(t, content, "★ Fund min + plan rest")
	assert.Contains(t, content, "Plan only trails the best by")
	assert.Contains(t, content, "Employer balance")
}

func TestConsoleVerboseFormatter_CustomAssumptions(t *testing.T) {
	out, err := ConsoleVerboseFormatter{Assumptions: []string{"custom rule"}}.Format(buildTestResult(t))
	require.NoError(t, err)
	assert.Contains(t, string(out), "• custom rule")
	assert.NotContains(t, string(out), "Income tax bands")
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestResult(t))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(domain.AllVehicleKinds)+len(domain.AllStrategyKinds))
	assert.Equal(t, []string{"Type", "Kind", "Label", "TotalNet", "Winner"}, records[0])
	assert.Equal(t, "employer_balance", records[1][1])
	assert.Equal(t, "81676.42", records[1][3])

	winners := 0
	for _, r := range records[1+len(domain.AllVehicleKinds):] {
		if r[4] == "true" {
			winners++
			assert.Equal(t, string(domain.StrategyFundMinMatch), r[1])
		}
	}
	assert.Equal(t, 1, winners)
}

func TestDetailedCSVFormatter(t *testing.T) {
	out, err := DetailedCSVFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err, "Every row should have the header's column count")
	assert.Len(t, records, 1+len(domain.AllVehicleKinds)+len(domain.AllStrategyKinds))
	assert.Equal(t, "1934.80", records[1][3], "Statutory accrual is 6.91% of income")
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "base", decoded["scenarioName"])
	assert.Len(t, decoded["vehicles"], len(domain.AllVehicleKinds))
	assert.Len(t, decoded["strategies"], len(domain.AllStrategyKinds))
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<title>Severance and Pension Fund Analysis</title>")
	assert.Contains(t, content, `class="winner"`)
	assert.Contains(t, content, "Negotiated fund")
	assert.Contains(t, content, "Statutory severance accrual: 6.91%")
}

func TestXLSXFormatter(t *testing.T) {
	out, err := XLSXFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inputs", "Vehicles", "Strategies"}, f.GetSheetList())

	v, err := f.GetCellValue("Inputs", "B2")
	require.NoError(t, err)
	assert.Equal(t, "base", v)

	v, err = f.GetCellValue("Vehicles", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Employer balance", v)

	rows, err := f.GetRows("Strategies")
	require.NoError(t, err)
	assert.Len(t, rows, 1+len(domain.AllStrategyKinds))
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()
	for _, want := range []string{"console-lite", "console", "csv", "detailed-csv", "json", "html", "xlsx"} {
		assert.Contains(t, names, want)
	}
}

func TestAvailableFormatAliases(t *testing.T) {
	aliases := AvailableFormatAliases()
	assert.Contains(t, aliases, "verbose")
	assert.Contains(t, aliases, "console-verbose")
	assert.IsIncreasing(t, aliases)
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console-lite", "console-lite"},
		{"verbose", "console"},
		{" JSON ", "json"},
		{"excel", "xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("non-existent"))
	assert.True(t, IsBinary(GetFormatterByName("xlsx")))
	assert.False(t, IsBinary(GetFormatterByName("html")))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "€1234.50", FormatCurrency(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "12.50%", FormatPercentage(decimal.RequireFromString("12.5")))
	assert.Equal(t, "3.00%", FormatRate(decimal.RequireFromString("0.03")))
	assert.Equal(t, "n/a", FormatNullRate(decimal.NullDecimal{}))
	assert.Equal(t, "2.50%", FormatNullRate(decimal.NewNullDecimal(decimal.RequireFromString("0.025"))))
}

func TestFormatParameterValue(t *testing.T) {
	assert.Equal(t, "3.50%", FormatParameterValue("percent", decimal.RequireFromString("0.035")))
	assert.Equal(t, "€100.00", FormatParameterValue("euros", decimal.NewFromInt(100)))
	assert.Equal(t, "35y", FormatParameterValue("years", decimal.NewFromInt(35)))
	assert.Equal(t, "0.4", FormatParameterValue("", decimal.RequireFromString("0.4")))
}

func sweep(t *testing.T) *domain.ParameterSensitivityAnalysis {
	t.Helper()
	cfg := domain.DefaultSimulationConfig()
	cfg.BondFraction = decimal.RequireFromString("0.4")
	analyzer := calculation.NewSensitivityAnalyzer(calculation.NewCalculationEngine())
	analysis, err := analyzer.AnalyzeSingleParameter(context.Background(), &cfg, domain.MonthlyContributionParam)
	require.NoError(t, err)
	return analysis
}

func TestSensitivityConsoleFormatter(t *testing.T) {
	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(sweep(t))
	require.NoError(t, err)

	assert.Contains(t, out, "SENSITIVITY ANALYSIS: MONTHLY")
	assert.Contains(t, out, "Range: €0.00 to €500.00 (11 steps)")
	assert.Contains(t, out, "employer_balance")
	assert.Contains(t, out, "RANGE OF TOTAL NET:")
}

func TestSensitivityCSVFormatter(t *testing.T) {
	analysis := sweep(t)
	out, err := SensitivityCSVFormatter{}.FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1+len(analysis.Points)*len(domain.AllVehicleKinds))
	assert.Equal(t, "monthly", records[1][0])
}

func TestSensitivityJSONFormatter(t *testing.T) {
	out, err := SensitivityJSONFormatter{}.FormatSensitivityAnalysis(sweep(t))
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
	assert.Contains(t, out, `"points"`)
}

func TestSensitivityFormatter_Empty(t *testing.T) {
	for _, f := range []SensitivityFormatter{SensitivityConsoleFormatter{}, SensitivityCSVFormatter{}} {
		_, err := f.FormatSensitivityAnalysis(&domain.ParameterSensitivityAnalysis{})
		assert.Error(t, err, f.Name())
	}
}

func TestNewSensitivityFormatter(t *testing.T) {
	assert.Equal(t, "console", NewSensitivityFormatter("table").Name())
	assert.Equal(t, "csv", NewSensitivityFormatter("csv").Name())
	assert.Equal(t, "json", NewSensitivityFormatter("json").Name())
	assert.Equal(t, "console", NewSensitivityFormatter("unknown").Name())
}
