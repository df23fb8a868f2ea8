package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV, one row per strategy per scenario
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Strategy",
		"Fund Annual",
		"Plan Annual",
		"Annual Tax Saving",
		"Fund Net",
		"Plan Net",
		"Total Net",
		"Winner",
		"Best Diff from Base",
		"Best % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := cf.writeScenario(writer, compSet.BaseResult, "base"); err != nil {
			return "", err
		}
	}

	for i := range compSet.Variants {
		if err := cf.writeScenario(writer, &compSet.Variants[i], "variant"); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) writeScenario(writer *csv.Writer, result *ScenarioResult, scenarioType string) error {
	for _, s := range result.Strategies {
		row := []string{
			result.ScenarioName,
			scenarioType,
			string(s.Kind),
			s.FundAnnualContribution.StringFixed(2),
			s.ExternalAnnualContribution.StringFixed(2),
			s.AnnualTaxSaving.StringFixed(2),
			s.FundNet.StringFixed(2),
			s.ExternalNet.StringFixed(2),
			s.TotalNet.StringFixed(2),
			formatBool(s.Winner),
			result.StrategyDiffFromBase.StringFixed(2),
			result.StrategyPctFromBase.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
