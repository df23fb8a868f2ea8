package output

import (
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// Assumptions lists the modeling rules behind a report, rendered from the tax rules in force.
func Assumptions(rules *domain.TaxRules) []string {
	exit := rules.FundExit
	return []string{
		"Income tax bands: " + bracketSummary(rules),
		fmt.Sprintf("Statutory severance accrual: %s of gross income each year", FormatRate(rules.StatutoryAccrualRate)),
		fmt.Sprintf("Employer balance revaluation: %s plus %s of inflation, taxed at %s; paid out at the average income tax rate",
			FormatRate(rules.EmployerBalance.RevaluationBase),
			FormatRate(rules.EmployerBalance.InflationShare),
			FormatRate(rules.EmployerBalance.RevaluationTaxRate)),
		fmt.Sprintf("Fund returns taxed yearly at %s (%s on the bond share)",
			FormatRate(rules.FundGainTax), FormatRate(rules.PreferentialGainTax)),
		fmt.Sprintf("Fund exit tax: %s under %d years, %s at %d, then %s less per year down to %s",
			FormatRate(exit.BaseRate), exit.ThresholdYears,
			FormatRate(exit.ThresholdRate), exit.ThresholdYears,
			FormatRate(exit.YearlyReduction), FormatRate(exit.FloorRate)),
		fmt.Sprintf("Voluntary contributions deductible up to %s a year", FormatCurrency(rules.MaxDeductible)),
		fmt.Sprintf("External plan: %s yearly costs, gains taxed at exit at %s (%s on the bond share)",
			FormatRate(rules.ExternalPlanCostLoad), FormatRate(rules.ExternalPlanGainTax), FormatRate(rules.PreferentialGainTax)),
		"Contributions are paid once a year after that year's growth; figures are nominal",
	}
}

// DefaultAssumptions are the assumptions under the statutory default rules
var DefaultAssumptions = defaultAssumptions()

func defaultAssumptions() []string {
	rules := domain.DefaultTaxRules()
	return Assumptions(&rules)
}

// bracketSummary renders the income tax bands on one line
func bracketSummary(rules *domain.TaxRules) string {
	out := ""
	lower := decimal.Zero
	for i, b := range rules.IncomeTaxBrackets {
		if i > 0 {
			out += ", "
		}
		if b.UpperLimit == nil {
			out += fmt.Sprintf("%s above %s", FormatRate(b.Rate), FormatCurrency(lower))
			continue
		}
		out += fmt.Sprintf("%s up to %s", FormatRate(b.Rate), FormatCurrency(*b.UpperLimit))
		lower = *b.UpperLimit
	}
	return out
}
