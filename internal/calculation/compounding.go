package calculation

import (
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// capitalScale bounds the digits carried between years; Mul is exact and would otherwise
// grow the mantissa on every iteration.
const capitalScale = 12

// SimulationInput parameterizes one year-by-year accumulation
type SimulationInput struct {
	Years         int
	NetGrowthRate decimal.Decimal
	// Paid every year and always counted in the taxable base (the statutory accrual)
	BaseContribution decimal.Decimal
	// Paid every year; counted in the taxable base only up to ContributionCapForTax
	AnnualContribution    decimal.Decimal
	ContributionCapForTax decimal.Decimal
}

// SimulationOutcome is the state after the last simulated year
type SimulationOutcome struct {
	FinalCapital            decimal.Decimal
	TotalContributions      decimal.Decimal
	TaxableContributionBase decimal.Decimal
}

// yearlyState is the running state of one Simulate call
type yearlyState struct {
	capital                        decimal.Decimal
	cumulativeContributions        decimal.Decimal
	cumulativeTaxableContributions decimal.Decimal
}

// Simulate compounds contributions annually. Each year the capital grows first, then the
// year's contributions are added, so a contribution starts earning the following year.
func Simulate(in SimulationInput) (SimulationOutcome, error) {
	if in.Years < 0 {
		return SimulationOutcome{}, domain.NewValidationError("years", "cannot be negative, got %d", in.Years)
	}

	growth := decimal.NewFromInt(1).Add(in.NetGrowthRate)
	yearly := in.BaseContribution.Add(in.AnnualContribution)
	taxable := in.BaseContribution.Add(decimal.Min(in.AnnualContribution, in.ContributionCapForTax))

	var s yearlyState
	for year := 0; year < in.Years; year++ {
		s.capital = s.capital.Mul(growth).Round(capitalScale)
		s.cumulativeTaxableContributions = s.cumulativeTaxableContributions.Add(taxable)
		s.capital = s.capital.Add(yearly)
		s.cumulativeContributions = s.cumulativeContributions.Add(yearly)
	}

	return SimulationOutcome{
		FinalCapital:            s.capital,
		TotalContributions:      s.cumulativeContributions,
		TaxableContributionBase: s.cumulativeTaxableContributions,
	}, nil
}
