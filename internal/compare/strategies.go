package compare

import (
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// Allocation is how one strategy routes the yearly saving
type Allocation struct {
	FundAnnual      decimal.Decimal
	ExternalAnnual  decimal.Decimal
	AnnualTaxSaving decimal.Decimal
}

// StrategyCalculator evaluates allocation strategies against one fund profile and the
// external plan
type StrategyCalculator struct {
	Vehicles *calculation.VehicleCalculator
	FundKind domain.VehicleKind
}

// NewStrategyCalculator creates a calculator routing the fund leg to the negotiated fund
func NewStrategyCalculator(vc *calculation.VehicleCalculator) *StrategyCalculator {
	return &StrategyCalculator{Vehicles: vc, FundKind: domain.VehicleFundA}
}

// Allocate splits the voluntary saving according to the strategy. The tax saving of the
// fund contribution is always reinvested in the external plan.
func (sc *StrategyCalculator) Allocate(kind domain.StrategyKind, cfg *domain.SimulationConfig) (Allocation, error) {
	profile, err := sc.Vehicles.Profile(sc.FundKind)
	if err != nil {
		return Allocation{}, err
	}

	taxes := sc.Vehicles.Taxes
	income := cfg.GrossAnnualIncome
	maxDeductible := sc.Vehicles.Rules.MaxDeductible

	voluntary := cfg.AnnualVoluntaryContribution()
	match := sc.Vehicles.EmployerMatch(cfg, profile)
	minVoluntary := income.Mul(cfg.MinimumVoluntaryRate)
	minContribution := decimal.Zero
	if voluntary.IsPositive() {
		minContribution = minVoluntary.Add(match)
	}

	var a Allocation
	switch kind {
	case domain.StrategyFundAndTaxSaving:
		a.FundAnnual = voluntary.Add(match)
		a.AnnualTaxSaving, err = taxes.DeductionSaving(income, a.FundAnnual, 1)
		a.ExternalAnnual = a.AnnualTaxSaving

	case domain.StrategyFundMaxDeductible:
		a.FundAnnual = decimal.Min(voluntary.Add(match), maxDeductible)
		// the saving is computed on the full contribution; DeductionSaving caps it anyway
		a.AnnualTaxSaving, err = taxes.DeductionSaving(income, voluntary.Add(match), 1)
		overflow := decimal.Max(voluntary.Sub(maxDeductible.Sub(match)), decimal.Zero)
		a.ExternalAnnual = a.AnnualTaxSaving.Add(overflow)

	case domain.StrategyFundMinMatch:
		a.FundAnnual = minContribution
		a.AnnualTaxSaving, err = taxes.DeductionSaving(income, minContribution, 1)
		rest := decimal.Max(voluntary.Sub(minVoluntary), decimal.Zero)
		a.ExternalAnnual = a.AnnualTaxSaving.Add(rest)

	case domain.StrategyExternalOnly:
		a.FundAnnual = decimal.Zero
		a.AnnualTaxSaving = decimal.Zero
		a.ExternalAnnual = voluntary

	default:
		return Allocation{}, domain.NewValidationError("strategy", "unknown kind %q", kind)
	}
	if err != nil {
		return Allocation{}, err
	}
	return a, nil
}

// Evaluate runs both legs of the strategy for the whole horizon
func (sc *StrategyCalculator) Evaluate(kind domain.StrategyKind, cfg *domain.SimulationConfig) (domain.StrategyResult, error) {
	a, err := sc.Allocate(kind, cfg)
	if err != nil {
		return domain.StrategyResult{}, err
	}
	profile, err := sc.Vehicles.Profile(sc.FundKind)
	if err != nil {
		return domain.StrategyResult{}, err
	}

	fund, err := sc.Vehicles.FundLeg(cfg, profile, a.FundAnnual)
	if err != nil {
		return domain.StrategyResult{}, fmt.Errorf("fund leg of %s: %w", kind, err)
	}
	external, err := sc.Vehicles.ExternalPlanLeg(cfg, a.ExternalAnnual)
	if err != nil {
		return domain.StrategyResult{}, fmt.Errorf("external leg of %s: %w", kind, err)
	}

	return domain.StrategyResult{
		Kind:                       kind,
		Label:                      kind.Label(),
		AnnualTaxSaving:            a.AnnualTaxSaving,
		FundAnnualContribution:     a.FundAnnual,
		ExternalAnnualContribution: a.ExternalAnnual,
		ExternalNetGrowthRate:      external.GrowthRate,
		ExternalGainTaxRate:        external.ExitTaxRate,
		FundNet:                    fund.Net,
		ExternalNet:                external.Net,
		TotalNet:                   fund.Net.Add(external.Net),
	}, nil
}

// MarkStrategyWinners flags every strategy whose total net equals the maximum
func MarkStrategyWinners(results []domain.StrategyResult) {
	if len(results) == 0 {
		return
	}
	best := results[0].TotalNet
	for _, r := range results[1:] {
		best = decimal.Max(best, r.TotalNet)
	}
	for i := range results {
		results[i].Winner = results[i].TotalNet.Equal(best)
	}
}
