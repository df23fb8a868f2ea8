package calculation

import (
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// VehicleCalculator computes the exit value of every savings vehicle through a single
// simulation path, dispatching on the profile kind.
type VehicleCalculator struct {
	Rules domain.TaxRules
	Taxes *TaxBracketEngine
}

// NewVehicleCalculator creates a calculator for the given rules
func NewVehicleCalculator(rules domain.TaxRules) *VehicleCalculator {
	return &VehicleCalculator{
		Rules: rules,
		Taxes: NewTaxBracketEngineWithRules(rules),
	}
}

// LegOutcome is the exit value of money routed into one vehicle
type LegOutcome struct {
	SimulationOutcome
	GrowthRate     decimal.Decimal
	ExitTaxRate    decimal.Decimal
	LiquidationTax decimal.Decimal
	Net            decimal.Decimal
}

// Profile resolves the tagged profile for a vehicle kind
func (vc *VehicleCalculator) Profile(kind domain.VehicleKind) (domain.VehicleProfile, error) {
	switch kind {
	case domain.VehicleEmployerBalance:
		return domain.VehicleProfile{Kind: kind, Label: "Employer balance"}, nil
	case domain.VehicleExternalPlan:
		return domain.VehicleProfile{Kind: kind, Label: "External plan", CostLoad: vc.Rules.ExternalPlanCostLoad}, nil
	case domain.VehicleFundA, domain.VehicleFundB, domain.VehicleFundC:
		fp, ok := vc.Rules.FundProfile(kind)
		if !ok {
			return domain.VehicleProfile{}, fmt.Errorf("no fund profile configured for %s", kind)
		}
		return domain.VehicleProfile{
			Kind:          fp.Kind,
			Label:         fp.Label,
			CostLoad:      fp.CostLoad,
			EmployerMatch: fp.EmployerMatch,
		}, nil
	default:
		return domain.VehicleProfile{}, domain.NewValidationError("vehicle", "unknown kind %q", kind)
	}
}

// StatutoryAccrual returns the yearly severance accrual for the configured income
func (vc *VehicleCalculator) StatutoryAccrual(cfg *domain.SimulationConfig) decimal.Decimal {
	return cfg.GrossAnnualIncome.Mul(vc.Rules.StatutoryAccrualRate)
}

// EmployerMatch returns the employer's yearly contribution, due only when the employee
// contributes voluntarily and the profile is entitled to it.
func (vc *VehicleCalculator) EmployerMatch(cfg *domain.SimulationConfig, profile domain.VehicleProfile) decimal.Decimal {
	if !profile.EmployerMatch || !cfg.AnnualVoluntaryContribution().IsPositive() {
		return decimal.Zero
	}
	return cfg.GrossAnnualIncome.Mul(cfg.EmployerMatchRate)
}

// Calculate runs the vehicle for the whole horizon
func (vc *VehicleCalculator) Calculate(cfg *domain.SimulationConfig, profile domain.VehicleProfile) (domain.VehicleResult, error) {
	switch {
	case profile.Kind == domain.VehicleEmployerBalance:
		return vc.employerBalance(cfg, profile)
	case profile.Kind == domain.VehicleExternalPlan:
		return vc.externalPlan(cfg, profile)
	case profile.Kind.IsFund():
		return vc.pensionFund(cfg, profile)
	default:
		return domain.VehicleResult{}, domain.NewValidationError("vehicle", "unknown kind %q", profile.Kind)
	}
}

func (vc *VehicleCalculator) employerBalance(cfg *domain.SimulationConfig, profile domain.VehicleProfile) (domain.VehicleResult, error) {
	leg, err := vc.EmployerBalanceLeg(cfg)
	if err != nil {
		return domain.VehicleResult{}, err
	}
	return domain.VehicleResult{
		Kind:               profile.Kind,
		Label:              profile.Label,
		AnnualBreakdown:    domain.AnnualBreakdown{StatutoryAccrual: vc.StatutoryAccrual(cfg)},
		NetGrowthRate:      leg.GrowthRate,
		FinalCapital:       leg.FinalCapital,
		TotalContributions: leg.TotalContributions,
		LiquidationTax:     leg.LiquidationTax,
		LiquidationTaxRate: leg.ExitTaxRate,
		NetAmount:          leg.Net,
		TaxSaving:          decimal.Zero,
		TotalNet:           leg.Net,
		AnnualizedReturn:   AnnualizedGain(leg.TotalContributions, leg.Net, cfg.HorizonYears),
	}, nil
}

// EmployerBalanceLeg revalues the statutory accrual left with the employer and taxes the
// whole balance at the average income tax rate.
func (vc *VehicleCalculator) EmployerBalanceLeg(cfg *domain.SimulationConfig) (LegOutcome, error) {
	eb := vc.Rules.EmployerBalance
	revaluation := eb.RevaluationBase.Add(eb.InflationShare.Mul(cfg.InflationRate))
	growth := ApplyTax(revaluation, eb.RevaluationTaxRate)

	out, err := Simulate(SimulationInput{
		Years:            cfg.HorizonYears,
		NetGrowthRate:    growth,
		BaseContribution: vc.StatutoryAccrual(cfg),
	})
	if err != nil {
		return LegOutcome{}, err
	}

	avgRate, err := vc.Taxes.AverageTaxRate(cfg.GrossAnnualIncome)
	if err != nil {
		return LegOutcome{}, err
	}
	net := ApplyTax(out.FinalCapital, avgRate)

	return LegOutcome{
		SimulationOutcome: out,
		GrowthRate:        growth,
		ExitTaxRate:       avgRate,
		LiquidationTax:    out.FinalCapital.Sub(net),
		Net:               net,
	}, nil
}

func (vc *VehicleCalculator) pensionFund(cfg *domain.SimulationConfig, profile domain.VehicleProfile) (domain.VehicleResult, error) {
	voluntary := cfg.AnnualVoluntaryContribution()
	match := vc.EmployerMatch(cfg, profile)
	contribution := voluntary.Add(match)

	leg, err := vc.FundLeg(cfg, profile, contribution)
	if err != nil {
		return domain.VehicleResult{}, err
	}

	saving, err := vc.Taxes.DeductionSaving(cfg.GrossAnnualIncome, contribution, cfg.HorizonYears)
	if err != nil {
		return domain.VehicleResult{}, err
	}
	total := leg.Net.Add(saving)

	// The employer's money is not the employee's principal.
	years := decimal.NewFromInt(int64(cfg.HorizonYears))
	principal := vc.StatutoryAccrual(cfg).Add(voluntary).Mul(years)

	return domain.VehicleResult{
		Kind:  profile.Kind,
		Label: profile.Label,
		AnnualBreakdown: domain.AnnualBreakdown{
			StatutoryAccrual: vc.StatutoryAccrual(cfg),
			Voluntary:        voluntary,
			Employer:         match,
		},
		NetGrowthRate:      leg.GrowthRate,
		FinalCapital:       leg.FinalCapital,
		TotalContributions: leg.TotalContributions,
		LiquidationTax:     leg.LiquidationTax,
		LiquidationTaxRate: leg.ExitTaxRate,
		NetAmount:          leg.Net,
		TaxSaving:          saving,
		TotalNet:           total,
		AnnualizedReturn:   AnnualizedGain(principal, total, cfg.HorizonYears),
	}, nil
}

// FundGrowthRate is the gross return net of the profile's costs and of the blended gain tax
func (vc *VehicleCalculator) FundGrowthRate(cfg *domain.SimulationConfig, profile domain.VehicleProfile) decimal.Decimal {
	gainTax := BlendedGainRate(vc.Rules.FundGainTax, vc.Rules.PreferentialGainTax, cfg.BondFraction)
	return ApplyTax(cfg.GrossAnnualReturnRate.Sub(profile.CostLoad), gainTax)
}

// FundLeg accumulates the statutory accrual plus the given yearly contribution in a pension
// fund. At exit the contributions are taxed at the fund exit rate (the voluntary part only up
// to the deductible ceiling) while accrued returns, already taxed yearly, are paid out as is.
func (vc *VehicleCalculator) FundLeg(cfg *domain.SimulationConfig, profile domain.VehicleProfile, annualContribution decimal.Decimal) (LegOutcome, error) {
	growth := vc.FundGrowthRate(cfg, profile)
	out, err := Simulate(SimulationInput{
		Years:                 cfg.HorizonYears,
		NetGrowthRate:         growth,
		BaseContribution:      vc.StatutoryAccrual(cfg),
		AnnualContribution:    annualContribution,
		ContributionCapForTax: vc.Rules.MaxDeductible,
	})
	if err != nil {
		return LegOutcome{}, err
	}

	exitRate := vc.Taxes.FundExitRate(cfg.HorizonYears)
	taxedBase := ApplyTax(out.TaxableContributionBase, exitRate)
	net := taxedBase.Add(out.FinalCapital.Sub(out.TaxableContributionBase))

	return LegOutcome{
		SimulationOutcome: out,
		GrowthRate:        growth,
		ExitTaxRate:       exitRate,
		LiquidationTax:    out.TaxableContributionBase.Sub(taxedBase),
		Net:               net,
	}, nil
}

func (vc *VehicleCalculator) externalPlan(cfg *domain.SimulationConfig, profile domain.VehicleProfile) (domain.VehicleResult, error) {
	voluntary := cfg.AnnualVoluntaryContribution()
	leg, err := vc.ExternalPlanLeg(cfg, voluntary)
	if err != nil {
		return domain.VehicleResult{}, err
	}
	return domain.VehicleResult{
		Kind:               profile.Kind,
		Label:              profile.Label,
		AnnualBreakdown:    domain.AnnualBreakdown{Voluntary: voluntary},
		NetGrowthRate:      leg.GrowthRate,
		FinalCapital:       leg.FinalCapital,
		TotalContributions: leg.TotalContributions,
		LiquidationTax:     leg.LiquidationTax,
		LiquidationTaxRate: leg.ExitTaxRate,
		NetAmount:          leg.Net,
		TaxSaving:          decimal.Zero,
		TotalNet:           leg.Net,
		AnnualizedReturn:   AnnualizedGain(leg.TotalContributions, leg.Net, cfg.HorizonYears),
	}, nil
}

// ExternalPlanGainTaxRate is the plan's gain tax blended by its bond fraction
func (vc *VehicleCalculator) ExternalPlanGainTaxRate(cfg *domain.SimulationConfig) decimal.Decimal {
	return BlendedGainRate(vc.Rules.ExternalPlanGainTax, vc.Rules.PreferentialGainTax, cfg.ExternalPlanBondFraction)
}

// ExternalPlanLeg accumulates the yearly contribution in the external plan. Growth is gross
// of tax; the gain is taxed once at exit and the principal is returned untaxed. A loss is
// scaled by the same rate, so the liquidation tax turns into a credit.
func (vc *VehicleCalculator) ExternalPlanLeg(cfg *domain.SimulationConfig, annualContribution decimal.Decimal) (LegOutcome, error) {
	growth := cfg.ExternalPlanReturnRate.Sub(vc.Rules.ExternalPlanCostLoad)
	out, err := Simulate(SimulationInput{
		Years:              cfg.HorizonYears,
		NetGrowthRate:      growth,
		AnnualContribution: annualContribution,
	})
	if err != nil {
		return LegOutcome{}, err
	}

	gainTax := vc.ExternalPlanGainTaxRate(cfg)
	gain := out.FinalCapital.Sub(out.TotalContributions)
	net := out.TotalContributions.Add(ApplyTax(gain, gainTax))

	return LegOutcome{
		SimulationOutcome: out,
		GrowthRate:        growth,
		ExitTaxRate:       gainTax,
		LiquidationTax:    out.FinalCapital.Sub(net),
		Net:               net,
	}, nil
}

// MarkVehicleWinners flags the ranked vehicles whose net amount equals the maximum among
// them. The external plan never wins.
func MarkVehicleWinners(results []domain.VehicleResult) {
	var best decimal.NullDecimal
	for _, r := range results {
		if !r.Kind.Ranked() {
			continue
		}
		if !best.Valid || r.NetAmount.GreaterThan(best.Decimal) {
			best = decimal.NewNullDecimal(r.NetAmount)
		}
	}
	for i := range results {
		results[i].Winner = best.Valid && results[i].Kind.Ranked() && results[i].NetAmount.Equal(best.Decimal)
	}
}
