package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine orchestrates the vehicle calculations
type CalculationEngine struct {
	Rules    domain.TaxRules
	Taxes    *TaxBracketEngine
	Vehicles *VehicleCalculator
	Logger   Logger
}

// NewCalculationEngine creates a new calculation engine with the statutory rules
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithRules(domain.DefaultTaxRules())
}

// NewCalculationEngineWithRules creates a new calculation engine with configurable tax rules
func NewCalculationEngineWithRules(rules domain.TaxRules) *CalculationEngine {
	vc := NewVehicleCalculator(rules)
	return &CalculationEngine{
		Rules:    rules,
		Taxes:    vc.Taxes,
		Vehicles: vc,
		Logger:   NopLogger{},
	}
}

// SetLogger sets the logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Validate checks both the simulation inputs and the rules the engine was built with
func (ce *CalculationEngine) Validate(cfg *domain.SimulationConfig) error {
	if cfg == nil {
		return domain.NewValidationError("simulation", "configuration is required")
	}
	if err := ce.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid tax rules: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid simulation inputs: %w", err)
	}
	return nil
}

// RunVehicles calculates every vehicle for the configuration and flags the winners
func (ce *CalculationEngine) RunVehicles(ctx context.Context, cfg *domain.SimulationConfig) (*domain.VehicleTable, error) {
	if err := ce.Validate(cfg); err != nil {
		return nil, err
	}

	ce.Logger.Debugf("running vehicles: income=%s years=%d return=%s monthly=%s",
		cfg.GrossAnnualIncome, cfg.HorizonYears, cfg.GrossAnnualReturnRate, cfg.MonthlyVoluntaryContribution)

	results := make([]domain.VehicleResult, 0, len(domain.AllVehicleKinds))
	for _, kind := range domain.AllVehicleKinds {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		profile, err := ce.Vehicles.Profile(kind)
		if err != nil {
			return nil, err
		}
		result, err := ce.Vehicles.Calculate(cfg, profile)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate %s: %w", kind, err)
		}
		ce.Logger.Debugf("%s: final=%s net=%s saving=%s total=%s",
			kind, result.FinalCapital.StringFixed(2), result.NetAmount.StringFixed(2),
			result.TaxSaving.StringFixed(2), result.TotalNet.StringFixed(2))
		results = append(results, result)
	}

	MarkVehicleWinners(results)

	return &domain.VehicleTable{
		Inputs:   *cfg,
		Vehicles: results,
		Hints:    ce.ContributionHints(cfg),
	}, nil
}

// ContributionHints derives the monthly thresholds for the configured income
func (ce *CalculationEngine) ContributionHints(cfg *domain.SimulationConfig) domain.ContributionHints {
	twelve := decimal.NewFromInt(12)
	match := cfg.GrossAnnualIncome.Mul(cfg.EmployerMatchRate)
	withMatch := decimal.Max(ce.Rules.MaxDeductible.Sub(match), decimal.Zero)

	return domain.ContributionHints{
		MonthlyForEmployerMatch:       cfg.GrossAnnualIncome.Mul(cfg.MinimumVoluntaryRate).Div(twelve),
		MaxDeductibleMonthlyWithMatch: withMatch.Div(twelve),
		MaxDeductibleMonthly:          ce.Rules.MaxDeductible.Div(twelve),
	}
}
