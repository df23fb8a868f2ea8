package domain

import (
	"github.com/shopspring/decimal"
)

// Horizon bounds, in years of participation.
const (
	MinHorizonYears = 1
	MaxHorizonYears = 42
)

// Configuration represents the complete input configuration
type Configuration struct {
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	// Rules may be omitted in a personal config; the statutory defaults are used then.
	Rules *TaxRules `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// EffectiveRules returns the configured rules or the statutory defaults.
func (c *Configuration) EffectiveRules() TaxRules {
	if c.Rules != nil {
		return *c.Rules
	}
	return DefaultTaxRules()
}

// SimulationConfig holds the per-run inputs. Rates are fractions (0.03 for 3%).
type SimulationConfig struct {
	GrossAnnualIncome      decimal.Decimal `yaml:"gross_annual_income" json:"gross_annual_income"`
	HorizonYears           int             `yaml:"horizon_years" json:"horizon_years"`
	GrossAnnualReturnRate  decimal.Decimal `yaml:"gross_annual_return_rate" json:"gross_annual_return_rate"`
	InflationRate          decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	ExternalPlanReturnRate decimal.Decimal `yaml:"external_plan_return_rate" json:"external_plan_return_rate"`

	// Fractions of gross income
	EmployerMatchRate    decimal.Decimal `yaml:"employer_match_rate" json:"employer_match_rate"`
	MinimumVoluntaryRate decimal.Decimal `yaml:"minimum_voluntary_rate" json:"minimum_voluntary_rate"`

	MonthlyVoluntaryContribution decimal.Decimal `yaml:"monthly_voluntary_contribution" json:"monthly_voluntary_contribution"`

	// Share of the fund (and of the external plan) invested in government bonds,
	// whose gains are taxed at the preferential rate.
	BondFraction             decimal.Decimal `yaml:"bond_fraction" json:"bond_fraction"`
	ExternalPlanBondFraction decimal.Decimal `yaml:"external_plan_bond_fraction" json:"external_plan_bond_fraction"`
}

// DefaultSimulationConfig returns the reference inputs.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		GrossAnnualIncome:            decimal.NewFromInt(28000),
		HorizonYears:                 35,
		GrossAnnualReturnRate:        decimal.NewFromFloat(0.03),
		InflationRate:                decimal.NewFromFloat(0.02),
		ExternalPlanReturnRate:       decimal.NewFromFloat(0.06),
		EmployerMatchRate:            decimal.NewFromFloat(0.0155),
		MinimumVoluntaryRate:         decimal.NewFromFloat(0.0055),
		MonthlyVoluntaryContribution: decimal.Zero,
		BondFraction:                 decimal.Zero,
		ExternalPlanBondFraction:     decimal.Zero,
	}
}

// DeepCopy returns an independent copy. All fields are values, so a struct copy suffices.
func (c *SimulationConfig) DeepCopy() *SimulationConfig {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// AnnualVoluntaryContribution is twelve monthly payments, with negative amounts clamped to zero.
func (c *SimulationConfig) AnnualVoluntaryContribution() decimal.Decimal {
	annual := c.MonthlyVoluntaryContribution.Mul(decimal.NewFromInt(12))
	if annual.IsNegative() {
		return decimal.Zero
	}
	return annual
}

// Validate rejects inputs outside the simulation domain.
func (c *SimulationConfig) Validate() error {
	if !c.GrossAnnualIncome.IsPositive() {
		return NewValidationError("gross_annual_income", "must be positive, got %s", c.GrossAnnualIncome)
	}
	if c.HorizonYears < MinHorizonYears || c.HorizonYears > MaxHorizonYears {
		return NewValidationError("horizon_years", "must be between %d and %d, got %d",
			MinHorizonYears, MaxHorizonYears, c.HorizonYears)
	}
	if c.GrossAnnualReturnRate.IsNegative() {
		return NewValidationError("gross_annual_return_rate", "cannot be negative, got %s", c.GrossAnnualReturnRate)
	}
	if c.InflationRate.IsNegative() {
		return NewValidationError("inflation_rate", "cannot be negative, got %s", c.InflationRate)
	}
	if c.ExternalPlanReturnRate.IsNegative() {
		return NewValidationError("external_plan_return_rate", "cannot be negative, got %s", c.ExternalPlanReturnRate)
	}
	if c.EmployerMatchRate.IsNegative() {
		return NewValidationError("employer_match_rate", "cannot be negative, got %s", c.EmployerMatchRate)
	}
	if c.MinimumVoluntaryRate.IsNegative() {
		return NewValidationError("minimum_voluntary_rate", "cannot be negative, got %s", c.MinimumVoluntaryRate)
	}
	if !isRate(c.BondFraction) {
		return NewValidationError("bond_fraction", "must be between 0 and 1, got %s", c.BondFraction)
	}
	if !isRate(c.ExternalPlanBondFraction) {
		return NewValidationError("external_plan_bond_fraction", "must be between 0 and 1, got %s", c.ExternalPlanBondFraction)
	}
	return nil
}

// Parameter names accepted by SetParameter.
const (
	ParamIncome               = "income"
	ParamHorizonYears         = "years"
	ParamReturnRate           = "return"
	ParamInflation            = "inflation"
	ParamExternalReturn       = "external_return"
	ParamMonthly              = "monthly"
	ParamBondFraction         = "bond_fraction"
	ParamEmployerMatch        = "employer_match"
	ParamMinimumVoluntary     = "minimum_voluntary"
	ParamExternalBondFraction = "external_plan_bond_fraction"
)

// SweepableParameters lists every name SetParameter understands.
var SweepableParameters = []string{
	ParamIncome,
	ParamHorizonYears,
	ParamReturnRate,
	ParamInflation,
	ParamExternalReturn,
	ParamMonthly,
	ParamBondFraction,
	ParamEmployerMatch,
	ParamMinimumVoluntary,
	ParamExternalBondFraction,
}

// SetParameter assigns a value by name. Horizon years are truncated to a whole number.
func (c *SimulationConfig) SetParameter(name string, value decimal.Decimal) error {
	switch name {
	case ParamIncome:
		c.GrossAnnualIncome = value
	case ParamHorizonYears:
		c.HorizonYears = int(value.IntPart())
	case ParamReturnRate:
		c.GrossAnnualReturnRate = value
	case ParamInflation:
		c.InflationRate = value
	case ParamExternalReturn:
		c.ExternalPlanReturnRate = value
	case ParamMonthly:
		c.MonthlyVoluntaryContribution = value
	case ParamBondFraction:
		c.BondFraction = value
	case ParamEmployerMatch:
		c.EmployerMatchRate = value
	case ParamMinimumVoluntary:
		c.MinimumVoluntaryRate = value
	case ParamExternalBondFraction:
		c.ExternalPlanBondFraction = value
	default:
		return NewValidationError("parameter", "unknown parameter %q", name)
	}
	return nil
}

// Parameter returns the current value of a named parameter.
func (c *SimulationConfig) Parameter(name string) (decimal.Decimal, error) {
	switch name {
	case ParamIncome:
		return c.GrossAnnualIncome, nil
	case ParamHorizonYears:
		return decimal.NewFromInt(int64(c.HorizonYears)), nil
	case ParamReturnRate:
		return c.GrossAnnualReturnRate, nil
	case ParamInflation:
		return c.InflationRate, nil
	case ParamExternalReturn:
		return c.ExternalPlanReturnRate, nil
	case ParamMonthly:
		return c.MonthlyVoluntaryContribution, nil
	case ParamBondFraction:
		return c.BondFraction, nil
	case ParamEmployerMatch:
		return c.EmployerMatchRate, nil
	case ParamMinimumVoluntary:
		return c.MinimumVoluntaryRate, nil
	case ParamExternalBondFraction:
		return c.ExternalPlanBondFraction, nil
	default:
		return decimal.Zero, NewValidationError("parameter", "unknown parameter %q", name)
	}
}
