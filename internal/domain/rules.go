package domain

import (
	"github.com/shopspring/decimal"
)

// TaxRules contains all regulatory/legal data that applies uniformly to every simulation.
// The defaults can be overridden by a separate rules file merged into the configuration.
type TaxRules struct {
	Metadata RulesMetadata `yaml:"metadata" json:"metadata"`

	IncomeTaxBrackets []TaxBracket `yaml:"income_tax_brackets" json:"income_tax_brackets"`

	// Ceiling on the yearly contribution deductible from taxable income
	MaxDeductible        decimal.Decimal `yaml:"max_deductible" json:"max_deductible"`
	StatutoryAccrualRate decimal.Decimal `yaml:"statutory_accrual_rate" json:"statutory_accrual_rate"`

	EmployerBalance EmployerBalanceRules `yaml:"employer_balance" json:"employer_balance"`

	FundGainTax         decimal.Decimal `yaml:"fund_gain_tax" json:"fund_gain_tax"`
	ExternalPlanGainTax decimal.Decimal `yaml:"external_plan_gain_tax" json:"external_plan_gain_tax"`
	// Government-bond rate blended into both gain taxes by the configured bond fraction
	PreferentialGainTax  decimal.Decimal `yaml:"preferential_gain_tax" json:"preferential_gain_tax"`
	ExternalPlanCostLoad decimal.Decimal `yaml:"external_plan_cost_load" json:"external_plan_cost_load"`

	FundExit     FundExitSchedule `yaml:"fund_exit" json:"fund_exit"`
	FundProfiles []FundProfile    `yaml:"fund_profiles" json:"fund_profiles"`
}

// RulesMetadata contains information about the rules data
type RulesMetadata struct {
	DataYear    int    `yaml:"data_year" json:"data_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// TaxBracket is one progressive income tax band. A nil UpperLimit marks the unbounded top band.
type TaxBracket struct {
	UpperLimit *decimal.Decimal `yaml:"upper_limit" json:"upper_limit"`
	Rate       decimal.Decimal  `yaml:"rate" json:"rate"`
}

// EmployerBalanceRules describes how the balance left with the employer is revalued.
type EmployerBalanceRules struct {
	RevaluationBase    decimal.Decimal `yaml:"revaluation_base" json:"revaluation_base"`
	InflationShare     decimal.Decimal `yaml:"inflation_share" json:"inflation_share"`
	RevaluationTaxRate decimal.Decimal `yaml:"revaluation_tax_rate" json:"revaluation_tax_rate"`
}

// FundExitSchedule is the liquidation tax on pension fund contributions, decreasing with
// participation years.
type FundExitSchedule struct {
	BaseRate          decimal.Decimal `yaml:"base_rate" json:"base_rate"`
	ThresholdYears    int             `yaml:"threshold_years" json:"threshold_years"`
	ThresholdRate     decimal.Decimal `yaml:"threshold_rate" json:"threshold_rate"`
	YearlyReduction   decimal.Decimal `yaml:"yearly_reduction" json:"yearly_reduction"`
	MaxReductionYears int             `yaml:"max_reduction_years" json:"max_reduction_years"`
	FloorRate         decimal.Decimal `yaml:"floor_rate" json:"floor_rate"`
}

// FundProfile holds the cost of one pension fund category.
type FundProfile struct {
	Kind     VehicleKind     `yaml:"kind" json:"kind"`
	Label    string          `yaml:"label" json:"label"`
	CostLoad decimal.Decimal `yaml:"cost_load" json:"cost_load"`
	// Only negotiated (category) funds receive the employer's matching contribution
	EmployerMatch bool `yaml:"employer_match" json:"employer_match"`
}

func bracketLimit(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultTaxRules returns the current statutory values.
func DefaultTaxRules() TaxRules {
	return TaxRules{
		Metadata: RulesMetadata{
			DataYear:    2024,
			LastUpdated: "2024-01-01",
			Description: "Three-band income tax, fund exit schedule and gain taxes",
		},
		IncomeTaxBrackets: []TaxBracket{
			{UpperLimit: bracketLimit(28000), Rate: decimal.NewFromFloat(0.23)},
			{UpperLimit: bracketLimit(50000), Rate: decimal.NewFromFloat(0.35)},
			{UpperLimit: nil, Rate: decimal.NewFromFloat(0.43)},
		},
		MaxDeductible:        decimal.RequireFromString("5164.57"),
		StatutoryAccrualRate: decimal.NewFromFloat(0.0691),
		EmployerBalance: EmployerBalanceRules{
			RevaluationBase:    decimal.NewFromFloat(0.015),
			InflationShare:     decimal.NewFromFloat(0.75),
			RevaluationTaxRate: decimal.NewFromFloat(0.17),
		},
		FundGainTax:          decimal.NewFromFloat(0.20),
		ExternalPlanGainTax:  decimal.NewFromFloat(0.26),
		PreferentialGainTax:  decimal.NewFromFloat(0.125),
		ExternalPlanCostLoad: decimal.NewFromFloat(0.004),
		FundExit: FundExitSchedule{
			BaseRate:          decimal.NewFromFloat(0.23),
			ThresholdYears:    15,
			ThresholdRate:     decimal.NewFromFloat(0.15),
			YearlyReduction:   decimal.NewFromFloat(0.003),
			MaxReductionYears: 20,
			FloorRate:         decimal.NewFromFloat(0.09),
		},
		FundProfiles: []FundProfile{
			{Kind: VehicleFundA, Label: "Negotiated fund", CostLoad: decimal.NewFromFloat(0.00395), EmployerMatch: true},
			{Kind: VehicleFundB, Label: "Open fund", CostLoad: decimal.NewFromFloat(0.014525)},
			{Kind: VehicleFundC, Label: "Individual pension plan", CostLoad: decimal.NewFromFloat(0.022625)},
		},
	}
}

// FundProfile returns the profile registered for the given kind.
func (r *TaxRules) FundProfile(kind VehicleKind) (FundProfile, bool) {
	for _, p := range r.FundProfiles {
		if p.Kind == kind {
			return p, true
		}
	}
	return FundProfile{}, false
}

// Validate checks the bracket table and every rate for internal consistency.
func (r *TaxRules) Validate() error {
	if len(r.IncomeTaxBrackets) == 0 {
		return NewValidationError("income_tax_brackets", "at least one bracket is required")
	}
	var prevLimit, prevRate *decimal.Decimal
	for i, b := range r.IncomeTaxBrackets {
		last := i == len(r.IncomeTaxBrackets)-1
		if last && b.UpperLimit != nil {
			return NewValidationError("income_tax_brackets", "last bracket must be unbounded")
		}
		if !last && b.UpperLimit == nil {
			return NewValidationError("income_tax_brackets", "bracket %d is unbounded but not last", i)
		}
		if !isRate(b.Rate) {
			return NewValidationError("income_tax_brackets", "bracket %d rate %s outside [0,1]", i, b.Rate)
		}
		if prevRate != nil && !b.Rate.GreaterThan(*prevRate) {
			return NewValidationError("income_tax_brackets", "bracket %d rate must be greater than the previous one", i)
		}
		if b.UpperLimit != nil {
			if !b.UpperLimit.IsPositive() {
				return NewValidationError("income_tax_brackets", "bracket %d upper limit must be positive", i)
			}
			if prevLimit != nil && !b.UpperLimit.GreaterThan(*prevLimit) {
				return NewValidationError("income_tax_brackets", "bracket %d upper limit must be greater than the previous one", i)
			}
			prevLimit = b.UpperLimit
		}
		rate := b.Rate
		prevRate = &rate
	}

	if r.MaxDeductible.IsNegative() {
		return NewValidationError("max_deductible", "cannot be negative")
	}

	rates := map[string]decimal.Decimal{
		"statutory_accrual_rate":                r.StatutoryAccrualRate,
		"employer_balance.revaluation_tax_rate": r.EmployerBalance.RevaluationTaxRate,
		"fund_gain_tax":                         r.FundGainTax,
		"external_plan_gain_tax":                r.ExternalPlanGainTax,
		"preferential_gain_tax":                 r.PreferentialGainTax,
		"fund_exit.base_rate":                   r.FundExit.BaseRate,
		"fund_exit.threshold_rate":              r.FundExit.ThresholdRate,
		"fund_exit.floor_rate":                  r.FundExit.FloorRate,
	}
	for field, rate := range rates {
		if !isRate(rate) {
			return NewValidationError(field, "rate %s outside [0,1]", rate)
		}
	}

	if r.FundExit.ThresholdYears < 0 || r.FundExit.MaxReductionYears < 0 {
		return NewValidationError("fund_exit", "year counts cannot be negative")
	}

	if len(r.FundProfiles) == 0 {
		return NewValidationError("fund_profiles", "at least one fund profile is required")
	}
	for _, p := range r.FundProfiles {
		if !p.Kind.IsFund() {
			return NewValidationError("fund_profiles", "%q is not a pension fund kind", p.Kind)
		}
	}
	return nil
}

func isRate(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
