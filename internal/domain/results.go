package domain

import (
	"github.com/shopspring/decimal"
)

// VehicleKind identifies a savings vehicle.
type VehicleKind string

const (
	VehicleEmployerBalance VehicleKind = "employer_balance"
	VehicleFundA           VehicleKind = "fund_a"
	VehicleFundB           VehicleKind = "fund_b"
	VehicleFundC           VehicleKind = "fund_c"
	VehicleExternalPlan    VehicleKind = "external_plan"
)

// AllVehicleKinds lists the vehicles in display order.
var AllVehicleKinds = []VehicleKind{
	VehicleEmployerBalance,
	VehicleFundA,
	VehicleFundB,
	VehicleFundC,
	VehicleExternalPlan,
}

// IsFund reports whether the kind is one of the pension fund profiles.
func (k VehicleKind) IsFund() bool {
	return k == VehicleFundA || k == VehicleFundB || k == VehicleFundC
}

// Ranked reports whether the kind competes for the winner flag. Only the destinations of
// the severance accrual are ranked; the external plan is a side investment.
func (k VehicleKind) Ranked() bool {
	return k == VehicleEmployerBalance || k.IsFund()
}

// Valid reports whether the kind is known.
func (k VehicleKind) Valid() bool {
	for _, v := range AllVehicleKinds {
		if v == k {
			return true
		}
	}
	return false
}

// VehicleProfile is the tagged description a vehicle calculation runs against.
type VehicleProfile struct {
	Kind          VehicleKind     `json:"kind"`
	Label         string          `json:"label"`
	CostLoad      decimal.Decimal `json:"cost_load"`
	EmployerMatch bool            `json:"employer_match"`
}

// AnnualBreakdown is what flows into a vehicle each year.
type AnnualBreakdown struct {
	StatutoryAccrual decimal.Decimal `json:"statutory_accrual"`
	Voluntary        decimal.Decimal `json:"voluntary"`
	Employer         decimal.Decimal `json:"employer"`
}

// Total returns the sum of all annual flows.
func (b AnnualBreakdown) Total() decimal.Decimal {
	return b.StatutoryAccrual.Add(b.Voluntary).Add(b.Employer)
}

// VehicleResult is the outcome of routing money into one vehicle for the whole horizon.
type VehicleResult struct {
	Kind            VehicleKind     `json:"kind"`
	Label           string          `json:"label"`
	AnnualBreakdown AnnualBreakdown `json:"annual_breakdown"`
	// Yearly growth rate after costs and gain tax
	NetGrowthRate      decimal.Decimal `json:"net_growth_rate"`
	FinalCapital       decimal.Decimal `json:"final_capital"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	// Negative for an external plan that lost money: the loss is reduced at the gain tax rate
	LiquidationTax     decimal.Decimal `json:"liquidation_tax"`
	// Rate applied at exit: average income tax, fund exit rate or blended gain tax
	LiquidationTaxRate decimal.Decimal `json:"liquidation_tax_rate"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	TaxSaving          decimal.Decimal `json:"tax_saving"`
	TotalNet           decimal.Decimal `json:"total_net"`
	// Invalid when nothing was contributed
	AnnualizedReturn decimal.NullDecimal `json:"annualized_return"`
	Winner           bool                `json:"winner"`
}

// ContributionHints are the monthly thresholds worth knowing before choosing a contribution.
type ContributionHints struct {
	// Monthly amount at which the employer match is earned
	MonthlyForEmployerMatch decimal.Decimal `json:"monthly_for_employer_match"`
	// Largest fully deductible monthly amount for the negotiated fund, net of the match
	MaxDeductibleMonthlyWithMatch decimal.Decimal `json:"max_deductible_monthly_with_match"`
	// Largest fully deductible monthly amount for open funds and individual plans
	MaxDeductibleMonthly decimal.Decimal `json:"max_deductible_monthly"`
}

// VehicleTable is the full comparison of every vehicle for one configuration.
type VehicleTable struct {
	Inputs   SimulationConfig  `json:"inputs"`
	Vehicles []VehicleResult   `json:"vehicles"`
	Hints    ContributionHints `json:"hints"`
}

// Winners returns the ranked vehicles whose net amount equals the maximum.
func (t *VehicleTable) Winners() []VehicleResult {
	var winners []VehicleResult
	for _, v := range t.Vehicles {
		if v.Winner {
			winners = append(winners, v)
		}
	}
	return winners
}

// Vehicle returns the result for the given kind.
func (t *VehicleTable) Vehicle(kind VehicleKind) (VehicleResult, bool) {
	for _, v := range t.Vehicles {
		if v.Kind == kind {
			return v, true
		}
	}
	return VehicleResult{}, false
}

// StrategyKind identifies how the voluntary saving is split between fund and external plan.
type StrategyKind string

const (
	// Everything into the fund; the tax saving is reinvested in the external plan
	StrategyFundAndTaxSaving StrategyKind = "fund_and_tax_saving"
	// Fund up to the deductible ceiling; saving plus overflow to the external plan
	StrategyFundMaxDeductible StrategyKind = "fund_max_deductible"
	// Only the minimum that earns the employer match into the fund; the rest external
	StrategyFundMinMatch StrategyKind = "fund_min_match"
	// Nothing voluntary into the fund
	StrategyExternalOnly StrategyKind = "external_only"
)

// AllStrategyKinds lists the strategies in display order.
var AllStrategyKinds = []StrategyKind{
	StrategyFundAndTaxSaving,
	StrategyFundMaxDeductible,
	StrategyFundMinMatch,
	StrategyExternalOnly,
}

// Label returns a short human-readable name.
func (k StrategyKind) Label() string {
	switch k {
	case StrategyFundAndTaxSaving:
		return "Fund + saving to plan"
	case StrategyFundMaxDeductible:
		return "Fund max + plan rest"
	case StrategyFundMinMatch:
		return "Fund min + plan rest"
	case StrategyExternalOnly:
		return "Plan only"
	default:
		return string(k)
	}
}

// StrategyResult is the outcome of one allocation strategy.
type StrategyResult struct {
	Kind                       StrategyKind    `json:"kind"`
	Label                      string          `json:"label"`
	AnnualTaxSaving            decimal.Decimal `json:"annual_tax_saving"`
	FundAnnualContribution     decimal.Decimal `json:"fund_annual_contribution"`
	ExternalAnnualContribution decimal.Decimal `json:"external_annual_contribution"`
	ExternalNetGrowthRate      decimal.Decimal `json:"external_net_growth_rate"`
	ExternalGainTaxRate        decimal.Decimal `json:"external_gain_tax_rate"`
	FundNet                    decimal.Decimal `json:"fund_net"`
	ExternalNet                decimal.Decimal `json:"external_net"`
	TotalNet                   decimal.Decimal `json:"total_net"`
	Winner                     bool            `json:"winner"`
}
