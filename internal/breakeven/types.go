package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// Competitor is one side of a break-even: either a vehicle or an allocation strategy
type Competitor struct {
	Vehicle  domain.VehicleKind  `json:"vehicle,omitempty"`
	Strategy domain.StrategyKind `json:"strategy,omitempty"`
}

// VehicleCompetitor wraps a vehicle kind
func VehicleCompetitor(kind domain.VehicleKind) Competitor {
	return Competitor{Vehicle: kind}
}

// StrategyCompetitor wraps a strategy kind
func StrategyCompetitor(kind domain.StrategyKind) Competitor {
	return Competitor{Strategy: kind}
}

func (c Competitor) String() string {
	if c.Strategy != "" {
		return "strategy " + string(c.Strategy)
	}
	return "vehicle " + string(c.Vehicle)
}

// Validate checks that exactly one side is set and that it is known
func (c Competitor) Validate() error {
	switch {
	case c.Vehicle != "" && c.Strategy != "":
		return &BreakEvenError{Operation: "validate_request", Message: "competitor must be a vehicle or a strategy, not both"}
	case c.Vehicle != "":
		if !c.Vehicle.Valid() {
			return &BreakEvenError{Operation: "validate_request", Message: fmt.Sprintf("unknown vehicle %q", c.Vehicle)}
		}
	case c.Strategy != "":
		for _, k := range domain.AllStrategyKinds {
			if k == c.Strategy {
				return nil
			}
		}
		return &BreakEvenError{Operation: "validate_request", Message: fmt.Sprintf("unknown strategy %q", c.Strategy)}
	default:
		return &BreakEvenError{Operation: "validate_request", Message: "competitor is empty"}
	}
	return nil
}

// Request asks for the value of Parameter, within [Min, Max], at which First and Second
// reach the same total net
type Request struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameter   string          `json:"parameter"`
	Min         decimal.Decimal `json:"min"`
	Max         decimal.Decimal `json:"max"`
	First       Competitor      `json:"first"`
	Second      Competitor      `json:"second"`
}

// Validate checks the request against the known parameters and competitors
func (r *Request) Validate() error {
	known := false
	for _, p := range domain.SweepableParameters {
		if p == r.Parameter {
			known = true
			break
		}
	}
	if !known {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   fmt.Sprintf("unknown parameter %q", r.Parameter),
		}
	}
	if !r.Min.LessThan(r.Max) {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   fmt.Sprintf("min %s must be less than max %s", r.Min, r.Max),
		}
	}
	if err := r.First.Validate(); err != nil {
		return err
	}
	if err := r.Second.Validate(); err != nil {
		return err
	}
	if r.First == r.Second {
		return &BreakEvenError{Operation: "validate_request", Message: "competitors must differ"}
	}
	return nil
}

// Result is the outcome of one break-even search
type Result struct {
	Request         Request         `json:"request"`
	Value           decimal.Decimal `json:"value"`
	FirstTotal      decimal.Decimal `json:"first_total"`
	SecondTotal     decimal.Decimal `json:"second_total"`
	Difference      decimal.Decimal `json:"difference"`
	Iterations      int             `json:"iterations"`
	Converged       bool            `json:"converged"`
	ConvergenceInfo string          `json:"convergence_info"`
	// Which competitor leads below the break-even value
	LeaderBelow Competitor `json:"leader_below"`
}

// MultiResult collects the outcomes of several searches
type MultiResult struct {
	Results []Result          `json:"results"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// Preset names
const (
	PresetFundVsEmployerReturn     = "fund_vs_employer_return"
	PresetExternalVsFundReturn     = "external_vs_fund_return"
	PresetOpenFundVsEmployerReturn = "open_fund_vs_employer_return"
	PresetFundVsEmployerInflation  = "fund_vs_employer_inflation"
)

// Presets returns the built-in break-even questions
func Presets() []Request {
	return []Request{
		{
			Name:        PresetFundVsEmployerReturn,
			Description: "Gross fund return at which the negotiated fund matches leaving the severance with the employer",
			Parameter:   domain.ParamReturnRate,
			Min:         decimal.Zero,
			Max:         decimal.RequireFromString("0.15"),
			First:       VehicleCompetitor(domain.VehicleFundA),
			Second:      VehicleCompetitor(domain.VehicleEmployerBalance),
		},
		{
			Name:        PresetExternalVsFundReturn,
			Description: "External plan return at which investing only there matches the full fund contribution",
			Parameter:   domain.ParamExternalReturn,
			Min:         decimal.Zero,
			Max:         decimal.RequireFromString("0.20"),
			First:       StrategyCompetitor(domain.StrategyExternalOnly),
			Second:      StrategyCompetitor(domain.StrategyFundAndTaxSaving),
		},
		{
			Name:        PresetOpenFundVsEmployerReturn,
			Description: "Gross fund return at which an open fund matches leaving the severance with the employer",
			Parameter:   domain.ParamReturnRate,
			Min:         decimal.Zero,
			Max:         decimal.RequireFromString("0.15"),
			First:       VehicleCompetitor(domain.VehicleFundB),
			Second:      VehicleCompetitor(domain.VehicleEmployerBalance),
		},
		{
			Name:        PresetFundVsEmployerInflation,
			Description: "Inflation at which the employer balance catches up with the negotiated fund",
			Parameter:   domain.ParamInflation,
			Min:         decimal.Zero,
			Max:         decimal.RequireFromString("0.15"),
			First:       VehicleCompetitor(domain.VehicleFundA),
			Second:      VehicleCompetitor(domain.VehicleEmployerBalance),
		},
	}
}

// Preset returns a built-in request by name
func Preset(name string) (Request, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Request{}, false
}

// SolverOptions configures the bisection
type SolverOptions struct {
	Tolerance      decimal.Decimal // Stop when the bracket is narrower than this
	MoneyTolerance decimal.Decimal // Stop when the totals differ by less than this
	MaxIterations  int
	Concurrency    int // Searches run at once by SolveAll
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:      decimal.RequireFromString("0.000001"),
		MoneyTolerance: decimal.RequireFromString("0.01"),
		MaxIterations:  100,
		Concurrency:    4,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
