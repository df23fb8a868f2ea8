package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/rgehrsitz/tfrgo/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver finds break-even values by bisection on one input parameter
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Strategies *compare.StrategyCalculator
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Strategies: compare.NewStrategyCalculator(calcEngine.Vehicles),
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve searches [Min, Max] for the parameter value at which both competitors reach the
// same total net. The difference must change sign across the range.
func (s *Solver) Solve(ctx context.Context, base *domain.SimulationConfig, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.CalcEngine.Validate(base); err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "invalid base configuration", Cause: err}
	}

	maxIterations := s.Options.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultSolverOptions().MaxIterations
	}
	tolerance := s.Options.Tolerance
	if !tolerance.IsPositive() {
		tolerance = DefaultSolverOptions().Tolerance
	}

	// Horizon years only take whole values
	integer := req.Parameter == domain.ParamHorizonYears
	lo, hi := req.Min, req.Max
	if integer {
		lo, hi = lo.Ceil(), hi.Floor()
		tolerance = decimal.NewFromInt(1)
	}

	dLo, err := s.difference(base, req, lo)
	if err != nil {
		return nil, err
	}
	dHi, err := s.difference(base, req, hi)
	if err != nil {
		return nil, err
	}

	leaderBelow := req.First
	if dLo.IsNegative() {
		leaderBelow = req.Second
	}

	switch {
	case dLo.IsZero():
		return s.result(base, req, lo, 0, true, "Competitors tie at the lower bound", leaderBelow)
	case dHi.IsZero():
		return s.result(base, req, hi, 0, true, "Competitors tie at the upper bound", leaderBelow)
	case dLo.Sign() == dHi.Sign():
		leader := req.First
		if dLo.IsNegative() {
			leader = req.Second
		}
		return nil, &BreakEvenError{
			Operation: "solve",
			Message: fmt.Sprintf("no break-even for %s between %s and %s: %s leads throughout",
				req.Parameter, lo, hi, leader),
		}
	}

	two := decimal.NewFromInt(2)
	iterations := 0
	converged := false
	info := ""
	var exact *decimal.Decimal

	for iterations < maxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if hi.Sub(lo).LessThanOrEqual(tolerance) {
			converged = true
			info = fmt.Sprintf("Bracket narrowed below %s", tolerance)
			break
		}

		iterations++
		mid := lo.Add(hi).Div(two)
		if integer {
			mid = mid.Floor()
		}

		dMid, err := s.difference(base, req, mid)
		if err != nil {
			return nil, err
		}
		s.CalcEngine.Logger.Debugf("break-even %s: iteration %d %s=%s difference=%s",
			req.Name, iterations, req.Parameter, mid, dMid.StringFixed(2))

		if dMid.Abs().LessThan(s.moneyTolerance()) {
			exact = &mid
			converged = true
			info = fmt.Sprintf("Totals within €%s", s.moneyTolerance())
			break
		}

		if dMid.Sign() == dLo.Sign() {
			lo, dLo = mid, dMid
		} else {
			hi = mid
		}
	}

	if !converged {
		info = fmt.Sprintf("Max iterations (%d) reached", maxIterations)
	}

	var value decimal.Decimal
	switch {
	case exact != nil:
		value = *exact
	case integer:
		// first whole value past the crossing
		value = hi
	default:
		value = lo.Add(hi).Div(two)
	}

	return s.result(base, req, value, iterations, converged, info, leaderBelow)
}

func (s *Solver) moneyTolerance() decimal.Decimal {
	if s.Options.MoneyTolerance.IsPositive() {
		return s.Options.MoneyTolerance
	}
	return DefaultSolverOptions().MoneyTolerance
}

func (s *Solver) result(base *domain.SimulationConfig, req Request, value decimal.Decimal,
	iterations int, converged bool, info string, leaderBelow Competitor) (*Result, error) {

	cfg, err := s.configAt(base, req, value)
	if err != nil {
		return nil, err
	}
	first, err := s.total(cfg, req.First)
	if err != nil {
		return nil, err
	}
	second, err := s.total(cfg, req.Second)
	if err != nil {
		return nil, err
	}

	return &Result{
		Request:         req,
		Value:           value,
		FirstTotal:      first,
		SecondTotal:     second,
		Difference:      first.Sub(second),
		Iterations:      iterations,
		Converged:       converged,
		ConvergenceInfo: info,
		LeaderBelow:     leaderBelow,
	}, nil
}

// difference returns first minus second total net at the given parameter value
func (s *Solver) difference(base *domain.SimulationConfig, req Request, value decimal.Decimal) (decimal.Decimal, error) {
	cfg, err := s.configAt(base, req, value)
	if err != nil {
		return decimal.Zero, err
	}
	first, err := s.total(cfg, req.First)
	if err != nil {
		return decimal.Zero, err
	}
	second, err := s.total(cfg, req.Second)
	if err != nil {
		return decimal.Zero, err
	}
	return first.Sub(second), nil
}

func (s *Solver) configAt(base *domain.SimulationConfig, req Request, value decimal.Decimal) (*domain.SimulationConfig, error) {
	cfg, err := transform.ApplyTransforms(base, []transform.ConfigTransform{
		&transform.SetParameter{Parameter: req.Parameter, Value: value},
	})
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("cannot evaluate %s=%s", req.Parameter, value),
			Cause:     err,
		}
	}
	return cfg, nil
}

func (s *Solver) total(cfg *domain.SimulationConfig, c Competitor) (decimal.Decimal, error) {
	if c.Strategy != "" {
		r, err := s.Strategies.Evaluate(c.Strategy, cfg)
		if err != nil {
			return decimal.Zero, &BreakEvenError{Operation: "solve", Message: "failed to evaluate " + c.String(), Cause: err}
		}
		return r.TotalNet, nil
	}

	profile, err := s.CalcEngine.Vehicles.Profile(c.Vehicle)
	if err != nil {
		return decimal.Zero, &BreakEvenError{Operation: "solve", Message: "unknown " + c.String(), Cause: err}
	}
	r, err := s.CalcEngine.Vehicles.Calculate(cfg, profile)
	if err != nil {
		return decimal.Zero, &BreakEvenError{Operation: "solve", Message: "failed to evaluate " + c.String(), Cause: err}
	}
	return r.TotalNet, nil
}
