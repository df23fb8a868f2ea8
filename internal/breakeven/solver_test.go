package breakeven

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

func referenceConfig(monthly int64) *domain.SimulationConfig {
	cfg := domain.DefaultSimulationConfig()
	cfg.BondFraction = decimal.RequireFromString("0.4")
	cfg.MonthlyVoluntaryContribution = decimal.NewFromInt(monthly)
	return &cfg
}

func mustPreset(t *testing.T, name string) Request {
	t.Helper()
	req, ok := Preset(name)
	if !ok {
		t.Fatalf("Preset %s not found", name)
	}
	return req
}

func assertNear(t *testing.T, name string, want float64, got decimal.Decimal, tolerance float64) {
	t.Helper()
	diff := got.InexactFloat64() - want
	if diff < -tolerance || diff > tolerance {
		t.Errorf("%s: expected %.6f ± %g, got %s", name, want, tolerance, got)
	}
}

func TestNewSolver(t *testing.T) {
	calcEngine := calculation.NewCalculationEngine()
	options := DefaultSolverOptions()
	options.MaxIterations = 7

	solver := NewSolver(calcEngine, options)

	if solver == nil {
		t.Fatal("Expected solver to be created, got nil")
	}
	if solver.CalcEngine != calcEngine {
		t.Error("Expected CalcEngine to match input")
	}
	if solver.Options.MaxIterations != 7 {
		t.Error("Expected Options to match input")
	}
	if solver.Strategies == nil || solver.Strategies.Vehicles != calcEngine.Vehicles {
		t.Error("Expected strategies to share the engine's vehicle calculator")
	}
}

func TestNewDefaultSolver(t *testing.T) {
	solver := NewDefaultSolver(nil)

	if solver.CalcEngine == nil {
		t.Fatal("Expected a default calculation engine")
	}
	expected := DefaultSolverOptions()
	if solver.Options.MaxIterations != expected.MaxIterations {
		t.Error("Expected default max iterations to be applied")
	}
	if !solver.Options.Tolerance.Equal(expected.Tolerance) {
		t.Error("Expected default tolerance to be applied")
	}
}

func TestSolver_FundVsEmployerReturn(t *testing.T) {
	solver := NewDefaultSolver(nil)

	result, err := solver.Solve(context.Background(), referenceConfig(0), mustPreset(t, PresetFundVsEmployerReturn))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !result.Converged {
		t.Errorf("Expected convergence, got %s", result.ConvergenceInfo)
	}
	assertNear(t, "return", 0.0216914, result.Value, 0.00001)
	assertNear(t, "employer total", 81676.42, result.SecondTotal, 0.01)
	if result.Difference.Abs().GreaterThan(decimal.NewFromInt(5)) {
		t.Errorf("Expected totals to meet, difference %s", result.Difference)
	}
	if result.LeaderBelow != VehicleCompetitor(domain.VehicleEmployerBalance) {
		t.Errorf("Expected the employer balance to lead at low returns, got %s", result.LeaderBelow)
	}
	if result.Iterations == 0 || result.Iterations > DefaultSolverOptions().MaxIterations {
		t.Errorf("Unexpected iteration count %d", result.Iterations)
	}
}

func TestSolver_ExternalVsFundReturn(t *testing.T) {
	solver := NewDefaultSolver(nil)

	result, err := solver.Solve(context.Background(), referenceConfig(100), mustPreset(t, PresetExternalVsFundReturn))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertNear(t, "external return", 0.0664134, result.Value, 0.00001)
	if result.LeaderBelow != StrategyCompetitor(domain.StrategyFundAndTaxSaving) {
		t.Errorf("Expected the fund strategy to lead at low plan returns, got %s", result.LeaderBelow)
	}
}

func TestSolver_FundVsEmployerInflation(t *testing.T) {
	solver := NewDefaultSolver(nil)

	result, err := solver.Solve(context.Background(), referenceConfig(0), mustPreset(t, PresetFundVsEmployerInflation))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertNear(t, "inflation", 0.0313721, result.Value, 0.00001)
}

func TestSolver_HorizonYearsWholeValues(t *testing.T) {
	solver := NewDefaultSolver(nil)
	base := referenceConfig(0)
	base.GrossAnnualReturnRate = decimal.RequireFromString("0.022")

	req := Request{
		Name:      "years",
		Parameter: domain.ParamHorizonYears,
		Min:       decimal.NewFromInt(20),
		Max:       decimal.NewFromInt(42),
		First:     VehicleCompetitor(domain.VehicleFundA),
		Second:    VehicleCompetitor(domain.VehicleEmployerBalance),
	}

	result, err := solver.Solve(context.Background(), base, req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// the fund leads up to 35 years and trails from 36
	if !result.Value.Equal(decimal.NewFromInt(36)) {
		t.Errorf("Expected 36 years, got %s", result.Value)
	}
	if !result.Difference.IsNegative() {
		t.Errorf("Expected the fund to trail at 36 years, got %s", result.Difference)
	}
	if !result.Converged {
		t.Error("Expected convergence")
	}
}

func TestSolver_TieAtBound(t *testing.T) {
	solver := NewDefaultSolver(nil)

	// one year of accrual: exit tax and average income tax are both 23%
	req := Request{
		Parameter: domain.ParamHorizonYears,
		Min:       decimal.NewFromInt(1),
		Max:       decimal.NewFromInt(10),
		First:     VehicleCompetitor(domain.VehicleFundA),
		Second:    VehicleCompetitor(domain.VehicleEmployerBalance),
	}
	result, err := solver.Solve(context.Background(), referenceConfig(0), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Value.Equal(decimal.NewFromInt(1)) || result.Iterations != 0 {
		t.Errorf("Expected a tie at the lower bound, got %s after %d iterations", result.Value, result.Iterations)
	}
}

func TestSolver_NoCrossing(t *testing.T) {
	solver := NewDefaultSolver(nil)

	req := Request{
		Name:      "min_match",
		Parameter: domain.ParamMonthly,
		Min:       decimal.NewFromInt(1),
		Max:       decimal.NewFromInt(2000),
		First:     StrategyCompetitor(domain.StrategyFundMinMatch),
		Second:    StrategyCompetitor(domain.StrategyFundAndTaxSaving),
	}

	result, err := solver.Solve(context.Background(), referenceConfig(100), req)
	if result != nil {
		t.Error("Expected no result")
	}
	var be *BreakEvenError
	if !errors.As(err, &be) {
		t.Fatalf("Expected BreakEvenError, got %v", err)
	}
	if !strings.Contains(be.Message, "leads throughout") {
		t.Errorf("Unexpected message: %s", be.Message)
	}
}

func TestSolver_InvalidRequests(t *testing.T) {
	solver := NewDefaultSolver(nil)
	valid := mustPreset(t, PresetFundVsEmployerReturn)

	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{"unknown parameter", func(r *Request) { r.Parameter = "salary" }},
		{"empty range", func(r *Request) { r.Max = r.Min }},
		{"same competitors", func(r *Request) { r.Second = r.First }},
		{"empty competitor", func(r *Request) { r.First = Competitor{} }},
		{"both sides set", func(r *Request) {
			r.First = Competitor{Vehicle: domain.VehicleFundA, Strategy: domain.StrategyExternalOnly}
		}},
		{"unknown vehicle", func(r *Request) { r.First = VehicleCompetitor("fund_z") }},
		{"unknown strategy", func(r *Request) { r.First = StrategyCompetitor("all_in") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			_, err := solver.Solve(context.Background(), referenceConfig(0), req)
			var be *BreakEvenError
			if !errors.As(err, &be) {
				t.Fatalf("Expected BreakEvenError, got %v", err)
			}
			if be.Operation != "validate_request" {
				t.Errorf("Expected validate_request, got %s", be.Operation)
			}
		})
	}
}

func TestSolver_InvalidBase(t *testing.T) {
	solver := NewDefaultSolver(nil)
	base := referenceConfig(0)
	base.GrossAnnualIncome = decimal.Zero

	_, err := solver.Solve(context.Background(), base, mustPreset(t, PresetFundVsEmployerReturn))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestSolver_ContextCancellation(t *testing.T) {
	solver := NewDefaultSolver(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.Solve(ctx, referenceConfig(0), mustPreset(t, PresetFundVsEmployerReturn))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSolver_MaxIterations(t *testing.T) {
	options := DefaultSolverOptions()
	options.MaxIterations = 3
	solver := NewSolver(nil, options)

	result, err := solver.Solve(context.Background(), referenceConfig(0), mustPreset(t, PresetFundVsEmployerReturn))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Converged {
		t.Error("Expected no convergence after 3 iterations")
	}
	if result.Iterations != 3 {
		t.Errorf("Expected 3 iterations, got %d", result.Iterations)
	}
	if !strings.Contains(result.ConvergenceInfo, "Max iterations (3) reached") {
		t.Errorf("Unexpected convergence info: %s", result.ConvergenceInfo)
	}
}

func TestSolver_SolveAll(t *testing.T) {
	solver := NewDefaultSolver(nil)

	requests := append(Presets(), Request{
		Name:      "min_match",
		Parameter: domain.ParamMonthly,
		Min:       decimal.NewFromInt(1),
		Max:       decimal.NewFromInt(2000),
		First:     StrategyCompetitor(domain.StrategyFundMinMatch),
		Second:    StrategyCompetitor(domain.StrategyFundAndTaxSaving),
	})

	// at €100 a month the negotiated and open funds beat the employer at every return from 0%
	multi, err := solver.SolveAll(context.Background(), referenceConfig(100), requests)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := []string{PresetExternalVsFundReturn, PresetFundVsEmployerInflation}
	if len(multi.Results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(multi.Results))
	}
	for i, r := range multi.Results {
		if r.Request.Name != expected[i] {
			t.Errorf("Expected results in request order, got %s at %d", r.Request.Name, i)
		}
	}
	for _, name := range []string{PresetFundVsEmployerReturn, PresetOpenFundVsEmployerReturn, "min_match"} {
		if _, ok := multi.Failed[name]; !ok {
			t.Errorf("Expected %s in failed, got %v", name, multi.Failed)
		}
	}
}

func TestSolver_NegativeReturnBound(t *testing.T) {
	solver := NewDefaultSolver(nil)
	req := mustPreset(t, PresetFundVsEmployerReturn)
	req.Min = decimal.RequireFromString("-0.05")

	_, err := solver.Solve(context.Background(), referenceConfig(0), req)
	var be *BreakEvenError
	if !errors.As(err, &be) {
		t.Fatalf("Expected BreakEvenError, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput underneath, got %v", err)
	}
}

func TestSolver_SolveAllEmpty(t *testing.T) {
	if _, err := NewDefaultSolver(nil).SolveAll(context.Background(), referenceConfig(0), nil); err == nil {
		t.Error("Expected error for no requests")
	}
}

func TestTableFormatter_Format(t *testing.T) {
	solver := NewDefaultSolver(nil)
	result, err := solver.Solve(context.Background(), referenceConfig(0), mustPreset(t, PresetFundVsEmployerReturn))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out := (&TableFormatter{}).Format(result)
	for _, want := range []string{
		"BREAK-EVEN RESULT",
		"Question:    fund_vs_employer_return",
		"return in [0.000%, 15.000%]",
		"✓ Converged",
		"return = 2.169%",
		"vehicle employer_balance leads below it",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestTableFormatter_FormatMulti(t *testing.T) {
	multi := &MultiResult{
		Results: []Result{{
			Request:    Request{Name: "years", Parameter: domain.ParamHorizonYears},
			Value:      decimal.NewFromInt(36),
			FirstTotal: decimal.NewFromInt(120000),
		}},
		Failed: map[string]string{"b": "no crossing", "a": "no crossing"},
	}

	out := (&TableFormatter{}).FormatMulti(multi)
	if !strings.Contains(out, "36 years") || !strings.Contains(out, "€120.0K") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
	if strings.Index(out, "• a:") > strings.Index(out, "• b:") {
		t.Error("Expected failures sorted by name")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := (&JSONFormatter{}).Format(&Result{
		Request: mustPreset(t, PresetFundVsEmployerReturn),
		Value:   decimal.RequireFromString("0.0217"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, `"value":"0.0217"`) {
		t.Errorf("Unexpected JSON: %s", out)
	}
}
