package calculation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
	// Upper bound on concurrently evaluated points; <= 0 means GOMAXPROCS
	Concurrency int
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// AnalyzeSingleParameter sweeps one parameter between its bounds and computes the vehicle
// table at every point
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	base *domain.SimulationConfig,
	parameter domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if base == nil {
		return nil, domain.NewValidationError("simulation", "configuration is required")
	}
	if _, err := base.Parameter(parameter.Name); err != nil {
		return nil, err
	}
	if parameter.MinValue.GreaterThan(parameter.MaxValue) {
		return nil, domain.NewValidationError("parameter", "min %s is greater than max %s",
			parameter.MinValue, parameter.MaxValue)
	}

	values := sa.generateParameterValues(base, parameter)
	points := make([]domain.SensitivityPoint, len(values))

	limit := sa.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, value := range values {
		g.Go(func() error {
			modified := base.DeepCopy()
			if err := modified.SetParameter(parameter.Name, value); err != nil {
				return err
			}
			table, err := sa.calculationEngine.RunVehicles(gctx, modified)
			if err != nil {
				return fmt.Errorf("failed to run %s=%s: %w", parameter.Name, value, err)
			}
			points[i] = domain.SensitivityPoint{
				Value:   value,
				Table:   table,
				Winners: winnerKinds(table),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sa.calculationEngine.Logger.Infof("sensitivity sweep of %s: %d points", parameter.Name, len(points))

	return &domain.ParameterSensitivityAnalysis{
		Parameter: parameter,
		Points:    points,
		Summary:   sa.calculateSensitivitySummary(parameter, points),
	}, nil
}

// generateParameterValues generates values for a parameter sweep
func (sa *SensitivityAnalyzer) generateParameterValues(base *domain.SimulationConfig, param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		current, _ := base.Parameter(param.Name)
		return []decimal.Decimal{current}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

func (sa *SensitivityAnalyzer) calculateSensitivitySummary(param domain.SensitivityParameter, points []domain.SensitivityPoint) domain.SensitivitySummary {
	summary := domain.SensitivitySummary{}
	if len(points) == 0 {
		return summary
	}

	for _, kind := range domain.AllVehicleKinds {
		r := domain.VehicleRange{Kind: kind}
		for i, p := range points {
			v, ok := p.Table.Vehicle(kind)
			if !ok {
				continue
			}
			if i == 0 {
				r.MinTotalNet, r.MaxTotalNet = v.TotalNet, v.TotalNet
				continue
			}
			r.MinTotalNet = decimal.Min(r.MinTotalNet, v.TotalNet)
			r.MaxTotalNet = decimal.Max(r.MaxTotalNet, v.TotalNet)
		}
		summary.Ranges = append(summary.Ranges, r)
	}

	for i := 1; i < len(points); i++ {
		if !sameKinds(points[i-1].Winners, points[i].Winners) {
			summary.WinnerChanges = append(summary.WinnerChanges, points[i].Value)
		}
	}

	if len(summary.WinnerChanges) == 0 {
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("The best vehicle does not depend on %s within the swept range", param.Name))
	} else {
		for _, v := range summary.WinnerChanges {
			summary.Recommendations = append(summary.Recommendations,
				fmt.Sprintf("The best vehicle changes around %s = %s", param.Name, v.StringFixed(4)))
		}
	}
	return summary
}

func winnerKinds(table *domain.VehicleTable) []domain.VehicleKind {
	var kinds []domain.VehicleKind
	for _, w := range table.Winners() {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}

func sameKinds(a, b []domain.VehicleKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
