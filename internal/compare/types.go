package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ScenarioResult is the full evaluation of one configuration: vehicles and strategies
type ScenarioResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	Inputs       domain.SimulationConfig  `json:"inputs"`
	Vehicles     []domain.VehicleResult   `json:"vehicles"`
	Strategies   []domain.StrategyResult  `json:"strategies"`
	Hints        domain.ContributionHints `json:"hints"`

	// Key Metrics
	BestStrategyTotal decimal.Decimal `json:"bestStrategyTotal"`
	BestVehicleNet    decimal.Decimal `json:"bestVehicleNet"`

	// Comparison to Base
	StrategyDiffFromBase decimal.Decimal `json:"strategyDiffFromBase"`
	StrategyPctFromBase  decimal.Decimal `json:"strategyPctFromBase"`
}

// WinningStrategies returns every strategy at the maximum total net
func (sr *ScenarioResult) WinningStrategies() []domain.StrategyResult {
	var out []domain.StrategyResult
	for _, s := range sr.Strategies {
		if s.Winner {
			out = append(out, s)
		}
	}
	return out
}

// WinningVehicles returns every ranked vehicle at the maximum net amount
func (sr *ScenarioResult) WinningVehicles() []domain.VehicleResult {
	var out []domain.VehicleResult
	for _, v := range sr.Vehicles {
		if v.Winner {
			out = append(out, v)
		}
	}
	return out
}

// ComparisonSet represents the base evaluation plus any what-if variants
type ComparisonSet struct {
	BaseScenarioName string           `json:"baseScenarioName"`
	BaseResult       *ScenarioResult  `json:"baseResult"`
	Variants         []ScenarioResult `json:"variants"`
	Recommendations  []string         `json:"recommendations"`
	ConfigPath       string           `json:"configPath"`
}

// MetricsCalculator extracts key metrics from evaluated scenarios
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics fills the best totals of a scenario
func (mc *MetricsCalculator) CalculateMetrics(result *ScenarioResult) {
	result.BestStrategyTotal = maxStrategyTotal(result.Strategies)
	result.BestVehicleNet = maxVehicleNet(result.Vehicles)
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario *ScenarioResult, base *ScenarioResult) {
	scenario.StrategyDiffFromBase = scenario.BestStrategyTotal.Sub(base.BestStrategyTotal)
	if !base.BestStrategyTotal.IsZero() {
		scenario.StrategyPctFromBase = scenario.StrategyDiffFromBase.
			Div(base.BestStrategyTotal).
			Mul(decimal.NewFromInt(100))
	}
}

func maxStrategyTotal(results []domain.StrategyResult) decimal.Decimal {
	best := decimal.Zero
	for i, r := range results {
		if i == 0 || r.TotalNet.GreaterThan(best) {
			best = r.TotalNet
		}
	}
	return best
}

// maxVehicleNet follows the winner flags, so the external plan is left out
func maxVehicleNet(results []domain.VehicleResult) decimal.Decimal {
	best := decimal.Zero
	found := false
	for _, r := range results {
		if !r.Kind.Ranked() {
			continue
		}
		if !found || r.NetAmount.GreaterThan(best) {
			best = r.NetAmount
			found = true
		}
	}
	return best
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	base := compSet.BaseResult
	if base == nil {
		return recommendations
	}

	if !base.Inputs.AnnualVoluntaryContribution().IsPositive() {
		recommendations = append(recommendations,
			"No voluntary contribution: every strategy reduces to the fund with the statutory accrual only")
	}

	if winners := base.WinningStrategies(); len(winners) == 1 {
		recommendations = append(recommendations,
			fmt.Sprintf("Best Strategy: %s with a total net of €%s", winners[0].Label, winners[0].TotalNet.StringFixed(0)))
	} else if len(winners) > 1 {
		labels := make([]string, 0, len(winners))
		for _, w := range winners {
			labels = append(labels, w.Label)
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Tied Strategies: %s all reach €%s", strings.Join(labels, ", "), winners[0].TotalNet.StringFixed(0)))
	}

	if winners := base.WinningVehicles(); len(winners) > 0 {
		labels := make([]string, 0, len(winners))
		for _, w := range winners {
			labels = append(labels, w.Label)
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Best Vehicle: %s (€%s net at exit)", strings.Join(labels, ", "), winners[0].NetAmount.StringFixed(0)))
	}

	if eb, ok := findVehicle(base.Vehicles, domain.VehicleEmployerBalance); ok {
		if fa, ok := findVehicle(base.Vehicles, domain.VehicleFundA); ok && fa.TotalNet.GreaterThan(eb.TotalNet) {
			recommendations = append(recommendations,
				fmt.Sprintf("Moving the severance accrual to the negotiated fund adds €%s over leaving it with the employer",
					fa.TotalNet.Sub(eb.TotalNet).StringFixed(0)))
		}
	}

	// Find the variant with the best strategy total
	var bestVariant *ScenarioResult
	for i := range compSet.Variants {
		v := &compSet.Variants[i]
		if bestVariant == nil || v.BestStrategyTotal.GreaterThan(bestVariant.BestStrategyTotal) {
			bestVariant = v
		}
	}
	if bestVariant != nil && bestVariant.StrategyDiffFromBase.IsPositive() {
		recommendations = append(recommendations,
			fmt.Sprintf("Best Variant: %s adds €%s to the best total (%s%%)",
				bestVariant.ScenarioName,
				bestVariant.StrategyDiffFromBase.StringFixed(0),
				bestVariant.StrategyPctFromBase.StringFixed(1)))
	}

	return recommendations
}

func findVehicle(results []domain.VehicleResult, kind domain.VehicleKind) (domain.VehicleResult, bool) {
	for _, v := range results {
		if v.Kind == kind {
			return v, true
		}
	}
	return domain.VehicleResult{}, false
}
