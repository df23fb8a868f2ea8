package compare

import (
	"context"
	"testing"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareEngine_CompareStrategies(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	results, err := ce.CompareStrategies(context.Background(), referenceConfig(100))
	require.NoError(t, err)
	require.Len(t, results, len(domain.AllStrategyKinds))

	for i, kind := range domain.AllStrategyKinds {
		assert.Equal(t, kind, results[i].Kind, "results keep declaration order")
	}

	// only the min-match strategy wins at 100 per month
	for _, r := range results {
		assert.Equal(t, r.Kind == domain.StrategyFundMinMatch, r.Winner, "%s", r.Kind)
	}
	assertMoney(t, 222304.90, results[2].TotalNet)
}

func TestCompareEngine_CompareStrategiesInvalidInput(t *testing.T) {
	ce := NewCompareEngine(nil)
	cfg := referenceConfig(100)
	cfg.HorizonYears = 0

	_, err := ce.CompareStrategies(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompareEngine_CompareStrategiesCancelled(t *testing.T) {
	ce := NewCompareEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ce.CompareStrategies(ctx, referenceConfig(100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareEngine_Evaluate(t *testing.T) {
	ce := NewCompareEngine(nil)

	result, err := ce.Evaluate(context.Background(), "reference", referenceConfig(0))
	require.NoError(t, err)

	assert.Equal(t, "reference", result.ScenarioName)
	assert.Len(t, result.Vehicles, len(domain.AllVehicleKinds))
	assert.Len(t, result.Strategies, len(domain.AllStrategyKinds))
	assert.Len(t, result.WinningStrategies(), 4, "no voluntary saving ties every strategy")
	assertMoney(t, 93611.65, result.BestStrategyTotal)
	assertMoney(t, 93611.65, result.BestVehicleNet)

	winners := result.WinningVehicles()
	require.Len(t, winners, 1)
	assert.Equal(t, domain.VehicleFundA, winners[0].Kind)
}

func TestCompareEngine_Compare(t *testing.T) {
	ce := NewCompareEngine(nil)

	compSet, err := ce.Compare(context.Background(), referenceConfig(100), CompareOptions{
		Templates:  []string{"double_savings", "short_horizon"},
		Transforms: []string{"set_monthly:value=0"},
		ConfigPath: "config.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseScenarioName, compSet.BaseScenarioName)
	assert.Equal(t, "config.yaml", compSet.ConfigPath)
	require.NotNil(t, compSet.BaseResult)
	require.Len(t, compSet.Variants, 3)

	assert.Equal(t, "base_double_savings", compSet.Variants[0].ScenarioName)
	assert.Equal(t, "base_short_horizon", compSet.Variants[1].ScenarioName)
	assert.Equal(t, "base_set_monthly", compSet.Variants[2].ScenarioName)

	assert.True(t, compSet.Variants[0].StrategyDiffFromBase.IsPositive(), "saving more raises the total")
	assert.True(t, compSet.Variants[1].StrategyDiffFromBase.IsNegative(), "a shorter horizon lowers it")
	assertMoney(t, 93611.65-222304.90, compSet.Variants[2].StrategyDiffFromBase)

	assert.NotEmpty(t, compSet.Recommendations)
}

func TestCompareEngine_CompareUnknownTemplate(t *testing.T) {
	ce := NewCompareEngine(nil)
	_, err := ce.Compare(context.Background(), referenceConfig(100), CompareOptions{
		Templates: []string{"win_the_lottery"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template win_the_lottery not found")
}

func TestCompareEngine_CompareBadTransform(t *testing.T) {
	ce := NewCompareEngine(nil)
	_, err := ce.Compare(context.Background(), referenceConfig(100), CompareOptions{
		Transforms: []string{"set_years:value=99"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
