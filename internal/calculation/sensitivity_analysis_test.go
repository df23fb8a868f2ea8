package calculation

import (
	"context"
	"testing"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitivityAnalyzer_AnalyzeSingleParameter(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(NewCalculationEngine())
	analyzer.Concurrency = 2

	param := domain.SensitivityParameter{
		Name:     domain.ParamReturnRate,
		MinValue: decimal.Zero,
		MaxValue: decimal.RequireFromString("0.06"),
		Steps:    7,
	}

	analysis, err := analyzer.AnalyzeSingleParameter(context.Background(), referenceConfig(0), param)
	require.NoError(t, err)
	require.Len(t, analysis.Points, 7)

	// points stay in sweep order regardless of evaluation order
	for i, p := range analysis.Points {
		expected := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(i)))
		assert.True(t, p.Value.Equal(expected), "point %d: %s", i, p.Value)
		require.NotNil(t, p.Table)
		assert.True(t, p.Table.Inputs.GrossAnnualReturnRate.Equal(expected))
		assert.NotEmpty(t, p.Winners)
	}

	// the fund return does not move the employer balance, so at 0% it wins and at 6% fund A does
	assert.Equal(t, []domain.VehicleKind{domain.VehicleEmployerBalance}, analysis.Points[0].Winners)
	assert.Equal(t, []domain.VehicleKind{domain.VehicleFundA}, analysis.Points[6].Winners)
	assert.NotEmpty(t, analysis.Summary.WinnerChanges)
	assert.NotEmpty(t, analysis.Summary.Recommendations)

	for _, r := range analysis.Summary.Ranges {
		assert.True(t, r.MinTotalNet.LessThanOrEqual(r.MaxTotalNet), "%s", r.Kind)
		if r.Kind == domain.VehicleEmployerBalance {
			assert.True(t, r.MinTotalNet.Equal(r.MaxTotalNet))
		}
	}
}

func TestSensitivityAnalyzer_SingleStepUsesCurrentValue(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)
	cfg := referenceConfig(100)

	analysis, err := analyzer.AnalyzeSingleParameter(context.Background(), cfg, domain.SensitivityParameter{
		Name:  domain.ParamMonthly,
		Steps: 1,
	})
	require.NoError(t, err)
	require.Len(t, analysis.Points, 1)
	assert.True(t, analysis.Points[0].Value.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, analysis.Summary.WinnerChanges)
}

func TestSensitivityAnalyzer_Errors(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)

	_, err := analyzer.AnalyzeSingleParameter(context.Background(), referenceConfig(0), domain.SensitivityParameter{
		Name: "salary_growth", Steps: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = analyzer.AnalyzeSingleParameter(context.Background(), referenceConfig(0), domain.SensitivityParameter{
		Name: domain.ParamReturnRate, MinValue: decimal.NewFromInt(1), MaxValue: decimal.Zero, Steps: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// a sweep point outside the horizon bounds fails the whole sweep
	_, err = analyzer.AnalyzeSingleParameter(context.Background(), referenceConfig(0), domain.SensitivityParameter{
		Name: domain.ParamHorizonYears, MinValue: decimal.Zero, MaxValue: decimal.NewFromInt(10), Steps: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
