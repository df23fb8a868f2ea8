package compare

import (
	"testing"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceConfig is the regression baseline: 28000 income, 35 years, 3% return,
// 2% inflation, 40% bonds in the fund.
func referenceConfig(monthly int64) *domain.SimulationConfig {
	cfg := domain.DefaultSimulationConfig()
	cfg.BondFraction = decimal.RequireFromString("0.4")
	cfg.MonthlyVoluntaryContribution = decimal.NewFromInt(monthly)
	return &cfg
}

func newStrategyCalculator() *StrategyCalculator {
	return NewStrategyCalculator(calculation.NewVehicleCalculator(domain.DefaultTaxRules()))
}

func assertMoney(t *testing.T, expected float64, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, expected, actual.InexactFloat64(), 0.01, msgAndArgs...)
}

func TestStrategyCalculator_Allocate(t *testing.T) {
	sc := newStrategyCalculator()

	tests := []struct {
		name     string
		monthly  int64
		kind     domain.StrategyKind
		fund     string
		external string
		saving   string
	}{
		{"fund and saving", 100, domain.StrategyFundAndTaxSaving, "1634", "375.82", "375.82"},
		{"max deductible below ceiling", 100, domain.StrategyFundMaxDeductible, "1634", "375.82", "375.82"},
		{"min match", 100, domain.StrategyFundMinMatch, "588", "1181.24", "135.24"},
		{"external only", 100, domain.StrategyExternalOnly, "0", "1200", "0"},
		{"fund and saving above ceiling", 500, domain.StrategyFundAndTaxSaving, "6434", "1187.8511", "1187.8511"},
		{"max deductible above ceiling", 500, domain.StrategyFundMaxDeductible, "5164.57", "2457.2811", "1187.8511"},
		{"min match large saving", 500, domain.StrategyFundMinMatch, "588", "5981.24", "135.24"},
		{"no voluntary", 0, domain.StrategyFundMinMatch, "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := sc.Allocate(tt.kind, referenceConfig(tt.monthly))
			require.NoError(t, err)
			assert.True(t, a.FundAnnual.Equal(decimal.RequireFromString(tt.fund)), "fund: got %s", a.FundAnnual)
			assert.True(t, a.ExternalAnnual.Equal(decimal.RequireFromString(tt.external)), "external: got %s", a.ExternalAnnual)
			assert.True(t, a.AnnualTaxSaving.Equal(decimal.RequireFromString(tt.saving)), "saving: got %s", a.AnnualTaxSaving)
		})
	}
}

func TestStrategyCalculator_AllocateUnknownKind(t *testing.T) {
	_, err := newStrategyCalculator().Allocate(domain.StrategyKind("lottery"), referenceConfig(100))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStrategyCalculator_EvaluateReference(t *testing.T) {
	sc := newStrategyCalculator()
	cfg := referenceConfig(100)

	expected := map[domain.StrategyKind]struct{ fund, external, total float64 }{
		domain.StrategyFundAndTaxSaving:  {172669.66, 31893.34, 204563.00},
		domain.StrategyFundMaxDeductible: {172669.66, 31893.34, 204563.00},
		domain.StrategyFundMinMatch:      {122060.92, 100243.98, 222304.90},
		domain.StrategyExternalOnly:      {93611.65, 101836.01, 195447.66},
	}

	for kind, want := range expected {
		r, err := sc.Evaluate(kind, cfg)
		require.NoError(t, err)
		assert.Equal(t, kind.Label(), r.Label)
		assertMoney(t, want.fund, r.FundNet, "%s fund net", kind)
		assertMoney(t, want.external, r.ExternalNet, "%s external net", kind)
		assertMoney(t, want.total, r.TotalNet, "%s total", kind)
		assert.True(t, r.TotalNet.Equal(r.FundNet.Add(r.ExternalNet)))
	}
}

func TestStrategyCalculator_ExternalOnlyDecomposes(t *testing.T) {
	sc := newStrategyCalculator()
	cfg := referenceConfig(100)

	r, err := sc.Evaluate(domain.StrategyExternalOnly, cfg)
	require.NoError(t, err)

	profile, err := sc.Vehicles.Profile(domain.VehicleFundA)
	require.NoError(t, err)
	fund, err := sc.Vehicles.FundLeg(cfg, profile, decimal.Zero)
	require.NoError(t, err)
	external, err := sc.Vehicles.ExternalPlanLeg(cfg, cfg.AnnualVoluntaryContribution())
	require.NoError(t, err)

	assert.True(t, r.TotalNet.Equal(fund.Net.Add(external.Net)))
}

func TestStrategyCalculator_NoVoluntaryAllEqual(t *testing.T) {
	sc := newStrategyCalculator()
	cfg := referenceConfig(0)

	results := make([]domain.StrategyResult, 0, len(domain.AllStrategyKinds))
	for _, kind := range domain.AllStrategyKinds {
		r, err := sc.Evaluate(kind, cfg)
		require.NoError(t, err)
		assertMoney(t, 93611.65, r.TotalNet, "%s", kind)
		results = append(results, r)
	}

	MarkStrategyWinners(results)
	for _, r := range results {
		assert.True(t, r.Winner, "%s should tie", r.Kind)
	}
}

func TestMarkStrategyWinners(t *testing.T) {
	results := []domain.StrategyResult{
		{Kind: domain.StrategyFundAndTaxSaving, TotalNet: decimal.NewFromInt(10)},
		{Kind: domain.StrategyFundMaxDeductible, TotalNet: decimal.NewFromInt(30)},
		{Kind: domain.StrategyFundMinMatch, TotalNet: decimal.NewFromInt(30)},
		{Kind: domain.StrategyExternalOnly, TotalNet: decimal.NewFromInt(20)},
	}
	MarkStrategyWinners(results)

	assert.False(t, results[0].Winner)
	assert.True(t, results[1].Winner)
	assert.True(t, results[2].Winner)
	assert.False(t, results[3].Winner)

	MarkStrategyWinners(nil)
}

func TestStrategyCalculator_OtherFundProfile(t *testing.T) {
	sc := newStrategyCalculator()
	sc.FundKind = domain.VehicleFundB
	cfg := referenceConfig(100)

	// open funds carry no employer match, so the whole fund contribution is voluntary
	a, err := sc.Allocate(domain.StrategyFundAndTaxSaving, cfg)
	require.NoError(t, err)
	assert.True(t, a.FundAnnual.Equal(decimal.NewFromInt(1200)), "got %s", a.FundAnnual)
}
