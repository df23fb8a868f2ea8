package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxRules_Valid(t *testing.T) {
	rules := DefaultTaxRules()
	require.NoError(t, rules.Validate())

	assert.Len(t, rules.IncomeTaxBrackets, 3)
	assert.Nil(t, rules.IncomeTaxBrackets[2].UpperLimit)
	assert.Equal(t, "5164.57", rules.MaxDeductible.String())

	p, ok := rules.FundProfile(VehicleFundA)
	require.True(t, ok)
	assert.True(t, p.EmployerMatch)
	_, ok = rules.FundProfile(VehicleExternalPlan)
	assert.False(t, ok)
}

func TestTaxRules_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *TaxRules)
		field  string
	}{
		{"no brackets", func(r *TaxRules) { r.IncomeTaxBrackets = nil }, "income_tax_brackets"},
		{"bounded last bracket", func(r *TaxRules) {
			r.IncomeTaxBrackets[2].UpperLimit = bracketLimit(90000)
		}, "income_tax_brackets"},
		{"decreasing rates", func(r *TaxRules) {
			r.IncomeTaxBrackets[1].Rate = decimal.NewFromFloat(0.20)
		}, "income_tax_brackets"},
		{"decreasing limits", func(r *TaxRules) {
			r.IncomeTaxBrackets[1].UpperLimit = bracketLimit(10000)
		}, "income_tax_brackets"},
		{"negative ceiling", func(r *TaxRules) { r.MaxDeductible = decimal.NewFromInt(-1) }, "max_deductible"},
		{"rate above one", func(r *TaxRules) { r.FundGainTax = decimal.NewFromFloat(1.5) }, "fund_gain_tax"},
		{"no fund profiles", func(r *TaxRules) { r.FundProfiles = nil }, "fund_profiles"},
		{"non-fund profile", func(r *TaxRules) { r.FundProfiles[0].Kind = VehicleExternalPlan }, "fund_profiles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultTaxRules()
			tt.mutate(&rules)

			err := rules.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSimulationConfig_Validate(t *testing.T) {
	base := DefaultSimulationConfig()
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *SimulationConfig)
		field  string
	}{
		{"zero income", func(c *SimulationConfig) { c.GrossAnnualIncome = decimal.Zero }, "gross_annual_income"},
		{"zero years", func(c *SimulationConfig) { c.HorizonYears = 0 }, "horizon_years"},
		{"too many years", func(c *SimulationConfig) { c.HorizonYears = MaxHorizonYears + 1 }, "horizon_years"},
		{"negative external return", func(c *SimulationConfig) { c.ExternalPlanReturnRate = decimal.NewFromFloat(-0.01) }, "external_plan_return_rate"},
		{"negative match", func(c *SimulationConfig) { c.EmployerMatchRate = decimal.NewFromFloat(-0.01) }, "employer_match_rate"},
		{"bond fraction above one", func(c *SimulationConfig) { c.BondFraction = decimal.NewFromFloat(1.1) }, "bond_fraction"},
		{"negative return", func(c *SimulationConfig) { c.GrossAnnualReturnRate = decimal.NewFromFloat(-0.01) }, "gross_annual_return_rate"},
		{"negative inflation", func(c *SimulationConfig) { c.InflationRate = decimal.NewFromFloat(-0.01) }, "inflation_rate"},
		{"external bond fraction below zero", func(c *SimulationConfig) { c.ExternalPlanBondFraction = decimal.NewFromFloat(-0.1) }, "external_plan_bond_fraction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	t.Run("zero return and inflation are allowed", func(t *testing.T) {
		cfg := base
		cfg.GrossAnnualReturnRate = decimal.Zero
		cfg.InflationRate = decimal.Zero
		assert.NoError(t, cfg.Validate())
	})
}

func TestSimulationConfig_Parameters(t *testing.T) {
	cfg := DefaultSimulationConfig()

	for _, name := range SweepableParameters {
		v := decimal.RequireFromString("7")
		require.NoError(t, cfg.SetParameter(name, v), name)
		got, err := cfg.Parameter(name)
		require.NoError(t, err, name)
		assert.True(t, got.Equal(v), "%s: got %s", name, got)
	}

	require.NoError(t, cfg.SetParameter(ParamHorizonYears, decimal.RequireFromString("12.9")))
	assert.Equal(t, 12, cfg.HorizonYears)

	require.NoError(t, cfg.SetParameter(ParamExternalBondFraction, decimal.RequireFromString("0.25")))
	assert.True(t, cfg.ExternalPlanBondFraction.Equal(decimal.RequireFromString("0.25")))

	assert.ErrorIs(t, cfg.SetParameter("salary", decimal.Zero), ErrInvalidInput)
	_, err := cfg.Parameter("salary")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSimulationConfig_DeepCopyAndAnnual(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.MonthlyVoluntaryContribution = decimal.NewFromInt(100)

	cp := cfg.DeepCopy()
	cp.MonthlyVoluntaryContribution = decimal.NewFromInt(-50)
	assert.Equal(t, "1200", cfg.AnnualVoluntaryContribution().String())
	assert.True(t, cp.AnnualVoluntaryContribution().IsZero(), "negative monthly is clamped")

	var nilCfg *SimulationConfig
	assert.Nil(t, nilCfg.DeepCopy())
}

func TestConfiguration_EffectiveRules(t *testing.T) {
	cfg := Configuration{Simulation: DefaultSimulationConfig()}
	assert.Equal(t, DefaultTaxRules().MaxDeductible.String(), cfg.EffectiveRules().MaxDeductible.String())

	custom := DefaultTaxRules()
	custom.MaxDeductible = decimal.NewFromInt(6000)
	cfg.Rules = &custom
	assert.Equal(t, "6000", cfg.EffectiveRules().MaxDeductible.String())
}

func TestKinds(t *testing.T) {
	assert.True(t, VehicleFundB.IsFund())
	assert.False(t, VehicleEmployerBalance.IsFund())
	assert.True(t, VehicleExternalPlan.Valid())
	assert.False(t, VehicleKind("fund_z").Valid())
	assert.True(t, VehicleEmployerBalance.Ranked())
	assert.True(t, VehicleFundC.Ranked())
	assert.False(t, VehicleExternalPlan.Ranked())

	assert.Equal(t, "Plan only", StrategyExternalOnly.Label())
	assert.Equal(t, "mystery", StrategyKind("mystery").Label())
}

func TestVehicleTable_Lookups(t *testing.T) {
	table := &VehicleTable{Vehicles: []VehicleResult{
		{Kind: VehicleEmployerBalance, TotalNet: decimal.NewFromInt(10)},
		{Kind: VehicleFundA, TotalNet: decimal.NewFromInt(20), Winner: true},
		{Kind: VehicleFundB, TotalNet: decimal.NewFromInt(20), Winner: true},
	}}

	winners := table.Winners()
	require.Len(t, winners, 2)
	assert.Equal(t, VehicleFundA, winners[0].Kind)

	v, ok := table.Vehicle(VehicleEmployerBalance)
	require.True(t, ok)
	assert.Equal(t, "10", v.TotalNet.String())
	_, ok = table.Vehicle(VehicleExternalPlan)
	assert.False(t, ok)
}
