package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

func baseConfig() *domain.SimulationConfig {
	cfg := domain.DefaultSimulationConfig()
	cfg.MonthlyVoluntaryContribution = decimal.NewFromInt(100)
	return &cfg
}

func TestApplyTransforms_Empty(t *testing.T) {
	base := baseConfig()
	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got the same pointer")
	}
	if !result.GrossAnnualIncome.Equal(base.GrossAnnualIncome) {
		t.Error("Copy should match the base")
	}
}

func TestApplyTransforms_NilBase(t *testing.T) {
	if _, err := ApplyTransforms(nil, nil); err == nil {
		t.Error("Expected error for nil base")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(baseConfig(), []ConfigTransform{nil})
	if err == nil || !strings.Contains(err.Error(), "index 0 is nil") {
		t.Errorf("Expected nil transform error, got %v", err)
	}
}

func TestApplyTransforms_Sequence(t *testing.T) {
	base := baseConfig()
	result, err := ApplyTransforms(base, []ConfigTransform{
		&ScaleContribution{Factor: decimal.NewFromInt(3)},
		&SetParameter{Parameter: domain.ParamHorizonYears, Value: decimal.NewFromInt(20)},
		&RaiseIncome{Percent: decimal.NewFromInt(10)},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !result.MonthlyVoluntaryContribution.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected monthly 300, got %s", result.MonthlyVoluntaryContribution)
	}
	if result.HorizonYears != 20 {
		t.Errorf("Expected 20 years, got %d", result.HorizonYears)
	}
	if !result.GrossAnnualIncome.Equal(decimal.NewFromInt(30800)) {
		t.Errorf("Expected income 30800, got %s", result.GrossAnnualIncome)
	}

	// base untouched
	if base.HorizonYears != 35 || !base.MonthlyVoluntaryContribution.Equal(decimal.NewFromInt(100)) {
		t.Error("Base configuration was mutated")
	}
}

func TestSetParameter_ValidationFailure(t *testing.T) {
	_, err := ApplyTransforms(baseConfig(), []ConfigTransform{
		&SetParameter{Parameter: domain.ParamHorizonYears, Value: decimal.NewFromInt(50)},
	})
	if err == nil {
		t.Fatal("Expected validation error for 50 years")
	}

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransformError, got %T", err)
	}
	if te.TransformName != "set_years" {
		t.Errorf("Expected transform name set_years, got %s", te.TransformName)
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Error("Expected the cause to unwrap to ErrInvalidInput")
	}
}

func TestSetParameter_RejectsNegativeRates(t *testing.T) {
	for _, param := range []string{domain.ParamReturnRate, domain.ParamInflation} {
		tr := &SetParameter{Parameter: param, Value: decimal.RequireFromString("-0.01")}
		if err := tr.Validate(baseConfig()); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for negative %s, got %v", param, err)
		}
	}
}

func TestSetParameter_ExternalPlanBondFraction(t *testing.T) {
	registry := NewTransformRegistry()
	tr, err := registry.ParseTransformSpec("set_external_plan_bond_fraction:value=0.5")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, err := ApplyTransforms(baseConfig(), []ConfigTransform{tr})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.ExternalPlanBondFraction.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("Expected external bond fraction 0.5, got %s", result.ExternalPlanBondFraction)
	}

	_, err = ApplyTransforms(baseConfig(), []ConfigTransform{
		&SetParameter{Parameter: domain.ParamExternalBondFraction, Value: decimal.RequireFromString("1.5")},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput above 100%%, got %v", err)
	}
}

func TestSetParameter_UnknownParameter(t *testing.T) {
	tr := &SetParameter{Parameter: "salary_growth", Value: decimal.NewFromInt(1)}
	if err := tr.Validate(baseConfig()); err == nil {
		t.Error("Expected error for unknown parameter")
	}
}

func TestRaiseIncome_Validate(t *testing.T) {
	tr := &RaiseIncome{Percent: decimal.NewFromInt(-100)}
	if err := tr.Validate(baseConfig()); err == nil {
		t.Error("Expected error for -100%")
	}
}

func TestScaleContribution_Negative(t *testing.T) {
	tr := &ScaleContribution{Factor: decimal.NewFromInt(-1)}
	if err := tr.Validate(baseConfig()); err == nil {
		t.Error("Expected error for negative factor")
	}
}

func TestContributeMaxDeductible(t *testing.T) {
	tr := &ContributeMaxDeductible{MaxDeductible: domain.DefaultTaxRules().MaxDeductible}
	result, err := tr.Apply(baseConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// (5164.57 - 28000 * 1.55%) / 12 = 394.2141..., truncated
	if !result.MonthlyVoluntaryContribution.Equal(decimal.RequireFromString("394.21")) {
		t.Errorf("Expected 394.21, got %s", result.MonthlyVoluntaryContribution)
	}

	annual := result.AnnualVoluntaryContribution().Add(result.GrossAnnualIncome.Mul(result.EmployerMatchRate))
	if annual.GreaterThan(tr.MaxDeductible) {
		t.Errorf("Contribution %s exceeds the ceiling", annual)
	}
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec    string
		name    string
		wantErr bool
	}{
		{"set_monthly:value=150", "set_monthly", false},
		{"set_return: value = 0.045", "set_return", false},
		{"set_external_plan_bond_fraction:value=0.5", "set_external_plan_bond_fraction", false},
		{"raise_income_pct:percent=15", "raise_income_pct", false},
		{"scale_monthly:factor=1.5", "scale_monthly", false},
		{"contribute_max_deductible:", "contribute_max_deductible", false},
		{"contribute_max_deductible:ceiling=6000", "contribute_max_deductible", false},
		{"set_monthly", "", true},
		{"set_monthly:amount=150", "", true},
		{"set_monthly:value=abc", "", true},
		{"set_monthly:value", "", true},
		{"retire_early:value=1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tr.Name() != tt.name {
				t.Errorf("Expected name %s, got %s", tt.name, tr.Name())
			}
			if tr.Description() == "" {
				t.Error("Expected a description")
			}
		})
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	if len(names) != len(domain.SweepableParameters)+3 {
		t.Errorf("Unexpected number of transforms: %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("List not sorted: %v", names)
			break
		}
	}
}
