package transform

import (
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SetParameter replaces one named simulation input.
type SetParameter struct {
	Parameter string
	Value     decimal.Decimal
}

func (sp *SetParameter) Name() string {
	return "set_" + sp.Parameter
}

func (sp *SetParameter) Description() string {
	switch sp.Parameter {
	case domain.ParamIncome, domain.ParamMonthly:
		return fmt.Sprintf("Set %s to €%s", sp.Parameter, sp.Value.StringFixed(2))
	case domain.ParamHorizonYears:
		return fmt.Sprintf("Set horizon to %s years", sp.Value.StringFixed(0))
	default:
		return fmt.Sprintf("Set %s to %s%%", sp.Parameter, sp.Value.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
}

func (sp *SetParameter) Validate(base *domain.SimulationConfig) error {
	if base == nil {
		return NewTransformError(sp.Name(), "validate", "base configuration cannot be nil", nil)
	}
	if _, err := base.Parameter(sp.Parameter); err != nil {
		return NewTransformError(sp.Name(), "validate", "unknown parameter", err)
	}
	// Reject what the engine would reject, so the error names the transform.
	candidate := base.DeepCopy()
	_ = candidate.SetParameter(sp.Parameter, sp.Value)
	if err := candidate.Validate(); err != nil {
		return NewTransformError(sp.Name(), "validate", "resulting configuration is invalid", err)
	}
	return nil
}

func (sp *SetParameter) Apply(base *domain.SimulationConfig) (*domain.SimulationConfig, error) {
	modified := base.DeepCopy()
	if err := modified.SetParameter(sp.Parameter, sp.Value); err != nil {
		return nil, NewTransformError(sp.Name(), "apply", "cannot set parameter", err)
	}
	return modified, nil
}

// RaiseIncome increases gross income by a percentage (10 for +10%).
type RaiseIncome struct {
	Percent decimal.Decimal
}

func (ri *RaiseIncome) Name() string {
	return "raise_income_pct"
}

func (ri *RaiseIncome) Description() string {
	return fmt.Sprintf("Raise gross income by %s%%", ri.Percent.StringFixed(1))
}

func (ri *RaiseIncome) Validate(base *domain.SimulationConfig) error {
	if base == nil {
		return NewTransformError(ri.Name(), "validate", "base configuration cannot be nil", nil)
	}
	if ri.Percent.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return NewTransformError(ri.Name(), "validate",
			fmt.Sprintf("percent must be greater than -100, got %s", ri.Percent), nil)
	}
	return nil
}

func (ri *RaiseIncome) Apply(base *domain.SimulationConfig) (*domain.SimulationConfig, error) {
	modified := base.DeepCopy()
	factor := decimal.NewFromInt(1).Add(ri.Percent.Div(decimal.NewFromInt(100)))
	modified.GrossAnnualIncome = base.GrossAnnualIncome.Mul(factor).Round(2)
	return modified, nil
}

// ScaleContribution multiplies the monthly voluntary contribution.
type ScaleContribution struct {
	Factor decimal.Decimal
}

func (sc *ScaleContribution) Name() string {
	return "scale_monthly"
}

func (sc *ScaleContribution) Description() string {
	return fmt.Sprintf("Multiply the monthly contribution by %s", sc.Factor.String())
}

func (sc *ScaleContribution) Validate(base *domain.SimulationConfig) error {
	if base == nil {
		return NewTransformError(sc.Name(), "validate", "base configuration cannot be nil", nil)
	}
	if sc.Factor.IsNegative() {
		return NewTransformError(sc.Name(), "validate",
			fmt.Sprintf("factor cannot be negative, got %s", sc.Factor), nil)
	}
	return nil
}

func (sc *ScaleContribution) Apply(base *domain.SimulationConfig) (*domain.SimulationConfig, error) {
	modified := base.DeepCopy()
	modified.MonthlyVoluntaryContribution = base.MonthlyVoluntaryContribution.Mul(sc.Factor).Round(2)
	return modified, nil
}

// ContributeMaxDeductible sets the monthly contribution so that voluntary plus employer
// match reaches the deductible ceiling.
type ContributeMaxDeductible struct {
	MaxDeductible decimal.Decimal
}

func (cm *ContributeMaxDeductible) Name() string {
	return "contribute_max_deductible"
}

func (cm *ContributeMaxDeductible) Description() string {
	return fmt.Sprintf("Contribute up to the €%s deductible ceiling, match included", cm.MaxDeductible.StringFixed(2))
}

func (cm *ContributeMaxDeductible) Validate(base *domain.SimulationConfig) error {
	if base == nil {
		return NewTransformError(cm.Name(), "validate", "base configuration cannot be nil", nil)
	}
	if !cm.MaxDeductible.IsPositive() {
		return NewTransformError(cm.Name(), "validate", "deductible ceiling must be positive", nil)
	}
	return nil
}

func (cm *ContributeMaxDeductible) Apply(base *domain.SimulationConfig) (*domain.SimulationConfig, error) {
	modified := base.DeepCopy()
	match := base.GrossAnnualIncome.Mul(base.EmployerMatchRate)
	annual := decimal.Max(cm.MaxDeductible.Sub(match), decimal.Zero)
	// Truncate so the ceiling is never exceeded by rounding.
	modified.MonthlyVoluntaryContribution = annual.Div(decimal.NewFromInt(12)).Truncate(2)
	return modified, nil
}
