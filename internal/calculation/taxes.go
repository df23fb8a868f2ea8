package calculation

import (
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxBracketEngine computes progressive income tax figures over a configurable bracket table
type TaxBracketEngine struct {
	Brackets      []domain.TaxBracket
	MaxDeductible decimal.Decimal
	Exit          domain.FundExitSchedule
}

// NewTaxBracketEngine creates a tax engine from the statutory defaults
func NewTaxBracketEngine() *TaxBracketEngine {
	return NewTaxBracketEngineWithRules(domain.DefaultTaxRules())
}

// NewTaxBracketEngineWithRules creates a tax engine from the given rules
func NewTaxBracketEngineWithRules(rules domain.TaxRules) *TaxBracketEngine {
	return &TaxBracketEngine{
		Brackets:      rules.IncomeTaxBrackets,
		MaxDeductible: rules.MaxDeductible,
		Exit:          rules.FundExit,
	}
}

// IncomeTax returns the total progressive tax due on the income
func (te *TaxBracketEngine) IncomeTax(income decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero
	for _, b := range te.Brackets {
		if !income.GreaterThan(lower) {
			break
		}
		top := income
		if b.UpperLimit != nil && b.UpperLimit.LessThan(income) {
			top = *b.UpperLimit
		}
		tax = tax.Add(top.Sub(lower).Mul(b.Rate))
		if b.UpperLimit == nil {
			break
		}
		lower = *b.UpperLimit
	}
	return tax
}

// AverageTaxRate returns total tax divided by income
func (te *TaxBracketEngine) AverageTaxRate(income decimal.Decimal) (decimal.Decimal, error) {
	if !income.IsPositive() {
		return decimal.Zero, domain.NewValidationError("income", "must be positive, got %s", income)
	}
	return te.IncomeTax(income).Div(income), nil
}

// DeductionSaving returns the tax saved over the given years by deducting the annual
// contribution from income. The deductible part, capped at MaxDeductible, is removed from
// the top of the income so each slice is valued at the marginal rate of the band it leaves.
func (te *TaxBracketEngine) DeductionSaving(income, annualContribution decimal.Decimal, years int) (decimal.Decimal, error) {
	if !income.IsPositive() {
		return decimal.Zero, domain.NewValidationError("income", "must be positive, got %s", income)
	}
	if years < 0 {
		return decimal.Zero, domain.NewValidationError("years", "cannot be negative, got %d", years)
	}
	if !annualContribution.IsPositive() || years == 0 {
		return decimal.Zero, nil
	}

	remaining := decimal.Min(annualContribution, te.MaxDeductible)
	remainingIncome := income
	saving := decimal.Zero

	for i := len(te.Brackets) - 1; i >= 0; i-- {
		lower := decimal.Zero
		if i > 0 {
			lower = *te.Brackets[i-1].UpperLimit
		}
		if !income.GreaterThan(lower) {
			continue
		}
		inBracket := decimal.Min(remainingIncome.Sub(lower), remaining)
		if !inBracket.IsPositive() {
			continue
		}
		saving = saving.Add(inBracket.Mul(te.Brackets[i].Rate))
		remaining = remaining.Sub(inBracket)
		remainingIncome = lower
		if !remaining.IsPositive() {
			break
		}
	}

	return saving.Mul(decimal.NewFromInt(int64(years))), nil
}

// FundExitRate returns the liquidation tax on fund contributions after the given years of
// participation: the base rate before the threshold, then decreasing yearly down to the floor.
func (te *TaxBracketEngine) FundExitRate(years int) decimal.Decimal {
	s := te.Exit
	if years < s.ThresholdYears {
		return s.BaseRate
	}
	if years == s.ThresholdYears {
		return s.ThresholdRate
	}
	reductionYears := years - s.ThresholdYears
	if reductionYears > s.MaxReductionYears {
		reductionYears = s.MaxReductionYears
	}
	rate := s.ThresholdRate.Sub(s.YearlyReduction.Mul(decimal.NewFromInt(int64(reductionYears))))
	return decimal.Max(rate, s.FloorRate)
}

// BlendedGainRate weights the base gain tax and the preferential rate by the bond fraction
func BlendedGainRate(base, preferential, bondFraction decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	return base.Mul(one.Sub(bondFraction)).Add(preferential.Mul(bondFraction))
}

// ApplyTax returns amount × (1 − rate)
func ApplyTax(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(rate))
}

// ApplyGain returns amount × (1 + rate)
func ApplyGain(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Add(rate))
}

// AnnualizedGain returns the simple (non-compounded) yearly gain:
// (final − initial) / initial / years. It is invalid when initial or years is zero.
func AnnualizedGain(initial, final decimal.Decimal, years int) decimal.NullDecimal {
	if initial.IsZero() || years <= 0 {
		return decimal.NullDecimal{}
	}
	gain := final.Sub(initial).Div(initial).Div(decimal.NewFromInt(int64(years)))
	return decimal.NullDecimal{Decimal: gain, Valid: true}
}
