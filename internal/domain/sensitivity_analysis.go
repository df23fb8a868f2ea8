package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent", "euros", "years"
	Description string          `yaml:"description" json:"description"`
}

// SensitivityPoint is the vehicle table at one value of the swept parameter
type SensitivityPoint struct {
	Value   decimal.Decimal `json:"value"`
	Table   *VehicleTable   `json:"table"`
	Winners []VehicleKind   `json:"winners"`
}

// ParameterSensitivityAnalysis represents a complete single-parameter sweep
type ParameterSensitivityAnalysis struct {
	Parameter SensitivityParameter `json:"parameter"`
	Points    []SensitivityPoint   `json:"points"`
	Summary   SensitivitySummary   `json:"summary"`
}

// VehicleRange is the spread of one vehicle's total net across the sweep
type VehicleRange struct {
	Kind        VehicleKind     `json:"kind"`
	MinTotalNet decimal.Decimal `json:"minTotalNet"`
	MaxTotalNet decimal.Decimal `json:"maxTotalNet"`
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	Ranges []VehicleRange `json:"ranges"`
	// Parameter values at which the set of winners differs from the previous point
	WinnerChanges   []decimal.Decimal `json:"winnerChanges"`
	Recommendations []string          `json:"recommendations"`
}

// Common sensitivity parameters
var (
	ReturnRateParam = SensitivityParameter{
		Name:        ParamReturnRate,
		MinValue:    decimal.NewFromFloat(0.00),
		MaxValue:    decimal.NewFromFloat(0.08),
		Steps:       9,
		Unit:        "percent",
		Description: "Gross yearly return of the pension fund",
	}

	ExternalReturnParam = SensitivityParameter{
		Name:        ParamExternalReturn,
		MinValue:    decimal.NewFromFloat(0.02),
		MaxValue:    decimal.NewFromFloat(0.10),
		Steps:       9,
		Unit:        "percent",
		Description: "Gross yearly return of the external plan",
	}

	InflationRateParam = SensitivityParameter{
		Name:        ParamInflation,
		MinValue:    decimal.NewFromFloat(0.00),
		MaxValue:    decimal.NewFromFloat(0.05),
		Steps:       6,
		Unit:        "percent",
		Description: "Inflation driving the employer balance revaluation",
	}

	MonthlyContributionParam = SensitivityParameter{
		Name:        ParamMonthly,
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromInt(500),
		Steps:       11,
		Unit:        "euros",
		Description: "Monthly voluntary contribution",
	}

	HorizonYearsParam = SensitivityParameter{
		Name:        ParamHorizonYears,
		MinValue:    decimal.NewFromInt(5),
		MaxValue:    decimal.NewFromInt(40),
		Steps:       8,
		Unit:        "years",
		Description: "Years of participation",
	}
)

// GetCommonParameters returns a list of common sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		ReturnRateParam,
		ExternalReturnParam,
		InflationRateParam,
		MonthlyContributionParam,
		HorizonYearsParam,
	}
}

// CommonParameter looks up a common parameter by name
func CommonParameter(name string) (SensitivityParameter, bool) {
	for _, p := range GetCommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}
