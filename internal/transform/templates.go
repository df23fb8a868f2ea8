package transform

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ConfigTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if variants.
// The deductible ceiling comes from the active rules.
func CreateBuiltInTemplates(rules domain.TaxRules) *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "double_savings",
		Description: "Double the monthly voluntary contribution",
		Transforms: []ConfigTransform{
			&ScaleContribution{Factor: decimal.NewFromInt(2)},
		},
	})

	registry.Register(Template{
		Name:        "max_deductible_saver",
		Description: "Contribute exactly up to the deductible ceiling",
		Transforms: []ConfigTransform{
			&ContributeMaxDeductible{MaxDeductible: rules.MaxDeductible},
		},
	})

	registry.Register(Template{
		Name:        "long_horizon",
		Description: "Stay invested for 40 years",
		Transforms: []ConfigTransform{
			&SetParameter{Parameter: domain.ParamHorizonYears, Value: decimal.NewFromInt(40)},
		},
	})

	registry.Register(Template{
		Name:        "short_horizon",
		Description: "Leave after 10 years, before the exit tax starts decreasing",
		Transforms: []ConfigTransform{
			&SetParameter{Parameter: domain.ParamHorizonYears, Value: decimal.NewFromInt(10)},
		},
	})

	registry.Register(Template{
		Name:        "bond_heavy",
		Description: "Fund invested 80% in government bonds",
		Transforms: []ConfigTransform{
			&SetParameter{Parameter: domain.ParamBondFraction, Value: decimal.NewFromFloat(0.8)},
		},
	})

	registry.Register(Template{
		Name:        "bear_market",
		Description: "Fund returns 1% and the external plan 3%",
		Transforms: []ConfigTransform{
			&SetParameter{Parameter: domain.ParamReturnRate, Value: decimal.NewFromFloat(0.01)},
			&SetParameter{Parameter: domain.ParamExternalReturn, Value: decimal.NewFromFloat(0.03)},
		},
	})

	registry.Register(Template{
		Name:        "high_inflation",
		Description: "Inflation at 4%, revaluing the employer balance faster",
		Transforms: []ConfigTransform{
			&SetParameter{Parameter: domain.ParamInflation, Value: decimal.NewFromFloat(0.04)},
		},
	})

	registry.Register(Template{
		Name:        "career_growth",
		Description: "Gross income 30% higher",
		Transforms: []ConfigTransform{
			&RaiseIncome{Percent: decimal.NewFromInt(30)},
		},
	})

	return registry
}

// ApplyTemplate applies all transforms in a template to a base configuration
func ApplyTemplate(base *domain.SimulationConfig, template Template) (*domain.SimulationConfig, error) {
	return ApplyTransforms(base, template.Transforms)
}
