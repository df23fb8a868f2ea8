package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ConfigTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	for _, param := range domain.SweepableParameters {
		registry.Register("set_"+param, createSetParameter(param))
	}
	registry.Register("raise_income_pct", createRaiseIncome)
	registry.Register("scale_monthly", createScaleContribution)
	registry.Register("contribute_max_deductible", createContributeMaxDeductible)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ConfigTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_monthly:value=150"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ConfigTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return value, nil
}

func createSetParameter(param string) TransformFactory {
	return func(params map[string]string) (ConfigTransform, error) {
		value, err := decimalParam("set_"+param, params, "value")
		if err != nil {
			return nil, err
		}
		return &SetParameter{Parameter: param, Value: value}, nil
	}
}

func createRaiseIncome(params map[string]string) (ConfigTransform, error) {
	pct, err := decimalParam("raise_income_pct", params, "percent")
	if err != nil {
		return nil, err
	}
	return &RaiseIncome{Percent: pct}, nil
}

func createScaleContribution(params map[string]string) (ConfigTransform, error) {
	factor, err := decimalParam("scale_monthly", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleContribution{Factor: factor}, nil
}

func createContributeMaxDeductible(params map[string]string) (ConfigTransform, error) {
	ceiling := domain.DefaultTaxRules().MaxDeductible
	if _, ok := params["ceiling"]; ok {
		v, err := decimalParam("contribute_max_deductible", params, "ceiling")
		if err != nil {
			return nil, err
		}
		ceiling = v
	}
	return &ContributeMaxDeductible{MaxDeductible: ceiling}, nil
}
