package transform

import (
	"fmt"

	"github.com/rgehrsitz/tfrgo/internal/domain"
)

// ConfigTransform is one what-if change to the simulation inputs. Comparison variants and
// break-even searches are both built from transforms.
type ConfigTransform interface {
	// Apply returns a modified copy; base is left untouched.
	Apply(base *domain.SimulationConfig) (*domain.SimulationConfig, error)

	// Name is the registry key, e.g. "set_monthly".
	Name() string

	Description() string

	// Validate reports whether Apply would succeed on base.
	Validate(base *domain.SimulationConfig) error
}

// ApplyTransforms chains the transforms in order, feeding each the previous output.
func ApplyTransforms(base *domain.SimulationConfig, transforms []ConfigTransform) (*domain.SimulationConfig, error) {
	if base == nil {
		return nil, fmt.Errorf("no simulation inputs to transform")
	}

	if len(transforms) == 0 {
		return base.DeepCopy(), nil
	}

	current := base
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("transform %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s rejected: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}

	return current, nil
}

// TransformError names the transform and the step (validate or apply) that failed.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError builds a TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
