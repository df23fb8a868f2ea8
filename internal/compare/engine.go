package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/rgehrsitz/tfrgo/internal/transform"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseScenarioName labels the unmodified configuration
const DefaultBaseScenarioName = "base"

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	Strategies        *StrategyCalculator
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		Strategies:        NewStrategyCalculator(calcEngine.Vehicles),
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(calcEngine.Rules),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Label for the unmodified configuration
	Templates        []string // Template names, one variant each
	Transforms       []string // Transform specs ("set_monthly:value=150"), one variant each
	ConfigPath       string
}

// CompareStrategies evaluates the four allocation strategies concurrently and flags the
// winners. Results are in declaration order.
func (ce *CompareEngine) CompareStrategies(ctx context.Context, cfg *domain.SimulationConfig) ([]domain.StrategyResult, error) {
	if err := ce.CalcEngine.Validate(cfg); err != nil {
		return nil, err
	}

	results := make([]domain.StrategyResult, len(domain.AllStrategyKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range domain.AllStrategyKinds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := ce.Strategies.Evaluate(kind, cfg)
			if err != nil {
				return fmt.Errorf("strategy %s: %w", kind, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	MarkStrategyWinners(results)
	for _, r := range results {
		ce.CalcEngine.Logger.Debugf("%s: fund=%s external=%s total=%s winner=%t",
			r.Kind, r.FundNet.StringFixed(2), r.ExternalNet.StringFixed(2), r.TotalNet.StringFixed(2), r.Winner)
	}
	return results, nil
}

// Evaluate runs the vehicle table and the strategies for one configuration
func (ce *CompareEngine) Evaluate(ctx context.Context, name string, cfg *domain.SimulationConfig) (*ScenarioResult, error) {
	table, err := ce.CalcEngine.RunVehicles(ctx, cfg)
	if err != nil {
		return nil, err
	}
	strategies, err := ce.CompareStrategies(ctx, cfg)
	if err != nil {
		return nil, err
	}

	result := &ScenarioResult{
		ScenarioName: name,
		Inputs:       *cfg,
		Vehicles:     table.Vehicles,
		Strategies:   strategies,
		Hints:        table.Hints,
	}
	ce.MetricsCalculator.CalculateMetrics(result)
	return result, nil
}

// Compare evaluates the base configuration plus one variant per template and transform
func (ce *CompareEngine) Compare(
	ctx context.Context,
	cfg *domain.SimulationConfig,
	options CompareOptions,
) (*ComparisonSet, error) {

	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = DefaultBaseScenarioName
	}

	baseResult, err := ce.Evaluate(ctx, baseName, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult.Description = "Configuration as given"

	variants := []ScenarioResult{}

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found (available: %s)",
				templateName, strings.Join(ce.TemplateRegistry.List(), ", "))
		}

		modified, err := transform.ApplyTemplate(cfg, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}

		variant, err := ce.Evaluate(ctx, baseName+"_"+template.Name, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", templateName, err)
		}
		variant.Description = template.Description
		ce.MetricsCalculator.CalculateComparison(variant, baseResult)
		variants = append(variants, *variant)
	}

	for _, spec := range options.Transforms {
		t, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}

		modified, err := transform.ApplyTransforms(cfg, []transform.ConfigTransform{t})
		if err != nil {
			return nil, err
		}

		variant, err := ce.Evaluate(ctx, baseName+"_"+t.Name(), modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", t.Name(), err)
		}
		variant.Description = t.Description()
		ce.MetricsCalculator.CalculateComparison(variant, baseResult)
		variants = append(variants, *variant)
	}

	compSet := &ComparisonSet{
		BaseScenarioName: baseName,
		BaseResult:       baseResult,
		Variants:         variants,
		ConfigPath:       options.ConfigPath,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
