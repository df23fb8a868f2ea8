package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is picked up next to the configuration when no rules file is given
const DefaultRulesFile = "rules.yaml"

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file. Fields missing from the file keep
// their default values.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config := domain.Configuration{Simulation: domain.DefaultSimulationConfig()}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate the configuration
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadFromFileWithRules loads a configuration and overrides its rules with a separate
// rules file
func (ip *InputParser) LoadFromFileWithRules(filename, rulesFile string) (*domain.Configuration, error) {
	config, err := ip.LoadFromFile(filename)
	if err != nil {
		return nil, err
	}

	rules, err := ip.LoadRules(rulesFile)
	if err != nil {
		return nil, err
	}
	config.Rules = rules

	return config, nil
}

// LoadRules loads tax rules from a YAML file. Sections missing from the file keep the
// statutory defaults.
func (ip *InputParser) LoadRules(filename string) (*domain.TaxRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}

	rules := domain.DefaultTaxRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	if err := ip.validateRules(&rules); err != nil {
		return nil, fmt.Errorf("rules validation failed: %w", err)
	}

	return &rules, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return fmt.Errorf("configuration is required")
	}
	if err := config.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation validation failed: %w", err)
	}
	if config.Rules != nil {
		if err := ip.validateRules(config.Rules); err != nil {
			return fmt.Errorf("rules validation failed: %w", err)
		}
	}
	return nil
}

// validateRules adds file-level sanity checks on top of the rules' own validation
func (ip *InputParser) validateRules(rules *domain.TaxRules) error {
	if year := rules.Metadata.DataYear; year != 0 && (year < 2000 || year > 2100) {
		return fmt.Errorf("rules data year %d seems invalid", year)
	}
	if len(rules.IncomeTaxBrackets) == 0 {
		return fmt.Errorf("income tax brackets are required")
	}
	for _, kind := range []domain.VehicleKind{domain.VehicleFundA, domain.VehicleFundB, domain.VehicleFundC} {
		if _, ok := rules.FundProfile(kind); !ok {
			return fmt.Errorf("fund profile %s is required", kind)
		}
	}
	return rules.Validate()
}

// CreateExampleConfiguration returns the reference configuration written by the example
// command
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	sim := domain.DefaultSimulationConfig()
	sim.MonthlyVoluntaryContribution = decimal.NewFromInt(100)
	sim.BondFraction = decimal.RequireFromString("0.4")
	return &domain.Configuration{Simulation: sim}
}

// SaveConfiguration writes a configuration as YAML
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// SaveRules writes tax rules as YAML, the starting point for a custom rules file
func (ip *InputParser) SaveRules(rules *domain.TaxRules, filename string) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
