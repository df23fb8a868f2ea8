package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/config"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/rgehrsitz/tfrgo/internal/output"
	"github.com/rgehrsitz/tfrgo/internal/transform"
)

// defaultRulesFile is picked up from the working directory when --rules is not given
const defaultRulesFile = "rules.yaml"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	rulesFile string
	debugMode bool
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tfrgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// newDebugLogger builds the zap logger used when --debug is set
func newDebugLogger() calculation.Logger {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return calculation.NopLogger{}
	}
	return logger.Sugar()
}

// loadConfiguration reads the inputs and, when present, a separate rules file
func loadConfiguration(cmd *cobra.Command, inputFile string) (*domain.Configuration, error) {
	parser := config.NewInputParser()

	rules := rulesFile
	if rules == "" && fileExists(defaultRulesFile) {
		rules = defaultRulesFile
	}
	if rules == "" {
		return parser.LoadFromFile(inputFile)
	}

	if debugMode {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loading rules from: %s\n", rules)
	}
	return parser.LoadFromFileWithRules(inputFile, rules)
}

// activeRules returns the rules from --rules, or the statutory defaults
func activeRules() (domain.TaxRules, error) {
	if rulesFile == "" {
		return domain.DefaultTaxRules(), nil
	}
	rules, err := config.NewInputParser().LoadRules(rulesFile)
	if err != nil {
		return domain.TaxRules{}, err
	}
	return *rules, nil
}

// newEngine creates a calculation engine bound to the configuration's rules
func newEngine(cfg *domain.Configuration) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngineWithRules(cfg.EffectiveRules())
	if debugMode {
		engine.SetLogger(newDebugLogger())
	}
	return engine
}

// applyTransformSpecs applies "name:k=v" specs in order
func applyTransformSpecs(base *domain.SimulationConfig, specs []string) (*domain.SimulationConfig, error) {
	if len(specs) == 0 {
		return base, nil
	}
	registry := transform.NewTransformRegistry()
	transforms := make([]transform.ConfigTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}
		transforms = append(transforms, t)
	}
	return transform.ApplyTransforms(base, transforms)
}

// resultFormatter resolves a format name, carrying the active rules into the formatters that list assumptions
func resultFormatter(name string, rules domain.TaxRules) (output.Formatter, error) {
	f := output.GetFormatterByName(name)
	if f == nil {
		return nil, fmt.Errorf("unknown output format: %s (valid: %s; aliases: %s)", name,
			strings.Join(output.AvailableFormatterNames(), ", "),
			strings.Join(output.AvailableFormatAliases(), ", "))
	}
	switch f.(type) {
	case output.ConsoleVerboseFormatter:
		return output.ConsoleVerboseFormatter{Assumptions: output.Assumptions(&rules)}, nil
	case output.HTMLFormatter:
		return output.HTMLFormatter{Assumptions: output.Assumptions(&rules)}, nil
	}
	return f, nil
}

var rootCmd = &cobra.Command{
	Use:   "tfrgo",
	Short: "Severance and pension fund simulator",
	Long: `Compare leaving the severance (TFR) with the employer against moving it into a
negotiated fund, an open fund, an individual pension plan or an external savings plan,
and split a monthly voluntary saving between them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Calculate every vehicle and strategy for a configuration",
	Long: `Calculate every vehicle and strategy for a configuration.

Examples:
  tfrgo calculate config.yaml
  tfrgo calculate config.yaml --format json
  tfrgo calculate config.yaml --transform set_monthly:value=150 --format csv
  tfrgo calculate config.yaml --format xlsx --output report.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		configData, err := loadConfiguration(cmd, inputFile)
		if err != nil {
			return err
		}

		specs, _ := cmd.Flags().GetStringArray("transform")
		sim, err := applyTransformSpecs(&configData.Simulation, specs)
		if err != nil {
			return err
		}

		compareEngine := compare.NewCompareEngine(newEngine(configData))
		result, err := compareEngine.Evaluate(cmd.Context(), inputFile, sim)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")
		f, err := resultFormatter(outputFormat, configData.EffectiveRules())
		if err != nil {
			return err
		}

		switch {
		case outputFile != "":
			data, err := f.Format(result)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outputFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputFile)
		case output.IsBinary(f):
			filename, err := output.WriteFormatted(f, result, f.Name())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		default:
			data, err := f.Format(result)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		}
		return nil
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example [output-file]",
	Short: "Generate an example configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile := args[0]

		parser := config.NewInputParser()
		if err := parser.SaveConfiguration(parser.CreateExampleConfiguration(), outputFile); err != nil {
			return err
		}

		withRules, _ := cmd.Flags().GetString("rules-out")
		if withRules != "" {
			rules := domain.DefaultTaxRules()
			if err := parser.SaveRules(&rules, withRules); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default rules saved to %s\n", withRules)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Example configuration saved to %s\n", outputFile)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		configData, err := loadConfiguration(cmd, inputFile)
		if err != nil {
			return err
		}
		if err := newEngine(configData).Validate(&configData.Simulation); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", inputFile)
		return nil
	},
}

var transformsCmd = &cobra.Command{
	Use:   "transforms",
	Short: "List the what-if transforms and templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "TRANSFORMS (use with --transform name:key=value)")
		for _, name := range transform.NewTransformRegistry().List() {
			fmt.Fprintf(out, "  %s\n", name)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "TEMPLATES (use with compare --with name,name)")
		rules, err := activeRules()
		if err != nil {
			return err
		}
		templates := transform.CreateBuiltInTemplates(rules)
		for _, name := range templates.List() {
			t, _ := templates.Get(name)
			fmt.Fprintf(out, "  %-22s %s\n", t.Name, t.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "Path to a rules file (default: rules.yaml if it exists)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output for detailed calculations")

	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, detailed-csv, json, html, xlsx)")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	calculateCmd.Flags().StringArray("transform", nil, "Transform applied before calculating (name:key=value), repeatable")

	exampleCmd.Flags().String("rules-out", "", "Also write the default rules to this file")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(transformsCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
