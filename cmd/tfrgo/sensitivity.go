package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/tfrgo/internal/calculation"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/rgehrsitz/tfrgo/internal/output"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Sweep one input and show how every vehicle responds",
	Long: `Sweep one input between two bounds and show how every vehicle responds.

Common parameters come with a default range; any other input needs --min and --max.

Examples:
  tfrgo sensitivity config.yaml --parameter return
  tfrgo sensitivity config.yaml --parameter inflation --min 0 --max 0.05 --steps 6
  tfrgo sensitivity config.yaml --parameter income --min 20000 --max 60000 --steps 5 --format csv
  tfrgo sensitivity --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSensitivityAnalysis,
}

var (
	sensitivityParameter    string
	sensitivityMin          string
	sensitivityMax          string
	sensitivitySteps        int
	sensitivityOutputFormat string
	sensitivityList         bool
)

func init() {
	sensitivityCmd.Flags().StringVar(&sensitivityParameter, "parameter", domain.ParamReturnRate, "Parameter to sweep ("+strings.Join(domain.SweepableParameters, ", ")+")")
	sensitivityCmd.Flags().StringVar(&sensitivityMin, "min", "", "Lower bound of the sweep")
	sensitivityCmd.Flags().StringVar(&sensitivityMax, "max", "", "Upper bound of the sweep")
	sensitivityCmd.Flags().IntVar(&sensitivitySteps, "steps", 0, "Number of points, bounds included")
	sensitivityCmd.Flags().StringVarP(&sensitivityOutputFormat, "format", "f", "console", "Output format (console, csv, json)")
	sensitivityCmd.Flags().BoolVar(&sensitivityList, "list", false, "List the common parameters and their default ranges")

	rootCmd.AddCommand(sensitivityCmd)
}

func runSensitivityAnalysis(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if sensitivityList {
		for _, p := range domain.GetCommonParameters() {
			fmt.Fprintf(out, "%-16s %s to %s, %d steps  %s\n", p.Name,
				output.FormatParameterValue(p.Unit, p.MinValue),
				output.FormatParameterValue(p.Unit, p.MaxValue),
				p.Steps, p.Description)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("input file required for sensitivity analysis (use --list to see common parameters)")
	}

	configData, err := loadConfiguration(cmd, args[0])
	if err != nil {
		return err
	}

	param, err := sensitivityParameterFromFlags()
	if err != nil {
		return err
	}

	analyzer := calculation.NewSensitivityAnalyzer(newEngine(configData))
	analysis, err := analyzer.AnalyzeSingleParameter(cmd.Context(), &configData.Simulation, param)
	if err != nil {
		return fmt.Errorf("sensitivity analysis failed: %w", err)
	}

	text, err := output.NewSensitivityFormatter(sensitivityOutputFormat).FormatSensitivityAnalysis(analysis)
	if err != nil {
		return err
	}
	fmt.Fprint(out, text)
	return nil
}

// sensitivityParameterFromFlags starts from the common parameter, if any, and applies the overrides
func sensitivityParameterFromFlags() (domain.SensitivityParameter, error) {
	param, known := domain.CommonParameter(sensitivityParameter)
	if !known {
		if sensitivityMin == "" || sensitivityMax == "" {
			return param, fmt.Errorf("parameter %q has no default range: --min and --max are required", sensitivityParameter)
		}
		param = domain.SensitivityParameter{Name: sensitivityParameter, Steps: 5, Unit: unitFor(sensitivityParameter)}
	}

	if sensitivityMin != "" {
		v, err := decimal.NewFromString(sensitivityMin)
		if err != nil {
			return param, fmt.Errorf("invalid --min %q: %w", sensitivityMin, err)
		}
		param.MinValue = v
	}
	if sensitivityMax != "" {
		v, err := decimal.NewFromString(sensitivityMax)
		if err != nil {
			return param, fmt.Errorf("invalid --max %q: %w", sensitivityMax, err)
		}
		param.MaxValue = v
	}
	if sensitivitySteps > 0 {
		param.Steps = sensitivitySteps
	}
	return param, nil
}

func unitFor(name string) string {
	switch name {
	case domain.ParamIncome, domain.ParamMonthly:
		return "euros"
	case domain.ParamHorizonYears:
		return "years"
	default:
		return "percent"
	}
}
