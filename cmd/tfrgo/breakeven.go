package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/tfrgo/internal/breakeven"
	"github.com/rgehrsitz/tfrgo/internal/domain"
)

var breakEvenCmd = &cobra.Command{
	Use:   "break-even [input-file]",
	Short: "Find the input value at which two vehicles or strategies tie",
	Long: `Find the input value at which two vehicles or strategies reach the same total net.

Without --preset or --parameter every built-in question is answered.

Examples:
  tfrgo break-even config.yaml
  tfrgo break-even config.yaml --preset fund_vs_employer_return
  tfrgo break-even config.yaml --parameter return --min 0 --max 0.1 \
      --first vehicle:fund_c --second vehicle:employer_balance
  tfrgo break-even --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBreakEven,
}

func init() {
	breakEvenCmd.Flags().StringSlice("preset", nil, "Built-in question(s) to answer")
	breakEvenCmd.Flags().String("parameter", "", "Parameter to solve for in a custom question")
	breakEvenCmd.Flags().String("min", "", "Lower bound for a custom question")
	breakEvenCmd.Flags().String("max", "", "Upper bound for a custom question")
	breakEvenCmd.Flags().String("first", "", "First competitor (vehicle:<kind> or strategy:<kind>)")
	breakEvenCmd.Flags().String("second", "", "Second competitor (vehicle:<kind> or strategy:<kind>)")
	breakEvenCmd.Flags().Int("max-iterations", 0, "Bisection iteration limit (default 100)")
	breakEvenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	breakEvenCmd.Flags().Bool("list", false, "List the built-in questions")

	rootCmd.AddCommand(breakEvenCmd)
}

func runBreakEven(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	list, _ := cmd.Flags().GetBool("list")
	if list {
		for _, p := range breakeven.Presets() {
			fmt.Fprintf(out, "%-30s %s\n", p.Name, p.Description)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("input file required for break-even analysis (use --list to see built-in questions)")
	}

	configData, err := loadConfiguration(cmd, args[0])
	if err != nil {
		return err
	}

	requests, err := breakEvenRequests(cmd)
	if err != nil {
		return err
	}

	options := breakeven.DefaultSolverOptions()
	if n, _ := cmd.Flags().GetInt("max-iterations"); n > 0 {
		options.MaxIterations = n
	}
	solver := breakeven.NewSolver(newEngine(configData), options)

	outputFormat, _ := cmd.Flags().GetString("format")
	tableFormatter := &breakeven.TableFormatter{}
	jsonFormatter := &breakeven.JSONFormatter{Pretty: true}

	// A single question reports its failure as the command error
	if len(requests) == 1 {
		result, err := solver.Solve(cmd.Context(), &configData.Simulation, requests[0])
		if err != nil {
			return err
		}
		switch strings.ToLower(outputFormat) {
		case "json":
			text, err := jsonFormatter.Format(result)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
		case "table", "console", "":
			fmt.Fprint(out, tableFormatter.Format(result))
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
		}
		return nil
	}

	multi, err := solver.SolveAll(cmd.Context(), &configData.Simulation, requests)
	if err != nil {
		return err
	}
	switch strings.ToLower(outputFormat) {
	case "json":
		text, err := jsonFormatter.FormatMulti(multi)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
	case "table", "console", "":
		fmt.Fprint(out, tableFormatter.FormatMulti(multi))
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
	}
	return nil
}

// breakEvenRequests builds the questions from --parameter, --preset, or falls back to every preset
func breakEvenRequests(cmd *cobra.Command) ([]breakeven.Request, error) {
	parameter, _ := cmd.Flags().GetString("parameter")
	if parameter != "" {
		req, err := customRequest(cmd, parameter)
		if err != nil {
			return nil, err
		}
		return []breakeven.Request{req}, nil
	}

	names, _ := cmd.Flags().GetStringSlice("preset")
	if len(names) == 0 {
		return breakeven.Presets(), nil
	}

	requests := make([]breakeven.Request, 0, len(names))
	for _, name := range names {
		req, ok := breakeven.Preset(name)
		if !ok {
			available := make([]string, 0, len(breakeven.Presets()))
			for _, p := range breakeven.Presets() {
				available = append(available, p.Name)
			}
			return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(available, ", "))
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func customRequest(cmd *cobra.Command, parameter string) (breakeven.Request, error) {
	minStr, _ := cmd.Flags().GetString("min")
	maxStr, _ := cmd.Flags().GetString("max")
	firstStr, _ := cmd.Flags().GetString("first")
	secondStr, _ := cmd.Flags().GetString("second")

	if minStr == "" || maxStr == "" || firstStr == "" || secondStr == "" {
		return breakeven.Request{}, fmt.Errorf("--parameter needs --min, --max, --first and --second")
	}

	lo, err := decimal.NewFromString(minStr)
	if err != nil {
		return breakeven.Request{}, fmt.Errorf("invalid --min %q: %w", minStr, err)
	}
	hi, err := decimal.NewFromString(maxStr)
	if err != nil {
		return breakeven.Request{}, fmt.Errorf("invalid --max %q: %w", maxStr, err)
	}
	first, err := parseCompetitor(firstStr)
	if err != nil {
		return breakeven.Request{}, err
	}
	second, err := parseCompetitor(secondStr)
	if err != nil {
		return breakeven.Request{}, err
	}

	return breakeven.Request{
		Name:      "custom",
		Parameter: parameter,
		Min:       lo,
		Max:       hi,
		First:     first,
		Second:    second,
	}, nil
}

// parseCompetitor reads "vehicle:<kind>" or "strategy:<kind>"
func parseCompetitor(s string) (breakeven.Competitor, error) {
	side, kind, ok := strings.Cut(s, ":")
	if !ok || kind == "" {
		return breakeven.Competitor{}, fmt.Errorf("invalid competitor %q: expected vehicle:<kind> or strategy:<kind>", s)
	}
	switch strings.ToLower(side) {
	case "vehicle":
		return breakeven.VehicleCompetitor(domain.VehicleKind(kind)), nil
	case "strategy":
		return breakeven.StrategyCompetitor(domain.StrategyKind(kind)), nil
	default:
		return breakeven.Competitor{}, fmt.Errorf("invalid competitor %q: expected vehicle:<kind> or strategy:<kind>", s)
	}
}
