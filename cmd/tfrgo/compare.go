package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/transform"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare a configuration against what-if variants",
	Long: `Compare a base configuration against what-if variants built from templates or transforms.

Examples:
  tfrgo compare config.yaml --with double_savings,bear_market
  tfrgo compare config.yaml --transform set_monthly:value=200 --transform set_years:value=20
  tfrgo compare config.yaml --with long_horizon --format csv
  tfrgo compare config.yaml --with bond_heavy --format pdf --output comparison.pdf
  tfrgo compare --list-templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().String("base", compare.DefaultBaseScenarioName, "Label for the unmodified configuration")
	compareCmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	compareCmd.Flags().StringArray("transform", nil, "Transform variant (name:key=value), repeatable")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json, xlsx, pdf)")
	compareCmd.Flags().StringP("output", "o", "", "File for xlsx/pdf output (default: timestamped name)")
	compareCmd.Flags().Bool("list-templates", false, "List all available templates")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	listTemplates, _ := cmd.Flags().GetBool("list-templates")
	if listTemplates {
		rules, err := activeRules()
		if err != nil {
			return err
		}
		templates := transform.CreateBuiltInTemplates(rules)
		for _, name := range templates.List() {
			t, _ := templates.Get(name)
			fmt.Fprintf(out, "%-22s %s\n", t.Name, t.Description)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("input file required for comparison (use --list-templates to see available templates)")
	}
	inputFile := args[0]

	configData, err := loadConfiguration(cmd, inputFile)
	if err != nil {
		return err
	}

	baseName, _ := cmd.Flags().GetString("base")
	templatesStr, _ := cmd.Flags().GetString("with")
	transformSpecs, _ := cmd.Flags().GetStringArray("transform")
	outputFormat, _ := cmd.Flags().GetString("format")
	outputFile, _ := cmd.Flags().GetString("output")

	templateNames := parseList(templatesStr)
	if len(templateNames) == 0 && len(transformSpecs) == 0 {
		return fmt.Errorf("--with or --transform is required to build at least one variant (see --list-templates)")
	}

	compareEngine := compare.NewCompareEngine(newEngine(configData))
	comparisonSet, err := compareEngine.Compare(cmd.Context(), &configData.Simulation, compare.CompareOptions{
		BaseScenarioName: baseName,
		Templates:        templateNames,
		Transforms:       transformSpecs,
		ConfigPath:       inputFile,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	switch strings.ToLower(outputFormat) {
	case "csv":
		formatter := &compare.CSVFormatter{}
		text, err := formatter.Format(comparisonSet)
		if err != nil {
			return fmt.Errorf("failed to format CSV: %w", err)
		}
		fmt.Fprint(out, text)

	case "json":
		formatter := &compare.JSONFormatter{Pretty: true}
		text, err := formatter.Format(comparisonSet)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, text)

	case "xlsx", "excel":
		data, err := (&compare.XLSXFormatter{}).Format(comparisonSet)
		if err != nil {
			return fmt.Errorf("failed to format XLSX: %w", err)
		}
		return writeReport(cmd, outputFile, "xlsx", data)

	case "pdf":
		data, err := (&compare.PDFFormatter{}).Format(comparisonSet)
		if err != nil {
			return fmt.Errorf("failed to format PDF: %w", err)
		}
		return writeReport(cmd, outputFile, "pdf", data)

	case "table", "console", "":
		formatter := &compare.TableFormatter{}
		fmt.Fprint(out, formatter.Format(comparisonSet))

	default:
		return fmt.Errorf("unknown output format: %s (valid: table, csv, json, xlsx, pdf)", outputFormat)
	}
	return nil
}

// writeReport writes binary report data, naming the file after the current time when none is given
func writeReport(cmd *cobra.Command, filename, ext string, data []byte) error {
	if filename == "" {
		filename = fmt.Sprintf("tfr_comparison_%s.%s", time.Now().Format("20060102_150405"), ext)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
	return nil
}

// parseList splits a comma-separated flag value, dropping blanks
func parseList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
