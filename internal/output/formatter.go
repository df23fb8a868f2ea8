package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/shopspring/decimal"
)

// Formatter renders one evaluated scenario
type Formatter interface {
	Name() string
	Format(result *compare.ScenarioResult) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(result *compare.ScenarioResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *compare.ScenarioResult) ([]byte, error) {
	return f.F(result)
}

var registeredFormatters = []Formatter{
	ConsoleFormatter{},
	ConsoleVerboseFormatter{},
	CSVSummarizer{},
	DetailedCSVFormatter{},
	JSONFormatter{},
	HTMLFormatter{},
	XLSXFormatter{},
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"table":           "console",
	"summary":         "console-lite",
	"csv-detailed":    "detailed-csv",
	"excel":           "xlsx",
}

// NormalizeFormatName resolves aliases and case
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[n]; ok {
		return target
	}
	return n
}

// GetFormatterByName returns the formatter for a name or alias, nil when unknown
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range registeredFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// AvailableFormatterNames lists the canonical formatter names
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(registeredFormatters))
	for _, f := range registeredFormatters {
		names = append(names, f.Name())
	}
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for a := range formatAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// IsBinary reports whether the formatter's output should go to a file rather than a terminal
func IsBinary(f Formatter) bool {
	return f.Name() == "xlsx"
}

// WriteFormatted renders the result and writes it to a timestamped file in the working directory
func WriteFormatted(f Formatter, result *compare.ScenarioResult, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tfr_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// FormatCurrency formats a decimal as euros
func FormatCurrency(amount decimal.Decimal) string {
	return "€" + amount.StringFixed(2)
}

// FormatPercentage formats a value that is already a percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRate formats a fraction (0.03) as a percentage (3.00%)
func FormatRate(rate decimal.Decimal) string {
	return FormatPercentage(rate.Mul(decimal.NewFromInt(100)))
}

// FormatNullRate formats an optional rate, "n/a" when absent
func FormatNullRate(rate decimal.NullDecimal) string {
	if !rate.Valid {
		return "n/a"
	}
	return FormatRate(rate.Decimal)
}
