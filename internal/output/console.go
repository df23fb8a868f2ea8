package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/tfrgo/internal/compare"
	"github.com/rgehrsitz/tfrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter prints a short summary: inputs, the winners and their margin over the employer balance.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(result *compare.ScenarioResult) ([]byte, error) {
	var buf bytes.Buffer
	in := result.Inputs

	fmt.Fprintln(&buf, "SEVERANCE SIMULATION SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 40))
	fmt.Fprintf(&buf, "Income: %s  Years: %d  Monthly: %s\n",
		FormatCurrency(in.GrossAnnualIncome), in.HorizonYears, FormatCurrency(in.MonthlyVoluntaryContribution))

	if len(result.Vehicles) == 0 {
		fmt.Fprintln(&buf, "No vehicles evaluated")
		return buf.Bytes(), nil
	}

	for _, v := range result.WinningVehicles() {
		fmt.Fprintf(&buf, "Best vehicle: %s %s\n", v.Label, FormatCurrency(v.NetAmount))
	}
	for _, s := range result.WinningStrategies() {
		fmt.Fprintf(&buf, "Best strategy: %s %s\n", s.Label, FormatCurrency(s.TotalNet))
	}

	for _, v := range result.Vehicles {
		if v.Kind == domain.VehicleEmployerBalance {
			delta := result.BestVehicleNet.Sub(v.NetAmount)
			fmt.Fprintf(&buf, "Δ %s over leaving the severance with the employer\n", FormatCurrency(delta))
		}
	}
	return buf.Bytes(), nil
}

// ConsoleVerboseFormatter renders the detailed report: assumptions, inputs, hints, vehicles and strategies.
type ConsoleVerboseFormatter struct {
	// Rendered in place of DefaultAssumptions when set
	Assumptions []string
}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(result *compare.ScenarioResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintln(&buf, "DETAILED SEVERANCE AND PENSION FUND ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := c.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeInputs(&buf, &result.Inputs)
	writeHints(&buf, result.Hints)
	writeVehicles(&buf, result.Vehicles)
	writeStrategies(&buf, result.Strategies)

	return buf.Bytes(), nil
}

func writeInputs(buf *bytes.Buffer, in *domain.SimulationConfig) {
	fmt.Fprintln(buf, "INPUTS")
	fmt.Fprintln(buf, strings.Repeat("-", 45))
	line := func(label, value string) {
		fmt.Fprintf(buf, "  %-30s %12s\n", label+":", value)
	}
	line("Gross annual income", FormatCurrency(in.GrossAnnualIncome))
	line("Years of participation", fmt.Sprintf("%d", in.HorizonYears))
	line("Fund gross return", FormatRate(in.GrossAnnualReturnRate))
	line("Inflation", FormatRate(in.InflationRate))
	line("External plan return", FormatRate(in.ExternalPlanReturnRate))
	line("Employer match", FormatRate(in.EmployerMatchRate))
	line("Minimum for match", FormatRate(in.MinimumVoluntaryRate))
	line("Monthly voluntary", FormatCurrency(in.MonthlyVoluntaryContribution))
	line("Fund bond share", FormatRate(in.BondFraction))
	line("External plan bond share", FormatRate(in.ExternalPlanBondFraction))
	fmt.Fprintln(buf)
}

func writeHints(buf *bytes.Buffer, hints domain.ContributionHints) {
	fmt.Fprintln(buf, "CONTRIBUTION HINTS (monthly)")
	fmt.Fprintln(buf, strings.Repeat("-", 45))
	fmt.Fprintf(buf, "  %-30s %12s\n", "Earns the employer match:", FormatCurrency(hints.MonthlyForEmployerMatch))
	fmt.Fprintf(buf, "  %-30s %12s\n", "Deductible max, negotiated:", FormatCurrency(hints.MaxDeductibleMonthlyWithMatch))
	fmt.Fprintf(buf, "  %-30s %12s\n", "Deductible max, open/PIP:", FormatCurrency(hints.MaxDeductibleMonthly))
	fmt.Fprintln(buf)
}

func writeVehicles(buf *bytes.Buffer, vehicles []domain.VehicleResult) {
	fmt.Fprintln(buf, "VEHICLES")
	fmt.Fprintln(buf, strings.Repeat("-", 100))
	fmt.Fprintf(buf, "%-26s %8s %13s %13s %12s %12s %13s %9s\n",
		"Vehicle", "Growth", "Final", "Exit Tax", "Tax Saving", "Net", "Total Net", "Yearly")
	for _, v := range vehicles {
		label := v.Label
		if v.Winner {
			label = "★ " + label
		}
		fmt.Fprintf(buf, "%-26s %8s %13s %13s %12s %12s %13s %9s\n",
			label,
			FormatRate(v.NetGrowthRate),
			FormatCurrency(v.FinalCapital),
			FormatCurrency(v.LiquidationTax),
			FormatCurrency(v.TaxSaving),
			FormatCurrency(v.NetAmount),
			FormatCurrency(v.TotalNet),
			FormatNullRate(v.AnnualizedReturn))
	}
	fmt.Fprintln(buf)
}

func writeStrategies(buf *bytes.Buffer, strategies []domain.StrategyResult) {
	if len(strategies) == 0 {
		return
	}
	fmt.Fprintln(buf, "STRATEGIES (negotiated fund + external plan)")
	fmt.Fprintln(buf, strings.Repeat("-", 100))
	fmt.Fprintf(buf, "%-26s %12s %12s %12s %13s %13s %13s\n",
		"Strategy", "Fund/yr", "Plan/yr", "Saving/yr", "Fund Net", "Plan Net", "Total Net")

	best := decimal.Zero
	for _, s := range strategies {
		if s.Winner {
			best = s.TotalNet
		}
	}
	for _, s := range strategies {
		label := s.Label
		if s.Winner {
			label = "★ " + label
		}
		fmt.Fprintf(buf, "%-26s %12s %12s %12s %13s %13s %13s\n",
			label,
			FormatCurrency(s.FundAnnualContribution),
			FormatCurrency(s.ExternalAnnualContribution),
			FormatCurrency(s.AnnualTaxSaving),
			FormatCurrency(s.FundNet),
			FormatCurrency(s.ExternalNet),
			FormatCurrency(s.TotalNet))
	}
	fmt.Fprintln(buf)

	for _, s := range strategies {
		if !s.Winner {
			fmt.Fprintf(buf, "  %s trails the best by %s\n", s.Label, FormatCurrency(best.Sub(s.TotalNet)))
		}
	}
	fmt.Fprintln(buf)
}
