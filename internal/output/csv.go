package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/tfrgo/internal/compare"
)

// CSVSummarizer writes one row per vehicle and per strategy with its total net.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *compare.ScenarioResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Type", "Kind", "Label", "TotalNet", "Winner"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, v := range result.Vehicles {
		row := []string{"vehicle", string(v.Kind), v.Label, v.TotalNet.StringFixed(2), strconv.FormatBool(v.Winner)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, s := range result.Strategies {
		row := []string{"strategy", string(s.Kind), s.Label, s.TotalNet.StringFixed(2), strconv.FormatBool(s.Winner)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes every computed column. Columns that do not apply to a row are empty.
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(result *compare.ScenarioResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Type", "Kind", "Label",
		"StatutoryAccrual", "Voluntary", "Employer",
		"NetGrowthRate", "FinalCapital", "TotalContributions",
		"LiquidationTax", "LiquidationTaxRate", "NetAmount", "TaxSaving",
		"FundAnnualContribution", "ExternalAnnualContribution", "FundNet", "ExternalNet",
		"TotalNet", "AnnualizedReturn", "Winner",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, v := range result.Vehicles {
		annualized := ""
		if v.AnnualizedReturn.Valid {
			annualized = v.AnnualizedReturn.Decimal.StringFixed(6)
		}
		row := []string{
			"vehicle", string(v.Kind), v.Label,
			v.AnnualBreakdown.StatutoryAccrual.StringFixed(2),
			v.AnnualBreakdown.Voluntary.StringFixed(2),
			v.AnnualBreakdown.Employer.StringFixed(2),
			v.NetGrowthRate.StringFixed(6),
			v.FinalCapital.StringFixed(2),
			v.TotalContributions.StringFixed(2),
			v.LiquidationTax.StringFixed(2),
			v.LiquidationTaxRate.StringFixed(6),
			v.NetAmount.StringFixed(2),
			v.TaxSaving.StringFixed(2),
			"", "", "", "",
			v.TotalNet.StringFixed(2),
			annualized,
			strconv.FormatBool(v.Winner),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	for _, s := range result.Strategies {
		row := []string{
			"strategy", string(s.Kind), s.Label,
			"", "", "",
			s.ExternalNetGrowthRate.StringFixed(6),
			"", "", "",
			s.ExternalGainTaxRate.StringFixed(6),
			"",
			s.AnnualTaxSaving.StringFixed(2),
			s.FundAnnualContribution.StringFixed(2),
			s.ExternalAnnualContribution.StringFixed(2),
			s.FundNet.StringFixed(2),
			s.ExternalNet.StringFixed(2),
			s.TotalNet.StringFixed(2),
			"",
			strconv.FormatBool(s.Winner),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
