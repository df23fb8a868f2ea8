package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/tfrgo/internal/compare"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct {
	Assumptions []string
}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"rate":    FormatRate,
	"nullpct": FormatNullRate,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *compare.ScenarioResult) ([]byte, error) {
	var buf bytes.Buffer
	assumptions := h.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	data := struct {
		*compare.ScenarioResult
		Assumptions []string
	}{result, assumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
