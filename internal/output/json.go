package output

import (
	"encoding/json"

	"github.com/rgehrsitz/tfrgo/internal/compare"
)

// JSONFormatter emits the scenario result as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *compare.ScenarioResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
