package model

// Scenario names one of the four treatments the calculator returns for the same
// project. Keep these values stable; they appear in URLs, file names and logs.
type Scenario string

const (
	ScenarioBase            Scenario = "base"
	ScenarioBenefits        Scenario = "benefits"
	ScenarioLeasing         Scenario = "leasing"
	ScenarioLeasingBenefits Scenario = "leasingBenefits"
)

// All returns the four scenarios in display order.
func All() []Scenario {
	return []Scenario{ScenarioBase, ScenarioBenefits, ScenarioLeasing, ScenarioLeasingBenefits}
}

func (s Scenario) String() string { return string(s) }

// Valid reports whether s is one of the four known scenarios.
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioBase, ScenarioBenefits, ScenarioLeasing, ScenarioLeasingBenefits:
		return true
	}
	return false
}

// Label is the human-facing name used in chart legends, markers and reports.
func (s Scenario) Label() string {
	switch s {
	case ScenarioBase:
		return "Sin beneficios"
	case ScenarioBenefits:
		return "Con beneficios tributarios"
	case ScenarioLeasing:
		return "Leasing sin beneficios"
	case ScenarioLeasingBenefits:
		return "Leasing con beneficios tributarios"
	default:
		return string(s)
	}
}

// Selection is the pair of toggles driven by the presentation layer.
// The zero value selects the base scenario.
type Selection struct {
	WithBenefits bool `json:"with_benefits"`
	WithLeasing  bool `json:"with_leasing"`
}

// Indicators are the summary metrics of one scenario.
// A nil InternalRateOfReturn or PaybackYear means the project does not recover
// within the horizon.
type Indicators struct {
	NetPresentValue      float64  `json:"net_present_value"`
	InternalRateOfReturn *float64 `json:"internal_rate_of_return"`
	PaybackYear          *float64 `json:"payback_year"`
}

// ScenarioData is the raw calculator output for one scenario.
type ScenarioData struct {
	Series     []float64
	Indicators Indicators
}
