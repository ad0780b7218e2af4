package chart

import (
	"fv-simulator/internal/model"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var lineColors = map[model.Scenario]drawing.Color{
	model.ScenarioBase:            {R: 0, G: 123, B: 255, A: 255},
	model.ScenarioBenefits:        {R: 40, G: 167, B: 69, A: 255},
	model.ScenarioLeasing:         {R: 253, G: 126, B: 20, A: 255},
	model.ScenarioLeasingBenefits: {R: 111, G: 66, B: 193, A: 255},
}

var markerColors = map[model.Scenario]drawing.Color{
	model.ScenarioBase:            {R: 220, G: 53, B: 69, A: 255},
	model.ScenarioBenefits:        {R: 0, G: 200, B: 0, A: 255},
	model.ScenarioLeasing:         {R: 200, G: 35, B: 51, A: 255},
	model.ScenarioLeasingBenefits: {R: 32, G: 201, B: 151, A: 255},
}

var fallbackColor = drawing.Color{R: 108, G: 117, B: 125, A: 255}

// ColorFor returns the line colour of scenario s. Each scenario has its own
// colour and the mapping never changes.
func ColorFor(s model.Scenario) drawing.Color {
	if c, ok := lineColors[s]; ok {
		return c
	}
	return fallbackColor
}

// MarkerColorFor returns the payback marker colour of scenario s.
func MarkerColorFor(s model.Scenario) drawing.Color {
	if c, ok := markerColors[s]; ok {
		return c
	}
	return fallbackColor
}
