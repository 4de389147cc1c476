package engine

import (
	"fmt"

	"github.com/piwi3910/SailQuote/internal/model"
)

// ComparisonScenario is a named variant of a configuration.
type ComparisonScenario struct {
	Name          string                   `json:"name"`
	Configuration model.ShadeConfiguration `json:"configuration"`
}

// ComparisonResult holds the calculations for one scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario      `json:"scenario"`
	Calculations model.ShadeCalculations `json:"calculations"`
}

// CompareScenarios calculates every scenario in order so the customer can
// see alternatives side by side.
func (e *Engine) CompareScenarios(scenarios []ComparisonScenario) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, ComparisonResult{
			Scenario:     s,
			Calculations: e.Calculate(s.Configuration),
		})
	}
	return results
}

// BuildDefaultScenarios derives what-if alternatives from base: the other
// edge finish, the other measurement option, and every other fabric in its
// first colour.
func (e *Engine) BuildDefaultScenarios(base model.ShadeConfiguration) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Selection", Configuration: base.Clone()},
	}

	altEdge := base.Clone()
	if base.EdgeType == model.EdgeCabled {
		altEdge.EdgeType = model.EdgeWebbing
	} else {
		altEdge.EdgeType = model.EdgeCabled
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:          altEdge.EdgeType.String(),
		Configuration: altEdge,
	})

	altMeasure := base.Clone()
	if base.MeasurementOption == model.MeasureExact {
		altMeasure.MeasurementOption = model.MeasureAdjustToFit
	} else {
		altMeasure.MeasurementOption = model.MeasureExact
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:          altMeasure.MeasurementOption.String(),
		Configuration: altMeasure,
	})

	for _, f := range e.catalog.Fabrics {
		if f.ID == base.FabricType || len(f.Colors) == 0 {
			continue
		}
		alt := base.Clone()
		alt.FabricType = f.ID
		alt.FabricColor = f.Colors[0].Name
		scenarios = append(scenarios, ComparisonScenario{
			Name:          fmt.Sprintf("%s (%s)", f.Label, alt.FabricColor),
			Configuration: alt,
		})
	}
	return scenarios
}
