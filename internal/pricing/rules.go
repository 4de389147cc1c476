package pricing

import (
	"math"

	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/units"
)

// WireBand maps perimeters up to MaxPerimeter metres to a cable thickness.
type WireBand struct {
	MaxPerimeter float64 `json:"max_perimeter"` // m, 0 = unbounded
	Thickness    float64 `json:"thickness"`     // mm
}

// Rules holds the surcharges applied on top of fabric area pricing.
// All amounts are in the rate table's base currency.
type Rules struct {
	EdgeRates       map[model.EdgeType]float64 `json:"edge_rates"`       // Per metre of perimeter
	HardwarePacks   map[int]float64            `json:"hardware_packs"`   // Keyed by corner count
	WireBands       []WireBand                 `json:"wire_bands"`       // Ascending by MaxPerimeter
	CornerAllowance float64                    `json:"corner_allowance"` // mm off each end of an edge for adjust-to-fit
}

// DefaultRules returns the standard surcharge schedule.
func DefaultRules() Rules {
	return Rules{
		EdgeRates: map[model.EdgeType]float64{
			model.EdgeWebbing: 0,
			model.EdgeCabled:  6.50,
		},
		HardwarePacks: map[int]float64{
			3: 99,
			4: 129,
			5: 159,
			6: 189,
		},
		WireBands: []WireBand{
			{MaxPerimeter: 12, Thickness: 4},
			{MaxPerimeter: 24, Thickness: 5},
			{MaxPerimeter: 0, Thickness: 6},
		},
		CornerAllowance: 150,
	}
}

// WireThickness returns the cable diameter in mm for a cabled sail with the
// given perimeter in metres, or 0 for other edge types.
func (r Rules) WireThickness(edge model.EdgeType, perimeter float64) float64 {
	if edge != model.EdgeCabled {
		return 0
	}
	for _, b := range r.WireBands {
		if b.MaxPerimeter <= 0 || perimeter <= b.MaxPerimeter {
			return b.Thickness
		}
	}
	return 0
}

// FinishedEdges returns the manufactured length of each edge in mm. For
// adjust-to-fit orders the corner allowance is removed at both ends of every
// edge; exact orders are made as measured.
func (r Rules) FinishedEdges(cfg model.ShadeConfiguration) map[string]float64 {
	out := make(map[string]float64, cfg.Corners)
	for _, key := range model.EdgeKeys(cfg.Corners) {
		v, ok := cfg.Measurements[key]
		if !ok {
			continue
		}
		mm := units.ToCanonical(v, cfg.Unit)
		if cfg.MeasurementOption == model.MeasureAdjustToFit {
			mm = math.Max(mm-2*r.CornerAllowance, 0)
		}
		out[key] = mm
	}
	return out
}
