package model

// FallbackCurrency is used whenever currency detection fails or yields a code
// the rate table does not support.
const FallbackCurrency = "USD"

// WarningCode identifies a non-fatal geometry condition.
type WarningCode string

const (
	WarningNonConvex      WarningCode = "non_convex"
	WarningAssumedClosure WarningCode = "assumed_closure"
)

// Warning is a non-fatal condition the UI shows as a caution.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Geometry holds the measured properties of a reconstructed sail.
type Geometry struct {
	Area      float64   `json:"area"`      // m²
	Perimeter float64   `json:"perimeter"` // m
	Angles    []float64 `json:"angles"`    // Interior angle per corner in degrees
	Convex    bool      `json:"convex"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

// PriceBreakdown itemises a quote. Component prices are in the base currency;
// Total is converted and rounded.
type PriceBreakdown struct {
	BaseCurrency string  `json:"baseCurrency"`
	FabricRate   float64 `json:"fabricRate"` // Base currency per m²
	Fabric       Money   `json:"fabric"`
	Edge         Money   `json:"edge"`
	Hardware     Money   `json:"hardware"`
	Subtotal     Money   `json:"subtotal"`
	ExchangeRate float64 `json:"exchangeRate"`
}

// Quote is the result of pricing a sail.
type Quote struct {
	Total         Money          `json:"total"`
	Currency      string         `json:"currency"`
	WireThickness float64        `json:"wireThickness,omitempty"`
	Breakdown     PriceBreakdown `json:"breakdown"`
}

// Diagnostic explains why a configuration cannot be computed. Field is empty
// when the problem cannot be tied to a single input.
type Diagnostic struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ShadeCalculations is everything derived from a ShadeConfiguration. It is
// recomputed on every relevant change and never persisted on its own.
type ShadeCalculations struct {
	Area          float64            `json:"area"`      // m²
	Perimeter     float64            `json:"perimeter"` // m
	TotalPrice    Money              `json:"totalPrice"`
	Currency      string             `json:"currency"`
	WireThickness float64            `json:"wireThickness,omitempty"` // mm, cabled edges only
	Valid         bool               `json:"valid"`
	Reasons       []Diagnostic       `json:"reasons,omitempty"`
	Warnings      []Warning          `json:"warnings,omitempty"`
	Points        Outline            `json:"points,omitempty"`
	Angles        []float64          `json:"angles,omitempty"`
	FinishedEdges map[string]float64 `json:"finishedEdges,omitempty"` // mm after hardware deduction
	Breakdown     *PriceBreakdown    `json:"breakdown,omitempty"`
}

// ValidationErrors maps a field key to a message.
type ValidationErrors map[string]string

// HasErrors reports whether any field failed validation.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// TypoSuggestions maps a field key to a proposed corrected value.
type TypoSuggestions map[string]float64
