// Package engine runs the full quote pipeline: validation, reconstruction,
// measurement and pricing.
package engine

import (
	"errors"
	"sort"

	"github.com/piwi3910/SailQuote/internal/geometry"
	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/pricing"
	"github.com/piwi3910/SailQuote/internal/validate"
)

// Reason codes reported in ShadeCalculations.Reasons.
const (
	CodeInvalidField            = "invalid_field"
	CodeDegenerateTriangle      = "degenerate_triangle"
	CodeUnderconstrainedPolygon = "underconstrained_polygon"
	CodeInconsistentDiagonal    = "inconsistent_diagonal"
	CodeSelfIntersectingPolygon = "self_intersecting_polygon"
	CodeUnsupportedCorners      = "unsupported_corners"
	CodeInvalidLength           = "invalid_length"
	CodeUnknownFabric           = "unknown_fabric"
	CodeUnknownColor            = "unknown_color"
	CodeUnsupportedCurrency     = "unsupported_currency"
	CodeInternal                = "internal"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{geometry.ErrDegenerateTriangle, CodeDegenerateTriangle},
	{geometry.ErrUnderconstrainedPolygon, CodeUnderconstrainedPolygon},
	{geometry.ErrInconsistentDiagonal, CodeInconsistentDiagonal},
	{geometry.ErrSelfIntersectingPolygon, CodeSelfIntersectingPolygon},
	{geometry.ErrUnsupportedCorners, CodeUnsupportedCorners},
	{geometry.ErrInvalidLength, CodeInvalidLength},
	{pricing.ErrUnknownFabric, CodeUnknownFabric},
	{pricing.ErrUnknownColor, CodeUnknownColor},
	{pricing.ErrUnsupportedCurrency, CodeUnsupportedCurrency},
}

// Engine computes ShadeCalculations. It holds only read-only configuration
// and is safe for concurrent use.
type Engine struct {
	catalog model.Catalog
	rates   pricing.RateTable
	pricer  *pricing.Pricer
}

// New returns an Engine pricing against catalog, rates and rules.
func New(catalog model.Catalog, rates pricing.RateTable, rules pricing.Rules) *Engine {
	return &Engine{
		catalog: catalog,
		rates:   rates,
		pricer:  pricing.NewPricer(catalog, rules),
	}
}

// Default returns an Engine using the built-in catalog, rates and rules.
func Default() *Engine {
	return New(model.DefaultCatalog(), pricing.DefaultRates(), pricing.DefaultRules())
}

// Catalog returns the fabric catalog in use.
func (e *Engine) Catalog() model.Catalog { return e.catalog }

// Rates returns the exchange rate table in use.
func (e *Engine) Rates() pricing.RateTable { return e.rates }

// Rules returns the surcharge rules in use.
func (e *Engine) Rules() pricing.Rules { return e.pricer.Rules() }

// Calculate runs the pipeline on cfg. It never fails: fatal problems are
// reported as Valid=false with reasons, and whatever could be computed
// before the failure is still filled in.
func (e *Engine) Calculate(cfg model.ShadeConfiguration) model.ShadeCalculations {
	calc := model.ShadeCalculations{Currency: cfg.Currency}
	if calc.Currency == "" {
		calc.Currency = e.rates.Base
	}

	if errs := validate.Measurements(cfg); errs.HasErrors() {
		calc.Reasons = fieldReasons(errs)
		return calc
	}

	poly, err := geometry.Reconstruct(cfg)
	if err != nil {
		calc.Reasons = []model.Diagnostic{reason(err)}
		return calc
	}
	calc.Points = poly.Points
	calc.Warnings = poly.Warnings

	geom, err := geometry.Compute(poly)
	if err != nil {
		calc.Reasons = []model.Diagnostic{reason(err)}
		return calc
	}
	calc.Area = geom.Area
	calc.Perimeter = geom.Perimeter
	calc.Angles = geom.Angles
	calc.Warnings = geom.Warnings
	calc.FinishedEdges = e.pricer.Rules().FinishedEdges(cfg)
	calc.WireThickness = e.pricer.Rules().WireThickness(cfg.EdgeType, geom.Perimeter)

	quote, err := e.pricer.Compute(cfg, geom, e.rates)
	if err != nil {
		calc.Reasons = []model.Diagnostic{reason(err)}
		return calc
	}
	calc.TotalPrice = quote.Total
	calc.Currency = quote.Currency
	calc.Breakdown = &quote.Breakdown
	calc.Valid = true
	return calc
}

func reason(err error) model.Diagnostic {
	d := model.Diagnostic{
		Code:    CodeInternal,
		Field:   geometry.FieldOf(err),
		Message: err.Error(),
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			d.Code = ec.code
			break
		}
	}
	return d
}

func fieldReasons(errs model.ValidationErrors) []model.Diagnostic {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.Diagnostic, len(keys))
	for i, k := range keys {
		out[i] = model.Diagnostic{Field: k, Code: CodeInvalidField, Message: errs[k]}
	}
	return out
}
