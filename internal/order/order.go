// Package order assembles the payload handed to fulfilment once a customer
// confirms a quote.
package order

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/pricing"
	"github.com/piwi3910/SailQuote/internal/units"
	"github.com/piwi3910/SailQuote/internal/validate"
)

var (
	ErrInvalidConfiguration = errors.New("configuration is incomplete or invalid")
	ErrNotQuotable          = errors.New("configuration could not be priced")
	ErrNotAcknowledged      = errors.New("order terms not acknowledged")
)

// Fulfilment states. Every order starts as StatusPending.
const (
	StatusPending      = "pending"
	StatusInProduction = "in_production"
	StatusShipped      = "shipped"
	StatusCancelled    = "cancelled"
)

// ValidStatus reports whether s is a known fulfilment state.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProduction, StatusShipped, StatusCancelled:
		return true
	}
	return false
}

// Acknowledgments are the terms a customer must accept before ordering.
type Acknowledgments struct {
	CustomManufactured       bool `json:"customManufactured"`
	MeasurementsAccurate     bool `json:"measurementsAccurate"`
	InstallationNotIncluded  bool `json:"installationNotIncluded"`
	StructuralResponsibility bool `json:"structuralResponsibility"`
}

// Missing returns the JSON names of the unchecked terms.
func (a Acknowledgments) Missing() []string {
	var out []string
	if !a.CustomManufactured {
		out = append(out, "customManufactured")
	}
	if !a.MeasurementsAccurate {
		out = append(out, "measurementsAccurate")
	}
	if !a.InstallationNotIncluded {
		out = append(out, "installationNotIncluded")
	}
	if !a.StructuralResponsibility {
		out = append(out, "structuralResponsibility")
	}
	return out
}

// All reports whether every term was accepted.
func (a Acknowledgments) All() bool {
	return len(a.Missing()) == 0
}

// MeasurementDisplay is a length as shown to the customer.
type MeasurementDisplay struct {
	Unit      string `json:"unit"`
	Formatted string `json:"formatted"`
}

// Order is a confirmed quote. The capitalised JSON fields are display
// strings for the storefront cart.
type Order struct {
	ID              string                   `json:"id"`
	Status          string                   `json:"status"`
	CreatedAt       time.Time                `json:"createdAt"`
	Configuration   model.ShadeConfiguration `json:"configuration"`
	Calculations    model.ShadeCalculations  `json:"calculations"`
	Acknowledgments Acknowledgments          `json:"acknowledgments"`

	Warranty      string `json:"warranty"`
	FabricLabel   string `json:"Fabric_Type"`
	ShadeFactor   string `json:"Shade_Factor"`
	EdgeLabel     string `json:"Edge_Type"`
	WireThickness string `json:"Wire_Thickness"`
	Area          string `json:"Area"`
	Perimeter     string `json:"Perimeter"`
	Price         string `json:"Total_Price"`

	EdgeMeasurements     map[string]MeasurementDisplay `json:"edgeMeasurements"`
	DiagonalMeasurements map[string]MeasurementDisplay `json:"diagonalMeasurements"`
	AnchorHeights        map[string]MeasurementDisplay `json:"anchorPointMeasurements"`
}

// InvalidError lists the fields that block an order.
type InvalidError struct {
	Errors model.ValidationErrors
}

func (e *InvalidError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, strings.Join(keys, ", "))
}

func (e *InvalidError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Build validates cfg in full, checks that calc is a successful quote for it
// and that every term was acknowledged, then assembles the order.
func Build(cfg model.ShadeConfiguration, calc model.ShadeCalculations, catalog model.Catalog, ack Acknowledgments) (Order, error) {
	if errs := validate.Configuration(cfg); errs.HasErrors() {
		return Order{}, &InvalidError{Errors: errs}
	}
	if !calc.Valid {
		return Order{}, ErrNotQuotable
	}
	if missing := ack.Missing(); len(missing) > 0 {
		return Order{}, fmt.Errorf("%w: %s", ErrNotAcknowledged, strings.Join(missing, ", "))
	}

	o := Order{
		ID:              uuid.New().String(),
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
		Configuration:   cfg.Clone(),
		Calculations:    calc,
		Acknowledgments: ack,
		EdgeLabel:       cfg.EdgeType.String(),
		WireThickness:   "N/A",
		Area:            units.FormatArea(calc.Area, cfg.Unit),
		Perimeter:       units.FormatPerimeter(calc.Perimeter, cfg.Unit),
		Price:           pricing.FormatPrice(calc.TotalPrice, calc.Currency),
	}
	if calc.WireThickness > 0 {
		o.WireThickness = strconv.FormatFloat(calc.WireThickness, 'f', -1, 64) + "mm"
	}
	if fabric := catalog.FindFabric(cfg.FabricType); fabric != nil {
		o.FabricLabel = fabric.Label
		o.Warranty = strconv.Itoa(fabric.WarrantyYears)
		if color := fabric.FindColor(cfg.FabricColor); color != nil {
			o.ShadeFactor = strconv.FormatFloat(color.ShadeFactor, 'f', -1, 64)
		}
	}

	o.EdgeMeasurements = displayLengths(cfg, model.EdgeKeys(cfg.Corners), cfg.Measurements)
	o.DiagonalMeasurements = displayLengths(cfg, model.DiagonalKeys(cfg.Corners), cfg.Diagonals)
	heights := make(map[string]float64, len(cfg.FixingHeights))
	keys := make([]string, len(cfg.FixingHeights))
	for i, h := range cfg.FixingHeights {
		keys[i] = model.CornerLabel(i)
		heights[keys[i]] = h
	}
	o.AnchorHeights = displayLengths(cfg, keys, heights)
	return o, nil
}

func displayLengths(cfg model.ShadeConfiguration, keys []string, values map[string]float64) map[string]MeasurementDisplay {
	unitName := "millimeters"
	if cfg.Unit == model.UnitImperial {
		unitName = "inches"
	}
	out := make(map[string]MeasurementDisplay, len(keys))
	for _, k := range keys {
		v, ok := values[k]
		if !ok || v <= 0 {
			continue
		}
		out[k] = MeasurementDisplay{
			Unit:      unitName,
			Formatted: units.FormatMeasurement(units.ToCanonical(v, cfg.Unit), cfg.Unit),
		}
	}
	return out
}

// Summary is the compact form of an order printed on fulfilment tickets.
type Summary struct {
	ID       string  `json:"id"`
	Corners  int     `json:"corners"`
	Fabric   string  `json:"fabric"`
	Color    string  `json:"color"`
	Edge     string  `json:"edge"`
	Area     float64 `json:"area"`
	Total    string  `json:"total"`
	Currency string  `json:"currency"`
}

// Summary returns the ticket summary of o.
func (o Order) Summary() Summary {
	return Summary{
		ID:       o.ID,
		Corners:  o.Configuration.Corners,
		Fabric:   o.Configuration.FabricType,
		Color:    o.Configuration.FabricColor,
		Edge:     string(o.Configuration.EdgeType),
		Area:     o.Calculations.Area,
		Total:    o.Calculations.TotalPrice.String(),
		Currency: o.Calculations.Currency,
	}
}
