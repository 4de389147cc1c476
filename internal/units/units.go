// Package units converts user-entered lengths to and from canonical
// millimeters and formats derived quantities for display.
package units

import (
	"fmt"

	"github.com/piwi3910/SailQuote/internal/model"
)

const (
	// MillimetersPerInch is exact by definition.
	MillimetersPerInch = 25.4
	// SquareFeetPerSquareMeter is 1 / 0.3048².
	SquareFeetPerSquareMeter = 10.763910416709722
	// FeetPerMeter is 1 / 0.3048.
	FeetPerMeter = 3.280839895013123
)

// ToCanonical converts a value entered in unit to millimeters. Unknown units
// are treated as metric.
func ToCanonical(value float64, unit model.Unit) float64 {
	if unit == model.UnitImperial {
		return value * MillimetersPerInch
	}
	return value
}

// FromCanonical converts millimeters to unit.
func FromCanonical(mm float64, unit model.Unit) float64 {
	if unit == model.UnitImperial {
		return mm / MillimetersPerInch
	}
	return mm
}

// ToCanonicalMap converts every value of a measurement map. The input is not
// modified.
func ToCanonicalMap(values map[string]float64, unit model.Unit) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = ToCanonical(v, unit)
	}
	return out
}

// FormatMeasurement renders a length in the user's unit: whole millimeters
// or inches to one decimal.
func FormatMeasurement(mm float64, unit model.Unit) string {
	if unit == model.UnitImperial {
		return fmt.Sprintf("%.1f in", FromCanonical(mm, unit))
	}
	return fmt.Sprintf("%.0f mm", mm)
}

// FormatArea renders an area given in m² as m² or ft².
func FormatArea(sqm float64, unit model.Unit) string {
	if unit == model.UnitImperial {
		return fmt.Sprintf("%.2f ft²", sqm*SquareFeetPerSquareMeter)
	}
	return fmt.Sprintf("%.2f m²", sqm)
}

// FormatPerimeter renders a length given in m as m or ft.
func FormatPerimeter(m float64, unit model.Unit) string {
	if unit == model.UnitImperial {
		return fmt.Sprintf("%.2f ft", m*FeetPerMeter)
	}
	return fmt.Sprintf("%.2f m", m)
}
