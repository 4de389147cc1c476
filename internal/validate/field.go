// Package validate checks user input field by field and flags values that
// look like unit or digit typos.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/SailQuote/internal/model"
)

// Upper bounds for any single length, per entry unit.
const (
	MaxLengthMetric   = 50000.0 // mm
	MaxLengthImperial = 1969.0  // in
)

// Field error codes.
const (
	CodeRequired     = "required"
	CodeNotANumber   = "not_a_number"
	CodeNotPositive  = "not_positive"
	CodeTooLarge     = "too_large"
	CodeInvalidValue = "invalid_value"
	CodeUnknownField = "unknown_field"
)

// FieldError describes why one input field is invalid.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MaxLength returns the largest accepted length in the given unit.
func MaxLength(unit model.Unit) float64 {
	if unit == model.UnitImperial {
		return MaxLengthImperial
	}
	return MaxLengthMetric
}

// ParseLength parses a user-entered number. Surrounding whitespace and a
// trailing unit suffix ("mm", "in", `"`) are ignored.
func ParseLength(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	for _, suffix := range []string{"mm", "in", `"`} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

// Field validates one raw input against the field it belongs to. It returns
// nil when the value is acceptable.
func Field(key, raw string, cfg model.ShadeConfiguration) *FieldError {
	if prefix, i, ok := model.ParseCornerKey(key); ok && i < cfg.Corners {
		switch prefix {
		case model.TypeKeyPrefix:
			if !model.FixingType(strings.TrimSpace(raw)).Valid() {
				return &FieldError{Field: key, Code: CodeInvalidValue,
					Message: fmt.Sprintf("fixing type must be %q or %q", model.FixingPost, model.FixingBuilding)}
			}
			return nil
		case model.OrientationKeyPrefix:
			if !model.EyeOrientation(strings.TrimSpace(raw)).Valid() {
				return &FieldError{Field: key, Code: CodeInvalidValue,
					Message: fmt.Sprintf("eye orientation must be %q or %q", model.EyeHorizontal, model.EyeVertical)}
			}
			return nil
		}
	} else if model.EdgeIndex(key, cfg.Corners) < 0 && !model.IsDiagonalKey(key, cfg.Corners) {
		return &FieldError{Field: key, Code: CodeUnknownField, Message: "not a field of this sail"}
	}

	if strings.TrimSpace(raw) == "" {
		return &FieldError{Field: key, Code: CodeRequired, Message: "a value is required"}
	}
	v, err := ParseLength(raw)
	if err != nil {
		return &FieldError{Field: key, Code: CodeNotANumber, Message: "must be a number"}
	}
	return checkLength(key, v, cfg.Unit)
}

func checkLength(key string, v float64, unit model.Unit) *FieldError {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &FieldError{Field: key, Code: CodeNotANumber, Message: "must be a finite number"}
	}
	if v <= 0 {
		return &FieldError{Field: key, Code: CodeNotPositive, Message: "must be greater than zero"}
	}
	if max := MaxLength(unit); v > max {
		return &FieldError{Field: key, Code: CodeTooLarge,
			Message: fmt.Sprintf("must be at most %.0f %s", max, unit.Symbol())}
	}
	return nil
}
