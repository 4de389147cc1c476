package validate

import (
	"fmt"
	"strings"

	"github.com/piwi3910/SailQuote/internal/model"
)

// Configuration checks a whole configuration and returns every problem
// keyed by field. Geometry is not checked here; see geometry.Reconstruct.
func Configuration(cfg model.ShadeConfiguration) model.ValidationErrors {
	errs := model.ValidationErrors{}
	n := cfg.Corners
	if n < model.MinCorners || n > model.MaxCorners {
		errs["corners"] = fmt.Sprintf("choose between %d and %d corners", model.MinCorners, model.MaxCorners)
		return errs
	}

	switch cfg.Unit {
	case model.UnitMetric, model.UnitImperial:
	default:
		errs["unit"] = "unit must be metric or imperial"
	}
	switch cfg.MeasurementOption {
	case model.MeasureAdjustToFit, model.MeasureExact:
	default:
		errs["measurementOption"] = "choose adjust-to-fit or exact dimensions"
	}
	switch cfg.EdgeType {
	case model.EdgeWebbing, model.EdgeCabled:
	default:
		errs["edgeType"] = "choose webbing or cabled edges"
	}
	if strings.TrimSpace(cfg.FabricType) == "" {
		errs["fabricType"] = "choose a fabric"
	}
	if strings.TrimSpace(cfg.FabricColor) == "" {
		errs["fabricColor"] = "choose a colour"
	}
	if len(strings.TrimSpace(cfg.Currency)) != 3 {
		errs["currency"] = "currency must be a three-letter code"
	}

	for _, key := range model.EdgeKeys(n) {
		v, ok := cfg.Measurements[key]
		if !ok {
			errs[key] = "a value is required"
			continue
		}
		if fe := checkLength(key, v, cfg.Unit); fe != nil {
			errs[key] = fe.Message
		}
	}
	for key := range cfg.Measurements {
		if model.EdgeIndex(key, n) < 0 {
			errs[key] = "not an edge of this sail"
		}
	}

	required := model.RequiredDiagonals(n) > 0
	for _, key := range model.DiagonalKeys(n) {
		v, ok := cfg.Diagonals[key]
		if !ok || v == 0 {
			if required {
				errs[key] = "a value is required"
			}
			continue
		}
		if fe := checkLength(key, v, cfg.Unit); fe != nil {
			errs[key] = fe.Message
		}
	}
	for key := range cfg.Diagonals {
		if !model.IsDiagonalKey(key, n) {
			errs[key] = "not a diagonal of this sail"
		}
	}

	if len(cfg.FixingHeights) != n {
		errs["fixingHeights"] = fmt.Sprintf("expected %d fixing heights, got %d", n, len(cfg.FixingHeights))
	} else {
		for i, h := range cfg.FixingHeights {
			if fe := checkLength(model.HeightKey(i), h, cfg.Unit); fe != nil {
				errs[fe.Field] = fe.Message
			}
		}
	}
	if len(cfg.FixingTypes) != n {
		errs["fixingTypes"] = fmt.Sprintf("expected %d fixing types, got %d", n, len(cfg.FixingTypes))
	} else {
		for i, ft := range cfg.FixingTypes {
			if !ft.Valid() {
				errs[model.TypeKey(i)] = "choose post or building"
			}
		}
	}
	if len(cfg.EyeOrientations) != n {
		errs["eyeOrientations"] = fmt.Sprintf("expected %d eye orientations, got %d", n, len(cfg.EyeOrientations))
	} else {
		for i, o := range cfg.EyeOrientations {
			if !o.Valid() {
				errs[model.OrientationKey(i)] = "choose horizontal or vertical"
			}
		}
	}

	return errs
}

// Measurements checks only the fields needed to draw and price the sail:
// corner count, unit, edges and diagonals. The engine uses it before
// reconstruction so a half-finished wizard can still show a live price.
func Measurements(cfg model.ShadeConfiguration) model.ValidationErrors {
	all := Configuration(cfg)
	out := model.ValidationErrors{}
	for key, msg := range all {
		if key == "corners" || key == "unit" || model.EdgeIndex(key, cfg.Corners) >= 0 || isDiagonalLike(key) {
			out[key] = msg
		}
	}
	return out
}

func isDiagonalLike(key string) bool {
	return len(key) == 2 && model.CornerIndex(key[0]) >= 0 && model.CornerIndex(key[1]) >= 0
}
