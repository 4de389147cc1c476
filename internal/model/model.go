package model

// Unit is the measurement system the user enters lengths in.
type Unit string

const (
	UnitMetric   Unit = "metric"   // Millimeters
	UnitImperial Unit = "imperial" // Inches
)

func (u Unit) String() string {
	switch u {
	case UnitImperial:
		return "Imperial"
	default:
		return "Metric"
	}
}

// Symbol returns the short unit suffix used for display.
func (u Unit) Symbol() string {
	if u == UnitImperial {
		return "in"
	}
	return "mm"
}

// MeasurementOption selects how supplied distances are interpreted.
type MeasurementOption string

const (
	MeasureAdjustToFit MeasurementOption = "adjust" // Fixing-point distances, hardware included
	MeasureExact       MeasurementOption = "exact"  // Finished sail edges, no deduction
)

func (m MeasurementOption) String() string {
	switch m {
	case MeasureAdjustToFit:
		return "Adjust to Fit"
	case MeasureExact:
		return "Exact Dimensions"
	default:
		return ""
	}
}

// EdgeType is the perimeter finish of the sail.
type EdgeType string

const (
	EdgeWebbing EdgeType = "webbing"
	EdgeCabled  EdgeType = "cabled"
)

func (e EdgeType) String() string {
	switch e {
	case EdgeWebbing:
		return "Webbing Reinforced"
	case EdgeCabled:
		return "Cabled Edge"
	default:
		return ""
	}
}

// FixingType is the structure a corner is anchored to.
type FixingType string

const (
	FixingPost     FixingType = "post"
	FixingBuilding FixingType = "building"
)

// Valid reports whether f is a known fixing type.
func (f FixingType) Valid() bool {
	return f == FixingPost || f == FixingBuilding
}

// EyeOrientation is the orientation of the fixing eye at a corner.
type EyeOrientation string

const (
	EyeHorizontal EyeOrientation = "horizontal"
	EyeVertical   EyeOrientation = "vertical"
)

// Valid reports whether o is a known eye orientation.
func (o EyeOrientation) Valid() bool {
	return o == EyeHorizontal || o == EyeVertical
}

// Corner count limits supported by the configurator.
const (
	MinCorners = 3
	MaxCorners = 6
)

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = o[0]
	max = o[0]
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// ShadeConfiguration is everything the wizard collects about one sail.
// Lengths in Measurements, Diagonals and FixingHeights are recorded in Unit.
type ShadeConfiguration struct {
	Corners           int                `json:"corners"`
	Unit              Unit               `json:"unit"`
	MeasurementOption MeasurementOption  `json:"measurementOption"`
	EdgeType          EdgeType           `json:"edgeType"`
	FabricType        string             `json:"fabricType"`
	FabricColor       string             `json:"fabricColor"`
	Measurements      map[string]float64 `json:"measurements"`
	Diagonals         map[string]float64 `json:"diagonals"`
	FixingHeights     []float64          `json:"fixingHeights"`
	FixingTypes       []FixingType       `json:"fixingTypes"`
	EyeOrientations   []EyeOrientation   `json:"eyeOrientations"`
	Currency          string             `json:"currency"`
}

// NewShadeConfiguration returns the wizard-start state: no corners selected,
// metric units and the fallback currency.
func NewShadeConfiguration() ShadeConfiguration {
	return ShadeConfiguration{
		Corners:      0,
		Unit:         UnitMetric,
		Measurements: map[string]float64{},
		Diagonals:    map[string]float64{},
		Currency:     FallbackCurrency,
	}
}

// SetCorners changes the corner count and resizes the per-corner sequences,
// dropping edges and diagonals that no longer exist.
func (c *ShadeConfiguration) SetCorners(n int) {
	c.Corners = n
	edges := make(map[string]float64, n)
	for _, k := range EdgeKeys(n) {
		if v, ok := c.Measurements[k]; ok {
			edges[k] = v
		}
	}
	diagonals := make(map[string]float64)
	for _, k := range DiagonalKeys(n) {
		if v, ok := c.Diagonals[k]; ok {
			diagonals[k] = v
		}
	}
	c.Measurements = edges
	c.Diagonals = diagonals
	c.FixingHeights = resizeFloats(c.FixingHeights, n)
	c.FixingTypes = resizeFixingTypes(c.FixingTypes, n)
	c.EyeOrientations = resizeOrientations(c.EyeOrientations, n)
}

// Clone returns a deep copy so callers can mutate without aliasing maps.
func (c ShadeConfiguration) Clone() ShadeConfiguration {
	cp := c
	cp.Measurements = make(map[string]float64, len(c.Measurements))
	for k, v := range c.Measurements {
		cp.Measurements[k] = v
	}
	cp.Diagonals = make(map[string]float64, len(c.Diagonals))
	for k, v := range c.Diagonals {
		cp.Diagonals[k] = v
	}
	cp.FixingHeights = append([]float64(nil), c.FixingHeights...)
	cp.FixingTypes = append([]FixingType(nil), c.FixingTypes...)
	cp.EyeOrientations = append([]EyeOrientation(nil), c.EyeOrientations...)
	return cp
}

func resizeFloats(s []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, s)
	return out
}

func resizeFixingTypes(s []FixingType, n int) []FixingType {
	out := make([]FixingType, n)
	copy(out, s)
	return out
}

func resizeOrientations(s []EyeOrientation, n int) []EyeOrientation {
	out := make([]EyeOrientation, n)
	copy(out, s)
	return out
}

// ResolvedPolygon is the reconstructed sail outline in canonical millimeters.
// Points are in screen coordinates (y grows downward) and wind clockwise.
type ResolvedPolygon struct {
	Corners     int       `json:"corners"`
	Points      Outline   `json:"points"`
	EdgeLengths []float64 `json:"edgeLengths,omitempty"` // Supplied edge lengths in mm, AB first
	Warnings    []Warning `json:"warnings,omitempty"`
}

// Length returns the recorded value of an edge, diagonal or height field.
func (c ShadeConfiguration) Length(key string) (float64, bool) {
	if EdgeIndex(key, c.Corners) >= 0 {
		v, ok := c.Measurements[key]
		return v, ok
	}
	if IsDiagonalKey(key, c.Corners) {
		v, ok := c.Diagonals[key]
		return v, ok
	}
	if prefix, i, ok := ParseCornerKey(key); ok && prefix == HeightKeyPrefix && i < len(c.FixingHeights) {
		return c.FixingHeights[i], c.FixingHeights[i] != 0
	}
	return 0, false
}

// SetLength records an edge, diagonal or height value by field key. It
// returns false when key does not name a length of this sail.
func (c *ShadeConfiguration) SetLength(key string, v float64) bool {
	switch {
	case EdgeIndex(key, c.Corners) >= 0:
		if c.Measurements == nil {
			c.Measurements = map[string]float64{}
		}
		c.Measurements[key] = v
	case IsDiagonalKey(key, c.Corners):
		if c.Diagonals == nil {
			c.Diagonals = map[string]float64{}
		}
		c.Diagonals[key] = v
	default:
		prefix, i, ok := ParseCornerKey(key)
		if !ok || prefix != HeightKeyPrefix || i >= c.Corners {
			return false
		}
		if len(c.FixingHeights) != c.Corners {
			c.FixingHeights = resizeFloats(c.FixingHeights, c.Corners)
		}
		c.FixingHeights[i] = v
	}
	return true
}
