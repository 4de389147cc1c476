// Package geometry turns edge and diagonal lengths into a sail outline and
// measures the result.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/units"
)

const (
	// degenerateRelTol is the relative slack allowed before three lengths
	// are treated as collinear.
	degenerateRelTol = 1e-9
	// Supplied diagonals may differ from the reconstruction by the larger
	// of these before they are rejected.
	diagonalRelTol = 0.01
	diagonalAbsTol = 5.0 // mm
)

// side is one length of a sub-triangle and the field it came from.
type side struct {
	key    string
	length float64
}

// Reconstruct places the corners of cfg in the plane. Corner A sits at the
// origin and B on the positive x axis; the remaining corners are placed so
// the outline winds clockwise in screen coordinates (y down), which is a
// positive shoelace sum.
//
// Triangles are solved directly. Larger sails are built as a fan of
// triangles from A using the diagonals AC, AD and AE; a quadrilateral may
// instead use BD, or carry no diagonal at all, in which case the
// maximum-area closure is assumed and flagged with a warning. Every supplied
// diagonal that is not part of the fan is checked against the result.
func Reconstruct(cfg model.ShadeConfiguration) (model.ResolvedPolygon, error) {
	n := cfg.Corners
	if n < model.MinCorners || n > model.MaxCorners {
		return model.ResolvedPolygon{}, fieldError(ErrUnsupportedCorners, "", "%d corners", n)
	}

	edges := make([]side, n)
	for i, key := range model.EdgeKeys(n) {
		v, ok := cfg.Measurements[key]
		if !ok || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return model.ResolvedPolygon{}, fieldError(ErrInvalidLength, key, "edge length required")
		}
		edges[i] = side{key: key, length: units.ToCanonical(v, cfg.Unit)}
	}

	diagonals := make(map[string]float64)
	for _, key := range model.DiagonalKeys(n) {
		v, ok := cfg.Diagonals[key]
		if !ok || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		diagonals[key] = units.ToCanonical(v, cfg.Unit)
	}

	var (
		pts      []r2.Vec
		used     map[string]bool
		warnings []model.Warning
		err      error
	)
	switch n {
	case 3:
		pts, err = solveTriangle(edges)
		used = map[string]bool{}
	case 4:
		pts, used, warnings, err = solveQuadrilateral(edges, diagonals)
	default:
		pts, used, err = solveFan(edges, diagonals)
	}
	if err != nil {
		return model.ResolvedPolygon{}, err
	}

	if err := checkDiagonals(pts, diagonals, used); err != nil {
		return model.ResolvedPolygon{}, err
	}

	poly := model.ResolvedPolygon{
		Corners:     n,
		Points:      make(model.Outline, n),
		EdgeLengths: make([]float64, n),
		Warnings:    warnings,
	}
	for i, p := range pts {
		poly.Points[i] = model.Point2D{X: p.X, Y: p.Y}
		poly.EdgeLengths[i] = edges[i].length
	}
	return poly, nil
}

func solveTriangle(edges []side) ([]r2.Vec, error) {
	a := r2.Vec{}
	b := r2.Vec{X: edges[0].length}
	c, err := place(a, b, edges[2], edges[1], edges[0])
	if err != nil {
		return nil, err
	}
	return []r2.Vec{a, b, c}, nil
}

func solveQuadrilateral(edges []side, diagonals map[string]float64) ([]r2.Vec, map[string]bool, []model.Warning, error) {
	if ac, ok := diagonals["AC"]; ok {
		used := map[string]bool{"AC": true}
		pts, err := fanFromA(edges, []side{{key: "AC", length: ac}}, diagonals, used)
		return pts, used, nil, err
	}

	if bd, ok := diagonals["BD"]; ok {
		diag := side{key: "BD", length: bd}
		a := r2.Vec{}
		b := r2.Vec{X: edges[0].length}
		d, err := place(a, b, edges[3], diag, edges[0])
		if err != nil {
			return nil, nil, nil, err
		}
		c, err := place(d, b, edges[2], edges[1], diag)
		if err != nil {
			return nil, nil, nil, err
		}
		return []r2.Vec{a, b, c, d}, map[string]bool{"BD": true}, nil, nil
	}

	ac, err := cyclicDiagonal(edges)
	if err != nil {
		return nil, nil, nil, err
	}
	pts, err := fanFromA(edges, []side{{key: "AC", length: ac}}, nil, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	warn := model.Warning{
		Code:    model.WarningAssumedClosure,
		Message: "No diagonal supplied; the sail was drawn with the largest area these edges allow. Add a diagonal for an exact shape.",
	}
	return pts, map[string]bool{}, []model.Warning{warn}, nil
}

// cyclicDiagonal returns AC of the cyclic quadrilateral with the given
// sides, which is the closure of greatest area.
func cyclicDiagonal(edges []side) (float64, error) {
	a, b, c, d := edges[0].length, edges[1].length, edges[2].length, edges[3].length
	longest := edges[0]
	total := 0.0
	for _, e := range edges {
		total += e.length
		if e.length > longest.length {
			longest = e
		}
	}
	if longest.length >= (total-longest.length)*(1-degenerateRelTol) {
		return 0, fieldError(ErrUnderconstrainedPolygon, longest.key,
			"edge %.0f mm cannot close against the other three", longest.length)
	}
	return math.Sqrt((a*c + b*d) * (a*d + b*c) / (a*b + c*d)), nil
}

func solveFan(edges []side, diagonals map[string]float64) ([]r2.Vec, map[string]bool, error) {
	n := len(edges)
	fan := make([]side, 0, n-3)
	used := make(map[string]bool, n-3)
	for k := 2; k <= n-2; k++ {
		key := model.DiagonalKey(0, k)
		v, ok := diagonals[key]
		if !ok {
			return nil, nil, fieldError(ErrUnderconstrainedPolygon, key, "diagonal required for %d corners", n)
		}
		fan = append(fan, side{key: key, length: v})
		used[key] = true
	}
	pts, err := fanFromA(edges, fan, diagonals, used)
	return pts, used, err
}

// fanFromA builds the outline from triangles sharing corner A. fan holds
// the lengths A→C, A→D, ... in order.
//
// The first triangle fixes the winding. Every later triangle can lie on
// either side of its spoke, so each combination of sides is built and the
// one that best matches the supplied diagonals not in used is kept. With
// nothing to tell them apart, every triangle turns the same way as the
// first, which is the convex reading.
func fanFromA(edges []side, fan []side, diagonals map[string]float64, used map[string]bool) ([]r2.Vec, error) {
	n := len(edges)
	var (
		best      []r2.Vec
		bestFit   fit
		haveCheck bool
	)
	for key := range diagonals {
		if !used[key] {
			haveCheck = true
			break
		}
	}

	flips := 1
	if haveCheck {
		flips = 1 << (n - 3)
	}
	for mask := 0; mask < flips; mask++ {
		pts, err := buildFan(edges, fan, mask)
		if err != nil {
			return nil, err
		}
		f := diagonalFit(pts, diagonals, used)
		if best == nil || f.better(bestFit) {
			best, bestFit = pts, f
		}
	}
	return best, nil
}

// buildFan places the fan triangles. Bit k-3 of mirror puts corner k on the
// negative side of A→P(k-1).
func buildFan(edges []side, fan []side, mirror int) ([]r2.Vec, error) {
	n := len(edges)
	pts := make([]r2.Vec, n)
	pts[1] = r2.Vec{X: edges[0].length}

	// spoke returns the distance from A to corner k.
	spoke := func(k int) side {
		if k == 1 {
			return edges[0]
		}
		if k == n-1 {
			return edges[n-1]
		}
		return fan[k-2]
	}

	for k := 2; k < n; k++ {
		turn := 1.0
		if k >= 3 && mirror&(1<<(k-3)) != 0 {
			turn = -1
		}
		p, err := placeOn(pts[0], pts[k-1], spoke(k), edges[k-1], spoke(k-1), turn)
		if err != nil {
			return nil, err
		}
		pts[k] = p
	}
	return pts, nil
}

// fit scores an outline against the diagonals it was not built from.
type fit struct {
	misses int     // diagonals outside tolerance
	drift  float64 // summed relative error
}

func (f fit) better(o fit) bool {
	if f.misses != o.misses {
		return f.misses < o.misses
	}
	return f.drift < o.drift
}

func diagonalFit(pts []r2.Vec, diagonals map[string]float64, used map[string]bool) fit {
	var f fit
	for key, want := range diagonals {
		if used[key] {
			continue
		}
		i, j := model.CornerIndex(key[0]), model.CornerIndex(key[1])
		got := r2.Norm(r2.Sub(pts[j], pts[i]))
		if !scalar.EqualWithinAbsOrRel(got, want, diagonalAbsTol, diagonalRelTol) {
			f.misses++
		}
		f.drift += math.Abs(got-want) / want
	}
	return f
}

// place returns the point X with |X-p| = fromP and |X-q| = fromQ lying on the
// positive side of p→q, i.e. cross(q-p, X-p) > 0. pq is the known distance
// between p and q and only serves to name the offending field.
func place(p, q r2.Vec, fromP, fromQ, pq side) (r2.Vec, error) {
	return placeOn(p, q, fromP, fromQ, pq, 1)
}

// placeOn is place with the side chosen by the sign of turn.
func placeOn(p, q r2.Vec, fromP, fromQ, pq side, turn float64) (r2.Vec, error) {
	d := r2.Norm(r2.Sub(q, p))
	if err := checkTriangle(side{key: pq.key, length: d}, fromP, fromQ); err != nil {
		return r2.Vec{}, err
	}

	u := r2.Unit(r2.Sub(q, p))
	perp := r2.Vec{X: -u.Y, Y: u.X}
	along := (fromP.length*fromP.length - fromQ.length*fromQ.length + d*d) / (2 * d)
	h := math.Sqrt(math.Max(fromP.length*fromP.length-along*along, 0))
	return r2.Add(p, r2.Add(r2.Scale(along, u), r2.Scale(turn*h, perp))), nil
}

// checkTriangle rejects three lengths where one is at least the sum of the
// other two, naming the longest.
func checkTriangle(sides ...side) error {
	total := 0.0
	longest := sides[0]
	for _, s := range sides {
		total += s.length
		if s.length > longest.length {
			longest = s
		}
	}
	if longest.length >= (total-longest.length)*(1-degenerateRelTol) {
		keys := make([]string, 0, len(sides))
		for _, s := range sides {
			keys = append(keys, s.key)
		}
		return fieldError(ErrDegenerateTriangle, longest.key,
			"%s=%.1f mm is not shorter than the other two sides of %v", longest.key, longest.length, keys)
	}
	return nil
}

// checkDiagonals compares every supplied diagonal not used during
// construction against the reconstructed corner distance.
func checkDiagonals(pts []r2.Vec, diagonals map[string]float64, used map[string]bool) error {
	n := len(pts)
	for _, key := range model.DiagonalKeys(n) {
		want, ok := diagonals[key]
		if !ok || used[key] {
			continue
		}
		i, j := model.CornerIndex(key[0]), model.CornerIndex(key[1])
		got := r2.Norm(r2.Sub(pts[j], pts[i]))
		if !scalar.EqualWithinAbsOrRel(got, want, diagonalAbsTol, diagonalRelTol) {
			return fieldError(ErrInconsistentDiagonal, key,
				"measured %.0f mm, shape implies %.0f mm", want, got)
		}
	}
	return nil
}
