package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/piwi3910/SailQuote/internal/model"
)

const (
	sqmmPerSqm = 1e6
	mmPerM     = 1e3
)

// Compute measures a reconstructed outline. Perimeter is the sum of the
// supplied edge lengths so it matches what the customer entered; area comes
// from the placed points. A self-intersecting outline is rejected, a concave
// one only produces a warning.
func Compute(poly model.ResolvedPolygon) (model.Geometry, error) {
	n := len(poly.Points)
	if n < model.MinCorners {
		return model.Geometry{}, fieldError(ErrUnsupportedCorners, "", "%d points", n)
	}

	pts := toVecs(poly.Points)
	if a, b, ok := findCrossing(pts); ok {
		return model.Geometry{}, fieldError(ErrSelfIntersectingPolygon,
			model.EdgeKey(a, n), "crosses %s", model.EdgeKey(b, n))
	}

	ring := toRing(poly.Points)
	area := math.Abs(planar.Area(ring))

	perimeter := 0.0
	if len(poly.EdgeLengths) == n {
		for _, l := range poly.EdgeLengths {
			perimeter += l
		}
	} else {
		perimeter = planar.Length(ring)
	}

	// orb reports orientation in y-up terms, so a screen-clockwise outline
	// reads as CCW here. Either way corner turns are compared against it.
	winding := float64(ring.Orientation())
	angles, convex := cornerAngles(pts, winding)

	g := model.Geometry{
		Area:      area / sqmmPerSqm,
		Perimeter: perimeter / mmPerM,
		Angles:    angles,
		Convex:    convex,
		Warnings:  append([]model.Warning(nil), poly.Warnings...),
	}
	if !convex {
		g.Warnings = append(g.Warnings, model.Warning{
			Code:    model.WarningNonConvex,
			Message: "The sail outline is concave; check the measurements before ordering.",
		})
	}
	return g, nil
}

func toVecs(o model.Outline) []r2.Vec {
	out := make([]r2.Vec, len(o))
	for i, p := range o {
		out[i] = r2.Vec{X: p.X, Y: p.Y}
	}
	return out
}

func toRing(o model.Outline) orb.Ring {
	ring := make(orb.Ring, 0, len(o)+1)
	for _, p := range o {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	return append(ring, ring[0])
}

// cornerAngles returns the interior angle at each corner in degrees and
// whether every corner turns the same way as the outline winds.
func cornerAngles(pts []r2.Vec, winding float64) ([]float64, bool) {
	n := len(pts)
	angles := make([]float64, n)
	convex := true
	scale := 0.0
	for _, p := range pts {
		scale = math.Max(scale, r2.Norm(p))
	}
	eps := 1e-9 * scale * scale

	for i := range pts {
		prev := pts[(i+n-1)%n]
		cur := pts[i]
		next := pts[(i+1)%n]

		toPrev := r2.Sub(prev, cur)
		toNext := r2.Sub(next, cur)
		theta := math.Atan2(math.Abs(r2.Cross(toPrev, toNext)), r2.Dot(toPrev, toNext)) * 180 / math.Pi

		turn := r2.Cross(r2.Sub(cur, prev), r2.Sub(next, cur))
		if turn*winding < -eps {
			theta = 360 - theta
			convex = false
		}
		angles[i] = theta
	}
	return angles, convex
}

// findCrossing reports the first pair of non-adjacent edges that touch.
// Edge i runs from corner i to corner i+1.
func findCrossing(pts []r2.Vec) (int, int, bool) {
	n := len(pts)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsIntersect(pts[i], pts[(i+1)%n], pts[j], pts[(j+1)%n]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func segmentsIntersect(p1, p2, q1, q2 r2.Vec) bool {
	d1 := direction(q1, q2, p1)
	d2 := direction(q1, q2, p2)
	d3 := direction(p1, p2, q1)
	d4 := direction(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

// direction is the sign of the turn a→b→c, with near-collinear points
// snapped to zero.
func direction(a, b, c r2.Vec) float64 {
	cross := r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
	eps := 1e-9 * r2.Norm(r2.Sub(b, a)) * r2.Norm(r2.Sub(c, a))
	if math.Abs(cross) <= eps {
		return 0
	}
	return math.Copysign(1, cross)
}

func onSegment(a, b, p r2.Vec) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
