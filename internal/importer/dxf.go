package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// Tolerances in drawing units.
const (
	joinTolerance    = 0.5  // Max gap between LINE endpoints that still connect
	collinearDegrees = 1.0  // Vertices bending less than this are dropped
	lengthPrecision  = 10.0 // Lengths are rounded to 0.1 drawing units
)

// segment is one LINE entity from a survey drawing.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// SurveyResult is a sail layout measured off a site drawing.
type SurveyResult struct {
	Configuration model.ShadeConfiguration
	Points        model.Outline // Corners A.. in drawing units, normalised to the origin
	Errors        []string
	Warnings      []string
}

// ImportSurveyDXF reads a site plan and measures the largest closed outline
// as a sail. The drawing is assumed to be in unit (mm or inches). Every
// edge and every diagonal is recorded so the configuration fully determines
// the polygon.
func ImportSurveyDXF(path string, unit model.Unit) SurveyResult {
	result := SurveyResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []model.Outline
	var segments []segment
	curved := 0

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline, bulged := lwPolylineToOutline(e)
			if bulged {
				curved++
			}
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Arc, *entity.Circle:
			curved++
		}
	}

	if curved > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ignored %d curved entities; sail edges are measured as straight lines", curved))
	}

	outlines = append(outlines, chainSegments(segments, joinTolerance)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})
	if len(outlines) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d closed shapes, using the largest", len(outlines)))
	}

	corners := simplifyOutline(outlines[0])
	n := len(corners)
	if n < model.MinCorners || n > model.MaxCorners {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Outline has %d corners, sails need %d to %d", n, model.MinCorners, model.MaxCorners))
		return result
	}
	if outlineArea(corners) < joinTolerance {
		result.Errors = append(result.Errors, "Outline encloses no area")
		return result
	}

	corners = normalizeOutline(rotateToFirstCorner(corners))

	cfg := model.NewShadeConfiguration()
	cfg.Unit = unit
	cfg.SetCorners(n)
	for i, key := range model.EdgeKeys(n) {
		cfg.Measurements[key] = roundLength(distance(corners[i], corners[(i+1)%n]))
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			key := model.DiagonalKey(i, j)
			if model.IsDiagonalKey(key, n) {
				cfg.Diagonals[key] = roundLength(distance(corners[i], corners[j]))
			}
		}
	}

	result.Configuration = cfg
	result.Points = corners
	return result
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an Outline of its
// vertices. The second result reports whether any vertex carried a bulge.
func lwPolylineToOutline(lw *entity.LwPolyline) (model.Outline, bool) {
	outline := make(model.Outline, 0, len(lw.Vertices))
	bulged := false
	for i, v := range lw.Vertices {
		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			bulged = true
		}
		outline = append(outline, model.Point2D{X: v[0], Y: v[1]})
	}
	if len(outline) > 3 && pointsClose(outline[0], outline[len(outline)-1], joinTolerance) {
		outline = outline[:len(outline)-1]
	}
	return outline, bulged
}

// chainSegments joins LINE segments end to end and returns the chains that
// close on themselves. Endpoints within tolerance count as joined.
// Open chains are discarded.
func chainSegments(segs []segment, tolerance float64) []model.Outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []model.Outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, model.Outline(chain[:len(chain)-1]))
		}
	}

	return outlines
}

// simplifyOutline drops repeated vertices and vertices that sit on a straight
// run, leaving only real corners.
func simplifyOutline(o model.Outline) model.Outline {
	pts := make(model.Outline, 0, len(o))
	for _, p := range o {
		if len(pts) > 0 && pointsClose(pts[len(pts)-1], p, joinTolerance) {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) > 1 && pointsClose(pts[0], pts[len(pts)-1], joinTolerance) {
		pts = pts[:len(pts)-1]
	}

	limit := math.Sin(collinearDegrees * math.Pi / 180)
	for changed := true; changed && len(pts) > 3; {
		changed = false
		for i := range pts {
			prev := pts[(i+len(pts)-1)%len(pts)]
			next := pts[(i+1)%len(pts)]
			if bendSine(prev, pts[i], next) < limit {
				pts = append(pts[:i], pts[i+1:]...)
				changed = true
				break
			}
		}
	}
	return pts
}

// bendSine returns |sin| of the turn at b between segments ab and bc.
func bendSine(a, b, c model.Point2D) float64 {
	ux, uy := b.X-a.X, b.Y-a.Y
	vx, vy := c.X-b.X, c.Y-b.Y
	lu, lv := math.Hypot(ux, uy), math.Hypot(vx, vy)
	if lu == 0 || lv == 0 {
		return 0
	}
	return math.Abs(ux*vy-uy*vx) / (lu * lv)
}

// rotateToFirstCorner starts the outline at the vertex with the smallest
// x+y, the bottom-left one in the drawing's y-up frame, so the corner
// lettering does not depend on drawing order. Ties go to the smaller x.
func rotateToFirstCorner(o model.Outline) model.Outline {
	first := 0
	for i, p := range o {
		q := o[first]
		if p.X+p.Y < q.X+q.Y || (p.X+p.Y == q.X+q.Y && p.X < q.X) {
			first = i
		}
	}
	return append(append(model.Outline{}, o[first:]...), o[:first]...)
}

// pointsClose reports whether a and b are at most tolerance apart.
func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return distance(a, b) <= tolerance
}

func distance(a, b model.Point2D) float64 {
	return planar.Distance(orb.Point{a.X, a.Y}, orb.Point{b.X, b.Y})
}

// outlineArea returns the absolute enclosed area.
func outlineArea(o model.Outline) float64 {
	if len(o) < 3 {
		return 0
	}
	ring := make(orb.Ring, 0, len(o)+1)
	for _, p := range o {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	ring = append(ring, ring[0])
	return math.Abs(planar.Area(ring))
}

// normalizeOutline translates the outline so its bounding box starts at (0, 0).
func normalizeOutline(o model.Outline) model.Outline {
	if len(o) == 0 {
		return o
	}
	min, _ := o.BoundingBox()
	return o.Translate(-min.X, -min.Y)
}

func roundLength(v float64) float64 {
	return math.Round(v*lengthPrecision) / lengthPrecision
}
