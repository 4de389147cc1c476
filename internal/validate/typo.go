package validate

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/units"
)

const (
	// A value further than this from its reference is suspicious, and a
	// scale correction must land within it.
	typoScaleTol = 0.25
	// Digit swaps are more speculative and must land closer.
	typoSwapTol = 0.05
	// Fewer reference values than this give no reliable expectation.
	minTypoReferences = 2
)

var scaleFactors = []float64{
	10, 1.0 / 10,
	100, 1.0 / 100,
	1000, 1.0 / 1000,
	units.MillimetersPerInch, 1 / units.MillimetersPerInch,
}

// SuggestTypoCorrection checks raw against the other values of the same
// kind already entered: edges for an edge key, diagonals for a diagonal key,
// heights for a height key. When raw is far from their median and a slipped
// decimal point, a mm/in mix-up or two swapped adjacent digits would explain
// it, the corrected value is returned. The result is advisory only.
func SuggestTypoCorrection(key, raw string, cfg model.ShadeConfiguration) (float64, bool) {
	v, err := ParseLength(raw)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	refs := references(key, cfg)
	if len(refs) < minTypoReferences {
		return 0, false
	}
	ref := median(refs)
	if ref <= 0 || deviation(v, ref) <= typoScaleTol {
		return 0, false
	}

	best, bestDev := 0.0, math.Inf(1)
	consider := func(c, tol float64) {
		if d := deviation(c, ref); d <= tol && d < bestDev {
			best, bestDev = c, d
		}
	}
	for _, f := range scaleFactors {
		consider(v*f, typoScaleTol)
	}
	for _, c := range digitSwaps(raw) {
		consider(c, typoSwapTol)
	}
	if math.IsInf(bestDev, 1) {
		return 0, false
	}
	return math.Round(best*100) / 100, true
}

// references collects the other entered values comparable with key.
func references(key string, cfg model.ShadeConfiguration) []float64 {
	var src map[string]float64
	switch {
	case model.EdgeIndex(key, cfg.Corners) >= 0:
		src = cfg.Measurements
	case model.IsDiagonalKey(key, cfg.Corners):
		src = cfg.Diagonals
	default:
		prefix, idx, ok := model.ParseCornerKey(key)
		if !ok || prefix != model.HeightKeyPrefix {
			return nil
		}
		var out []float64
		for i, h := range cfg.FixingHeights {
			if i != idx && h > 0 {
				out = append(out, h)
			}
		}
		return out
	}
	var out []float64
	for k, v := range src {
		if k != key && v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// median of vals, averaging the two middle values of an even count. vals is
// not modified.
func median(vals []float64) float64 {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	lower := stat.Quantile(0.5, stat.Empirical, s, nil)
	if len(s)%2 == 1 {
		return lower
	}
	return (lower + s[len(s)/2]) / 2
}

func deviation(v, ref float64) float64 {
	return math.Abs(v-ref) / ref
}

// digitSwaps returns every distinct value reachable by swapping two
// adjacent, different digits of raw.
func digitSwaps(raw string) []float64 {
	s := []byte(strings.TrimSpace(raw))
	var out []float64
	for i := 0; i+1 < len(s); i++ {
		a, b := s[i], s[i+1]
		if a == b || !isDigit(a) || !isDigit(b) {
			continue
		}
		s[i], s[i+1] = b, a
		if v, err := strconv.ParseFloat(string(s), 64); err == nil && v > 0 {
			out = append(out, v)
		}
		s[i], s[i+1] = a, b
	}
	return out
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
