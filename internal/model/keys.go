package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CornerLabel returns the letter for corner i (0 -> "A").
func CornerLabel(i int) string {
	return string(rune('A' + i))
}

// CornerIndex returns the 0-based index of a corner letter, or -1.
func CornerIndex(label byte) int {
	if label < 'A' || label >= 'A'+MaxCorners {
		return -1
	}
	return int(label - 'A')
}

// EdgeKey returns the key of the edge leaving corner i of an n-corner sail.
// The last edge closes back to A, e.g. "DA" for a quadrilateral.
func EdgeKey(i, n int) string {
	return CornerLabel(i) + CornerLabel((i+1)%n)
}

// EdgeKeys lists the n edge keys in cyclic order starting at "AB".
func EdgeKeys(n int) []string {
	if n < MinCorners || n > MaxCorners {
		return nil
	}
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = EdgeKey(i, n)
	}
	return keys
}

// DiagonalKey returns the key for the distance between corners i and j,
// always written in label order ("AC", never "CA").
func DiagonalKey(i, j int) string {
	if j < i {
		i, j = j, i
	}
	return CornerLabel(i) + CornerLabel(j)
}

// DiagonalKeys lists every non-adjacent corner pair of an n-corner sail,
// n*(n-3)/2 keys in total.
func DiagonalKeys(n int) []string {
	if n < MinCorners || n > MaxCorners {
		return nil
	}
	var keys []string
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the closing edge
			}
			keys = append(keys, DiagonalKey(i, j))
		}
	}
	return keys
}

// RequiredDiagonals returns how many diagonals an n-corner sail must carry.
// Triangles and quadrilaterals need none.
func RequiredDiagonals(n int) int {
	if n < 5 {
		return 0
	}
	return n * (n - 3) / 2
}

// EdgeIndex returns the position of key in EdgeKeys(n), or -1.
func EdgeIndex(key string, n int) int {
	for i, k := range EdgeKeys(n) {
		if k == key {
			return i
		}
	}
	return -1
}

// IsDiagonalKey reports whether key names a diagonal of an n-corner sail.
func IsDiagonalKey(key string, n int) bool {
	for _, k := range DiagonalKeys(n) {
		if k == key {
			return true
		}
	}
	return false
}

// Per-corner field key prefixes.
const (
	HeightKeyPrefix      = "height_"
	TypeKeyPrefix        = "type_"
	OrientationKeyPrefix = "orientation_"
)

// HeightKey returns the field key of the fixing height at corner i.
func HeightKey(i int) string { return fmt.Sprintf("%s%d", HeightKeyPrefix, i) }

// TypeKey returns the field key of the fixing type at corner i.
func TypeKey(i int) string { return fmt.Sprintf("%s%d", TypeKeyPrefix, i) }

// OrientationKey returns the field key of the eye orientation at corner i.
func OrientationKey(i int) string { return fmt.Sprintf("%s%d", OrientationKeyPrefix, i) }

// ParseCornerKey splits a per-corner field key into its prefix and index.
func ParseCornerKey(key string) (prefix string, index int, ok bool) {
	for _, p := range []string{HeightKeyPrefix, TypeKeyPrefix, OrientationKeyPrefix} {
		if !strings.HasPrefix(key, p) {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(key, p))
		if err != nil || idx < 0 {
			return "", 0, false
		}
		return p, idx, true
	}
	return "", 0, false
}
