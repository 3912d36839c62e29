package mesh

import (
	"math"

	"terramosaic/internal/extract"
)

// Pair matches point A of one line to point B of an adjacent line. Indices
// are positions within each line's point slice.
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// MatchLines pairs the points of two adjacent longitude lines of possibly
// different lengths. Every point of the shorter line is greedily matched to
// the point of the other line with the best latitude correspondence, then
// every still-unmatched point of the longer line is matched back the same
// way. The result is a superset of pairings, possibly many-to-one, covering
// every point of both lines; the triangle strip built from it can be
// non-manifold where densities differ, which is acceptable.
func MatchLines(a, b []extract.Point) []Pair {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	if len(b) < len(a) {
		pairs := MatchLines(b, a)
		swapped := make([]Pair, len(pairs))
		for i, p := range pairs {
			swapped[i] = Pair{A: p.B, B: p.A}
		}
		return swapped
	}

	pairs := make([]Pair, 0, len(b))
	matched := make([]bool, len(b))

	for ai := range a {
		bi := closestByLatitude(a[ai].Latitude, b)
		matched[bi] = true
		pairs = append(pairs, Pair{A: ai, B: bi})
	}

	for bi := range b {
		if matched[bi] {
			continue
		}
		ai := closestByLatitude(b[bi].Latitude, a)
		pairs = append(pairs, Pair{A: ai, B: bi})
	}

	return pairs
}

// closestByLatitude returns the index of the point whose latitude maximizes
// the correspondence score 1/|dLat|. An exact latitude match wins outright.
func closestByLatitude(lat float64, points []extract.Point) int {
	best := 0
	bestScore := math.Inf(-1)
	for i, p := range points {
		d := math.Abs(p.Latitude - lat)
		var score float64
		if d == 0 {
			score = math.Inf(1)
		} else {
			score = 1 / d
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}
