package mesh

import (
	"testing"

	"terramosaic/internal/extract"
)

func lineOfLats(lats ...float64) []extract.Point {
	points := make([]extract.Point, len(lats))
	for i, lat := range lats {
		points[i] = extract.Point{Latitude: lat}
	}
	return points
}

func TestMatchLinesCoversBothLines(t *testing.T) {
	a := lineOfLats(0, 1, 2)
	b := lineOfLats(0, 0.5, 1, 1.5, 2)

	pairs := MatchLines(a, b)

	if len(pairs) < 5 {
		t.Fatalf("got %d pairings, want at least max(3, 5) = 5", len(pairs))
	}

	seenA := make(map[int]bool)
	seenB := make(map[int]bool)
	for _, p := range pairs {
		if p.A < 0 || p.A >= len(a) || p.B < 0 || p.B >= len(b) {
			t.Fatalf("pairing %v out of range", p)
		}
		seenA[p.A] = true
		seenB[p.B] = true
	}
	if len(seenA) != len(a) || len(seenB) != len(b) {
		t.Errorf("coverage %d/%d and %d/%d, want every point matched",
			len(seenA), len(a), len(seenB), len(b))
	}
}

func TestMatchLinesExactLatitudeWins(t *testing.T) {
	a := lineOfLats(0.3)
	b := lineOfLats(0.1, 0.3, 0.31)

	pairs := MatchLines(a, b)
	if pairs[0].B != 1 {
		t.Errorf("a0 matched to b%d, want the exact latitude at b1", pairs[0].B)
	}
}

func TestMatchLinesOrderIndependent(t *testing.T) {
	a := lineOfLats(0, 1, 2)
	b := lineOfLats(0, 0.5, 1, 1.5, 2)

	forward := MatchLines(a, b)
	backward := MatchLines(b, a)

	if len(forward) != len(backward) {
		t.Fatalf("pairing counts differ: %d vs %d", len(forward), len(backward))
	}
	set := make(map[Pair]bool, len(forward))
	for _, p := range forward {
		set[p] = true
	}
	for _, p := range backward {
		if !set[Pair{A: p.B, B: p.A}] {
			t.Errorf("pairing %v missing from the forward match", p)
		}
	}
}

func TestMatchLinesEmpty(t *testing.T) {
	if pairs := MatchLines(nil, lineOfLats(0, 1)); pairs != nil {
		t.Errorf("got %v for an empty line, want none", pairs)
	}
}
