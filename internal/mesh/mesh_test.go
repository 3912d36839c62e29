package mesh

import (
	"testing"

	"terramosaic/internal/extract"
	"terramosaic/internal/topk"
)

func testLines(n, pointsPer int) []extract.Line {
	lines := make([]extract.Line, n)
	for i := range lines {
		line := extract.Line{X: i, Longitude: float64(i) / 100}
		for j := 0; j < pointsPer; j++ {
			line.Points = append(line.Points, extract.Point{Latitude: float64(j) / 100})
		}
		lines[i] = line
	}
	return lines
}

func retainedXs(topo *Topology) []int {
	var xs []int
	for _, line := range topo.Lines {
		xs = append(xs, line.X)
	}
	return xs
}

func TestBuildStrideRetention(t *testing.T) {
	topo := Build(testLines(10, 2), nil, 5)

	// First, last, and stride multiples survive without any closest-point help.
	want := []int{0, 5, 9}
	got := retainedXs(topo)
	if len(got) != len(want) {
		t.Fatalf("retained lines %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("retained lines %v, want %v", got, want)
		}
	}
}

func TestBuildLongitudeMatchRetention(t *testing.T) {
	lines := testLines(10, 2)
	top := []topk.Record{{Longitude: lines[3].Longitude, Latitude: lines[3].Points[1].Latitude}}

	topo := Build(lines, top, 5)

	found := false
	for _, x := range retainedXs(topo) {
		if x == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("retained lines %v missing the closest-point line 3", retainedXs(topo))
	}
}

func TestBuildPointRetention(t *testing.T) {
	lines := testLines(3, 10)
	// Full resolution at the closest-approach latitude of line 1.
	top := []topk.Record{{Longitude: lines[1].Longitude, Latitude: lines[1].Points[7].Latitude}}

	topo := Build(lines, top, 5)

	for _, line := range topo.Lines {
		wantPoints := map[int]bool{0: true, 5: true, 9: true}
		if line.X == 1 {
			wantPoints[7] = true
		}
		if len(line.Points) != len(wantPoints) {
			t.Errorf("line %d retained %d points, want %d", line.X, len(line.Points), len(wantPoints))
		}
	}
}

func TestBuildTrianglePolicy(t *testing.T) {
	// Two equal-length lines: each interior pair quad-splits, the final pair
	// has no next point on either side and emits nothing.
	topo := Build(testLines(2, 2), nil, 1)

	if len(topo.Points) != 4 {
		t.Fatalf("flattened %d points, want 4", len(topo.Points))
	}
	if len(topo.Triangles) != 6 {
		t.Fatalf("got %d indices (%d triangles), want 6 (one quad)",
			len(topo.Triangles), len(topo.Triangles)/3)
	}
	for _, idx := range topo.Triangles {
		if idx < 0 || idx >= len(topo.Points) {
			t.Fatalf("triangle index %d out of range", idx)
		}
	}
}

func TestBuildUnequalLines(t *testing.T) {
	lines := []extract.Line{
		{X: 0, Longitude: 0, Points: lineOfLats(0, 0.01, 0.02)},
		{X: 1, Longitude: 0.01, Points: lineOfLats(0, 0.005, 0.01, 0.015, 0.02)},
	}

	topo := Build(lines, nil, 1)

	if len(topo.Points) != 8 {
		t.Fatalf("flattened %d points, want 8", len(topo.Points))
	}
	if len(topo.Triangles) == 0 || len(topo.Triangles)%3 != 0 {
		t.Fatalf("got %d triangle indices, want a positive multiple of 3", len(topo.Triangles))
	}
	for _, idx := range topo.Triangles {
		if idx < 0 || idx >= len(topo.Points) {
			t.Fatalf("triangle index %d out of range", idx)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	topo := Build(nil, nil, 5)
	if len(topo.Lines) != 0 || len(topo.Points) != 0 || len(topo.Triangles) != 0 {
		t.Fatalf("empty input produced a non-empty topology: %+v", topo)
	}
}

func TestBuildSingleLine(t *testing.T) {
	topo := Build(testLines(1, 4), nil, 2)
	if len(topo.Lines) != 1 {
		t.Fatalf("retained %d lines, want 1", len(topo.Lines))
	}
	if len(topo.Triangles) != 0 {
		t.Fatalf("a single line produced %d triangle indices", len(topo.Triangles))
	}
}
