package grid

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"terramosaic/internal/util"
)

// IncludeFunc decides whether a candidate tile belongs to a selection. The
// engine backs it with raster sampling: a tile is kept only when its raster
// actually holds samples of interest, since a tile can intersect the path
// bounding region yet contain nothing within the halo of the true minimum.
type IncludeFunc func(Tile) (bool, error)

// Selector resolves the tile set covering a proximity path.
type Selector struct {
	grid *Grid
}

// NewSelector returns a selector over the given grid.
func NewSelector(g *Grid) *Selector {
	return &Selector{grid: g}
}

// Select walks every tile of the region covered by the path, expanded by a
// halo-sized margin on each side, and keeps the tiles accepted by include.
// Path segments are subdivided so sparse vertices cannot skip over a tile
// column or row, and the margin is sized in whole tiles from haloKm so
// in-halo samples stay candidates even when the halo spans several tiles.
// The walk runs west to east and north to south, so the resulting layout
// columns are in construction order. Path positions are clamped before tile
// lookup.
func (s *Selector) Select(path []s2.LatLng, haloKm float64, include IncludeFunc) (*Layout, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("selector: empty path")
	}

	cols := s.grid.Columns()
	rows := s.grid.Rows()
	lonSpan := s.grid.LonSpan()
	latSpan := s.grid.LatSpan()

	// Collect the grid columns and rows touched by the subdivided path.
	colSeen := make(map[int]bool)
	minRow, maxRow := rows, -1
	mark := func(p s2.LatLng) {
		lng, lat := util.ClampGeodetic(p.Lng.Radians(), p.Lat.Radians())
		t := s.grid.TileAt(lng, lat)
		col, row := s.grid.ColRow(t)
		colSeen[col] = true
		if row < minRow {
			minRow = row
		}
		if row > maxRow {
			maxRow = row
		}
	}
	for i, p := range path {
		mark(p)
		if i+1 < len(path) {
			for _, q := range subdivide(p, path[i+1], lonSpan, latSpan) {
				mark(q)
			}
		}
	}

	// Tile columns narrow toward the poles; size the column margin for the
	// narrowest latitude of the touched row band.
	latNorth := math.Pi/2 - float64(minRow)*latSpan
	latSouth := math.Pi/2 - float64(maxRow+1)*latSpan
	maxAbsLat := math.Max(math.Abs(latNorth), math.Abs(latSouth))
	colWidthKm := lonSpan * math.Cos(maxAbsLat) * util.EarthRadiusKm

	marginCols := cols
	if haloKm < colWidthKm*float64(cols) {
		marginCols = spanMargin(haloKm, colWidthKm)
	}

	minRow -= spanMargin(haloKm, latSpan*util.EarthRadiusKm)
	maxRow += spanMargin(haloKm, latSpan*util.EarthRadiusKm)
	if minRow < 0 {
		minRow = 0
	}
	if maxRow > rows-1 {
		maxRow = rows - 1
	}

	var columns [][]Tile
	for _, col := range candidateColumns(colSeen, cols, marginCols) {
		var column []Tile
		for row := minRow; row <= maxRow; row++ {
			t := s.grid.TileByIndex(col*rows + row)
			ok, err := include(t)
			if err != nil {
				return nil, fmt.Errorf("selector: tile %s: %w", t.Identifier, err)
			}
			if ok {
				column = append(column, t)
			}
		}
		if len(column) > 0 {
			columns = append(columns, column)
		}
	}

	return NewLayout(columns), nil
}

// subdivide returns intermediate positions along the great-circle segment
// between two path vertices, spaced so successive positions move by at most
// half a tile span on each axis.
func subdivide(a, b s2.LatLng, lonSpan, latSpan float64) []s2.LatLng {
	dLat := math.Abs(b.Lat.Radians() - a.Lat.Radians())
	dLng := math.Abs(b.Lng.Radians() - a.Lng.Radians())
	if dLng > math.Pi {
		dLng = 2*math.Pi - dLng
	}

	steps := 2 * int(math.Ceil(math.Max(dLat/latSpan, dLng/lonSpan)))
	if steps < 2 {
		return nil
	}

	out := make([]s2.LatLng, 0, steps-1)
	for i := 1; i < steps; i++ {
		out = append(out, util.Interpolate(float64(i)/float64(steps), a, b))
	}
	return out
}

// spanMargin returns the number of whole tile spans needed to cover haloKm,
// at least one.
func spanMargin(haloKm, spanKm float64) int {
	m := int(math.Ceil(haloKm / spanKm))
	if m < 1 {
		m = 1
	}
	return m
}

// candidateColumns expands the touched column set by margin on each side and
// returns it in west-to-east walk order, wrapping across the antimeridian.
func candidateColumns(seen map[int]bool, cols, margin int) []int {
	expanded := make(map[int]bool, len(seen)*(2*margin+1))
	for col := range seen {
		for d := -margin; d <= margin; d++ {
			expanded[((col+d)%cols+cols)%cols] = true
		}
	}

	// Find the first column of the run: a column whose western neighbor is
	// not part of the selection. A selection circling the whole globe has no
	// such column and starts at zero.
	start := 0
	for col := 0; col < cols; col++ {
		if expanded[col] && !expanded[(col-1+cols)%cols] {
			start = col
			break
		}
	}

	var out []int
	for i := 0; i < cols; i++ {
		col := (start + i) % cols
		if expanded[col] {
			out = append(out, col)
		}
	}
	return out
}
