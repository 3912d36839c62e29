package grid

import (
	"fmt"
	"math"
)

// Default global grid dimensions: 32 tile columns by 16 tile rows.
const (
	DefaultColumns = 32
	DefaultRows    = 16
)

// Tile is one fixed rectangular region of the global raster. StartLongitude
// is the western edge and StartLatitude the northern edge, both in radians.
// Tiles are built once per grid and never mutated.
type Tile struct {
	Index          int     `json:"index"`
	StartLongitude float64 `json:"start_longitude"`
	StartLatitude  float64 `json:"start_latitude"`
	Identifier     string  `json:"identifier"`
}

// Grid partitions the globe into a fixed columns x rows tile grid. It is an
// immutable value meant to be constructed once and injected wherever tile
// addressing is needed, so tests can run against smaller grids.
type Grid struct {
	columns int
	rows    int
	tiles   []Tile
}

// New builds a grid with the given dimensions and precomputes every tile.
func New(columns, rows int) *Grid {
	g := &Grid{columns: columns, rows: rows}

	lonSpan := g.LonSpan()
	latSpan := g.LatSpan()

	g.tiles = make([]Tile, columns*rows)
	for col := 0; col < columns; col++ {
		for row := 0; row < rows; row++ {
			index := col*rows + row
			g.tiles[index] = Tile{
				Index:          index,
				StartLongitude: -math.Pi + float64(col)*lonSpan,
				StartLatitude:  math.Pi/2 - float64(row)*latSpan,
				Identifier:     fmt.Sprintf("tile_%d_%d", row, col),
			}
		}
	}

	return g
}

// NewDefault builds the standard 32x16 global grid.
func NewDefault() *Grid {
	return New(DefaultColumns, DefaultRows)
}

func (g *Grid) Columns() int { return g.columns }
func (g *Grid) Rows() int    { return g.rows }

// LonSpan returns the longitude span of one tile in radians.
func (g *Grid) LonSpan() float64 { return 2 * math.Pi / float64(g.columns) }

// LatSpan returns the latitude span of one tile in radians.
func (g *Grid) LatSpan() float64 { return math.Pi / float64(g.rows) }

// TileAt returns the tile containing the given position. The longitude must
// be normalized to [-pi, pi) and the latitude to [-pi/2, pi/2]; out-of-range
// inputs are a caller bug and must be clamped upstream (util.ClampGeodetic).
func (g *Grid) TileAt(lng, lat float64) Tile {
	col := int(math.Floor((lng + math.Pi) / g.LonSpan()))
	row := int(math.Floor((math.Pi/2 - lat) / g.LatSpan()))

	// The closed upper bounds of the valid input ranges land exactly on the
	// last column/row edge.
	if col >= g.columns {
		col = g.columns - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}

	return g.tiles[col*g.rows+row]
}

// TileByIndex returns the tile with the given index.
func (g *Grid) TileByIndex(index int) Tile {
	return g.tiles[index]
}

// ColRow returns the grid column and row of a tile.
func (g *Grid) ColRow(t Tile) (int, int) {
	return t.Index / g.rows, t.Index % g.rows
}
