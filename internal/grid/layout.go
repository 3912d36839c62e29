package grid

// Layout groups a selected tile set by distinct start longitude. Columns are
// stored in first-seen (construction) order, which is not necessarily
// ascending longitude when a selection wraps the antimeridian. Tiles within a
// column share one StartLongitude and are ordered north to south.
//
// The distinct start-longitude and start-latitude values observed during
// construction form the two 1-D grids used for all later two-axis addressing
// (atlas placement, column stitching).
type Layout struct {
	Columns [][]Tile

	Lons []float64
	Lats []float64

	lonPos map[float64]int
	latPos map[float64]int
}

// NewLayout builds a layout from tiles grouped by column. Each inner slice
// must already be ordered north to south and share one StartLongitude.
func NewLayout(columns [][]Tile) *Layout {
	l := &Layout{
		Columns: columns,
		lonPos:  make(map[float64]int),
		latPos:  make(map[float64]int),
	}

	for _, column := range columns {
		for i, t := range column {
			if i == 0 {
				if _, seen := l.lonPos[t.StartLongitude]; !seen {
					l.lonPos[t.StartLongitude] = len(l.Lons)
					l.Lons = append(l.Lons, t.StartLongitude)
				}
			}
			if _, seen := l.latPos[t.StartLatitude]; !seen {
				l.latPos[t.StartLatitude] = len(l.Lats)
				l.Lats = append(l.Lats, t.StartLatitude)
			}
		}
	}

	return l
}

// ColumnCount returns the number of distinct tile columns.
func (l *Layout) ColumnCount() int { return len(l.Lons) }

// RowCount returns the number of distinct tile rows.
func (l *Layout) RowCount() int { return len(l.Lats) }

// Position returns the layout-grid column and row of a tile.
func (l *Layout) Position(t Tile) (cx, cy int, ok bool) {
	cx, okX := l.lonPos[t.StartLongitude]
	cy, okY := l.latPos[t.StartLatitude]
	return cx, cy, okX && okY
}

// Tiles returns every tile of the layout in column order, north to south
// within each column.
func (l *Layout) Tiles() []Tile {
	var tiles []Tile
	for _, column := range l.Columns {
		tiles = append(tiles, column...)
	}
	return tiles
}

// Empty reports whether the layout holds no tiles.
func (l *Layout) Empty() bool { return len(l.Columns) == 0 }
