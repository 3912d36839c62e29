package extract

import (
	"terramosaic/internal/grid"
	"terramosaic/internal/raster"
)

// Point is one in-range sample of a longitude line. Y is the raster row
// within the owning tile; Latitude is in radians.
type Point struct {
	Tile     grid.Tile `json:"tile"`
	Y        int       `json:"y"`
	Latitude float64   `json:"latitude"`
	Value    float64   `json:"value"`
}

// Line is the stitched latitude-wise sequence of in-range samples at one
// raster column, spanning every tile of that tile column. X is the global
// column index across the tile group; Longitude is in radians.
type Line struct {
	X         int     `json:"x"`
	Longitude float64 `json:"longitude"`
	Points    []Point `json:"points"`
}

// SampleFunc returns the raster to scan for one tile. All rasters must be
// resolved before extraction begins.
type SampleFunc func(grid.Tile) (*raster.Raster, error)

// Extractor stitches per-tile raster columns into continuous longitude
// lines. Threshold is the inclusion bound in the sample's units: a sample
// strictly above it is in range.
type Extractor struct {
	TileWidth  int
	TileHeight int
	LonStep    float64
	LatStep    float64
	Threshold  float64
}

// Lines scans every tile column of the layout. For each pixel column the
// walk runs north to south across the column's tiles, stepping latitude by a
// fixed per-row step from each tile's own start latitude, and extracts one
// contiguous run: emission starts at the first sample above the threshold,
// and the first sample at or below the threshold after that ends the column
// for good. A later in-range cluster further down the same column is
// ignored; only the contiguous region around the closest approach matters.
// Latitude is anchored per tile rather than accumulated across the column,
// so a column with an excluded middle tile still places every point on its
// owning tile. Columns yielding fewer than two points are dropped, since a
// single isolated sample cannot form a renderable segment.
func (e *Extractor) Lines(layout *grid.Layout, sample SampleFunc) ([]Line, error) {
	rasters := make(map[int]*raster.Raster)
	for _, t := range layout.Tiles() {
		r, err := sample(t)
		if err != nil {
			return nil, err
		}
		rasters[t.Index] = r
	}

	var lines []Line
	for ci, column := range layout.Columns {
		top := column[0]

		for x := 0; x < e.TileWidth; x++ {
			var points []Point
			started := false
			stopped := false

			for _, t := range column {
				r := rasters[t.Index]
				for y := 0; y < e.TileHeight; y++ {
					v := r.At(x, y)
					if v > e.Threshold {
						points = append(points, Point{
							Tile:     t,
							Y:        y,
							Latitude: t.StartLatitude - float64(y)*e.LatStep,
							Value:    v,
						})
						started = true
					} else if started {
						stopped = true
						break
					}
				}
				if stopped {
					break
				}
			}

			if len(points) < 2 {
				continue
			}
			lines = append(lines, Line{
				X:         ci*e.TileWidth + x,
				Longitude: top.StartLongitude + float64(x)*e.LonStep,
				Points:    points,
			})
		}
	}

	return lines, nil
}
