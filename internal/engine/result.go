package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/geo/s2"

	"terramosaic/internal/atlas"
	"terramosaic/internal/extract"
	"terramosaic/internal/grid"
	"terramosaic/internal/mesh"
	"terramosaic/internal/raster"
	"terramosaic/internal/topk"
)

// ScanResult is the immutable outcome of one pipeline run and the backing of
// the query surface exposed to the rendering layer.
type ScanResult struct {
	ID     string
	Path   []s2.LatLng
	HaloKm float64

	Grid    *grid.Grid
	Layout  *grid.Layout
	Atlas   *atlas.Mapper
	Rasters map[int]*raster.TileSet
	Lines   []extract.Line
	Top     *topk.Tracker
	Stride  int

	LonStep float64
	LatStep float64

	CreatedAt time.Time

	topoOnce sync.Once
	topo     *mesh.Topology
}

// TopClosestPoints returns the n globally closest retained points, ascending
// by proximity.
func (r *ScanResult) TopClosestPoints(n int) ([]topk.Record, error) {
	return r.Top.Top(n)
}

// LatLongOf converts a tile-local raster coordinate to geodetic radians.
func (r *ScanResult) LatLongOf(t grid.Tile, x, y int) (lat, lng float64) {
	return t.StartLatitude - float64(y)*r.LatStep, t.StartLongitude + float64(x)*r.LonStep
}

// ElevationAt returns the elevation sample at a tile-local coordinate.
func (r *ScanResult) ElevationAt(t grid.Tile, x, y int) (float64, error) {
	return r.sampleAt(t, raster.Elevation, x, y)
}

// DistanceAboveMinAt returns the distance-above-minimum sample at a
// tile-local coordinate.
func (r *ScanResult) DistanceAboveMinAt(t grid.Tile, x, y int) (float64, error) {
	return r.sampleAt(t, raster.DistanceAboveMin, x, y)
}

// UnixSecondsAt returns the closest-approach timestamp sample at a
// tile-local coordinate.
func (r *ScanResult) UnixSecondsAt(t grid.Tile, x, y int) (float64, error) {
	return r.sampleAt(t, raster.UnixTime, x, y)
}

func (r *ScanResult) sampleAt(t grid.Tile, ch raster.Channel, x, y int) (float64, error) {
	ts, ok := r.Rasters[t.Index]
	if !ok {
		return 0, fmt.Errorf("engine: tile %s not part of scan %s", t.Identifier, r.ID)
	}
	plane := ts.Channel(ch)
	if x < 0 || y < 0 || x >= plane.Width || y >= plane.Height {
		return 0, fmt.Errorf("engine: coordinate (%d, %d) outside %dx%d raster", x, y, plane.Width, plane.Height)
	}
	return plane.At(x, y), nil
}

// BuildMeshTopology derives the decimated mesh for this scan. The topology
// is computed once and reused; results are immutable so this is safe.
func (r *ScanResult) BuildMeshTopology() *mesh.Topology {
	r.topoOnce.Do(func() {
		r.topo = mesh.Build(r.Lines, r.Top.All(), r.Stride)
	})
	return r.topo
}
