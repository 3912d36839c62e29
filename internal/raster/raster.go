package raster

import (
	"fmt"

	"terramosaic/internal/grid"
)

// Channel identifies one sample plane of a tile raster.
type Channel int

const (
	// Proximity is the distance from each cell to the path, in kilometers.
	Proximity Channel = iota
	// Elevation is terrain height in meters.
	Elevation
	// UnixTime is the unix timestamp in seconds of the closest path approach.
	UnixTime
	// DistanceAboveMin is each cell's proximity minus the global minimum
	// proximity of the whole scan, in kilometers.
	DistanceAboveMin
)

func (c Channel) String() string {
	switch c {
	case Proximity:
		return "proximity"
	case Elevation:
		return "elevation"
	case UnixTime:
		return "unixTime"
	case DistanceAboveMin:
		return "distanceAboveMin"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Raster is a fixed-size row-major grid of float samples.
type Raster struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

// New returns a zero-filled raster of the given size.
func New(width, height int) *Raster {
	return &Raster{Width: width, Height: height, Values: make([]float64, width*height)}
}

// At returns the sample at pixel (x, y). Row 0 is the northern edge of the tile.
func (r *Raster) At(x, y int) float64 {
	return r.Values[y*r.Width+x]
}

// Set stores a sample at pixel (x, y).
func (r *Raster) Set(x, y int, v float64) {
	r.Values[y*r.Width+x] = v
}

// TileSet bundles every channel raster fetched for one tile. It is the
// opaque per-tile resource held by the resource cache: built once, then
// read-only.
type TileSet struct {
	Tile             grid.Tile `json:"tile"`
	Proximity        *Raster   `json:"proximity"`
	Elevation        *Raster   `json:"elevation"`
	UnixTime         *Raster   `json:"unix_time"`
	DistanceAboveMin *Raster   `json:"distance_above_min"`
}

// Channel returns the raster for one channel.
func (ts *TileSet) Channel(c Channel) *Raster {
	switch c {
	case Proximity:
		return ts.Proximity
	case Elevation:
		return ts.Elevation
	case UnixTime:
		return ts.UnixTime
	case DistanceAboveMin:
		return ts.DistanceAboveMin
	}
	return nil
}

// Sampler is the external raster sampling service. Implementations must
// return rasters sized exactly tileWidth x tileHeight for every channel.
type Sampler interface {
	Sample(tile grid.Tile, channel Channel) (*Raster, error)
}

// Validate checks that a sampled raster has the expected fixed size.
func Validate(r *Raster, width, height int) error {
	if r == nil {
		return fmt.Errorf("raster: nil sample")
	}
	if r.Width != width || r.Height != height {
		return fmt.Errorf("raster: got %dx%d, want %dx%d", r.Width, r.Height, width, height)
	}
	if len(r.Values) != r.Width*r.Height {
		return fmt.Errorf("raster: %d values for %dx%d grid", len(r.Values), r.Width, r.Height)
	}
	return nil
}
