package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/redis/go-redis/v9"

	"terramosaic/internal/atlas"
	"terramosaic/internal/cache"
	"terramosaic/internal/config"
	"terramosaic/internal/extract"
	"terramosaic/internal/grid"
	"terramosaic/internal/raster"
	"terramosaic/internal/storage"
	"terramosaic/internal/topk"
	"terramosaic/internal/util"
)

// SamplerFactory builds the raster sampling service for one proximity path.
// The renderer-side implementation rasterizes the path's proximity field;
// tests and the demo binary plug in synthetic samplers.
type SamplerFactory func(path []s2.LatLng) (raster.Sampler, error)

// Params configures an engine. Grid and Samplers are injected so tests can
// run small grids against synthetic data.
type Params struct {
	Grid       *grid.Grid
	Samplers   SamplerFactory
	TileWidth  int
	TileHeight int
	MaxAtlas   int
	TopK       int
	Stride     int

	// Redis is an optional second-level raster cache; nil disables it.
	Redis     *redis.Client
	RasterTTL time.Duration
}

// Engine runs the tile mosaic pipeline and serves the query surface over its
// results. Results are immutable once built; the sharded store's dirty
// tracking feeds the persistence worker.
type Engine struct {
	params   Params
	selector *grid.Selector
	results  *storage.Sharded[string, *ScanResult]
}

// New validates params and builds an engine.
func New(p Params) (*Engine, error) {
	if p.Samplers == nil {
		return nil, fmt.Errorf("engine: sampler factory is required")
	}
	if p.Grid == nil {
		p.Grid = grid.NewDefault()
	}
	if p.TileWidth <= 0 {
		p.TileWidth = config.TileRasterWidth
	}
	if p.TileHeight <= 0 {
		p.TileHeight = config.TileRasterHeight
	}
	if p.MaxAtlas <= 0 {
		p.MaxAtlas = config.MaxAtlasDimension
	}
	if p.TopK <= 0 {
		p.TopK = config.ClosestPointCount
	}
	if p.Stride <= 0 {
		p.Stride = config.MeshStride
	}

	return &Engine{
		params:   p,
		selector: grid.NewSelector(p.Grid),
		results:  storage.NewSharded[string, *ScanResult](8, nil),
	}, nil
}

// Grid returns the engine's tile grid.
func (e *Engine) Grid() *grid.Grid {
	return e.params.Grid
}

// Scan runs the full pipeline for one proximity path: tile selection, atlas
// placement, concurrent raster fetch, longitude-line extraction, closest
// point tracking. The result is stored under id and returned. A path with no
// terrain inside the halo yields a valid empty result, not an error; a
// failed tile fetch fails the whole scan.
func (e *Engine) Scan(ctx context.Context, id string, path []s2.LatLng, haloKm float64) (*ScanResult, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("engine: empty path")
	}
	if haloKm <= 0 {
		return nil, fmt.Errorf("engine: halo must be positive, got %g", haloKm)
	}

	started := time.Now()

	clamped := make([]s2.LatLng, len(path))
	for i, p := range path {
		lng, lat := util.ClampGeodetic(p.Lng.Radians(), p.Lat.Radians())
		clamped[i] = s2.LatLng{Lat: s1.Angle(lat), Lng: s1.Angle(lng)}
	}

	sampler, err := e.params.Samplers(clamped)
	if err != nil {
		return nil, fmt.Errorf("engine: build sampler: %w", err)
	}

	layout, err := e.selector.Select(clamped, haloKm, e.includeByContent(sampler, haloKm))
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		ID:        id,
		Path:      clamped,
		HaloKm:    haloKm,
		Layout:    layout,
		Grid:      e.params.Grid,
		Stride:    e.params.Stride,
		LonStep:   e.params.Grid.LonSpan() / float64(e.params.TileWidth),
		LatStep:   e.params.Grid.LatSpan() / float64(e.params.TileHeight),
		Rasters:   make(map[int]*raster.TileSet),
		Top:       topk.NewTracker(e.params.TopK),
		CreatedAt: started,
	}

	if layout.Empty() {
		log.Printf("Scan %s selected no tiles within %g km halo", id, haloKm)
		e.results.Set(id, result)
		return result, nil
	}

	result.Atlas, err = atlas.NewMapper(layout, e.params.TileWidth, e.params.TileHeight, e.params.MaxAtlas)
	if err != nil {
		return nil, err
	}

	if err := e.fetchRasters(ctx, id, sampler, result); err != nil {
		return nil, err
	}

	if err := e.extractLines(result); err != nil {
		return nil, err
	}

	e.trackClosest(result)

	log.Printf("Scan %s: %d tiles, %d lines, %d closest points in %v",
		id, len(result.Rasters), len(result.Lines), result.Top.Len(), time.Since(started))

	e.results.Set(id, result)
	return result, nil
}

// includeByContent keeps a tile only when its distance-above-min raster holds
// at least one sample inside the halo. Geometric intersection with the path
// region is not enough: a tile can overlap it with every sample out of range.
func (e *Engine) includeByContent(sampler raster.Sampler, haloKm float64) grid.IncludeFunc {
	return func(t grid.Tile) (bool, error) {
		r, err := sampler.Sample(t, raster.DistanceAboveMin)
		if err != nil {
			return false, err
		}
		if err := raster.Validate(r, e.params.TileWidth, e.params.TileHeight); err != nil {
			return false, err
		}
		for _, v := range r.Values {
			if v < haloKm {
				return true, nil
			}
		}
		return false, nil
	}
}

// fetchRasters resolves every selected tile's channel bundle through a fresh
// per-scan cache. The cache join guarantees every raster is resolved before
// extraction reads it.
func (e *Engine) fetchRasters(ctx context.Context, id string, sampler raster.Sampler, result *ScanResult) error {
	fetch := e.fetchFunc(sampler)
	if e.params.Redis != nil {
		fetch = cache.NewRasterStore(e.params.Redis, id, e.params.RasterTTL).Wrap(fetch)
	}

	c := cache.New(fetch)
	return c.Fetch(ctx, result.Layout.Tiles(), func(t grid.Tile, ts *raster.TileSet) {
		result.Rasters[t.Index] = ts
	})
}

// fetchFunc samples all four channels for a tile.
func (e *Engine) fetchFunc(sampler raster.Sampler) cache.FetchFunc {
	return func(ctx context.Context, t grid.Tile) (*raster.TileSet, error) {
		ts := &raster.TileSet{Tile: t}
		for _, ch := range []raster.Channel{raster.Proximity, raster.Elevation, raster.UnixTime, raster.DistanceAboveMin} {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := sampler.Sample(t, ch)
			if err != nil {
				return nil, fmt.Errorf("sample %s: %w", ch, err)
			}
			if err := raster.Validate(r, e.params.TileWidth, e.params.TileHeight); err != nil {
				return nil, fmt.Errorf("sample %s: %w", ch, err)
			}
			switch ch {
			case raster.Proximity:
				ts.Proximity = r
			case raster.Elevation:
				ts.Elevation = r
			case raster.UnixTime:
				ts.UnixTime = r
			case raster.DistanceAboveMin:
				ts.DistanceAboveMin = r
			}
		}
		return ts, nil
	}
}

// extractLines stitches longitude lines over the halo margin: each sample is
// scanned as halo minus its distance above the minimum, against a zero
// threshold shifted to -halo in margin units. Values above it are inside the
// halo.
func (e *Engine) extractLines(result *ScanResult) error {
	ex := &extract.Extractor{
		TileWidth:  e.params.TileWidth,
		TileHeight: e.params.TileHeight,
		LonStep:    result.LonStep,
		LatStep:    result.LatStep,
		Threshold:  -result.HaloKm,
	}

	lines, err := ex.Lines(result.Layout, func(t grid.Tile) (*raster.Raster, error) {
		ts, ok := result.Rasters[t.Index]
		if !ok {
			return nil, fmt.Errorf("engine: raster for tile %s not resolved", t.Identifier)
		}
		margin := raster.New(ts.DistanceAboveMin.Width, ts.DistanceAboveMin.Height)
		for i, v := range ts.DistanceAboveMin.Values {
			margin.Values[i] = -v
		}
		return margin, nil
	})
	if err != nil {
		return err
	}

	result.Lines = lines
	return nil
}

// trackClosest runs the single bounded-selection pass over every extracted
// point, in line order then point order.
func (e *Engine) trackClosest(result *ScanResult) {
	for _, line := range result.Lines {
		x := line.X % e.params.TileWidth
		for _, p := range line.Points {
			proximity := result.Rasters[p.Tile.Index].Proximity.At(x, p.Y)
			result.Top.Offer(topk.Record{
				Tile:      p.Tile,
				X:         x,
				Y:         p.Y,
				Latitude:  p.Latitude,
				Longitude: line.Longitude,
				Value:     proximity,
			})
		}
	}
}

// Result returns a completed scan. Querying an unknown or still-running scan
// id is a contract violation and errors.
func (e *Engine) Result(id string) (*ScanResult, error) {
	r, ok := e.results.Get(id)
	if !ok {
		return nil, fmt.Errorf("engine: no completed scan %q", id)
	}
	return r, nil
}

// Results returns every completed scan.
func (e *Engine) Results() []*ScanResult {
	return e.results.GetAllValues()
}

// DirtyResults returns scans completed since the previous call, for the
// persistence worker.
func (e *Engine) DirtyResults() []*ScanResult {
	dirty := e.results.GetDirty()
	out := make([]*ScanResult, 0, len(dirty))
	for _, r := range dirty {
		out = append(out, r)
	}
	return out
}
