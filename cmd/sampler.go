package main

import (
	"math"
	"time"

	"github.com/golang/geo/s2"

	"terramosaic/internal/engine"
	"terramosaic/internal/grid"
	"terramosaic/internal/raster"
	"terramosaic/internal/util"
)

// simSampler is a synthetic stand-in for the external raster sampling
// service: proximity is the great-circle distance from each cell center to
// the scanned path, elevation is procedural terrain. The simulated path lies
// on the surface, so the global minimum proximity is zero and the
// distance-above-min channel equals the proximity channel.
type simSampler struct {
	path    []s2.LatLng
	width   int
	height  int
	lonStep float64
	latStep float64
	epoch   float64
}

func newSimSamplerFactory(g *grid.Grid, width, height int) engine.SamplerFactory {
	return func(path []s2.LatLng) (raster.Sampler, error) {
		return &simSampler{
			path:    path,
			width:   width,
			height:  height,
			lonStep: g.LonSpan() / float64(width),
			latStep: g.LatSpan() / float64(height),
			epoch:   float64(time.Now().Unix()),
		}, nil
	}
}

func (s *simSampler) Sample(tile grid.Tile, channel raster.Channel) (*raster.Raster, error) {
	r := raster.New(s.width, s.height)

	for y := 0; y < s.height; y++ {
		lat := tile.StartLatitude - (float64(y)+0.5)*s.latStep
		for x := 0; x < s.width; x++ {
			lng := tile.StartLongitude + (float64(x)+0.5)*s.lonStep
			r.Set(x, y, s.value(channel, lat, lng))
		}
	}

	return r, nil
}

func (s *simSampler) value(channel raster.Channel, lat, lng float64) float64 {
	switch channel {
	case raster.Elevation:
		return 1800*math.Sin(3*lat)*math.Cos(5*lng) + 700
	case raster.UnixTime:
		return s.epoch + 10*float64(s.nearestVertex(lat, lng))
	default:
		// Proximity and DistanceAboveMin coincide in the simulation.
		return util.DistanceToPathKm(lat, lng, s.path)
	}
}

func (s *simSampler) nearestVertex(lat, lng float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, p := range s.path {
		if d := util.GreatCircleKm(lat, lng, p.Lat.Radians(), p.Lng.Radians()); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
