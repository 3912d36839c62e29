package util

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for all great-circle math.
const EarthRadiusKm = 6371.0

// GreatCircleKm returns the great-circle distance between two positions in kilometers.
// Inputs are in radians.
func GreatCircleKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.PointFromLatLng(s2.LatLng{Lat: s1.Angle(lat1), Lng: s1.Angle(lng1)})
	p2 := s2.PointFromLatLng(s2.LatLng{Lat: s1.Angle(lat2), Lng: s1.Angle(lng2)})

	angle := s1.Angle(s2.ChordAngleBetweenPoints(p1, p2).Angle())

	return angle.Radians() * EarthRadiusKm
}

// DistanceToPathKm returns the minimum great-circle distance in kilometers
// from a position to any vertex of a path. Inputs are in radians.
func DistanceToPathKm(lat, lng float64, path []s2.LatLng) float64 {
	best := math.Inf(1)
	for _, p := range path {
		if d := GreatCircleKm(lat, lng, p.Lat.Radians(), p.Lng.Radians()); d < best {
			best = d
		}
	}
	return best
}

// Interpolate returns the position a given fraction along the great-circle
// segment between two path vertices.
func Interpolate(fraction float64, a, b s2.LatLng) s2.LatLng {
	pa := s2.PointFromLatLng(a)
	pb := s2.PointFromLatLng(b)
	return s2.LatLngFromPoint(s2.Interpolate(fraction, pa, pb))
}

// ClampGeodetic normalizes a longitude into [-pi, pi) and clamps a latitude
// into [-pi/2, pi/2]. Grid lookups require clamped inputs; this is the
// upstream guard for them.
func ClampGeodetic(lng, lat float64) (float64, float64) {
	lng = math.Mod(lng+math.Pi, 2*math.Pi)
	if lng < 0 {
		lng += 2 * math.Pi
	}
	lng -= math.Pi

	if lat > math.Pi/2 {
		lat = math.Pi / 2
	}
	if lat < -math.Pi/2 {
		lat = -math.Pi / 2
	}
	return lng, lat
}
