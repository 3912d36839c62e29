package util

import (
	"math"
	"testing"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

func TestGreatCircleKm(t *testing.T) {
	if d := GreatCircleKm(0.3, -1.2, 0.3, -1.2); d > 1e-9 {
		t.Errorf("distance to self = %v, want 0", d)
	}

	// Pole to pole is half the circumference.
	got := GreatCircleKm(math.Pi/2, 0, -math.Pi/2, 0)
	want := math.Pi * EarthRadiusKm
	if math.Abs(got-want) > 1 {
		t.Errorf("pole-to-pole = %v km, want %v", got, want)
	}

	// A quarter turn along the equator.
	got = GreatCircleKm(0, 0, 0, math.Pi/2)
	want = math.Pi / 2 * EarthRadiusKm
	if math.Abs(got-want) > 1 {
		t.Errorf("quarter-equator = %v km, want %v", got, want)
	}
}

func TestDistanceToPathKm(t *testing.T) {
	path := []s2.LatLng{
		{Lat: s1.Angle(0), Lng: s1.Angle(0)},
		{Lat: s1.Angle(0), Lng: s1.Angle(0.5)},
	}

	if d := DistanceToPathKm(0, 0.5, path); d > 1e-9 {
		t.Errorf("distance at a vertex = %v, want 0", d)
	}

	d := DistanceToPathKm(0.1, 0, path)
	want := GreatCircleKm(0.1, 0, 0, 0)
	if math.Abs(d-want) > 1e-9 {
		t.Errorf("distance = %v, want nearest vertex distance %v", d, want)
	}
}

func TestClampGeodetic(t *testing.T) {
	cases := []struct {
		lng, lat         float64
		wantLng, wantLat float64
	}{
		{0, 0, 0, 0},
		{math.Pi, 0, -math.Pi, 0},                  // east edge wraps to west
		{3 * math.Pi, 0.2, -math.Pi, 0.2},          // full extra turn
		{-math.Pi - 0.1, 0, math.Pi - 0.1, 0},      // west overflow wraps east
		{0.4, math.Pi, 0.4, math.Pi / 2},           // latitude clamps, no wrap
		{0.4, -2 * math.Pi, 0.4, -math.Pi / 2},     // deep south clamps
		{-math.Pi, math.Pi / 2, -math.Pi, math.Pi / 2},
	}

	for _, c := range cases {
		lng, lat := ClampGeodetic(c.lng, c.lat)
		if math.Abs(lng-c.wantLng) > 1e-12 || math.Abs(lat-c.wantLat) > 1e-12 {
			t.Errorf("ClampGeodetic(%v, %v) = (%v, %v), want (%v, %v)",
				c.lng, c.lat, lng, lat, c.wantLng, c.wantLat)
		}
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	a := s2.LatLngFromDegrees(0, 0)
	b := s2.LatLngFromDegrees(0, 90)

	mid := Interpolate(0.5, a, b)
	if math.Abs(mid.Lng.Degrees()-45) > 1e-9 || math.Abs(mid.Lat.Degrees()) > 1e-9 {
		t.Errorf("midpoint = %v, want (0, 45)", mid)
	}
}
