package util

import (
	"math"
	"testing"
)

func TestDecodePolyline(t *testing.T) {
	// Reference example from the encoded polyline format documentation.
	got := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	want := [][2]float64{
		{38.5, -120.2},
		{40.7, -120.95},
		{43.252, -126.453},
	}

	if len(got) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i][0]-want[i][0]) > 1e-5 || math.Abs(got[i][1]-want[i][1]) > 1e-5 {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodePolylineSinglePoint(t *testing.T) {
	got := DecodePolyline("_p~iF~ps|U")
	if len(got) != 1 {
		t.Fatalf("decoded %d points, want 1", len(got))
	}
	if math.Abs(got[0][0]-38.5) > 1e-5 || math.Abs(got[0][1]+120.2) > 1e-5 {
		t.Errorf("point = %v, want (38.5, -120.2)", got[0])
	}
}

func TestDecodePolylineEmpty(t *testing.T) {
	if got := DecodePolyline(""); len(got) != 0 {
		t.Errorf("decoded %v from empty input, want none", got)
	}
}

func TestDecodePolylineTruncated(t *testing.T) {
	// A dangling latitude with no longitude must not produce a point.
	if got := DecodePolyline("_p~iF"); len(got) != 0 {
		t.Errorf("decoded %v from truncated input, want none", got)
	}
}

func TestNewScanID(t *testing.T) {
	a := NewScanID()
	b := NewScanID()
	if a == "" || a == b {
		t.Errorf("ids %q and %q, want distinct non-empty values", a, b)
	}
	if len(a) != 12 {
		t.Errorf("id %q has length %d, want 12", a, len(a))
	}
}
