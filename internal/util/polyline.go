package util

// DecodePolyline converts an encoded polyline string to a slice of lat/lng
// coordinates in degrees. Implementation based on Google's Encoded Polyline
// Algorithm Format with the standard 1e-5 precision; proximity paths posted
// to the scan API may arrive in this form.
func DecodePolyline(encoded string) [][2]float64 {
	var points [][2]float64
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		dLat, next, ok := decodeVarint(encoded, index)
		if !ok {
			return points
		}
		lat += dLat
		index = next

		dLng, next, ok := decodeVarint(encoded, index)
		if !ok {
			return points
		}
		lng += dLng
		index = next

		points = append(points, [2]float64{float64(lat) * 1e-5, float64(lng) * 1e-5})
	}

	return points
}

// decodeVarint reads one zigzag-encoded value starting at index.
func decodeVarint(encoded string, index int) (value, next int, ok bool) {
	shift, result := 0, 0
	for {
		if index >= len(encoded) {
			return 0, index, false
		}
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return -(result >> 1) - 1, index, true
	}
	return result >> 1, index, true
}
