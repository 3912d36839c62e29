package export

import (
	"encoding/json"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"terramosaic/internal/grid"
	"terramosaic/internal/mesh"
	"terramosaic/internal/topk"
)

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// LayoutFeatureCollection renders every tile of a layout as a GeoJSON
// polygon for visual inspection of a selection.
func LayoutFeatureCollection(g *grid.Grid, layout *grid.Layout) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	lonSpan := g.LonSpan()
	latSpan := g.LatSpan()

	for _, tile := range layout.Tiles() {
		west := degrees(tile.StartLongitude)
		east := degrees(tile.StartLongitude + lonSpan)
		north := degrees(tile.StartLatitude)
		south := degrees(tile.StartLatitude - latSpan)

		// GeoJSON is [lon, lat]
		ring := orb.Ring{
			{west, north},
			{east, north},
			{east, south},
			{west, south},
			{west, north}, // Close the ring
		}

		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["identifier"] = tile.Identifier
		feature.Properties["index"] = tile.Index
		if cx, cy, ok := layout.Position(tile); ok {
			feature.Properties["layout_column"] = cx
			feature.Properties["layout_row"] = cy
		}
		fc.Append(feature)
	}

	return fc
}

// MeshFeatureCollection renders a decimated mesh's longitude lines as
// LineStrings.
func MeshFeatureCollection(topo *mesh.Topology) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, line := range topo.Lines {
		if len(line.Points) < 2 {
			continue
		}
		ls := make(orb.LineString, 0, len(line.Points))
		for _, p := range line.Points {
			ls = append(ls, orb.Point{degrees(line.Longitude), degrees(p.Latitude)})
		}

		feature := geojson.NewFeature(ls)
		feature.Properties["x"] = line.X
		feature.Properties["point_count"] = len(line.Points)
		fc.Append(feature)
	}

	return fc
}

// ClosestPointFeatures renders retained closest-approach points as markers.
func ClosestPointFeatures(records []topk.Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for rank, r := range records {
		feature := geojson.NewFeature(orb.Point{degrees(r.Longitude), degrees(r.Latitude)})
		feature.Properties["rank"] = rank
		feature.Properties["proximity_km"] = r.Value
		feature.Properties["tile"] = r.Tile.Identifier
		fc.Append(feature)
	}

	return fc
}

// WriteFile marshals a feature collection to an indented GeoJSON file.
func WriteFile(fc *geojson.FeatureCollection, outputFile string) error {
	jsonData, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, jsonData, 0644)
}
