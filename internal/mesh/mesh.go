package mesh

import (
	"terramosaic/internal/extract"
	"terramosaic/internal/topk"
)

// Topology is the decimated mesh derived from a line set: the retained lines
// with their retained points, the same points flattened into one vertex
// list, and triangle indices into that list.
type Topology struct {
	Lines     []extract.Line  `json:"lines"`
	Points    []extract.Point `json:"points"`
	Triangles []int           `json:"triangles"`
}

// Build decimates a line set and triangulates adjacent retained lines.
//
// A line survives when it is the first or last line, its index is a stride
// multiple, or its longitude is that of a retained closest-point record;
// within a surviving line the same rule keeps points (latitude match at that
// longitude). Closest-approach regions therefore keep full resolution while
// the rest of the mesh stays coarse, and total mesh size is bounded
// independently of raster resolution.
func Build(lines []extract.Line, top []topk.Record, stride int) *Topology {
	if stride < 1 {
		stride = 1
	}

	topLons := make(map[float64][]float64, len(top))
	for _, r := range top {
		topLons[r.Longitude] = append(topLons[r.Longitude], r.Latitude)
	}

	topo := &Topology{}
	if len(lines) == 0 {
		return topo
	}

	for i, line := range lines {
		topLats, lonMatch := topLons[line.Longitude]
		if !(i == 0 || i == len(lines)-1 || i%stride == 0 || lonMatch) {
			continue
		}

		kept := line
		kept.Points = nil
		for j, p := range line.Points {
			if j == 0 || j == len(line.Points)-1 || j%stride == 0 || latMatch(topLats, p.Latitude) {
				kept.Points = append(kept.Points, p)
			}
		}
		topo.Lines = append(topo.Lines, kept)
	}

	// Vertex index of each retained line's first point in the flattened list.
	base := make([]int, len(topo.Lines))
	for i, line := range topo.Lines {
		base[i] = len(topo.Points)
		topo.Points = append(topo.Points, line.Points...)
	}

	for i := 0; i+1 < len(topo.Lines); i++ {
		a := topo.Lines[i].Points
		b := topo.Lines[i+1].Points

		for _, pair := range MatchLines(a, b) {
			va := base[i] + pair.A
			vb := base[i+1] + pair.B
			aNext := pair.A+1 < len(a)
			bNext := pair.B+1 < len(b)

			switch {
			case aNext && bNext:
				// Quad split.
				topo.Triangles = append(topo.Triangles,
					va, vb, va+1,
					va+1, vb, vb+1,
				)
			case aNext:
				topo.Triangles = append(topo.Triangles, va, vb, va+1)
			case bNext:
				topo.Triangles = append(topo.Triangles, va, vb, vb+1)
			}
		}
	}

	return topo
}

func latMatch(topLats []float64, lat float64) bool {
	for _, l := range topLats {
		if l == lat {
			return true
		}
	}
	return false
}
