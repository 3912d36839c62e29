package atlas

import (
	"math"
	"testing"

	"terramosaic/internal/grid"
)

func testLayout(t *testing.T, cols, rowsPerCol int) (*grid.Grid, *grid.Layout) {
	t.Helper()
	g := grid.New(8, 4)

	var columns [][]grid.Tile
	for c := 0; c < cols; c++ {
		var column []grid.Tile
		for r := 0; r < rowsPerCol; r++ {
			column = append(column, g.TileByIndex(c*g.Rows()+r))
		}
		columns = append(columns, column)
	}
	return g, grid.NewLayout(columns)
}

func TestAtlasSizing(t *testing.T) {
	_, layout := testLayout(t, 3, 2)

	cases := []struct {
		tileW, tileH, maxDim int
		wantW, wantH         int
	}{
		// Everything fits: full extent.
		{16, 16, 1024, 48, 32},
		// Width capped to the largest multiple of 16 under the cap.
		{16, 16, 40, 32, 32},
		// Cap below one tile is an error case, checked separately.
	}

	for _, c := range cases {
		m, err := NewMapper(layout, c.tileW, c.tileH, c.maxDim)
		if err != nil {
			t.Fatalf("NewMapper(%d, %d, %d): %v", c.tileW, c.tileH, c.maxDim, err)
		}
		if m.AtlasWidth != c.wantW || m.AtlasHeight != c.wantH {
			t.Errorf("atlas %dx%d, want %dx%d (cap %d)",
				m.AtlasWidth, m.AtlasHeight, c.wantW, c.wantH, c.maxDim)
		}
	}
}

func TestAtlasCapTooSmall(t *testing.T) {
	_, layout := testLayout(t, 2, 2)
	if _, err := NewMapper(layout, 64, 64, 32); err == nil {
		t.Fatal("expected error for cap below one tile")
	}
}

func TestAtlasEmptyLayout(t *testing.T) {
	if _, err := NewMapper(grid.NewLayout(nil), 16, 16, 1024); err == nil {
		t.Fatal("expected error for empty layout")
	}
}

func TestAtlasRoundTrip(t *testing.T) {
	_, layout := testLayout(t, 3, 2)

	// The capped case exercises fractional scale factors.
	for _, maxDim := range []int{1024, 40} {
		m, err := NewMapper(layout, 16, 16, maxDim)
		if err != nil {
			t.Fatal(err)
		}

		for cx := 0; cx < layout.ColumnCount(); cx++ {
			for cy := 0; cy < layout.RowCount(); cy++ {
				for _, px := range []float64{0, 0.5, 7, 15.5} {
					ax, ay := m.ToAtlas(cx, cy, px, px)
					gcx, gcy, lx, ly, err := m.FromAtlas(ax, ay)
					if err != nil {
						t.Fatalf("FromAtlas(%v, %v): %v", ax, ay, err)
					}
					if gcx != cx || gcy != cy {
						t.Fatalf("cell (%d, %d) round-tripped to (%d, %d)", cx, cy, gcx, gcy)
					}
					if math.Abs(lx-px) > 1 || math.Abs(ly-px) > 1 {
						t.Fatalf("pixel %v round-tripped to (%v, %v)", px, lx, ly)
					}
				}
			}
		}
	}
}

func TestAtlasPlacementsDisjoint(t *testing.T) {
	_, layout := testLayout(t, 3, 2)
	m, err := NewMapper(layout, 16, 16, 1024)
	if err != nil {
		t.Fatal(err)
	}

	type rect struct{ x0, y0, x1, y1 float64 }
	var rects []rect
	for cx := 0; cx < layout.ColumnCount(); cx++ {
		for cy := 0; cy < layout.RowCount(); cy++ {
			p := m.Placement(cx, cy)
			rects = append(rects, rect{
				p.OffsetX, p.OffsetY,
				p.OffsetX + 16*p.ScaleX, p.OffsetY + 16*p.ScaleY,
			})
		}
	}

	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			if a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1 {
				t.Fatalf("placements %d and %d overlap", i, j)
			}
		}
	}
}

func TestPlacementForOutsideLayout(t *testing.T) {
	g, layout := testLayout(t, 2, 2)
	m, err := NewMapper(layout, 16, 16, 1024)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.PlacementFor(g.TileByIndex(3 * g.Rows())); err == nil {
		t.Fatal("expected error for tile outside layout")
	}
}

func TestFromAtlasOutOfRange(t *testing.T) {
	_, layout := testLayout(t, 2, 2)
	m, err := NewMapper(layout, 16, 16, 1024)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range [][2]float64{{-1, 0}, {0, -1}, {float64(m.AtlasWidth), 0}, {0, float64(m.AtlasHeight)}} {
		if _, _, _, _, err := m.FromAtlas(p[0], p[1]); err == nil {
			t.Errorf("FromAtlas(%v, %v) accepted an out-of-range pixel", p[0], p[1])
		}
	}
}
