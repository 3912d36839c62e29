package atlas

import (
	"fmt"
	"math"

	"terramosaic/internal/grid"
)

// Placement is the affine mapping from one tile's local pixel coordinates
// into the shared atlas: atlas = offset + local*scale.
type Placement struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
}

// Mapper assigns every tile of a layout a disjoint rectangle of a shared,
// size-bounded atlas. The mapping is bijective between (tile, local pixel)
// pairs and atlas pixel rectangles, and FromAtlas inverts ToAtlas exactly.
// Recomputed whenever the layout changes; read-only after construction.
type Mapper struct {
	layout     *grid.Layout
	tileWidth  int
	tileHeight int

	AtlasWidth  int
	AtlasHeight int

	cellWidth  float64
	cellHeight float64
}

// NewMapper sizes the atlas for a layout. The atlas width is the largest
// multiple of the tile width that fits the hardware cap, bounded by the full
// tileWidth x columnCount extent; height likewise over rows.
func NewMapper(layout *grid.Layout, tileWidth, tileHeight, maxDimension int) (*Mapper, error) {
	columns := layout.ColumnCount()
	rows := layout.RowCount()
	if columns == 0 || rows == 0 {
		return nil, fmt.Errorf("atlas: empty layout")
	}

	aw := boundedExtent(tileWidth, columns, maxDimension)
	ah := boundedExtent(tileHeight, rows, maxDimension)
	if aw <= 0 || ah <= 0 {
		return nil, fmt.Errorf("atlas: cap %d smaller than one %dx%d tile", maxDimension, tileWidth, tileHeight)
	}

	return &Mapper{
		layout:      layout,
		tileWidth:   tileWidth,
		tileHeight:  tileHeight,
		AtlasWidth:  aw,
		AtlasHeight: ah,
		cellWidth:   float64(aw) / float64(columns),
		cellHeight:  float64(ah) / float64(rows),
	}, nil
}

// boundedExtent returns the largest multiple of span not exceeding cap,
// bounded above by span*count.
func boundedExtent(span, count, cap int) int {
	full := span * count
	if full <= cap {
		return full
	}
	return cap - cap%span
}

// Placement returns the affine placement for the tile at layout position
// (cx, cy).
func (m *Mapper) Placement(cx, cy int) Placement {
	return Placement{
		OffsetX: float64(cx) * m.cellWidth,
		OffsetY: float64(cy) * m.cellHeight,
		ScaleX:  m.cellWidth / float64(m.tileWidth),
		ScaleY:  m.cellHeight / float64(m.tileHeight),
	}
}

// PlacementFor returns the placement of a tile, or an error when the tile is
// not part of the layout.
func (m *Mapper) PlacementFor(t grid.Tile) (Placement, error) {
	cx, cy, ok := m.layout.Position(t)
	if !ok {
		return Placement{}, fmt.Errorf("atlas: tile %s not in layout", t.Identifier)
	}
	return m.Placement(cx, cy), nil
}

// ToAtlas maps a tile-local pixel to atlas pixel coordinates.
func (m *Mapper) ToAtlas(cx, cy int, localX, localY float64) (float64, float64) {
	p := m.Placement(cx, cy)
	return p.OffsetX + localX*p.ScaleX, p.OffsetY + localY*p.ScaleY
}

// FromAtlas inverts ToAtlas: it maps an atlas pixel back to the layout cell
// holding it and the tile-local pixel within that cell, fractional remainder
// included. This is the reverse path used for point picking.
func (m *Mapper) FromAtlas(atlasX, atlasY float64) (cx, cy int, localX, localY float64, err error) {
	if atlasX < 0 || atlasY < 0 || atlasX >= float64(m.AtlasWidth) || atlasY >= float64(m.AtlasHeight) {
		return 0, 0, 0, 0, fmt.Errorf("atlas: pixel (%g, %g) outside %dx%d atlas",
			atlasX, atlasY, m.AtlasWidth, m.AtlasHeight)
	}

	cx = int(math.Floor(atlasX / m.cellWidth))
	cy = int(math.Floor(atlasY / m.cellHeight))
	if cx >= m.layout.ColumnCount() {
		cx = m.layout.ColumnCount() - 1
	}
	if cy >= m.layout.RowCount() {
		cy = m.layout.RowCount() - 1
	}

	p := m.Placement(cx, cy)
	localX = (atlasX - p.OffsetX) / p.ScaleX
	localY = (atlasY - p.OffsetY) / p.ScaleY
	return cx, cy, localX, localY, nil
}
