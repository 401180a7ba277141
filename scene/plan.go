package scene

import "github.com/milk9111/ldtkscene/ldtk"

// Plan is the result of spawning one level.
type Plan struct {
	Level    string
	LevelIID string
	LevelUID int
	PxWid    int
	PxHei    int
	WorldX   int
	WorldY   int
	Layers   []LayerPlacement
	Entities []EntityPlacement
}

// LayerPlacement is one tile sub-layer. A source layer with stacked tiles
// produces several placements with consecutive depths.
type LayerPlacement struct {
	Depth       int
	Identifier  string
	Type        ldtk.LayerType
	SourceIndex int
	Partition   int

	GridWidth  int
	GridHeight int
	GridSize   int

	TileSize    Vec2
	TextureSize Vec2
	Spacing     int
	// Tileset is nil for IntGrid layers without visuals.
	Tileset *ldtk.TilesetDefinition

	// Opacity and Hidden are carried over from the layer instance for the
	// renderer; they do not affect which tiles are produced.
	Opacity float64
	Hidden  bool

	Tiles     map[TilePos]VisualTile
	Cells     []IntCellPlacement
	Transform Transform
}

// IntCellPlacement is a set int grid cell. Translation is relative to the
// layer transform.
type IntCellPlacement struct {
	Cell        IntGridCell
	Translation Vec3
	Output      Output
}

type EntityPlacement struct {
	Depth     int
	Layer     string
	Entity    *ldtk.EntityInstance
	Tileset   *ldtk.TilesetDefinition
	Transform Transform
	Output    Output
}

// Bound reports whether the layer has a tileset to draw from.
func (l *LayerPlacement) Bound() bool {
	return l.Tileset != nil
}

// TileCount returns the number of tiles across all layers.
func (p *Plan) TileCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for i := range p.Layers {
		n += len(p.Layers[i].Tiles)
	}
	return n
}
