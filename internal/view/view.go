// Package view converts placement plans into screen-space draw commands.
// It has no renderer dependency; cmd/ldtkview feeds its output to ebiten.
package view

import (
	"image"
	"sort"

	"github.com/milk9111/ldtkscene/ldtk"
	"github.com/milk9111/ldtkscene/scene"
)

// Rect is an axis aligned box in plan space, y up. X, Y is the bottom left
// corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Quad is one tile to draw.
type Quad struct {
	Pos   scene.TilePos
	Src   image.Rectangle
	Dst   Rect
	FlipX bool
	FlipY bool
}

// Item is one step of the back to front draw order. Exactly one of Layer
// and Entity is set.
type Item struct {
	Depth  int
	Layer  *scene.LayerPlacement
	Entity *scene.EntityPlacement
}

// Order sorts the plan's layers and entities back to front. At equal depth
// a layer is drawn before the entities.
func Order(plan *scene.Plan) []Item {
	if plan == nil {
		return nil
	}
	items := make([]Item, 0, len(plan.Layers)+len(plan.Entities))
	for i := range plan.Layers {
		items = append(items, Item{Depth: plan.Layers[i].Depth, Layer: &plan.Layers[i]})
	}
	for i := range plan.Entities {
		items = append(items, Item{Depth: plan.Entities[i].Depth, Entity: &plan.Entities[i]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Depth != items[j].Depth {
			return items[i].Depth < items[j].Depth
		}
		return items[i].Layer != nil && items[j].Layer == nil
	})
	return items
}

// TileSource returns the pixel rectangle of a tile id inside a tileset
// image, honoring padding and spacing.
func TileSource(ts *ldtk.TilesetDefinition, id int) image.Rectangle {
	if ts == nil || ts.TileGridSize <= 0 || id < 0 {
		return image.Rectangle{}
	}
	step := ts.TileGridSize + ts.Spacing
	cols := (ts.PxWid - 2*ts.Padding + ts.Spacing) / step
	if cols <= 0 {
		return image.Rectangle{}
	}
	x := ts.Padding + (id%cols)*step
	y := ts.Padding + (id/cols)*step
	return image.Rect(x, y, x+ts.TileGridSize, y+ts.TileGridSize)
}

// LayerQuads lists the visible tiles of a bound layer sorted by row then
// column. Unbound layers have nothing to draw.
func LayerQuads(l *scene.LayerPlacement) []Quad {
	if l == nil || !l.Bound() {
		return nil
	}
	t := l.Transform
	w := l.TileSize.X * t.Scale.X
	h := l.TileSize.Y * t.Scale.Y

	quads := make([]Quad, 0, len(l.Tiles))
	for pos, tile := range l.Tiles {
		if !tile.Visible {
			continue
		}
		quads = append(quads, Quad{
			Pos: pos,
			Src: TileSource(l.Tileset, tile.TextureIndex),
			Dst: Rect{
				X: t.Translation.X + float64(pos.X)*w,
				Y: t.Translation.Y + float64(pos.Y)*h,
				W: w,
				H: h,
			},
			FlipX: tile.FlipX,
			FlipY: tile.FlipY,
		})
	}
	sort.Slice(quads, func(i, j int) bool {
		if quads[i].Pos.Y != quads[j].Pos.Y {
			return quads[i].Pos.Y < quads[j].Pos.Y
		}
		return quads[i].Pos.X < quads[j].Pos.X
	})
	return quads
}

// CellRect is the plan space box of an int grid cell.
func CellRect(l *scene.LayerPlacement, c *scene.IntCellPlacement) Rect {
	gs := float64(l.GridSize)
	t := l.Transform
	cx := t.Translation.X + c.Translation.X*t.Scale.X
	cy := t.Translation.Y + c.Translation.Y*t.Scale.Y
	return Rect{X: cx - gs/2, Y: cy - gs/2, W: gs, H: gs}
}

// EntityRect is the plan space box of an entity, centered on its
// translation.
func EntityRect(e *scene.EntityPlacement) Rect {
	w := float64(e.Entity.Width)
	h := float64(e.Entity.Height)
	return Rect{
		X: e.Transform.Translation.X - w/2,
		Y: e.Transform.Translation.Y - h/2,
		W: w,
		H: h,
	}
}

// EntitySource is the tileset rectangle an entity is drawn from, if any.
func EntitySource(e *scene.EntityPlacement) (image.Rectangle, bool) {
	if e == nil || e.Entity == nil || e.Entity.Tile == nil || e.Tileset == nil {
		return image.Rectangle{}, false
	}
	r := e.Entity.Tile
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H), true
}
