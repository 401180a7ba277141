package view

import (
	"image"
	"math"
	"testing"

	"github.com/milk9111/ldtkscene/ldtk"
	"github.com/milk9111/ldtkscene/scene"
)

func TestTileSource(t *testing.T) {
	ts := &ldtk.TilesetDefinition{PxWid: 74, PxHei: 74, TileGridSize: 16, Spacing: 2, Padding: 1}
	cases := []struct {
		id   int
		want image.Rectangle
	}{
		{0, image.Rect(1, 1, 17, 17)},
		{1, image.Rect(19, 1, 35, 17)},
		{3, image.Rect(55, 1, 71, 17)},
		{4, image.Rect(1, 19, 17, 35)},
		{-1, image.Rectangle{}},
	}
	for _, c := range cases {
		if got := TileSource(ts, c.id); got != c.want {
			t.Fatalf("tile %d: expected %v, got %v", c.id, c.want, got)
		}
	}
	if got := TileSource(nil, 0); got != (image.Rectangle{}) {
		t.Fatalf("expected empty rect for nil tileset, got %v", got)
	}
}

func TestLayerQuads(t *testing.T) {
	ts := &ldtk.TilesetDefinition{UID: 1, PxWid: 32, PxHei: 16, TileGridSize: 8}
	layer := &scene.LayerPlacement{
		GridSize: 16,
		TileSize: scene.Vec2{X: 8, Y: 8},
		Tileset:  ts,
		Tiles: map[scene.TilePos]scene.VisualTile{
			{X: 1, Y: 0}: {TextureIndex: 3, Visible: true, FlipX: true},
			{X: 0, Y: 1}: {TextureIndex: 0, Visible: true},
			{X: 0, Y: 0}: {TextureIndex: 1},
		},
		Transform: scene.Transform{
			Translation: scene.Vec3{X: 4, Y: -2},
			Scale:       scene.Vec3{X: 2, Y: 2, Z: 1},
		},
	}

	quads := LayerQuads(layer)
	if len(quads) != 2 {
		t.Fatalf("expected 2 visible quads, got %d", len(quads))
	}
	first := quads[0]
	if first.Pos != (scene.TilePos{X: 1, Y: 0}) || !first.FlipX {
		t.Fatalf("unexpected first quad: %+v", first)
	}
	if first.Dst != (Rect{X: 20, Y: -2, W: 16, H: 16}) {
		t.Fatalf("unexpected dst: %+v", first.Dst)
	}
	if first.Src != image.Rect(24, 0, 32, 8) {
		t.Fatalf("unexpected src: %v", first.Src)
	}
	if quads[1].Dst != (Rect{X: 4, Y: 14, W: 16, H: 16}) {
		t.Fatalf("unexpected dst: %+v", quads[1].Dst)
	}

	layer.Tileset = nil
	if got := LayerQuads(layer); got != nil {
		t.Fatalf("expected no quads for unbound layer, got %d", len(got))
	}
}

func TestOrder(t *testing.T) {
	plan := &scene.Plan{
		Layers: []scene.LayerPlacement{
			{Depth: 0, Identifier: "Ground"},
			{Depth: 1, Identifier: "Decor"},
		},
		Entities: []scene.EntityPlacement{
			{Depth: 1, Layer: "Entities"},
			{Depth: 0, Layer: "Early"},
		},
	}
	items := Order(plan)
	want := []string{"layer:Ground", "entity:Early", "layer:Decor", "entity:Entities"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, item := range items {
		var got string
		if item.Layer != nil {
			got = "layer:" + item.Layer.Identifier
		} else {
			got = "entity:" + item.Entity.Layer
		}
		if got != want[i] {
			t.Fatalf("item %d: expected %s, got %s", i, want[i], got)
		}
	}
	if Order(nil) != nil {
		t.Fatalf("expected nil order for nil plan")
	}
}

func TestCellAndEntityRects(t *testing.T) {
	layer := &scene.LayerPlacement{
		GridSize: 16,
		Transform: scene.Transform{
			Translation: scene.Vec3{X: 10, Y: 0},
			Scale:       scene.Vec3{X: 2, Y: 2, Z: 1},
		},
	}
	cell := &scene.IntCellPlacement{Translation: scene.Vec3{X: 12, Y: 4}}
	if got := CellRect(layer, cell); got != (Rect{X: 26, Y: 0, W: 16, H: 16}) {
		t.Fatalf("unexpected cell rect: %+v", got)
	}

	ent := &scene.EntityPlacement{
		Entity: &ldtk.EntityInstance{Width: 16, Height: 32, Tile: &ldtk.TilesetRect{X: 16, Y: 0, W: 16, H: 16}},
		Transform: scene.Transform{
			Translation: scene.Vec3{X: 40, Y: 50},
		},
	}
	if got := EntityRect(ent); got != (Rect{X: 32, Y: 34, W: 16, H: 32}) {
		t.Fatalf("unexpected entity rect: %+v", got)
	}
	if _, ok := EntitySource(ent); ok {
		t.Fatalf("expected no source without a tileset")
	}
	ent.Tileset = &ldtk.TilesetDefinition{UID: 1}
	if src, ok := EntitySource(ent); !ok || src != image.Rect(16, 0, 32, 16) {
		t.Fatalf("unexpected entity source: %v %v", src, ok)
	}
}

func TestCamera(t *testing.T) {
	c := &Camera{X: 0, Y: 96, Zoom: 2, Left: 100}

	sx, sy := c.ToScreen(10, 96)
	if sx != 120 || sy != 0 {
		t.Fatalf("expected (120, 0), got (%v, %v)", sx, sy)
	}
	px, py := c.ToPlan(sx, sy)
	if px != 10 || py != 96 {
		t.Fatalf("expected round trip to (10, 96), got (%v, %v)", px, py)
	}

	x, y, w, h := c.RectToScreen(Rect{X: 0, Y: 80, W: 16, H: 16})
	if x != 100 || y != 0 || w != 32 || h != 32 {
		t.Fatalf("unexpected screen rect: %v %v %v %v", x, y, w, h)
	}

	c.Pan(20, 10)
	if sx, sy := c.ToScreen(10, 96); sx != 140 || sy != 10 {
		t.Fatalf("expected pan to move the point to (140, 10), got (%v, %v)", sx, sy)
	}

	bx, by := c.ToPlan(300, 200)
	c.ZoomAt(2, 300, 200)
	if c.Zoom != 4 {
		t.Fatalf("expected zoom 4, got %v", c.Zoom)
	}
	ax, ay := c.ToPlan(300, 200)
	if math.Abs(ax-bx) > 1e-9 || math.Abs(ay-by) > 1e-9 {
		t.Fatalf("expected anchor to stay fixed: before (%v, %v) after (%v, %v)", bx, by, ax, ay)
	}

	c.ZoomAt(1000, 0, 0)
	if c.Zoom != MaxZoom {
		t.Fatalf("expected zoom clamped to %v, got %v", MaxZoom, c.Zoom)
	}
}

func TestCameraFit(t *testing.T) {
	c := &Camera{}
	c.Fit(160, 96, 800, 600)
	sx, sy := c.ToScreen(80, 48)
	if math.Abs(sx-400) > 1e-9 || math.Abs(sy-300) > 1e-9 {
		t.Fatalf("expected level center at viewport center, got (%v, %v)", sx, sy)
	}
}
