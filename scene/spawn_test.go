package scene

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/milk9111/ldtkscene/ldtk"
)

func intPtr(i int) *int {
	return &i
}

func testProject() *ldtk.Project {
	return &ldtk.Project{
		Defs: ldtk.Defs{
			Tilesets: []ldtk.TilesetDefinition{
				{UID: 3, Identifier: "Cavern", PxWid: 256, PxHei: 128, TileGridSize: 16, Spacing: 1},
				{UID: 4, Identifier: "Tiny", PxWid: 64, PxHei: 64, TileGridSize: 8},
			},
			Entities: []ldtk.EntityDefinition{
				{UID: 7, Identifier: "Player", Width: 16, Height: 32},
				{UID: 8, Identifier: "Chest", Width: 16, Height: 16},
			},
		},
		Levels: []ldtk.Level{testLevel("Level_0"), testLevel("Level_1")},
	}
}

// testLevel lists its layers top-most first, as LDtk does.
func testLevel(identifier string) ldtk.Level {
	return ldtk.Level{
		Identifier: identifier,
		PxWid:      64,
		PxHei:      32,
		LayerInstances: []ldtk.LayerInstance{
			{
				Identifier: "Entities",
				Type:       ldtk.LayerEntities,
				CWid:       4, CHei: 2, GridSize: 16,
				PxTotalOffsetX: 100,
				EntityInstances: []ldtk.EntityInstance{
					{Identifier: "Player", DefUID: 7, Px: [2]int{8, 32}, Pivot: [2]float64{0.5, 1}, Width: 16, Height: 32},
					{
						Identifier: "Chest", DefUID: 8, Px: [2]int{32, 16}, Width: 16, Height: 16,
						Tile:           &ldtk.TilesetRect{TilesetUID: 3, W: 16, H: 16},
						FieldInstances: []ldtk.FieldInstance{{Identifier: "loot", Value: "gold"}},
					},
				},
			},
			{
				Identifier: "Decor",
				Type:       ldtk.LayerTiles,
				CWid:       4, CHei: 2, GridSize: 16,
				TilesetDefUID: intPtr(3),
				Opacity:       0.5,
				Visible:       true,
				GridTiles: []ldtk.TileInstance{
					{Px: [2]int{0, 0}, T: 2},
					{Px: [2]int{0, 0}, T: 5, F: 1},
				},
				AutoLayerTiles: []ldtk.TileInstance{
					{Px: [2]int{16, 0}, T: 1},
				},
			},
			{
				Identifier: "Ground",
				Type:       ldtk.LayerIntGrid,
				CWid:       4, CHei: 2, GridSize: 16,
				PxTotalOffsetX: 4, PxTotalOffsetY: 6,
				IntGridCSV: []int{0, 0, 0, 0, 1, 1, 2, 0},
			},
		},
	}
}

func TestSpawnLevelLayerOrder(t *testing.T) {
	p := testProject()
	plan, err := NewSpawner(ldtk.NewIndex(&p.Defs), nil).SpawnLevel(&p.Levels[0])
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	type layerSummary struct {
		identifier string
		depth      int
		partition  int
		source     int
	}
	want := []layerSummary{
		{"Ground", 0, 0, 2},
		{"Decor", 1, 0, 1},
		{"Decor", 2, 1, 1},
	}
	if len(plan.Layers) != len(want) {
		t.Fatalf("expected %d layers, got %d", len(want), len(plan.Layers))
	}
	for i, w := range want {
		l := plan.Layers[i]
		got := layerSummary{l.Identifier, l.Depth, l.Partition, l.SourceIndex}
		if got != w {
			t.Fatalf("layer %d: expected %+v, got %+v", i, w, got)
		}
	}

	for _, e := range plan.Entities {
		if e.Depth != 3 || e.Transform.Translation.Z != 3 {
			t.Fatalf("entity %s: expected depth 3, got %d z=%v", e.Entity.Identifier, e.Depth, e.Transform.Translation.Z)
		}
	}
}

func TestSpawnLevelTileLayers(t *testing.T) {
	p := testProject()
	plan, err := NewSpawner(ldtk.NewIndex(&p.Defs), nil).SpawnLevel(&p.Levels[0])
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	base, overflow := plan.Layers[1], plan.Layers[2]
	if !base.Bound() || base.Tileset.UID != 3 {
		t.Fatalf("expected Decor bound to tileset 3, got %+v", base.Tileset)
	}
	if base.TileSize != (Vec2{16, 16}) || base.TextureSize != (Vec2{256, 128}) || base.Spacing != 1 {
		t.Fatalf("unexpected tileset sizes: tile=%+v texture=%+v spacing=%d", base.TileSize, base.TextureSize, base.Spacing)
	}
	if base.Transform != IdentityTransform() {
		t.Fatalf("expected identity layer transform, got %+v", base.Transform)
	}

	wantBase := map[TilePos]VisualTile{
		{0, 1}: {TextureIndex: 2, Visible: true},
		{1, 1}: {TextureIndex: 1, Visible: true},
	}
	if !reflect.DeepEqual(base.Tiles, wantBase) {
		t.Fatalf("unexpected base tiles: %+v", base.Tiles)
	}
	wantOverflow := map[TilePos]VisualTile{
		{0, 1}: {TextureIndex: 5, FlipX: true, Visible: true},
	}
	if !reflect.DeepEqual(overflow.Tiles, wantOverflow) {
		t.Fatalf("unexpected overflow tiles: %+v", overflow.Tiles)
	}
	if len(base.Cells) != 0 || len(overflow.Cells) != 0 {
		t.Fatalf("tile layers should not carry int grid cells")
	}
}

func TestSpawnLevelIntGridWithoutTileset(t *testing.T) {
	p := testProject()
	plan, err := NewSpawner(ldtk.NewIndex(&p.Defs), nil).SpawnLevel(&p.Levels[0])
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	ground := plan.Layers[0]
	if ground.Bound() || ground.TextureSize != (Vec2{}) || ground.TileSize != (Vec2{16, 16}) {
		t.Fatalf("expected unbound placeholder layer, got tileset=%v tile=%+v texture=%+v", ground.Tileset, ground.TileSize, ground.TextureSize)
	}
	if ground.Transform.Translation != (Vec3{X: 4, Y: -6}) {
		t.Fatalf("expected offset (4,-6,0), got %+v", ground.Transform.Translation)
	}

	want := map[TilePos]VisualTile{{0, 0}: {}, {1, 0}: {}, {2, 0}: {}}
	if !reflect.DeepEqual(ground.Tiles, want) {
		t.Fatalf("unexpected placeholder tiles: %+v", ground.Tiles)
	}

	if len(ground.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(ground.Cells))
	}
	first := ground.Cells[0]
	if first.Cell.Index != 4 || first.Cell.Pos != (TilePos{0, 0}) || first.Translation != (Vec3{X: 8, Y: 8, Z: 0}) {
		t.Fatalf("unexpected first cell: %+v", first)
	}
	if first.Output.Kind != KindIntGridCell || first.Output.Fields["value"] != 1 {
		t.Fatalf("expected default cell output, got %+v", first.Output)
	}
}

func TestSpawnLevelIntGridScaledTileset(t *testing.T) {
	level := ldtk.Level{
		Identifier: "Scaled",
		PxHei:      16,
		LayerInstances: []ldtk.LayerInstance{{
			Identifier:    "Walls",
			Type:          ldtk.LayerIntGrid,
			CWid:          2, CHei: 1, GridSize: 16,
			TilesetDefUID: intPtr(4),
			IntGridCSV:    []int{1, 0},
			AutoLayerTiles: []ldtk.TileInstance{
				{Px: [2]int{0, 0}, T: 9},
				{Px: [2]int{0, 0}, T: 10},
			},
		}},
	}
	p := testProject()
	plan, err := NewSpawner(ldtk.NewIndex(&p.Defs), nil).SpawnLevel(&level)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	if len(plan.Layers) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(plan.Layers))
	}
	walls := plan.Layers[0]
	if walls.Transform.Scale != (Vec3{X: 2, Y: 2, Z: 1}) {
		t.Fatalf("expected scale 2, got %+v", walls.Transform.Scale)
	}
	if walls.Tiles[TilePos{0, 0}].TextureIndex != 9 || !walls.Tiles[TilePos{0, 0}].Visible {
		t.Fatalf("expected visible auto tile 9, got %+v", walls.Tiles)
	}
	if len(walls.Cells) != 1 || walls.Cells[0].Translation != (Vec3{X: 4, Y: 4, Z: 0}) {
		t.Fatalf("expected one cell at (4,4,0), got %+v", walls.Cells)
	}
	if len(plan.Layers[1].Cells) != 0 {
		t.Fatalf("overflow partition should not repeat cells")
	}
	if plan.Layers[1].Tiles[TilePos{0, 0}].TextureIndex != 10 {
		t.Fatalf("expected stacked tile 10 in overflow, got %+v", plan.Layers[1].Tiles)
	}
}

func TestSpawnLevelEntities(t *testing.T) {
	p := testProject()
	registry := NewRegistry()
	registry.RegisterEntity("Entities", "Player", BehaviorFunc(func(ctx SpawnContext) (Output, error) {
		return Output{Kind: "player", Tags: []string{ctx.Layer.Identifier}}, nil
	}))

	plan, err := NewSpawner(ldtk.NewIndex(&p.Defs), registry).SpawnLevel(&p.Levels[0])
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(plan.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(plan.Entities))
	}

	player := plan.Entities[0]
	if player.Output.Kind != "player" || player.Output.Tags[0] != "Entities" {
		t.Fatalf("expected registered player behavior, got %+v", player.Output)
	}
	// Entity layer offsets are ignored.
	if player.Transform.Translation != (Vec3{X: 8, Y: 16, Z: 3}) {
		t.Fatalf("unexpected player translation: %+v", player.Transform.Translation)
	}
	if player.Tileset != nil {
		t.Fatalf("player has no tile, got tileset %+v", player.Tileset)
	}

	chest := plan.Entities[1]
	if chest.Output.Kind != KindEntityInstance || chest.Output.Fields["loot"] != "gold" {
		t.Fatalf("expected default behavior for chest, got %+v", chest.Output)
	}
	if chest.Tileset == nil || chest.Tileset.UID != 3 {
		t.Fatalf("expected chest tileset 3, got %+v", chest.Tileset)
	}
	if chest.Layer != "Entities" {
		t.Fatalf("expected chest layer Entities, got %q", chest.Layer)
	}
}

func TestSpawnLevelBehaviorOrder(t *testing.T) {
	p := testProject()
	var calls []string
	record := func(name string) Behavior {
		return BehaviorFunc(func(ctx SpawnContext) (Output, error) {
			if ctx.Cell != nil {
				calls = append(calls, name+":"+string(rune('0'+ctx.Cell.Index)))
			} else {
				calls = append(calls, name)
			}
			return Output{Kind: name}, nil
		})
	}
	registry := NewRegistry()
	registry.RegisterIntCell("Ground", 1, record("dirt"))
	registry.RegisterIntCell("Ground", 2, record("spike"))
	registry.RegisterEntity("Entities", "Player", record("player"))
	registry.RegisterEntity("Entities", "Chest", record("chest"))

	if _, err := NewSpawner(ldtk.NewIndex(&p.Defs), registry).SpawnLevel(&p.Levels[0]); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	want := []string{"dirt:4", "dirt:5", "spike:6", "player", "chest"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}
}

func TestSpawnLevelDeterministic(t *testing.T) {
	p := testProject()
	s := NewSpawner(ldtk.NewIndex(&p.Defs), nil)
	a, err := s.SpawnLevel(&p.Levels[0])
	if err != nil {
		t.Fatalf("first spawn: %v", err)
	}
	b, err := s.SpawnLevel(&p.Levels[0])
	if err != nil {
		t.Fatalf("second spawn: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("plans differ between passes")
	}
}

func TestSpawnLevelErrors(t *testing.T) {
	errBoom := errors.New("boom")

	cases := []struct {
		name     string
		mutate   func(l *ldtk.Level)
		registry func() *Registry
		want     error
	}{
		{
			name:   "missing_layer_tileset",
			mutate: func(l *ldtk.Level) { l.LayerInstances[1].TilesetDefUID = intPtr(99) },
			want:   ErrMissingTileset,
		},
		{
			name:   "missing_entity_tileset",
			mutate: func(l *ldtk.Level) { l.LayerInstances[0].EntityInstances[1].Tile.TilesetUID = 99 },
			want:   ErrMissingTileset,
		},
		{
			name:   "missing_entity_definition",
			mutate: func(l *ldtk.Level) { l.LayerInstances[0].EntityInstances[0].DefUID = 99 },
			want:   ErrMissingEntityDefinition,
		},
		{
			name:   "csv_out_of_bounds",
			mutate: func(l *ldtk.Level) { l.LayerInstances[2].IntGridCSV = append(l.LayerInstances[2].IntGridCSV, 1) },
			want:   ErrIntGridIndexOutOfBounds,
		},
		{
			name:   "invalid_grid_size",
			mutate: func(l *ldtk.Level) { l.LayerInstances[1].GridSize = 0 },
			want:   ErrInvalidGridSize,
		},
		{
			name:   "behavior_error",
			mutate: func(*ldtk.Level) {},
			registry: func() *Registry {
				r := NewRegistry()
				r.RegisterIntCell("Ground", 2, BehaviorFunc(func(SpawnContext) (Output, error) {
					return Output{}, errBoom
				}))
				return r
			},
			want: errBoom,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := testProject()
			level := &p.Levels[0]
			c.mutate(level)
			var registry *Registry
			if c.registry != nil {
				registry = c.registry()
			}

			plan, err := NewSpawner(ldtk.NewIndex(&p.Defs), registry).SpawnLevel(level)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			if plan != nil {
				t.Fatalf("expected no plan on failure")
			}
		})
	}
}

func TestSpawnProject(t *testing.T) {
	p := testProject()
	s := NewSpawner(ldtk.NewIndex(&p.Defs), nil)

	plans, err := s.SpawnProject(context.Background(), p, ldtk.SelectIdentifier("Level_1"))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(plans) != 1 || plans[0].Level != "Level_1" {
		t.Fatalf("expected only Level_1, got %+v", plans)
	}

	p.Levels[1].LayerInstances[1].TilesetDefUID = intPtr(99)
	plans, err = s.SpawnProject(context.Background(), p, ldtk.SelectIndex(1))
	if !errors.Is(err, ErrMissingTileset) {
		t.Fatalf("expected ErrMissingTileset, got %v", err)
	}
	if plans != nil {
		t.Fatalf("expected no plans on failure")
	}
}

func TestSpawnProjectCanceled(t *testing.T) {
	p := testProject()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSpawner(ldtk.NewIndex(&p.Defs), nil).SpawnProject(ctx, p, ldtk.SelectIndex(0))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSpawnLevelCarriesLayerDisplay(t *testing.T) {
	p := testProject()
	plan, err := NewSpawner(ldtk.NewIndex(&p.Defs), nil).SpawnLevel(&p.Levels[0])
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	for _, l := range plan.Layers {
		switch l.Identifier {
		case "Decor":
			if l.Opacity != 0.5 || l.Hidden {
				t.Fatalf("decor depth %d: expected opacity 0.5 and visible, got %v hidden=%v", l.Depth, l.Opacity, l.Hidden)
			}
		case "Ground":
			if !l.Hidden {
				t.Fatalf("expected ground to be hidden")
			}
		}
	}
}

func TestSpawnLevelOffsetTilesOverflow(t *testing.T) {
	p := testProject()
	level := ldtk.Level{
		Identifier: "Offsets",
		PxWid:      32,
		PxHei:      32,
		LayerInstances: []ldtk.LayerInstance{
			{
				Identifier: "Auto",
				Type:       ldtk.LayerAutoLayer,
				CWid:       2, CHei: 2, GridSize: 16,
				TilesetDefUID: intPtr(3),
				AutoLayerTiles: []ldtk.TileInstance{
					{Px: [2]int{0, 0}, T: 1},
					{Px: [2]int{4, 0}, T: 2},
				},
			},
		},
	}

	plan, err := NewSpawner(ldtk.NewIndex(&p.Defs), nil).SpawnLevel(&level)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(plan.Layers) != 2 {
		t.Fatalf("expected 2 sub-layers, got %d", len(plan.Layers))
	}
	for i, want := range []int{1, 2} {
		l := plan.Layers[i]
		if l.Depth != i || l.Partition != i {
			t.Fatalf("sub-layer %d: depth=%d partition=%d", i, l.Depth, l.Partition)
		}
		if len(l.Tiles) != 1 || l.Tiles[TilePos{0, 1}].TextureIndex != want {
			t.Fatalf("sub-layer %d: unexpected tiles %+v", i, l.Tiles)
		}
	}
}
