package ldtk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const projectJSON = `{
	"jsonVersion": "1.5.3",
	"externalLevels": false,
	"defs": {
		"tilesets": [{"uid": 3, "identifier": "Cavern", "relPath": "cavern.png", "pxWid": 256, "pxHei": 128, "tileGridSize": 16, "spacing": 0, "padding": 0}],
		"entities": [{"uid": 7, "identifier": "Player", "width": 16, "height": 32, "pivotX": 0.5, "pivotY": 1}]
	},
	"levels": [{
		"identifier": "Level_0",
		"iid": "a1",
		"uid": 0,
		"pxWid": 64,
		"pxHei": 32,
		"layerInstances": [
			{
				"__identifier": "Entities",
				"__type": "Entities",
				"__cWid": 4, "__cHei": 2, "__gridSize": 16,
				"entityInstances": [{
					"__identifier": "Player", "iid": "p1", "defUid": 7,
					"px": [8, 32], "__grid": [0, 1], "__pivot": [0.5, 1],
					"width": 16, "height": 32,
					"fieldInstances": [{"__identifier": "hp", "__type": "Int", "__value": 3}]
				}]
			},
			{
				"__identifier": "Ground",
				"__type": "IntGrid",
				"__cWid": 4, "__cHei": 2, "__gridSize": 16,
				"__tilesetDefUid": 3,
				"intGridCsv": [0, 0, 0, 0, 1, 1, 1, 1],
				"autoLayerTiles": [{"px": [0, 16], "src": [0, 0], "f": 1, "t": 0, "d": [4]}]
			}
		]
	}]
}`

func TestDecodeProject(t *testing.T) {
	p, err := DecodeProject(strings.NewReader(projectJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Levels) != 1 || len(p.Levels[0].LayerInstances) != 2 {
		t.Fatalf("unexpected shape: %+v", p.Levels)
	}

	ground := p.Levels[0].LayerInstances[1]
	if ground.Type != LayerIntGrid {
		t.Fatalf("expected IntGrid, got %q", ground.Type)
	}
	if ground.TilesetDefUID == nil || *ground.TilesetDefUID != 3 {
		t.Fatalf("expected tileset uid 3, got %v", ground.TilesetDefUID)
	}
	if len(ground.AutoLayerTiles) != 1 || ground.AutoLayerTiles[0].F != 1 {
		t.Fatalf("unexpected auto tiles: %+v", ground.AutoLayerTiles)
	}

	player := p.Levels[0].LayerInstances[0].EntityInstances[0]
	if player.Px != [2]int{8, 32} || player.Pivot != [2]float64{0.5, 1} {
		t.Fatalf("unexpected player placement: %+v", player)
	}
	if hp, ok := player.Field("hp"); !ok || hp.(float64) != 3 {
		t.Fatalf("expected hp field 3, got %v ok=%v", hp, ok)
	}
}

func TestDecodeProjectMalformed(t *testing.T) {
	if _, err := DecodeProject(strings.NewReader("{")); err == nil {
		t.Fatalf("expected error for truncated project")
	}
}

func TestLoadProjectExternalLevels(t *testing.T) {
	dir := t.TempDir()
	project := `{
		"externalLevels": true,
		"defs": {"tilesets": [], "entities": []},
		"levels": [{"identifier": "Level_0", "uid": 0, "externalRelPath": "world/Level_0.ldtkl", "layerInstances": null}]
	}`
	level := `{"identifier": "Level_0", "uid": 0, "pxWid": 32, "pxHei": 32, "layerInstances": [{"__identifier": "Bg", "__type": "Tiles", "__cWid": 2, "__cHei": 2, "__gridSize": 16}]}`

	if err := os.MkdirAll(filepath.Join(dir, "world"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "world.ldtk"), []byte(project), 0o644); err != nil {
		t.Fatalf("write project: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "world", "Level_0.ldtkl"), []byte(level), 0o644); err != nil {
		t.Fatalf("write level: %v", err)
	}

	p, err := LoadProject(filepath.Join(dir, "world.ldtk"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	lvl := p.Levels[0]
	if len(lvl.LayerInstances) != 1 || lvl.LayerInstances[0].Identifier != "Bg" {
		t.Fatalf("external level not loaded: %+v", lvl)
	}
	if lvl.ExternalRelPath == nil || *lvl.ExternalRelPath != "world/Level_0.ldtkl" {
		t.Fatalf("external path should be kept, got %v", lvl.ExternalRelPath)
	}
}

func TestLoadProjectMissingExternalLevel(t *testing.T) {
	dir := t.TempDir()
	project := `{"externalLevels": true, "levels": [{"identifier": "Gone", "externalRelPath": "gone.ldtkl"}]}`
	path := filepath.Join(dir, "world.ldtk")
	if err := os.WriteFile(path, []byte(project), 0o644); err != nil {
		t.Fatalf("write project: %v", err)
	}
	if _, err := LoadProject(path); err == nil {
		t.Fatalf("expected error for missing external level")
	}
}

func TestIndex(t *testing.T) {
	p, err := DecodeProject(strings.NewReader(projectJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	idx := NewIndex(&p.Defs)

	ts, ok := idx.Tileset(3)
	if !ok || ts.Identifier != "Cavern" {
		t.Fatalf("expected Cavern tileset, got %v ok=%v", ts, ok)
	}
	if _, ok := idx.Tileset(4); ok {
		t.Fatalf("unexpected tileset 4")
	}
	if def, ok := idx.Entity(7); !ok || def.Height != 32 {
		t.Fatalf("expected Player definition, got %v ok=%v", def, ok)
	}
	if len(idx.Tilesets()) != 1 {
		t.Fatalf("expected one tileset")
	}

	var nilIdx *Index
	if _, ok := nilIdx.Entity(7); ok {
		t.Fatalf("nil index should not resolve")
	}
}

func TestLayerTilesOrder(t *testing.T) {
	l := LayerInstance{
		GridTiles:      []TileInstance{{T: 1}, {T: 2}},
		AutoLayerTiles: []TileInstance{{T: 3}},
	}
	got := l.Tiles()
	if len(got) != 3 || got[0].T != 1 || got[1].T != 2 || got[2].T != 3 {
		t.Fatalf("expected grid tiles before auto tiles, got %+v", got)
	}
}
