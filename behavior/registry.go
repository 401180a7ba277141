package behavior

import (
	"fmt"
	"path/filepath"

	"github.com/milk9111/ldtkscene/scene"
)

// New builds one behavior. Script paths are resolved against baseDir.
func New(spec BehaviorSpec, baseDir string) (scene.Behavior, error) {
	kind, err := ParseKind(spec.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindDefault:
		return scene.DefaultBehavior{}, nil
	case KindTag:
		return Tag{Name: spec.Name, Tags: spec.Tags, Fields: spec.Fields}, nil
	case KindCollider:
		return Collider{Name: spec.Name, Friction: spec.Friction, Sensor: spec.Sensor}, nil
	case KindSprite:
		if spec.Sprite == nil {
			return nil, fmt.Errorf("behavior: sprite behavior needs a sprite block")
		}
		return Sprite{Name: spec.Name, TilesetUID: spec.Sprite.Tileset, TileID: spec.Sprite.Tile}, nil
	case KindScript:
		if spec.Script == "" {
			return nil, fmt.Errorf("behavior: script behavior needs a script path")
		}
		script, err := LoadScript(resolveScript(spec.Script, baseDir))
		if err != nil {
			return nil, err
		}
		return script, nil
	}
	return nil, fmt.Errorf("behavior: unhandled kind %q", kind)
}

// Build turns a registry file into a scene.Registry. A key listed twice
// is an error.
func Build(spec Spec, baseDir string) (*scene.Registry, error) {
	registry := scene.NewRegistry()

	if spec.Default != nil {
		b, err := New(*spec.Default, baseDir)
		if err != nil {
			return nil, fmt.Errorf("behavior: default: %w", err)
		}
		registry.SetDefault(b)
	}

	type entityKey struct{ layer, identifier string }
	seenEntities := make(map[entityKey]bool, len(spec.Entities))
	for i, e := range spec.Entities {
		if e.Layer == "" || e.Identifier == "" {
			return nil, fmt.Errorf("behavior: entities[%d]: layer and identifier are required", i)
		}
		key := entityKey{e.Layer, e.Identifier}
		if seenEntities[key] {
			return nil, fmt.Errorf("behavior: entities[%d]: %s/%s registered twice", i, e.Layer, e.Identifier)
		}
		seenEntities[key] = true

		b, err := New(e.BehaviorSpec, baseDir)
		if err != nil {
			return nil, fmt.Errorf("behavior: entities[%d] %s/%s: %w", i, e.Layer, e.Identifier, err)
		}
		registry.RegisterEntity(e.Layer, e.Identifier, b)
	}

	type cellKey struct {
		layer string
		value int
	}
	seenCells := make(map[cellKey]bool, len(spec.IntCells))
	for i, c := range spec.IntCells {
		if c.Layer == "" {
			return nil, fmt.Errorf("behavior: int_cells[%d]: layer is required", i)
		}
		key := cellKey{c.Layer, c.Value}
		if seenCells[key] {
			return nil, fmt.Errorf("behavior: int_cells[%d]: %s/%d registered twice", i, c.Layer, c.Value)
		}
		seenCells[key] = true

		b, err := New(c.BehaviorSpec, baseDir)
		if err != nil {
			return nil, fmt.Errorf("behavior: int_cells[%d] %s/%d: %w", i, c.Layer, c.Value, err)
		}
		registry.RegisterIntCell(c.Layer, c.Value, b)
	}

	return registry, nil
}

// LoadRegistry reads and builds the registry file at path. Scripts are
// looked up next to it.
func LoadRegistry(path string) (*scene.Registry, error) {
	spec, err := LoadSpec[Spec](path)
	if err != nil {
		return nil, err
	}
	return Build(spec, filepath.Dir(path))
}

// ScriptPaths lists the script files spec refers to, resolved like Build
// resolves them.
func ScriptPaths(spec Spec, baseDir string) []string {
	var paths []string
	add := func(b BehaviorSpec) {
		if b.Script == "" {
			return
		}
		if kind, err := ParseKind(b.Kind); err != nil || kind != KindScript {
			return
		}
		paths = append(paths, resolveScript(b.Script, baseDir))
	}
	if spec.Default != nil {
		add(*spec.Default)
	}
	for _, e := range spec.Entities {
		add(e.BehaviorSpec)
	}
	for _, c := range spec.IntCells {
		add(c.BehaviorSpec)
	}
	return paths
}

func resolveScript(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, filepath.FromSlash(path))
}
