package behavior

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/ldtkscene/scene"
)

// Script runs a .tengo or .lua file for every placement it is attached to.
// The script reads the global ctx and assigns the global output:
//
//	output = {kind: "chest", tags: ["loot"], fields: {gold: 10}, solid: false}
//
// Keys left out of output keep the default behavior's values.
type Script struct {
	Path   string
	engine scriptEngine
}

type scriptEngine interface {
	run(ctx map[string]any) (map[string]any, error)
}

// LoadScript compiles the script at path. The engine is picked by
// extension.
func LoadScript(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("behavior: read script %s: %w", path, err)
	}

	var engine scriptEngine
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tengo":
		engine, err = compileTengo(src)
	case ".lua":
		engine, err = compileLua(src, path)
	default:
		return nil, fmt.Errorf("behavior: unsupported script type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("behavior: compile %s: %w", path, err)
	}
	return &Script{Path: path, engine: engine}, nil
}

func (s *Script) Spawn(ctx scene.SpawnContext) (scene.Output, error) {
	out, err := scene.DefaultBehavior{}.Spawn(ctx)
	if err != nil {
		return scene.Output{}, err
	}
	result, err := s.engine.run(scriptContext(ctx))
	if err != nil {
		return scene.Output{}, fmt.Errorf("behavior: script %s: %w", s.Path, err)
	}
	if err := applyScriptOutput(&out, result); err != nil {
		return scene.Output{}, fmt.Errorf("behavior: script %s: %w", s.Path, err)
	}
	return out, nil
}

func scriptContext(ctx scene.SpawnContext) map[string]any {
	m := map[string]any{
		"x": ctx.Transform.Translation.X,
		"y": ctx.Transform.Translation.Y,
		"z": ctx.Transform.Translation.Z,
	}
	if ctx.Level != nil {
		m["level"] = ctx.Level.Identifier
	}
	if ctx.Layer != nil {
		m["layer"] = ctx.Layer.Identifier
		m["grid_size"] = ctx.Layer.GridSize
	}
	if ctx.Tileset != nil {
		m["tileset"] = ctx.Tileset.Identifier
	}
	if ctx.Entity != nil {
		fields := make(map[string]any, len(ctx.Entity.FieldInstances))
		for _, f := range ctx.Entity.FieldInstances {
			fields[f.Identifier] = f.Value
		}
		m["identifier"] = ctx.Entity.Identifier
		m["iid"] = ctx.Entity.IID
		m["width"] = ctx.Entity.Width
		m["height"] = ctx.Entity.Height
		m["fields"] = fields
	}
	if ctx.Cell != nil {
		m["value"] = ctx.Cell.Value
		m["index"] = ctx.Cell.Index
		m["column"] = ctx.Cell.Pos.X
		m["row"] = ctx.Cell.Pos.Y
	}
	return m
}

func applyScriptOutput(out *scene.Output, result map[string]any) error {
	if result == nil {
		return nil
	}
	if v, ok := result["kind"]; ok {
		kind, ok := v.(string)
		if !ok {
			return fmt.Errorf("output.kind must be a string, got %T", v)
		}
		out.Kind = kind
	}
	if v, ok := result["tags"]; ok {
		tags, ok := v.([]any)
		if !ok && !isEmptyContainer(v) {
			return fmt.Errorf("output.tags must be an array, got %T", v)
		}
		for _, tag := range tags {
			s, ok := tag.(string)
			if !ok {
				return fmt.Errorf("output.tags must hold strings, got %T", tag)
			}
			out.Tags = append(out.Tags, s)
		}
	}
	if v, ok := result["fields"]; ok {
		fields, ok := v.(map[string]any)
		if !ok && !isEmptyContainer(v) {
			return fmt.Errorf("output.fields must be a map, got %T", v)
		}
		if out.Fields == nil {
			out.Fields = make(map[string]any, len(fields))
		}
		for k, f := range fields {
			out.Fields[k] = f
		}
	}
	if v, ok := result["solid"]; ok {
		solid, ok := v.(bool)
		if !ok {
			return fmt.Errorf("output.solid must be a bool, got %T", v)
		}
		out.Solid = solid
	}
	return nil
}

// isEmptyContainer accepts {} for either an array or a map; Lua cannot
// tell the two apart.
func isEmptyContainer(v any) bool {
	switch x := v.(type) {
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
