package behavior

import (
	"maps"

	"github.com/milk9111/ldtkscene/scene"
)

// Tag keeps the default output and adds a kind, tags and fixed fields.
type Tag struct {
	Name   string
	Tags   []string
	Fields map[string]any
}

func (t Tag) Spawn(ctx scene.SpawnContext) (scene.Output, error) {
	out, err := scene.DefaultBehavior{}.Spawn(ctx)
	if err != nil {
		return scene.Output{}, err
	}
	if t.Name != "" {
		out.Kind = t.Name
	}
	out.Tags = append(out.Tags, t.Tags...)
	if len(t.Fields) > 0 {
		if out.Fields == nil {
			out.Fields = make(map[string]any, len(t.Fields))
		}
		maps.Copy(out.Fields, t.Fields)
	}
	return out, nil
}

// Collider marks the placement as part of the level's static collision.
// A nil Friction leaves the field unset so consumers apply their default.
type Collider struct {
	Name     string
	Friction *float64
	Sensor   bool
}

func (c Collider) Spawn(ctx scene.SpawnContext) (scene.Output, error) {
	out, err := scene.DefaultBehavior{}.Spawn(ctx)
	if err != nil {
		return scene.Output{}, err
	}
	out.Kind = string(KindCollider)
	if c.Name != "" {
		out.Kind = c.Name
	}
	out.Solid = true
	if out.Fields == nil {
		out.Fields = make(map[string]any, 2)
	}
	if c.Friction != nil {
		out.Fields["friction"] = *c.Friction
	}
	out.Fields["sensor"] = c.Sensor
	return out, nil
}

// Sprite swaps the placement's visual for a tile of another tileset.
type Sprite struct {
	Name       string
	TilesetUID int
	TileID     int
}

func (s Sprite) Spawn(ctx scene.SpawnContext) (scene.Output, error) {
	out, err := scene.DefaultBehavior{}.Spawn(ctx)
	if err != nil {
		return scene.Output{}, err
	}
	out.Kind = string(KindSprite)
	if s.Name != "" {
		out.Kind = s.Name
	}
	out.Sprite = &scene.SpriteRef{TilesetUID: s.TilesetUID, TileID: s.TileID}
	return out, nil
}
