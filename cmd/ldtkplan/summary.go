package main

import (
	"github.com/milk9111/ldtkscene/physics"
	"github.com/milk9111/ldtkscene/scene"
)

type levelSummary struct {
	Level     string            `yaml:"level"`
	IID       string            `yaml:"iid"`
	UID       int               `yaml:"uid"`
	Size      [2]int            `yaml:"size,flow"`
	World     [2]int            `yaml:"world,flow"`
	Tiles     int               `yaml:"tiles"`
	Layers    []layerSummary    `yaml:"layers"`
	Entities  []entitySummary   `yaml:"entities,omitempty"`
	Colliders []colliderSummary `yaml:"colliders,omitempty"`
}

type layerSummary struct {
	Depth      int        `yaml:"depth"`
	Identifier string     `yaml:"identifier"`
	Type       string     `yaml:"type"`
	Partition  int        `yaml:"partition"`
	Tileset    string     `yaml:"tileset,omitempty"`
	Tiles      int        `yaml:"tiles"`
	Cells      int        `yaml:"cells,omitempty"`
	Offset     [2]float64 `yaml:"offset,flow"`
	Scale      [2]float64 `yaml:"scale,flow"`
}

type entitySummary struct {
	Depth      int            `yaml:"depth"`
	Layer      string         `yaml:"layer"`
	Identifier string         `yaml:"identifier"`
	IID        string         `yaml:"iid"`
	Position   [3]float64     `yaml:"position,flow"`
	Scale      [2]float64     `yaml:"scale,flow"`
	Kind       string         `yaml:"kind"`
	Tags       []string       `yaml:"tags,omitempty,flow"`
	Fields     map[string]any `yaml:"fields,omitempty"`
}

type colliderSummary struct {
	Layer  string     `yaml:"layer"`
	Box    [4]float64 `yaml:"box,flow"`
	Sensor bool       `yaml:"sensor,omitempty"`
}

func summarize(plan *scene.Plan, withColliders bool) levelSummary {
	s := levelSummary{
		Level: plan.Level,
		IID:   plan.LevelIID,
		UID:   plan.LevelUID,
		Size:  [2]int{plan.PxWid, plan.PxHei},
		World: [2]int{plan.WorldX, plan.WorldY},
		Tiles: plan.TileCount(),
	}

	for i := range plan.Layers {
		l := &plan.Layers[i]
		ls := layerSummary{
			Depth:      l.Depth,
			Identifier: l.Identifier,
			Type:       string(l.Type),
			Partition:  l.Partition,
			Tiles:      len(l.Tiles),
			Cells:      len(l.Cells),
			Offset:     [2]float64{l.Transform.Translation.X, l.Transform.Translation.Y},
			Scale:      [2]float64{l.Transform.Scale.X, l.Transform.Scale.Y},
		}
		if l.Bound() {
			ls.Tileset = l.Tileset.Identifier
		}
		s.Layers = append(s.Layers, ls)
	}

	for i := range plan.Entities {
		e := &plan.Entities[i]
		t := e.Transform
		s.Entities = append(s.Entities, entitySummary{
			Depth:      e.Depth,
			Layer:      e.Layer,
			Identifier: e.Entity.Identifier,
			IID:        e.Entity.IID,
			Position:   [3]float64{t.Translation.X, t.Translation.Y, t.Translation.Z},
			Scale:      [2]float64{t.Scale.X, t.Scale.Y},
			Kind:       e.Output.Kind,
			Tags:       e.Output.Tags,
			Fields:     e.Output.Fields,
		})
	}

	if withColliders {
		_, colliders := physics.BuildSpace(plan)
		for _, c := range colliders {
			s.Colliders = append(s.Colliders, colliderSummary{
				Layer:  c.Layer,
				Box:    [4]float64{c.BB.L, c.BB.B, c.BB.R, c.BB.T},
				Sensor: c.Sensor,
			})
		}
	}
	return s
}
