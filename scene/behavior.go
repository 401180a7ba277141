package scene

import "github.com/milk9111/ldtkscene/ldtk"

// SpawnContext is everything a behavior sees about the placement it is
// attached to. Entity is set for entity placements, Cell for int grid
// cells. Tileset is nil when nothing is bound.
type SpawnContext struct {
	Level     *ldtk.Level
	Layer     *ldtk.LayerInstance
	Tileset   *ldtk.TilesetDefinition
	Entity    *ldtk.EntityInstance
	Cell      *IntGridCell
	Transform Transform
}

// SpriteRef points at an alternate visual inside a tileset.
type SpriteRef struct {
	TilesetUID int
	TileID     int
}

// Output is what a behavior attaches to its placement.
type Output struct {
	Kind   string
	Tags   []string
	Fields map[string]any
	Sprite *SpriteRef
	Solid  bool
}

// Behavior produces the extra output for a spawned entity or int grid cell.
type Behavior interface {
	Spawn(ctx SpawnContext) (Output, error)
}

// BehaviorFunc adapts a function to Behavior.
type BehaviorFunc func(ctx SpawnContext) (Output, error)

func (f BehaviorFunc) Spawn(ctx SpawnContext) (Output, error) {
	return f(ctx)
}

const (
	KindEntityInstance = "entity_instance"
	KindIntGridCell    = "int_grid_cell"
)

// DefaultBehavior is used when nothing is registered for a key. Entities
// keep their field instances, cells keep their value.
type DefaultBehavior struct{}

func (DefaultBehavior) Spawn(ctx SpawnContext) (Output, error) {
	if ctx.Cell != nil {
		return Output{
			Kind:   KindIntGridCell,
			Fields: map[string]any{"value": ctx.Cell.Value},
		}, nil
	}
	out := Output{Kind: KindEntityInstance}
	if ctx.Entity != nil && len(ctx.Entity.FieldInstances) > 0 {
		out.Fields = make(map[string]any, len(ctx.Entity.FieldInstances))
		for _, f := range ctx.Entity.FieldInstances {
			out.Fields[f.Identifier] = f.Value
		}
	}
	return out, nil
}

type entityKey struct {
	layer      string
	identifier string
}

type intCellKey struct {
	layer string
	value int
}

// Registry maps (layer identifier, entity identifier) and (layer
// identifier, int grid value) pairs to behaviors. Register everything
// before spawning; spawn passes only read it.
type Registry struct {
	entities map[entityKey]Behavior
	cells    map[intCellKey]Behavior
	fallback Behavior
}

func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[entityKey]Behavior),
		cells:    make(map[intCellKey]Behavior),
		fallback: DefaultBehavior{},
	}
}

func (r *Registry) RegisterEntity(layer, identifier string, b Behavior) {
	if b == nil {
		delete(r.entities, entityKey{layer, identifier})
		return
	}
	r.entities[entityKey{layer, identifier}] = b
}

func (r *Registry) RegisterIntCell(layer string, value int, b Behavior) {
	if b == nil {
		delete(r.cells, intCellKey{layer, value})
		return
	}
	r.cells[intCellKey{layer, value}] = b
}

// SetDefault replaces the fallback behavior. nil restores DefaultBehavior.
func (r *Registry) SetDefault(b Behavior) {
	if b == nil {
		b = DefaultBehavior{}
	}
	r.fallback = b
}

func (r *Registry) Default() Behavior {
	if r == nil || r.fallback == nil {
		return DefaultBehavior{}
	}
	return r.fallback
}

func (r *Registry) ResolveEntity(layer, identifier string) Behavior {
	if r != nil {
		if b, ok := r.entities[entityKey{layer, identifier}]; ok {
			return b
		}
	}
	return r.Default()
}

func (r *Registry) ResolveIntCell(layer string, value int) Behavior {
	if r != nil {
		if b, ok := r.cells[intCellKey{layer, value}]; ok {
			return b
		}
	}
	return r.Default()
}

// Len returns the number of registered entity and cell behaviors.
func (r *Registry) Len() (entities, cells int) {
	if r == nil {
		return 0, 0
	}
	return len(r.entities), len(r.cells)
}
