package scene

import (
	"context"
	"fmt"

	"github.com/milk9111/ldtkscene/ldtk"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Spawner turns levels into plans. The index and registry are shared and
// must not change while a pass runs; SpawnLevel itself keeps no state, so
// several levels can be spawned at once.
type Spawner struct {
	index    *ldtk.Index
	registry *Registry
	log      *zap.Logger
}

type Option func(*Spawner)

func WithLogger(log *zap.Logger) Option {
	return func(s *Spawner) {
		if log != nil {
			s.log = log
		}
	}
}

func NewSpawner(index *ldtk.Index, registry *Registry, opts ...Option) *Spawner {
	if registry == nil {
		registry = NewRegistry()
	}
	s := &Spawner{
		index:    index,
		registry: registry,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SpawnLevel builds the plan for one level. Any contract violation in the
// level data aborts the whole pass.
func (s *Spawner) SpawnLevel(level *ldtk.Level) (*Plan, error) {
	plan := &Plan{
		Level:    level.Identifier,
		LevelIID: level.IID,
		LevelUID: level.UID,
		PxWid:    level.PxWid,
		PxHei:    level.PxHei,
		WorldX:   level.WorldX,
		WorldY:   level.WorldY,
	}

	depth := 0
	for i := len(level.LayerInstances) - 1; i >= 0; i-- {
		layer := &level.LayerInstances[i]
		var err error
		if layer.Type == ldtk.LayerEntities {
			err = s.spawnEntities(plan, level, layer, depth)
		} else {
			depth, err = s.spawnTiles(plan, level, layer, i, depth)
		}
		if err != nil {
			return nil, fmt.Errorf("level %s: layer %s: %w", level.Identifier, layer.Identifier, err)
		}
	}

	s.log.Debug("spawned level",
		zap.String("level", level.Identifier),
		zap.Int("layers", len(plan.Layers)),
		zap.Int("entities", len(plan.Entities)),
		zap.Int("tiles", plan.TileCount()),
	)
	return plan, nil
}

func (s *Spawner) spawnEntities(plan *Plan, level *ldtk.Level, layer *ldtk.LayerInstance, depth int) error {
	for i := range layer.EntityInstances {
		ent := &layer.EntityInstances[i]

		// Layer offsets do not move entities in the editor, so none is added.
		transform, err := EntityTransform(ent, s.index, level.PxHei, float64(depth))
		if err != nil {
			return err
		}

		var tileset *ldtk.TilesetDefinition
		if ent.Tile != nil {
			ts, ok := s.index.Tileset(ent.Tile.TilesetUID)
			if !ok {
				return fmt.Errorf("%w: uid %d referenced by entity %s", ErrMissingTileset, ent.Tile.TilesetUID, ent.Identifier)
			}
			tileset = ts
		}

		out, err := s.registry.ResolveEntity(layer.Identifier, ent.Identifier).Spawn(SpawnContext{
			Level:     level,
			Layer:     layer,
			Tileset:   tileset,
			Entity:    ent,
			Transform: transform,
		})
		if err != nil {
			return fmt.Errorf("entity %s: %w", ent.Identifier, err)
		}

		plan.Entities = append(plan.Entities, EntityPlacement{
			Depth:     depth,
			Layer:     layer.Identifier,
			Entity:    ent,
			Tileset:   tileset,
			Transform: transform,
			Output:    out,
		})
	}
	return nil
}

// spawnTiles handles Tiles, AutoLayer and IntGrid layers and returns the
// depth after the sub-layers it emitted.
func (s *Spawner) spawnTiles(plan *Plan, level *ldtk.Level, layer *ldtk.LayerInstance, sourceIndex, depth int) (int, error) {
	var tileset *ldtk.TilesetDefinition
	if layer.TilesetDefUID != nil {
		ts, ok := s.index.Tileset(*layer.TilesetDefUID)
		if !ok {
			return depth, fmt.Errorf("%w: uid %d", ErrMissingTileset, *layer.TilesetDefUID)
		}
		tileset = ts
	}

	tileSize := Vec2{X: float64(layer.GridSize), Y: float64(layer.GridSize)}
	var textureSize Vec2
	spacing := 0
	if tileset != nil {
		tileSize = Vec2{X: float64(tileset.TileGridSize), Y: float64(tileset.TileGridSize)}
		textureSize = Vec2{X: float64(tileset.PxWid), Y: float64(tileset.PxHei)}
		spacing = tileset.Spacing
	}

	// Scaling the whole layer only approximates a tileset whose tiles are
	// not the layer's grid size; spacing between tiles is not reproduced.
	scale := Vec3{X: 1, Y: 1, Z: 1}
	if tileSize.X != 0 && tileSize.Y != 0 {
		scale.X = float64(layer.GridSize) / tileSize.X
		scale.Y = float64(layer.GridSize) / tileSize.Y
	}
	transform := Transform{
		Translation: Vec3{X: float64(layer.PxTotalOffsetX), Y: -float64(layer.PxTotalOffsetY)},
		Scale:       scale,
	}

	partitions, err := PartitionTilesByCell(layer.Tiles(), layer.CHei, layer.GridSize)
	if err != nil {
		return depth, err
	}
	for part, tiles := range partitions {
		var maker TileMaker
		if layer.Type == ldtk.LayerIntGrid && tileset == nil {
			nonZero, err := IntGridNonZeroMaker(InvisibleTileMaker, layer.IntGridCSV, layer.CWid, layer.CHei)
			if err != nil {
				return depth, err
			}
			maker = nonZero
		} else {
			lookup, err := BuildTileLookup(tiles, layer.CHei, layer.GridSize)
			if err != nil {
				return depth, fmt.Errorf("partition %d: %w", part, err)
			}
			maker = LookupTileMaker(lookup)
		}

		placement := LayerPlacement{
			Depth:       depth,
			Identifier:  layer.Identifier,
			Type:        layer.Type,
			SourceIndex: sourceIndex,
			Partition:   part,
			GridWidth:   layer.CWid,
			GridHeight:  layer.CHei,
			GridSize:    layer.GridSize,
			TileSize:    tileSize,
			TextureSize: textureSize,
			Spacing:     spacing,
			Tileset:     tileset,
			Opacity:     layer.Opacity,
			Hidden:      !layer.Visible,
			Tiles:       MaterializeTiles(maker, layer.CWid, layer.CHei),
			Transform:   transform,
		}

		// Cell values belong to the layer, not to a sub-layer, so only the
		// first partition carries them.
		if layer.Type == ldtk.LayerIntGrid && part == 0 {
			cells, err := s.spawnCells(level, layer, tileset, depth, scale)
			if err != nil {
				return depth, err
			}
			placement.Cells = cells
		}

		s.log.Debug("spawned layer",
			zap.String("layer", layer.Identifier),
			zap.String("type", string(layer.Type)),
			zap.Int("depth", depth),
			zap.Int("partition", part),
			zap.Int("tiles", len(placement.Tiles)),
		)
		plan.Layers = append(plan.Layers, placement)
		depth++
	}
	return depth, nil
}

func (s *Spawner) spawnCells(level *ldtk.Level, layer *ldtk.LayerInstance, tileset *ldtk.TilesetDefinition, depth int, layerScale Vec3) ([]IntCellPlacement, error) {
	cells, err := NonZeroCells(layer.IntGridCSV, layer.CWid, layer.CHei)
	if err != nil {
		return nil, err
	}

	placements := make([]IntCellPlacement, 0, len(cells))
	for i := range cells {
		cell := cells[i]
		translation := TilePosToTranslationCentered(cell.Pos, layer.GridSize).Extend(float64(depth)).Div(layerScale)

		out, err := s.registry.ResolveIntCell(layer.Identifier, cell.Value).Spawn(SpawnContext{
			Level:   level,
			Layer:   layer,
			Tileset: tileset,
			Cell:    &cell,
			Transform: Transform{
				Translation: translation,
				Scale:       Vec3{X: 1, Y: 1, Z: 1},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("int grid cell %d: %w", cell.Index, err)
		}

		placements = append(placements, IntCellPlacement{
			Cell:        cell,
			Translation: translation,
			Output:      out,
		})
	}
	return placements, nil
}

// SpawnProject spawns every level of p matched by sel, one pass per level
// in parallel. Plans come back in project order. The first failing pass
// cancels the rest and no plans are returned.
func (s *Spawner) SpawnProject(ctx context.Context, p *ldtk.Project, sel ldtk.LevelSelection) ([]*Plan, error) {
	var selected []*ldtk.Level
	for i := range p.Levels {
		if sel.Match(i, &p.Levels[i]) {
			selected = append(selected, &p.Levels[i])
		}
	}

	plans := make([]*Plan, len(selected))
	g, ctx := errgroup.WithContext(ctx)
	for i, level := range selected {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := s.SpawnLevel(level)
			if err != nil {
				return err
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info("spawned project levels",
		zap.Stringer("selection", sel),
		zap.Int("levels", len(plans)),
	)
	return plans, nil
}
