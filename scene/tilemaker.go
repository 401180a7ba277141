package scene

import (
	"fmt"

	"github.com/milk9111/ldtkscene/ldtk"
)

// VisualTile is what a renderer needs to draw one cell.
type VisualTile struct {
	TextureIndex int
	FlipX        bool
	FlipY        bool
	Visible      bool
}

// TileMaker returns the tile for a position, if the layer has one there.
type TileMaker func(pos TilePos) (VisualTile, bool)

// DecodeFlip splits an LDtk flip code. Unknown codes mean no flip.
func DecodeFlip(f int) (flipX, flipY bool) {
	switch f {
	case 1:
		return true, false
	case 2:
		return false, true
	case 3:
		return true, true
	}
	return false, false
}

// BuildTileLookup maps every tile to its cell. The tiles must not share a
// cell; run PartitionTilesByCell first.
func BuildTileLookup(tiles []ldtk.TileInstance, layerHeight, gridSize int) (map[TilePos]VisualTile, error) {
	lookup := make(map[TilePos]VisualTile, len(tiles))
	for _, t := range tiles {
		pos, err := PixelToTilePos(t.Px, gridSize, layerHeight)
		if err != nil {
			return nil, err
		}
		if _, dup := lookup[pos]; dup {
			return nil, fmt.Errorf("%w: cell (%d,%d) from px (%d,%d)", ErrTileCollision, pos.X, pos.Y, t.Px[0], t.Px[1])
		}
		flipX, flipY := DecodeFlip(t.F)
		lookup[pos] = VisualTile{
			TextureIndex: t.T,
			FlipX:        flipX,
			FlipY:        flipY,
			Visible:      true,
		}
	}
	return lookup, nil
}

// LookupTileMaker serves tiles out of a lookup built by BuildTileLookup.
func LookupTileMaker(lookup map[TilePos]VisualTile) TileMaker {
	return func(pos TilePos) (VisualTile, bool) {
		tile, ok := lookup[pos]
		return tile, ok
	}
}

// InvisibleTileMaker puts a hidden tile everywhere. IntGrid layers without
// a tileset use it so every set cell still has a tile.
func InvisibleTileMaker(TilePos) (VisualTile, bool) {
	return VisualTile{}, true
}

// IntGridNonZeroMaker limits maker to the cells whose int grid value is
// not zero.
func IntGridNonZeroMaker(maker TileMaker, csv []int, width, height int) (TileMaker, error) {
	nonZero := make(map[TilePos]bool, len(csv))
	for i, v := range csv {
		pos, ok := IntGridIndexToTilePos(i, width, height)
		if !ok {
			return nil, fmt.Errorf("%w: index %d in %dx%d layer", ErrIntGridIndexOutOfBounds, i, width, height)
		}
		nonZero[pos] = v != 0
	}
	return func(pos TilePos) (VisualTile, bool) {
		if !nonZero[pos] {
			return VisualTile{}, false
		}
		return maker(pos)
	}, nil
}

// MaterializeTiles asks maker about every cell of a width x height layer.
func MaterializeTiles(maker TileMaker, width, height int) map[TilePos]VisualTile {
	tiles := make(map[TilePos]VisualTile)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := TilePos{X: x, Y: y}
			if tile, ok := maker(pos); ok {
				tiles[pos] = tile
			}
		}
	}
	return tiles
}
