package scene

import (
	"fmt"

	"github.com/milk9111/ldtkscene/ldtk"
)

// TilePos is a cell coordinate inside a layer. Row 0 is the bottom row of
// render space, so it is the last row of the LDtk file.
type TilePos struct {
	X int
	Y int
}

type Vec2 struct {
	X float64
	Y float64
}

type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vec2) Extend(z float64) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: z}
}

// Div divides componentwise. Zero components of d leave v unchanged.
func (v Vec3) Div(d Vec3) Vec3 {
	out := v
	if d.X != 0 {
		out.X /= d.X
	}
	if d.Y != 0 {
		out.Y /= d.Y
	}
	if d.Z != 0 {
		out.Z /= d.Z
	}
	return out
}

// Transform is a placement in render space, y pointing up.
type Transform struct {
	Translation Vec3
	Scale       Vec3
}

func IdentityTransform() Transform {
	return Transform{Scale: Vec3{X: 1, Y: 1, Z: 1}}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// PixelToTilePos converts the top-left pixel of a tile into its cell,
// flipping the row so it counts from the bottom of the layer.
func PixelToTilePos(px [2]int, gridSize, layerHeight int) (TilePos, error) {
	if gridSize <= 0 {
		return TilePos{}, fmt.Errorf("%w: %d", ErrInvalidGridSize, gridSize)
	}
	return TilePos{
		X: floorDiv(px[0], gridSize),
		Y: layerHeight - floorDiv(px[1], gridSize) - 1,
	}, nil
}

// IntGridIndexToTilePos decodes a row-major int grid index.
func IntGridIndexToTilePos(index, width, height int) (TilePos, bool) {
	if width <= 0 || height <= 0 || index < 0 || index >= width*height {
		return TilePos{}, false
	}
	x := index % width
	invertedY := index / width
	return TilePos{X: x, Y: height - invertedY - 1}, true
}

// TilePosToIntGridIndex is the inverse of IntGridIndexToTilePos.
func TilePosToIntGridIndex(pos TilePos, width, height int) (int, bool) {
	if pos.X < 0 || pos.X >= width || pos.Y < 0 || pos.Y >= height {
		return 0, false
	}
	return (height-pos.Y-1)*width + pos.X, true
}

// TilePosToTranslationCentered returns the center of the cell in layer
// pixel space.
func TilePosToTranslationCentered(pos TilePos, cellSize int) Vec2 {
	size := float64(cellSize)
	return Vec2{
		X: size*float64(pos.X) + size/2,
		Y: size*float64(pos.Y) + size/2,
	}
}

// EntityTransform places an entity in level space. The entity's px is its
// pivot point; the translation is moved to the center of its bounds and y
// is flipped against the level height.
func EntityTransform(e *ldtk.EntityInstance, index *ldtk.Index, levelHeight int, z float64) (Transform, error) {
	def, ok := index.Entity(e.DefUID)
	if !ok {
		return Transform{}, fmt.Errorf("%w: uid %d (%s)", ErrMissingEntityDefinition, e.DefUID, e.Identifier)
	}

	size := Vec2{X: float64(e.Width), Y: float64(e.Height)}
	pivot := Vec2{X: float64(e.Px[0]), Y: float64(levelHeight - e.Px[1])}
	offset := Vec2{
		X: size.X * (0.5 - e.Pivot[0]),
		Y: size.Y * (e.Pivot[1] - 0.5),
	}

	scale := Vec3{X: 1, Y: 1, Z: 1}
	if def.Width != 0 {
		scale.X = size.X / float64(def.Width)
	}
	if def.Height != 0 {
		scale.Y = size.Y / float64(def.Height)
	}

	return Transform{
		Translation: Vec3{X: pivot.X + offset.X, Y: pivot.Y + offset.Y, Z: z},
		Scale:       scale,
	}, nil
}
