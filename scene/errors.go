package scene

import "errors"

var (
	ErrInvalidGridSize         = errors.New("scene: grid size must be positive")
	ErrIntGridIndexOutOfBounds = errors.New("scene: int grid index out of bounds")
	ErrMissingTileset          = errors.New("scene: tileset definition not found")
	ErrMissingEntityDefinition = errors.New("scene: entity definition not found")
	ErrTileCollision           = errors.New("scene: two tiles on one position")
)
