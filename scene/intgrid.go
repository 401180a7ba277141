package scene

import "fmt"

// IntGridCell is a set cell of an IntGrid layer.
type IntGridCell struct {
	Index int
	Pos   TilePos
	Value int
}

// NonZeroCells lists the set cells of an int grid in csv order.
func NonZeroCells(csv []int, width, height int) ([]IntGridCell, error) {
	var cells []IntGridCell
	for i, v := range csv {
		if v == 0 {
			continue
		}
		pos, ok := IntGridIndexToTilePos(i, width, height)
		if !ok {
			return nil, fmt.Errorf("%w: index %d in %dx%d layer", ErrIntGridIndexOutOfBounds, i, width, height)
		}
		cells = append(cells, IntGridCell{Index: i, Pos: pos, Value: v})
	}
	return cells, nil
}
