package scene

import "github.com/milk9111/ldtkscene/ldtk"

// PartitionOverlappingTiles splits tiles into sub-layers with at most one
// tile per pixel position. The first tile seen at a position stays in the
// current partition and later ones move on to the next, keeping their
// relative order. There is always at least one partition, possibly empty.
func PartitionOverlappingTiles(tiles []ldtk.TileInstance) [][]ldtk.TileInstance {
	var partitions [][]ldtk.TileInstance
	remaining := tiles
	for {
		seen := make(map[[2]int]struct{}, len(remaining))
		layer := make([]ldtk.TileInstance, 0, len(remaining))
		var overflow []ldtk.TileInstance
		for _, t := range remaining {
			if _, ok := seen[t.Px]; ok {
				overflow = append(overflow, t)
				continue
			}
			seen[t.Px] = struct{}{}
			layer = append(layer, t)
		}
		partitions = append(partitions, layer)
		if len(overflow) == 0 {
			return partitions
		}
		remaining = overflow
	}
}

// PartitionTilesByCell partitions like PartitionOverlappingTiles and then
// splits every partition again until no two of its tiles land in the same
// grid cell. Auto-layer tiles carrying a pixel offset inside their cell are
// the usual case. Sub-layers keep the order of the pixel partitions.
func PartitionTilesByCell(tiles []ldtk.TileInstance, layerHeight, gridSize int) ([][]ldtk.TileInstance, error) {
	var partitions [][]ldtk.TileInstance
	for _, remaining := range PartitionOverlappingTiles(tiles) {
		for {
			seen := make(map[TilePos]struct{}, len(remaining))
			layer := make([]ldtk.TileInstance, 0, len(remaining))
			var overflow []ldtk.TileInstance
			for _, t := range remaining {
				pos, err := PixelToTilePos(t.Px, gridSize, layerHeight)
				if err != nil {
					return nil, err
				}
				if _, ok := seen[pos]; ok {
					overflow = append(overflow, t)
					continue
				}
				seen[pos] = struct{}{}
				layer = append(layer, t)
			}
			partitions = append(partitions, layer)
			if len(overflow) == 0 {
				break
			}
			remaining = overflow
		}
	}
	return partitions, nil
}
