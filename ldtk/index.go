package ldtk

// Index maps definition uids to definitions. Build it once per loaded
// project and share it read-only between spawn passes.
type Index struct {
	tilesets map[int]*TilesetDefinition
	entities map[int]*EntityDefinition
}

func NewIndex(defs *Defs) *Index {
	idx := &Index{
		tilesets: make(map[int]*TilesetDefinition, len(defs.Tilesets)),
		entities: make(map[int]*EntityDefinition, len(defs.Entities)),
	}
	for i := range defs.Tilesets {
		idx.tilesets[defs.Tilesets[i].UID] = &defs.Tilesets[i]
	}
	for i := range defs.Entities {
		idx.entities[defs.Entities[i].UID] = &defs.Entities[i]
	}
	return idx
}

func (idx *Index) Tileset(uid int) (*TilesetDefinition, bool) {
	if idx == nil {
		return nil, false
	}
	t, ok := idx.tilesets[uid]
	return t, ok
}

func (idx *Index) Entity(uid int) (*EntityDefinition, bool) {
	if idx == nil {
		return nil, false
	}
	e, ok := idx.entities[uid]
	return e, ok
}

// Tilesets returns every tileset definition, unordered.
func (idx *Index) Tilesets() []*TilesetDefinition {
	if idx == nil {
		return nil
	}
	out := make([]*TilesetDefinition, 0, len(idx.tilesets))
	for _, t := range idx.tilesets {
		out = append(out, t)
	}
	return out
}
