package ldtk

// LayerType is the __type of a layer instance.
type LayerType string

const (
	LayerEntities  LayerType = "Entities"
	LayerTiles     LayerType = "Tiles"
	LayerAutoLayer LayerType = "AutoLayer"
	LayerIntGrid   LayerType = "IntGrid"
)

// Project is the root of an .ldtk file.
type Project struct {
	JSONVersion    string  `json:"jsonVersion"`
	ExternalLevels bool    `json:"externalLevels"`
	BgColor        string  `json:"bgColor"`
	Defs           Defs    `json:"defs"`
	Levels         []Level `json:"levels"`
}

type Defs struct {
	Tilesets []TilesetDefinition `json:"tilesets"`
	Entities []EntityDefinition  `json:"entities"`
}

type TilesetDefinition struct {
	UID          int     `json:"uid"`
	Identifier   string  `json:"identifier"`
	RelPath      *string `json:"relPath"`
	PxWid        int     `json:"pxWid"`
	PxHei        int     `json:"pxHei"`
	TileGridSize int     `json:"tileGridSize"`
	Spacing      int     `json:"spacing"`
	Padding      int     `json:"padding"`
}

type EntityDefinition struct {
	UID        int     `json:"uid"`
	Identifier string  `json:"identifier"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PivotX     float64 `json:"pivotX"`
	PivotY     float64 `json:"pivotY"`
	Color      string  `json:"color"`
	TilesetID  *int    `json:"tilesetId"`
	TileID     *int    `json:"tileId"`
}

// Level holds its layers bottom-most last, the way LDtk writes them.
// LayerInstances is nil for levels saved in separate files until
// LoadExternalLevels fills them in.
type Level struct {
	Identifier      string          `json:"identifier"`
	IID             string          `json:"iid"`
	UID             int             `json:"uid"`
	PxWid           int             `json:"pxWid"`
	PxHei           int             `json:"pxHei"`
	WorldX          int             `json:"worldX"`
	WorldY          int             `json:"worldY"`
	BgColor         string          `json:"__bgColor"`
	LayerInstances  []LayerInstance `json:"layerInstances"`
	ExternalRelPath *string         `json:"externalRelPath"`
}

type LayerInstance struct {
	Identifier      string           `json:"__identifier"`
	Type            LayerType        `json:"__type"`
	CWid            int              `json:"__cWid"`
	CHei            int              `json:"__cHei"`
	GridSize        int              `json:"__gridSize"`
	Opacity         float64          `json:"__opacity"`
	PxTotalOffsetX  int              `json:"__pxTotalOffsetX"`
	PxTotalOffsetY  int              `json:"__pxTotalOffsetY"`
	TilesetDefUID   *int             `json:"__tilesetDefUid"`
	TilesetRelPath  *string          `json:"__tilesetRelPath"`
	LayerDefUID     int              `json:"layerDefUid"`
	Visible         bool             `json:"visible"`
	IntGridCSV      []int            `json:"intGridCsv"`
	GridTiles       []TileInstance   `json:"gridTiles"`
	AutoLayerTiles  []TileInstance   `json:"autoLayerTiles"`
	EntityInstances []EntityInstance `json:"entityInstances"`
}

// TileInstance is one tile of a Tiles or AutoLayer list. F is the flip
// code: bit 0 mirrors on x, bit 1 on y.
type TileInstance struct {
	Px  [2]int `json:"px"`
	Src [2]int `json:"src"`
	F   int    `json:"f"`
	T   int    `json:"t"`
	D   []int  `json:"d"`
}

type TilesetRect struct {
	TilesetUID int `json:"tilesetUid"`
	X          int `json:"x"`
	Y          int `json:"y"`
	W          int `json:"w"`
	H          int `json:"h"`
}

type FieldInstance struct {
	Identifier string `json:"__identifier"`
	Type       string `json:"__type"`
	Value      any    `json:"__value"`
}

type EntityInstance struct {
	Identifier     string          `json:"__identifier"`
	IID            string          `json:"iid"`
	DefUID         int             `json:"defUid"`
	Px             [2]int          `json:"px"`
	Grid           [2]int          `json:"__grid"`
	Pivot          [2]float64      `json:"__pivot"`
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	Tile           *TilesetRect    `json:"__tile"`
	FieldInstances []FieldInstance `json:"fieldInstances"`
}

// Tiles returns the manual tiles followed by the auto-layer tiles.
func (l *LayerInstance) Tiles() []TileInstance {
	tiles := make([]TileInstance, 0, len(l.GridTiles)+len(l.AutoLayerTiles))
	tiles = append(tiles, l.GridTiles...)
	return append(tiles, l.AutoLayerTiles...)
}

// Field returns the value of the named field instance.
func (e *EntityInstance) Field(identifier string) (any, bool) {
	for _, f := range e.FieldInstances {
		if f.Identifier == identifier {
			return f.Value, true
		}
	}
	return nil, false
}
