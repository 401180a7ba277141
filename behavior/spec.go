package behavior

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is a behavior registry file.
//
//	default:
//	  kind: default
//	entities:
//	  - layer: Entities
//	    identifier: Player
//	    kind: tag
//	    tags: [player]
//	int_cells:
//	  - layer: Collisions
//	    value: 1
//	    kind: collider
type Spec struct {
	Default  *BehaviorSpec `yaml:"default"`
	Entities []EntitySpec  `yaml:"entities"`
	IntCells []IntCellSpec `yaml:"int_cells"`
}

type BehaviorSpec struct {
	Kind     string         `yaml:"kind"`
	Name     string         `yaml:"name"`
	Tags     []string       `yaml:"tags"`
	Fields   map[string]any `yaml:"fields"`
	Friction *float64       `yaml:"friction"`
	Sensor   bool           `yaml:"sensor"`
	Sprite   *SpriteSpec    `yaml:"sprite"`
	Script   string         `yaml:"script"`
}

type SpriteSpec struct {
	Tileset int `yaml:"tileset"`
	Tile    int `yaml:"tile"`
}

type EntitySpec struct {
	Layer        string `yaml:"layer"`
	Identifier   string `yaml:"identifier"`
	BehaviorSpec `yaml:",inline"`
}

type IntCellSpec struct {
	Layer        string `yaml:"layer"`
	Value        int    `yaml:"value"`
	BehaviorSpec `yaml:",inline"`
}

func LoadSpec[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("behavior: load %s: %w", path, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("behavior: unmarshal %s: %w", path, err)
	}
	return spec, nil
}

func DecodeSpec(data []byte) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("behavior: unmarshal spec: %w", err)
	}
	return spec, nil
}
