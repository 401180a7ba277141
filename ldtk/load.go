package ldtk

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DecodeProject reads an .ldtk project.
func DecodeProject(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("ldtk: decode project: %w", err)
	}
	return &p, nil
}

// LoadProject reads the project at path and, when the project stores its
// levels in separate files, the external levels next to it.
func LoadProject(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ldtk: open project: %w", err)
	}
	defer f.Close()

	p, err := DecodeProject(f)
	if err != nil {
		return nil, err
	}
	if p.ExternalLevels {
		if err := LoadExternalLevels(p, filepath.Dir(path)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LoadExternalLevels replaces every level that has an externalRelPath with
// the level decoded from that file, resolved against baseDir.
func LoadExternalLevels(p *Project, baseDir string) error {
	for i := range p.Levels {
		rel := p.Levels[i].ExternalRelPath
		if rel == nil || *rel == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(*rel)))
		if err != nil {
			return fmt.Errorf("ldtk: read level %s: %w", p.Levels[i].Identifier, err)
		}
		var lvl Level
		if err := json.Unmarshal(data, &lvl); err != nil {
			return fmt.Errorf("ldtk: unmarshal level %s: %w", p.Levels[i].Identifier, err)
		}
		lvl.ExternalRelPath = rel
		p.Levels[i] = lvl
	}
	return nil
}
