package main

import (
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/ldtkscene/behavior"
	"github.com/milk9111/ldtkscene/internal/config"
	"github.com/milk9111/ldtkscene/ldtk"
	"github.com/milk9111/ldtkscene/levels"
	"github.com/milk9111/ldtkscene/scene"
)

// source is one load of the project and its behaviors.
type source struct {
	name     string
	project  *ldtk.Project
	registry *scene.Registry
	// open resolves paths relative to the project file.
	open func(rel string) (fs.File, error)
	// watch lists the files a reload depends on; empty for the sample.
	watch []string
}

func loadSource(cfg config.ProjectConfig) (*source, error) {
	if cfg.Path == "" {
		project, err := levels.SampleProject()
		if err != nil {
			return nil, err
		}
		registry, err := levels.SampleRegistry()
		if err != nil {
			return nil, err
		}
		return &source{
			name:     "sample",
			project:  project,
			registry: registry,
			open: func(rel string) (fs.File, error) {
				return levels.FS.Open(filepath.ToSlash(rel))
			},
		}, nil
	}

	project, err := ldtk.LoadProject(cfg.Path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(cfg.Path)
	src := &source{
		name:    filepath.Base(cfg.Path),
		project: project,
		open: func(rel string) (fs.File, error) {
			return os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
		},
		watch: []string{cfg.Path},
	}
	for _, l := range project.Levels {
		if l.ExternalRelPath != nil {
			src.watch = append(src.watch, filepath.Join(dir, filepath.FromSlash(*l.ExternalRelPath)))
		}
	}

	if cfg.Behaviors != "" {
		spec, err := behavior.LoadSpec[behavior.Spec](cfg.Behaviors)
		if err != nil {
			return nil, err
		}
		baseDir := filepath.Dir(cfg.Behaviors)
		registry, err := behavior.Build(spec, baseDir)
		if err != nil {
			return nil, err
		}
		src.registry = registry
		src.watch = append(src.watch, cfg.Behaviors)
		src.watch = append(src.watch, behavior.ScriptPaths(spec, baseDir)...)
	}
	return src, nil
}

// levelIndex returns the first level matched by sel.
func (s *source) levelIndex(sel ldtk.LevelSelection) (int, error) {
	for i := range s.project.Levels {
		if sel.Match(i, &s.project.Levels[i]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no level matches %s", sel)
}

// loadTilesets decodes every tileset image the source can find. A missing
// image is logged and its layers are drawn as outlines.
func (s *source) loadTilesets(log *zap.Logger) map[int]*ebiten.Image {
	images := make(map[int]*ebiten.Image, len(s.project.Defs.Tilesets))
	for _, ts := range s.project.Defs.Tilesets {
		if ts.RelPath == nil || *ts.RelPath == "" {
			continue
		}
		img, err := s.loadImage(*ts.RelPath)
		if err != nil {
			log.Warn("tileset image unavailable",
				zap.String("tileset", ts.Identifier),
				zap.String("path", *ts.RelPath),
				zap.Error(err),
			)
			continue
		}
		images[ts.UID] = img
	}
	return images
}

func (s *source) loadImage(rel string) (*ebiten.Image, error) {
	f, err := s.open(rel)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", rel, err)
	}
	return ebiten.NewImageFromImage(img), nil
}
