// Package levels embeds a small sample project used by the viewer's demo
// mode and by command tests.
package levels

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"

	"github.com/milk9111/ldtkscene/behavior"
	"github.com/milk9111/ldtkscene/ldtk"
	"github.com/milk9111/ldtkscene/scene"
)

const (
	ProjectFile   = "sample.ldtk"
	BehaviorsFile = "behaviors.yaml"
)

//go:embed sample.ldtk behaviors.yaml tiles.png
var FS embed.FS

func SampleProject() (*ldtk.Project, error) {
	data, err := fs.ReadFile(FS, ProjectFile)
	if err != nil {
		return nil, fmt.Errorf("read sample project: %w", err)
	}
	return ldtk.DecodeProject(bytes.NewReader(data))
}

// SampleRegistry builds the sample behaviors. They use no scripts, so
// nothing is read from disk.
func SampleRegistry() (*scene.Registry, error) {
	data, err := fs.ReadFile(FS, BehaviorsFile)
	if err != nil {
		return nil, fmt.Errorf("read sample behaviors: %w", err)
	}
	spec, err := behavior.DecodeSpec(data)
	if err != nil {
		return nil, err
	}
	return behavior.Build(spec, ".")
}
