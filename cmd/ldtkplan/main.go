// Command ldtkplan spawns levels of an LDtk project and prints the
// resulting placement plans as YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/ldtkscene/behavior"
	"github.com/milk9111/ldtkscene/internal/config"
	"github.com/milk9111/ldtkscene/internal/logging"
	"github.com/milk9111/ldtkscene/ldtk"
	"github.com/milk9111/ldtkscene/scene"
)

func main() {
	configPath := flag.String("config", "", "Optional TOML config file")
	projectPath := flag.String("project", "", "LDtk project file (.ldtk)")
	behaviorsPath := flag.String("behaviors", "", "Optional behavior registry (.yaml)")
	levelSel := flag.String("level", "", `Level to spawn: index, "uid:N", "iid:X", identifier or "*"`)
	colliders := flag.Bool("colliders", false, "Include merged collider boxes")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *projectPath != "" {
		cfg.Project.Path = *projectPath
	}
	if *behaviorsPath != "" {
		cfg.Project.Behaviors = *behaviorsPath
	}
	if *levelSel != "" {
		cfg.Project.Level = *levelSel
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, cfg.Project, *colliders, os.Stdout); err != nil {
		log.Error("ldtkplan failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, cfg config.ProjectConfig, withColliders bool, w io.Writer) error {
	if cfg.Path == "" {
		return fmt.Errorf("no project given")
	}
	sel, err := ldtk.ParseLevelSelection(cfg.Level)
	if err != nil {
		return err
	}

	project, err := ldtk.LoadProject(cfg.Path)
	if err != nil {
		return err
	}

	var registry *scene.Registry
	if cfg.Behaviors != "" {
		registry, err = behavior.LoadRegistry(cfg.Behaviors)
		if err != nil {
			return err
		}
		entities, cells := registry.Len()
		log.Info("loaded behaviors",
			zap.String("path", cfg.Behaviors),
			zap.Int("entities", entities),
			zap.Int("int_cells", cells),
		)
	}

	spawner := scene.NewSpawner(ldtk.NewIndex(&project.Defs), registry, scene.WithLogger(log))
	plans, err := spawner.SpawnProject(ctx, project, sel)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return fmt.Errorf("no level matches %s", sel)
	}

	summaries := make([]levelSummary, 0, len(plans))
	for _, plan := range plans {
		summaries = append(summaries, summarize(plan, withColliders))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summaries); err != nil {
		return err
	}
	return enc.Close()
}
