// Command ldtkview renders the placement plans of an LDtk project and
// respawns them whenever the project, behavior or script files change.
// Without a project it shows the embedded sample.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/ldtkscene/internal/config"
	"github.com/milk9111/ldtkscene/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Optional TOML config file")
	projectPath := flag.String("project", "", "LDtk project file (.ldtk); empty shows the sample")
	behaviorsPath := flag.String("behaviors", "", "Optional behavior registry (.yaml)")
	levelSel := flag.String("level", "", `First level to show: index, "uid:N", "iid:X" or identifier`)
	noWatch := flag.Bool("no-watch", false, "Disable hot reload")
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
	if *noWatch {
		cfg.Viewer.Watch = false
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	viewer, err := NewViewer(cfg, log)
	if err != nil {
		log.Fatal("start viewer", zap.Error(err))
	}
	defer viewer.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Error("viewer stopped", zap.Error(err))
	}
}
