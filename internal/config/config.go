package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Project ProjectConfig `toml:"project"`
	Window  WindowConfig  `toml:"window"`
	Viewer  ViewerConfig  `toml:"viewer"`
	Logging LoggingConfig `toml:"logging"`
}

type ProjectConfig struct {
	Path      string `toml:"path"`      // .ldtk file
	Behaviors string `toml:"behaviors"` // optional behavior registry yaml
	Level     string `toml:"level"`     // index, "uid:N", "iid:X" or identifier
}

type WindowConfig struct {
	Title  string  `toml:"title"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Zoom   float64 `toml:"zoom"`
}

type ViewerConfig struct {
	ShowColliders bool `toml:"show_colliders"`
	ShowEntities  bool `toml:"show_entities"`
	Watch         bool `toml:"watch"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaults()
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Zoom <= 0 {
		return fmt.Errorf("window zoom must be positive, got %g", c.Window.Zoom)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Project: ProjectConfig{
			Level: "0",
		},
		Window: WindowConfig{
			Title:  "ldtkview",
			Width:  1280,
			Height: 720,
			Zoom:   2,
		},
		Viewer: ViewerConfig{
			ShowColliders: true,
			ShowEntities:  true,
			Watch:         true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
