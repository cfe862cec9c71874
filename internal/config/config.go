// Package config loads dowelhub settings from a TOML file.
//
// Example dowelhub.toml:
//
//	wall_thickness = 0.4
//	log_level = "info"
//
//	[cap]
//	height = 1.0
//	overlap = 0.5
//
//	[mesh]
//	cells = 200
//	ascii = false
//	fragments = 96
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/kernel/sdfx"
	"github.com/philipparndt/dowelhub/pkg/openscad"
)

// FileName is looked up next to the input document when no config is given
const FileName = "dowelhub.toml"

// Config holds all tunable values. Lengths are in model units (cm by default).
type Config struct {
	WallThickness float64    `toml:"wall_thickness"`
	LogLevel      string     `toml:"log_level"`
	Cap           CapConfig  `toml:"cap"`
	Mesh          MeshConfig `toml:"mesh"`
}

// CapConfig holds the cap dimensions
type CapConfig struct {
	Height  float64 `toml:"height"`
	Overlap float64 `toml:"overlap"`
}

// MeshConfig controls mesh and script output
type MeshConfig struct {
	Cells     int  `toml:"cells"`
	ASCII     bool `toml:"ascii"`
	Fragments int  `toml:"fragments"`
}

// Default returns the built-in configuration: a 4mm wall, a 10mm cap with
// 5mm overlap, in centimeters.
func Default() Config {
	capOpts := geometry.DefaultCapOptions()
	return Config{
		WallThickness: capOpts.WallThickness,
		LogLevel:      "info",
		Cap: CapConfig{
			Height:  capOpts.Height,
			Overlap: capOpts.Overlap,
		},
		Mesh: MeshConfig{
			Cells:     sdfx.DefaultMeshCells,
			Fragments: openscad.DefaultFragments,
		},
	}
}

// Load reads path over the defaults. A missing file is an error unless
// optional is set, in which case the defaults are returned.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Exists reports whether a regular file is present at path
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Validate checks value ranges
func (c Config) Validate() error {
	if !(c.WallThickness > 0) {
		return fmt.Errorf("wall_thickness must be positive, got %g", c.WallThickness)
	}
	if !(c.Cap.Height > 0) {
		return fmt.Errorf("cap.height must be positive, got %g", c.Cap.Height)
	}
	if !(c.Cap.Overlap >= 0) {
		return fmt.Errorf("cap.overlap must not be negative, got %g", c.Cap.Overlap)
	}
	if c.Mesh.Cells < 8 {
		return fmt.Errorf("mesh.cells must be at least 8, got %d", c.Mesh.Cells)
	}
	if c.Mesh.Fragments < 3 {
		return fmt.Errorf("mesh.fragments must be at least 3, got %d", c.Mesh.Fragments)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// CapOptions returns the cap planner options
func (c Config) CapOptions() geometry.CapOptions {
	return geometry.CapOptions{
		WallThickness: c.WallThickness,
		Height:        c.Cap.Height,
		Overlap:       c.Cap.Overlap,
	}
}

// Level parses LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
