package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/philipparndt/dowelhub/internal/config"
	"github.com/philipparndt/dowelhub/internal/document"
	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dowelhub",
	Short: "Build printable hubs that join rods at a common point",
	Long: `dowelhub takes the circular hole edges of two or more rods, finds the point
closest to all of their axes and builds a connector of hollow tubes that meet
there. Each tube slides over one rod.

Circles are read from a YAML or JSON document. Settings are read from
dowelhub.toml next to the document, or from the file given with --config.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: dowelhub.toml next to the input)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config for input and sets up logging.
// An explicit --config must exist; the implicit one is optional.
func loadConfig(input string) (config.Config, *slog.Logger, error) {
	path, optional := configPath, false
	if path == "" {
		path, optional = filepath.Join(filepath.Dir(input), config.FileName), true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, nil, err
	}

	level, err := cfg.Level()
	if err != nil {
		return config.Config{}, nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if !optional || config.Exists(path) {
		logger.Debug("loaded config", "path", path)
	}
	return cfg, logger, nil
}

// loadCircles reads the circle document at path
func loadCircles(path string) ([]geometry.Circle, []string, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, nil, err
	}

	circles, err := doc.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return circles, doc.Names(), nil
}

// outputName strips the extension from path for use as a solid name
func outputName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
