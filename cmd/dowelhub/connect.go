package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/philipparndt/dowelhub/internal/config"
	"github.com/philipparndt/dowelhub/internal/connector"
	"github.com/philipparndt/dowelhub/pkg/analysis"
	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/kernel/sdfx"
	"github.com/philipparndt/dowelhub/pkg/openscad"
	"github.com/philipparndt/dowelhub/pkg/stl"
	"github.com/philipparndt/dowelhub/pkg/viewer"
	"github.com/philipparndt/dowelhub/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	connectOutput string
	connectScad   string
	wallThickness float64
	meshCells     int
	asciiOutput   bool
	connectWatch  bool
	connectRender bool
	previewOutput string
)

var connectCmd = &cobra.Command{
	Use:   "connect [circles]",
	Short: "Build a hub connecting all circles",
	Long: `Build a connector with one hollow tube per circle. Each tube starts at its
circle, runs to the common hub point, and has the circle's radius as its inner
radius and radius plus wall thickness as its outer radius.

The mesh is written as STL. With --scad an OpenSCAD script of the same
geometry is written as well; --render uses OpenSCAD instead of the built-in
kernel to produce the STL.`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().StringVarP(&connectOutput, "output", "o", "", "Output STL file (default: <circles>.stl)")
	connectCmd.Flags().StringVar(&connectScad, "scad", "", "Also write an OpenSCAD script")
	connectCmd.Flags().Float64VarP(&wallThickness, "wall", "w", 0.0, "Wall thickness (overrides config)")
	connectCmd.Flags().IntVar(&meshCells, "cells", 0, "Marching cubes resolution (overrides config)")
	connectCmd.Flags().BoolVar(&asciiOutput, "ascii", false, "Write ASCII STL")
	connectCmd.Flags().BoolVar(&connectWatch, "watch", false, "Rebuild whenever the circles file changes")
	connectCmd.Flags().BoolVar(&connectRender, "render", false, "Render the STL with OpenSCAD")
	connectCmd.Flags().StringVar(&previewOutput, "preview", "", "Write a PNG preview of the connector and rod axes")
}

func runConnect(cmd *cobra.Command, args []string) error {
	filename := args[0]

	cfg, logger, err := loadConfig(filename)
	if err != nil {
		return err
	}
	applyMeshFlags(cmd, &cfg)
	if cmd.Flags().Changed("wall") {
		cfg.WallThickness = wallThickness
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	output := connectOutput
	if output == "" {
		output = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".stl"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	build := func() error {
		return buildConnector(ctx, filename, output, cfg, logger)
	}

	if err := build(); err != nil {
		if !connectWatch {
			return err
		}
		logger.Error("build failed", "error", err)
	}
	if !connectWatch {
		return nil
	}

	return watchAndRebuild(ctx, filename, logger, build)
}

func applyMeshFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("cells") {
		cfg.Mesh.Cells = meshCells
	}
	if cmd.Flags().Changed("ascii") {
		cfg.Mesh.ASCII = asciiOutput
	}
}

func buildConnector(ctx context.Context, filename, output string, cfg config.Config, logger *slog.Logger) error {
	start := time.Now()

	circles, names, err := loadCircles(filename)
	if err != nil {
		return err
	}

	opts := connector.Options{
		WallThickness: cfg.WallThickness,
		Name:          outputName(output),
		Logger:        logger,
	}
	if !connectRender {
		opts.Kernel = sdfx.New(cfg.Mesh.Cells)
	}

	result, err := connector.Connect(ctx, circles, opts)
	if err != nil {
		return err
	}

	// Every output is staged first so a failing step leaves none behind
	var stage connector.Staging
	defer stage.Discard()

	script := result.Script(cfg.Mesh.Fragments)
	if connectScad != "" {
		if err := stage.Script(connectScad, script); err != nil {
			return err
		}
	}

	if connectRender {
		if err := renderWithOpenSCAD(ctx, &stage, script, output); err != nil {
			return err
		}
	} else if err := stage.STL(output, result.Model, cfg.Mesh.ASCII); err != nil {
		return err
	}

	if previewOutput != "" {
		if err := stagePreview(&stage, previewOutput, output, result); err != nil {
			return err
		}
	}

	if err := stage.Commit(); err != nil {
		return err
	}

	fmt.Println("Connector")
	fmt.Println("=========")
	fmt.Printf("Hub: %s\n", analysis.FormatVector(result.Hub))
	fmt.Printf("Axis RMS distance: %s\n", analysis.FormatMeasurement(result.Report.RMS, ""))
	fmt.Printf("Wall thickness: %s\n\n", analysis.FormatMeasurement(cfg.WallThickness, ""))

	fmt.Println("Tubes:")
	for i, tube := range result.Tubes {
		fmt.Printf("  %-16s length %s  inner r %.6f  outer r %.6f\n",
			names[i], analysis.FormatMeasurement(tube.Length(), ""), tube.Profile.InnerRadius, tube.Profile.OuterRadius)
	}

	if result.Model != nil {
		printMeshSummary(analysis.SummarizeModel(result.Model))
	}
	fmt.Printf("\nWrote %s\n", output)
	if connectScad != "" {
		fmt.Printf("Wrote %s\n", connectScad)
	}
	if previewOutput != "" {
		fmt.Printf("Wrote %s\n", previewOutput)
	}

	logger.Debug("build finished", "duration", time.Since(start))
	return nil
}

// renderWithOpenSCAD stages output as rendered by OpenSCAD. Without --scad
// the script goes to a scratch file that is removed afterwards.
func renderWithOpenSCAD(ctx context.Context, stage *connector.Staging, script *openscad.Script, output string) error {
	renderer := openscad.NewRenderer(os.TempDir())
	if !renderer.Available() {
		return errors.New("openscad not found in PATH")
	}

	scadFile, ok := stage.Temp(connectScad)
	if !ok {
		scratch, err := os.CreateTemp("", "dowelhub-*.scad")
		if err != nil {
			return fmt.Errorf("failed to create scratch script: %w", err)
		}
		scadFile = scratch.Name()
		defer os.Remove(scadFile)

		if _, err := script.WriteTo(scratch); err != nil {
			scratch.Close()
			return fmt.Errorf("failed to write script: %w", err)
		}
		if err := scratch.Close(); err != nil {
			return err
		}
	}

	// The renderer runs inside its work dir, so both paths must be absolute
	absScad, err := filepath.Abs(scadFile)
	if err != nil {
		return err
	}
	return stage.Stage(output, func(tmp string) error {
		absOutput, err := filepath.Abs(tmp)
		if err != nil {
			return err
		}
		return renderer.RenderToSTL(ctx, absScad, absOutput)
	})
}

// stagePreview renders the connector with each rod axis drawn from its
// circle to the hub. With --render there is no in-process mesh, so the
// staged STL written by OpenSCAD is read back.
func stagePreview(stage *connector.Staging, path, stlPath string, result *connector.Result) error {
	model := result.Model
	if model == nil {
		tmp, ok := stage.Temp(stlPath)
		if !ok {
			return errors.New("no mesh to preview")
		}
		var err error
		if model, err = stl.Parse(tmp); err != nil {
			return err
		}
	}

	axes := make([]geometry.Segment, len(result.Tubes))
	for i, tube := range result.Tubes {
		axes[i] = tube.Path
	}

	img, err := viewer.Render(model, viewer.DefaultOptions(), axes...)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	return stage.Stage(path, func(tmp string) error {
		return viewer.SavePNG(tmp, img)
	})
}

func printMeshSummary(summary *analysis.MeshSummary) {
	fmt.Println("\nMesh:")
	fmt.Printf("  Triangles: %d\n", summary.TriangleCount)
	fmt.Printf("  Size: %s\n", analysis.FormatVector(summary.Dimensions))
	fmt.Printf("  Surface Area: %.6f square units\n", summary.SurfaceArea)
	fmt.Printf("  Volume: %.6f cubic units\n", summary.Volume)
}

func watchAndRebuild(ctx context.Context, filename string, logger *slog.Logger, build func() error) error {
	fw, err := watcher.NewFileWatcher(300*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	// The watcher runs one callback at a time, so rebuilds never overlap
	err = fw.Watch([]string{filename}, func(path string) {
		logger.Info("input changed, rebuilding", "path", path)
		if err := build(); err != nil {
			logger.Error("build failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	logger.Info("watching for changes, press Ctrl+C to stop", "path", filename)
	fw.Run(ctx)
	return nil
}
