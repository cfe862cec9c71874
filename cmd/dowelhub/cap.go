package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/philipparndt/dowelhub/internal/connector"
	"github.com/philipparndt/dowelhub/pkg/analysis"
	"github.com/philipparndt/dowelhub/pkg/kernel/sdfx"
	"github.com/spf13/cobra"
)

var (
	capOutput  string
	capScad    string
	capHeight  float64
	capOverlap float64
)

var capCmd = &cobra.Command{
	Use:   "cap [circles]",
	Short: "Build a cap for every circle",
	Long: `Build a cap that closes each circle. The cap wall reaches height above the
circle's plane and overlap below it, where a plug of the circle's radius fills
the hole. The outer diameter is reported for choosing a matching thread.`,
	Args: cobra.ExactArgs(1),
	RunE: runCap,
}

func init() {
	rootCmd.AddCommand(capCmd)

	capCmd.Flags().StringVarP(&capOutput, "output", "o", "", "Output STL file (default: <circles>-caps.stl)")
	capCmd.Flags().StringVar(&capScad, "scad", "", "Also write an OpenSCAD script")
	capCmd.Flags().Float64VarP(&wallThickness, "wall", "w", 0.0, "Wall thickness (overrides config)")
	capCmd.Flags().Float64Var(&capHeight, "height", 0.0, "Cap height (overrides config)")
	capCmd.Flags().Float64Var(&capOverlap, "overlap", 0.0, "Plug depth (overrides config)")
	capCmd.Flags().IntVar(&meshCells, "cells", 0, "Marching cubes resolution (overrides config)")
	capCmd.Flags().BoolVar(&asciiOutput, "ascii", false, "Write ASCII STL")
}

func runCap(cmd *cobra.Command, args []string) error {
	filename := args[0]

	cfg, logger, err := loadConfig(filename)
	if err != nil {
		return err
	}
	applyMeshFlags(cmd, &cfg)
	if cmd.Flags().Changed("wall") {
		cfg.WallThickness = wallThickness
	}
	if cmd.Flags().Changed("height") {
		cfg.Cap.Height = capHeight
	}
	if cmd.Flags().Changed("overlap") {
		cfg.Cap.Overlap = capOverlap
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	output := capOutput
	if output == "" {
		output = strings.TrimSuffix(filename, filepath.Ext(filename)) + "-caps.stl"
	}

	circles, names, err := loadCircles(filename)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := connector.Caps(ctx, circles, cfg.CapOptions(), connector.Options{
		Kernel: sdfx.New(cfg.Mesh.Cells),
		Name:   outputName(output),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	var stage connector.Staging
	defer stage.Discard()

	if capScad != "" {
		if err := stage.Script(capScad, result.Script(cfg.Mesh.Fragments)); err != nil {
			return err
		}
	}
	if err := stage.STL(output, result.Model, cfg.Mesh.ASCII); err != nil {
		return err
	}
	if err := stage.Commit(); err != nil {
		return err
	}

	fmt.Println("Caps")
	fmt.Println("====")
	fmt.Printf("Height: %s\n", analysis.FormatMeasurement(cfg.Cap.Height, ""))
	fmt.Printf("Overlap: %s\n", analysis.FormatMeasurement(cfg.Cap.Overlap, ""))
	fmt.Printf("Wall thickness: %s\n\n", analysis.FormatMeasurement(cfg.WallThickness, ""))

	for i, c := range result.Caps {
		fmt.Printf("  %-16s at %s  outer diameter %.6f\n", names[i], analysis.FormatVector(c.Ring.Center), c.OuterDiameter())
	}

	printMeshSummary(analysis.SummarizeModel(result.Model))
	fmt.Printf("\nWrote %s\n", output)
	return nil
}
