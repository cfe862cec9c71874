package main

import (
	"fmt"

	"github.com/philipparndt/dowelhub/pkg/analysis"
	"github.com/philipparndt/dowelhub/pkg/stl"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display information about an STL file",
	Long:  "Show dimensions, triangle count, surface area and volume of a generated connector or cap.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	model, err := stl.Parse(filename)
	if err != nil {
		return fmt.Errorf("failed to parse STL file: %w", err)
	}

	summary := analysis.SummarizeModel(model)

	fmt.Println("STL File Information")
	fmt.Println("====================")
	if model.Name != "" {
		fmt.Printf("Name: %s\n", model.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(summary.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(summary.BoundingBox.Max))
	fmt.Printf("  Center: %s\n", analysis.FormatVector(summary.BoundingBox.Center()))

	printMeshSummary(summary)
	return nil
}
