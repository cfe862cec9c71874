package main

import (
	"fmt"

	"github.com/philipparndt/dowelhub/internal/connector"
	"github.com/philipparndt/dowelhub/pkg/analysis"
	"github.com/spf13/cobra"
)

var solveCount int

var solveCmd = &cobra.Command{
	Use:   "solve [circles]",
	Short: "Find the point closest to all circle axes",
	Long: `Compute the least-squares point closest to the axes of all circles and report
how far each axis passes from it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().IntVarP(&solveCount, "count", "n", 0, "Number of residuals to display, largest first (0 = all)")
}

func runSolve(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if _, _, err := loadConfig(filename); err != nil {
		return err
	}

	circles, names, err := loadCircles(filename)
	if err != nil {
		return err
	}

	hub, lines, err := connector.Solve(circles)
	if err != nil {
		return err
	}
	report := analysis.AnalyzeIntersection(lines, hub)

	fmt.Println("Hub Point")
	fmt.Println("=========")
	fmt.Printf("File: %s\n", filename)
	fmt.Printf("Circles: %d\n\n", len(circles))
	fmt.Printf("Point: %s\n\n", analysis.FormatVector(hub))

	fmt.Println("Axis Distances:")
	fmt.Printf("  RMS: %s\n", analysis.FormatMeasurement(report.RMS, ""))
	fmt.Printf("  Maximum: %s\n\n", analysis.FormatMeasurement(report.MaxDistance, ""))

	residuals := report.Residuals
	if solveCount > 0 {
		residuals = analysis.WorstResiduals(report, solveCount)
	}
	for _, r := range residuals {
		fmt.Printf("  %-16s %s  closest %s\n", names[r.Index], analysis.FormatMeasurement(r.Distance, ""), analysis.FormatVector(r.Foot))
	}
	return nil
}
