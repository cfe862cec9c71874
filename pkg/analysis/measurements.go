package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/stl"
)

// LineResidual is the distance from a solved point to one input line
type LineResidual struct {
	Index    int
	Line     geometry.Line3D
	Foot     geometry.Vector3 // closest point on the line
	Distance float64
}

// IntersectionReport describes how well a point fits a set of lines
type IntersectionReport struct {
	Point       geometry.Vector3
	Residuals   []LineResidual
	RMS         float64
	MaxDistance float64
}

// AnalyzeIntersection measures the perpendicular distance from point to every line
func AnalyzeIntersection(lines geometry.LineSet, point geometry.Vector3) *IntersectionReport {
	report := &IntersectionReport{
		Point:     point,
		Residuals: make([]LineResidual, 0, lines.Len()),
	}

	sumSquares := 0.0
	for i, line := range lines.Lines() {
		distance := line.DistanceTo(point)
		report.Residuals = append(report.Residuals, LineResidual{
			Index:    i,
			Line:     line,
			Foot:     line.ClosestPointTo(point),
			Distance: distance,
		})

		sumSquares += distance * distance
		report.MaxDistance = math.Max(report.MaxDistance, distance)
	}

	if len(report.Residuals) > 0 {
		report.RMS = math.Sqrt(sumSquares / float64(len(report.Residuals)))
	}
	return report
}

// WorstResiduals returns the count residuals with the largest distance
func WorstResiduals(report *IntersectionReport, count int) []LineResidual {
	residuals := make([]LineResidual, len(report.Residuals))
	copy(residuals, report.Residuals)

	sort.SliceStable(residuals, func(i, j int) bool {
		return residuals[i].Distance > residuals[j].Distance
	})

	if count > len(residuals) {
		count = len(residuals)
	}
	return residuals[:count]
}

// MeshSummary contains the measurements of a generated mesh
type MeshSummary struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	TriangleCount int
	SurfaceArea   float64
	Volume        float64
}

// SummarizeModel measures a generated model
func SummarizeModel(model *stl.Model) *MeshSummary {
	bbox := model.BoundingBox()
	return &MeshSummary{
		BoundingBox:   bbox,
		Dimensions:    bbox.Size(),
		TriangleCount: model.TriangleCount(),
		SurfaceArea:   model.SurfaceArea(),
		Volume:        math.Abs(model.Volume()),
	}
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
