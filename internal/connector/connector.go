// Package connector runs the full hub pipeline: circles to lines, lines to
// a hub point, hub point to tubes, and tubes to a mesh.
package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/philipparndt/dowelhub/pkg/analysis"
	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/kernel"
	"github.com/philipparndt/dowelhub/pkg/openscad"
	"github.com/philipparndt/dowelhub/pkg/stl"
)

// Options configures a pipeline run
type Options struct {
	WallThickness float64
	// Kernel meshes the planned solids. When nil only the geometry is planned.
	Kernel kernel.Kernel
	Name   string
	Logger *slog.Logger
}

// Result is the outcome of Connect
type Result struct {
	Hub    geometry.Vector3
	Lines  geometry.LineSet
	Report *analysis.IntersectionReport
	Tubes  []geometry.TubeSpec
	Model  *stl.Model // nil without a kernel
}

// CapResult is the outcome of Caps
type CapResult struct {
	Caps  []geometry.CapSpec
	Model *stl.Model
}

// Solve finds the hub point for circles without planning any tubes
func Solve(circles []geometry.Circle) (geometry.Vector3, geometry.LineSet, error) {
	lines, err := geometry.LinesFromCircles(circles)
	if err != nil {
		return geometry.Vector3{}, geometry.LineSet{}, err
	}

	hub, err := geometry.ClosestPoint(lines)
	if err != nil {
		return geometry.Vector3{}, geometry.LineSet{}, fmt.Errorf("failed to solve hub point: %w", err)
	}
	return hub, lines, nil
}

// Connect solves the hub point for circles and plans one tube per circle
// ending there. If any step fails nothing is returned.
func Connect(ctx context.Context, circles []geometry.Circle, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for i, c := range circles {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("circle %d: %w", i+1, err)
		}
	}

	hub, lines, err := Solve(circles)
	if err != nil {
		return nil, err
	}
	report := analysis.AnalyzeIntersection(lines, hub)
	logger.Debug("solved hub point", "hub", hub.String(), "lines", lines.Len(), "rms", report.RMS)

	tubes, err := geometry.PlanTubes(circles, hub, opts.WallThickness)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Hub:    hub,
		Lines:  lines,
		Report: report,
		Tubes:  tubes,
	}
	if opts.Kernel == nil {
		return result, nil
	}

	solids := make([]kernel.Solid, 0, len(tubes))
	for i, tube := range tubes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		solid, err := opts.Kernel.Tube(tube)
		if err != nil {
			return nil, fmt.Errorf("tube %d: %w", i+1, err)
		}
		logger.Debug("built tube", "index", i+1, "length", tube.Length())
		solids = append(solids, solid)
	}

	model, err := mesh(ctx, opts.Kernel, solids, opts.Name)
	if err != nil {
		return nil, err
	}
	logger.Info("built connector", "tubes", len(tubes), "triangles", model.TriangleCount())

	result.Model = model
	return result, nil
}

// Caps plans and meshes a cap for every circle
func Caps(ctx context.Context, circles []geometry.Circle, capOpts geometry.CapOptions, opts Options) (*CapResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	caps := make([]geometry.CapSpec, 0, len(circles))
	for i, c := range circles {
		spec, err := geometry.PlanCap(c, capOpts)
		if err != nil {
			return nil, fmt.Errorf("cap %d: %w", i+1, err)
		}
		caps = append(caps, spec)
	}

	result := &CapResult{Caps: caps}
	if opts.Kernel == nil {
		return result, nil
	}

	solids := make([]kernel.Solid, 0, len(caps))
	for i, spec := range caps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		solid, err := opts.Kernel.Cap(spec)
		if err != nil {
			return nil, fmt.Errorf("cap %d: %w", i+1, err)
		}
		solids = append(solids, solid)
	}

	model, err := mesh(ctx, opts.Kernel, solids, opts.Name)
	if err != nil {
		return nil, err
	}
	logger.Info("built caps", "caps", len(caps), "triangles", model.TriangleCount())

	result.Model = model
	return result, nil
}

func mesh(ctx context.Context, k kernel.Kernel, solids []kernel.Solid, name string) (*stl.Model, error) {
	if len(solids) == 0 {
		return nil, errors.New("nothing to mesh")
	}

	union, err := k.Union(solids...)
	if err != nil {
		return nil, fmt.Errorf("failed to union solids: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := k.ToModel(union, name)
	if err != nil {
		return nil, fmt.Errorf("failed to mesh: %w", err)
	}
	return model, nil
}

// Script returns an OpenSCAD script for the result
func (r *Result) Script(fragments int) *openscad.Script {
	hub := r.Hub
	return &openscad.Script{Hub: &hub, Tubes: r.Tubes, Fragments: fragments}
}

// Script returns an OpenSCAD script for the caps
func (r *CapResult) Script(fragments int) *openscad.Script {
	return &openscad.Script{Caps: r.Caps, Fragments: fragments}
}
