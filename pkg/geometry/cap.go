package geometry

import (
	"fmt"
	"math"
)

// CapOptions controls the dimensions of a cap
type CapOptions struct {
	WallThickness float64 // radial wall width around the hole
	Height        float64 // wall extent along the circle normal
	Overlap       float64 // wall extent against the normal, also the plug thickness
}

// DefaultCapOptions returns a 4mm wall, 10mm height and 5mm overlap in centimeters
func DefaultCapOptions() CapOptions {
	return CapOptions{
		WallThickness: 0.4,
		Height:        1.0,
		Overlap:       0.5,
	}
}

// CapSpec describes a cap over a circular edge. The ring walls span from
// Overlap below the circle plane to Height above it; the plug is a disk of
// the circle's radius filling the first Overlap above the plane.
type CapSpec struct {
	Circle  Circle
	Ring    AnnularProfile
	Height  float64
	Overlap float64
}

// Walls returns the segment the ring is extruded along
func (c CapSpec) Walls() Segment {
	n := c.Ring.Normal
	return Segment{
		Start: c.Ring.Center.Sub(n.Mul(c.Overlap)),
		End:   c.Ring.Center.Add(n.Mul(c.Height)),
	}
}

// Plug returns the segment the end disk is extruded along
func (c CapSpec) Plug() Segment {
	return Segment{
		Start: c.Ring.Center,
		End:   c.Ring.Center.Add(c.Ring.Normal.Mul(c.Overlap)),
	}
}

// OuterDiameter is the diameter a thread on the cap's outer face would have
func (c CapSpec) OuterDiameter() float64 {
	return 2 * c.Ring.OuterRadius
}

// PlanCap builds a cap on the circle's own plane
func PlanCap(circle Circle, opts CapOptions) (CapSpec, error) {
	if err := validateRing(circle, opts.WallThickness); err != nil {
		return CapSpec{}, err
	}
	if !(opts.Height > 0) || math.IsInf(opts.Height, 0) {
		return CapSpec{}, fmt.Errorf("cap height must be positive, got %g", opts.Height)
	}
	if !(opts.Overlap >= 0) || math.IsInf(opts.Overlap, 0) {
		return CapSpec{}, fmt.Errorf("cap overlap must not be negative, got %g", opts.Overlap)
	}

	normal, err := circle.Normal.Unit()
	if err != nil {
		return CapSpec{}, fmt.Errorf("circle normal: %w", err)
	}

	return CapSpec{
		Circle:  circle,
		Ring:    newAnnularProfile(circle.Center, normal, circle.Radius, opts.WallThickness),
		Height:  opts.Height,
		Overlap: opts.Overlap,
	}, nil
}
