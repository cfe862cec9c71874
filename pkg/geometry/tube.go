package geometry

import (
	"fmt"
	"math"
)

// Segment is a straight path between two points
type Segment struct {
	Start Vector3
	End   Vector3
}

// Length returns the length of the segment
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// AnnularProfile is a ring-shaped cross-section lying in the plane through
// Center perpendicular to Normal. U and V are orthonormal axes spanning that
// plane, so that U × V = Normal.
type AnnularProfile struct {
	Center      Vector3
	Normal      Vector3
	U, V        Vector3
	InnerRadius float64
	OuterRadius float64
}

// WallThickness returns the radial width of the ring
func (p AnnularProfile) WallThickness() float64 {
	return p.OuterRadius - p.InnerRadius
}

// TubeSpec describes a tube to be swept: the profile is moved along Path,
// staying perpendicular to Direction.
type TubeSpec struct {
	Circle    Circle
	Path      Segment
	Direction Vector3
	Profile   AnnularProfile
}

// Length returns the length of the sweep path
func (t TubeSpec) Length() float64 {
	return t.Path.Length()
}

// PlanTube derives the straight tube from a circle's center to target with an
// annular profile of inner radius circle.Radius and outer radius
// circle.Radius + wallThickness.
func PlanTube(circle Circle, target Vector3, wallThickness float64) (TubeSpec, error) {
	if !target.IsFinite() {
		return TubeSpec{}, fmt.Errorf("%w: target %s is not finite", ErrNoProfileFound, target)
	}
	if err := validateRing(circle, wallThickness); err != nil {
		return TubeSpec{}, err
	}

	direction, err := target.Sub(circle.Center).Unit()
	if err != nil {
		return TubeSpec{}, fmt.Errorf("path from %s to target: %w", circle.Center, err)
	}

	return TubeSpec{
		Circle:    circle,
		Path:      Segment{Start: circle.Center, End: target},
		Direction: direction,
		Profile:   newAnnularProfile(circle.Center, direction, circle.Radius, wallThickness),
	}, nil
}

// PlanTubes plans one tube per circle. Either every tube is planned or an
// error is returned and no tubes are.
func PlanTubes(circles []Circle, target Vector3, wallThickness float64) ([]TubeSpec, error) {
	tubes := make([]TubeSpec, 0, len(circles))
	for i, c := range circles {
		tube, err := PlanTube(c, target, wallThickness)
		if err != nil {
			return nil, fmt.Errorf("tube %d: %w", i+1, err)
		}
		tubes = append(tubes, tube)
	}
	return tubes, nil
}

func validateRing(circle Circle, wallThickness float64) error {
	if !(circle.Radius > 0) || math.IsInf(circle.Radius, 0) {
		return fmt.Errorf("%w: radius must be positive, got %g", ErrNoProfileFound, circle.Radius)
	}
	if !circle.Center.IsFinite() {
		return fmt.Errorf("%w: center %s is not finite", ErrNoProfileFound, circle.Center)
	}
	if !(wallThickness > 0) || math.IsInf(wallThickness, 0) {
		return fmt.Errorf("%w: wall thickness must be positive, got %g", ErrNoProfileFound, wallThickness)
	}
	return nil
}

// newAnnularProfile expects a unit normal
func newAnnularProfile(center, normal Vector3, radius, wallThickness float64) AnnularProfile {
	u := normal.Perpendicular()
	v := normal.Cross(u)
	return AnnularProfile{
		Center:      center,
		Normal:      normal,
		U:           u,
		V:           v,
		InnerRadius: radius,
		OuterRadius: radius + wallThickness,
	}
}
