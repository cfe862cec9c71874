package geometry

import (
	"fmt"
	"math"
)

// Circle describes a circular hole edge: its center, the normal of the plane it
// lies in, and its radius. The normal need not be unit length.
type Circle struct {
	Center Vector3
	Normal Vector3
	Radius float64
}

// NewCircle creates a new circle
func NewCircle(center, normal Vector3, radius float64) Circle {
	return Circle{Center: center, Normal: normal, Radius: radius}
}

// Validate checks that the circle has a positive finite radius and a usable normal
func (c Circle) Validate() error {
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		return fmt.Errorf("%w: radius must be positive, got %g", ErrNoProfileFound, c.Radius)
	}
	if !c.Center.IsFinite() {
		return fmt.Errorf("%w: center %s is not finite", ErrNoProfileFound, c.Center)
	}
	if _, err := c.Normal.Unit(); err != nil {
		return err
	}
	return nil
}

// CircleFit represents the result of fitting a circle to points
type CircleFit struct {
	Center Vector3 // Circle center in 3D
	Radius float64 // Circle radius
	Normal Vector3 // Unit normal of the plane containing the circle
	StdDev float64 // Standard deviation of fit (quality measure)
}

// Circle converts the fit into a circle descriptor
func (f CircleFit) Circle() Circle {
	return NewCircle(f.Center, f.Normal, f.Radius)
}

// FitCircle fits a circle in arbitrary orientation to points sampled on its rim.
// The circle passes through the first, middle and last point; the remaining
// points only contribute to StdDev.
//
// The normal follows the right-hand rule: seen from the side it points to,
// the points run counterclockwise. Use OrientToward to fix the side instead.
//
// With a = p1 - p3 and b = p2 - p3 the circumcenter is
//
//	c = p3 + ((|a|²b - |b|²a) × (a × b)) / (2|a × b|²)
func FitCircle(points []Vector3) (*CircleFit, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points to fit a circle")
	}

	p1 := points[0]
	p2 := points[len(points)/2]
	p3 := points[len(points)-1]

	a := p1.Sub(p3)
	b := p2.Sub(p3)
	axb := a.Cross(b)
	denom := 2 * axb.Dot(axb)
	if denom < 1e-20 {
		return nil, fmt.Errorf("points are collinear")
	}

	offset := b.Mul(a.Dot(a)).Sub(a.Mul(b.Dot(b))).Cross(axb).Mul(1 / denom)
	center := p3.Add(offset)
	radius := center.Distance(p1)

	normal := p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()

	return &CircleFit{
		Center: center,
		Radius: radius,
		Normal: normal,
		StdDev: radialStdDev(points, center, radius),
	}, nil
}

// OrientToward flips the fitted normal onto the same side as hint. A hint
// lying in the circle's plane cannot pick a side and is rejected.
func (f *CircleFit) OrientToward(hint Vector3) error {
	h, err := hint.Unit()
	if err != nil {
		return fmt.Errorf("normal hint: %w", err)
	}

	dot := f.Normal.Dot(h)
	if math.Abs(dot) < 1e-6 {
		return fmt.Errorf("normal hint %s lies in the plane of the rim", hint)
	}
	if dot < 0 {
		f.Normal = f.Normal.Mul(-1)
	}
	return nil
}

func radialStdDev(points []Vector3, center Vector3, radius float64) float64 {
	var sumError float64
	for _, p := range points {
		d := p.Distance(center) - radius
		sumError += d * d
	}
	return math.Sqrt(sumError / float64(len(points)))
}
