package geometry

import "fmt"

// Line3D is an infinite line through a point along a unit direction.
// The zero value is not a valid line; use NewLine3D.
type Line3D struct {
	point     Vector3
	direction Vector3
}

// NewLine3D creates a line through point along direction.
// The direction is normalized; a near-zero direction returns ErrDegenerateDirection.
func NewLine3D(point, direction Vector3) (Line3D, error) {
	unit, err := direction.Unit()
	if err != nil {
		return Line3D{}, err
	}
	return Line3D{point: point, direction: unit}, nil
}

// Point returns the origin of the line
func (l Line3D) Point() Vector3 {
	return l.point
}

// Direction returns the unit direction of the line
func (l Line3D) Direction() Vector3 {
	return l.direction
}

// DistanceTo returns the perpendicular distance from p to the line
func (l Line3D) DistanceTo(p Vector3) float64 {
	return PerpendicularProjector(l.direction).MulVec(p.Sub(l.point)).Length()
}

// ClosestPointTo returns the foot of the perpendicular from p onto the line
func (l Line3D) ClosestPointTo(p Vector3) Vector3 {
	t := p.Sub(l.point).Dot(l.direction)
	return l.point.Add(l.direction.Mul(t))
}

// LineSet is an ordered collection of lines
type LineSet struct {
	lines []Line3D
}

// NewLineSet creates a set holding the given lines
func NewLineSet(lines ...Line3D) LineSet {
	return LineSet{lines: append([]Line3D(nil), lines...)}
}

// Add appends a line
func (s *LineSet) Add(line Line3D) {
	s.lines = append(s.lines, line)
}

// Len returns the number of lines
func (s LineSet) Len() int {
	return len(s.lines)
}

// Lines returns a copy of the lines in insertion order
func (s LineSet) Lines() []Line3D {
	return append([]Line3D(nil), s.lines...)
}

// LinesFromCircles builds one line per circle through its center along its normal
func LinesFromCircles(circles []Circle) (LineSet, error) {
	set := LineSet{lines: make([]Line3D, 0, len(circles))}
	for i, c := range circles {
		line, err := NewLine3D(c.Center, c.Normal)
		if err != nil {
			return LineSet{}, fmt.Errorf("circle %d normal: %w", i+1, err)
		}
		set.Add(line)
	}
	return set, nil
}
