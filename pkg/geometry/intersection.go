package geometry

import (
	"fmt"
	"math"
)

// singularDeterminant is the |det S| below which the normal equations are rejected
const singularDeterminant = 1e-6

// ClosestPoint returns the point minimizing the summed squared perpendicular
// distances to all lines in the set.
//
// Each line contributes the projector M = I - d·dᵀ. The minimizer x solves the
// normal equations
//
//	S = Σ M_i,  C = Σ M_i·p_i,  S·x = C
//
// which are solved by Cramer's rule. For concurrent lines the result is the
// exact intersection; for two skew lines it is the midpoint of their common
// perpendicular.
func ClosestPoint(lines LineSet) (Vector3, error) {
	if lines.Len() < 2 {
		return Vector3{}, fmt.Errorf("%w: got %d", ErrInsufficientInput, lines.Len())
	}

	var s Matrix3
	var c Vector3
	for i, line := range lines.lines {
		// Lines built with NewLine3D are already unit length
		d, err := line.direction.Unit()
		if err != nil {
			return Vector3{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		m := PerpendicularProjector(d)
		s = s.Add(m)
		c = c.Add(m.MulVec(line.point))
	}

	return solveCramer(s, c)
}

// solveCramer solves a·x = b for a 3x3 system
func solveCramer(a Matrix3, b Vector3) (Vector3, error) {
	det := a.Determinant()
	if math.Abs(det) < singularDeterminant || math.IsNaN(det) {
		return Vector3{}, fmt.Errorf("%w: determinant %g", ErrSingularSystem, det)
	}

	return Vector3{
		X: a.WithColumn(0, b).Determinant() / det,
		Y: a.WithColumn(1, b).Determinant() / det,
		Z: a.WithColumn(2, b).Determinant() / det,
	}, nil
}
