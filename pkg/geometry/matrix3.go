package geometry

// Matrix3 is a row-major 3x3 matrix
type Matrix3 [3][3]float64

// Identity3 returns the 3x3 identity matrix
func Identity3() Matrix3 {
	return Matrix3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Outer returns the outer product a·bᵀ
func Outer(a, b Vector3) Matrix3 {
	return Matrix3{
		{a.X * b.X, a.X * b.Y, a.X * b.Z},
		{a.Y * b.X, a.Y * b.Y, a.Y * b.Z},
		{a.Z * b.X, a.Z * b.Y, a.Z * b.Z},
	}
}

// PerpendicularProjector returns I - d·dᵀ for a unit direction d.
// It maps any vector onto the plane perpendicular to d and is symmetric and idempotent.
func PerpendicularProjector(d Vector3) Matrix3 {
	return Identity3().Sub(Outer(d, d))
}

// Add returns the element-wise sum
func (m Matrix3) Add(other Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] + other[i][j]
		}
	}
	return r
}

// Sub returns the element-wise difference
func (m Matrix3) Sub(other Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] - other[i][j]
		}
	}
	return r
}

// MulVec returns m·v
func (m Matrix3) MulVec(v Vector3) Vector3 {
	return Vector3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Determinant expands along the first row:
//
//	det = a(ei − fh) − b(di − fg) + c(dh − eg)
func (m Matrix3) Determinant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// WithColumn returns a copy of m with column col replaced by v
func (m Matrix3) WithColumn(col int, v Vector3) Matrix3 {
	m[0][col] = v.X
	m[1][col] = v.Y
	m[2][col] = v.Z
	return m
}
