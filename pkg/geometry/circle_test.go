package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rimPoints(center, u, v Vector3, radius float64, n int) []Vector3 {
	points := make([]Vector3, n)
	for i := range points {
		angle := float64(i) * 1.5 * math.Pi / float64(n-1)
		points[i] = center.
			Add(u.Mul(radius * math.Cos(angle))).
			Add(v.Mul(radius * math.Sin(angle)))
	}
	return points
}

func TestFitCircleTilted(t *testing.T) {
	normal := NewVector3(1, 2, 2).Normalize()
	u := normal.Perpendicular()
	v := normal.Cross(u)
	center := NewVector3(3, -1, 4)

	fit, err := FitCircle(rimPoints(center, u, v, 2.5, 9))
	require.NoError(t, err)

	assertVectorInDelta(t, center, fit.Center, 1e-9)
	assert.InDelta(t, 2.5, fit.Radius, 1e-9)
	assert.InDelta(t, 1.0, math.Abs(fit.Normal.Dot(normal)), 1e-9)
	assert.InDelta(t, 0.0, fit.StdDev, 1e-9)

	c := fit.Circle()
	assert.NoError(t, c.Validate())
}

func TestFitCircleWinding(t *testing.T) {
	center := NewVector3(0, 0, 1)
	u := NewVector3(1, 0, 0)
	v := NewVector3(0, 1, 0)
	points := rimPoints(center, u, v, 1, 5)

	fit, err := FitCircle(points)
	require.NoError(t, err)
	assertVectorInDelta(t, NewVector3(0, 0, 1), fit.Normal, 1e-12)

	reversed := make([]Vector3, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}
	fit, err = FitCircle(reversed)
	require.NoError(t, err)
	assertVectorInDelta(t, NewVector3(0, 0, -1), fit.Normal, 1e-12)
}

func TestOrientToward(t *testing.T) {
	fit := &CircleFit{Normal: NewVector3(0, 0, -1)}

	require.NoError(t, fit.OrientToward(NewVector3(0.5, 0, 3)))
	assert.Equal(t, NewVector3(0, 0, 1), fit.Normal)

	require.NoError(t, fit.OrientToward(NewVector3(0, 0, 2)))
	assert.Equal(t, NewVector3(0, 0, 1), fit.Normal, "already on the hinted side")

	assert.ErrorIs(t, fit.OrientToward(Vector3{}), ErrDegenerateDirection)
	assert.Error(t, fit.OrientToward(NewVector3(1, 0, 0)))
}

func TestFitCircleCollinear(t *testing.T) {
	_, err := FitCircle([]Vector3{
		NewVector3(0, 0, 0),
		NewVector3(1, 1, 1),
		NewVector3(2, 2, 2),
	})
	assert.Error(t, err)

	_, err = FitCircle([]Vector3{NewVector3(0, 0, 0), NewVector3(1, 0, 0)})
	assert.Error(t, err)
}

func TestCircleValidate(t *testing.T) {
	assert.NoError(t, NewCircle(Vector3{}, NewVector3(0, 0, 1), 1).Validate())
	assert.ErrorIs(t, NewCircle(Vector3{}, NewVector3(0, 0, 1), 0).Validate(), ErrNoProfileFound)
	assert.ErrorIs(t, NewCircle(Vector3{}, Vector3{}, 1).Validate(), ErrDegenerateDirection)
	assert.ErrorIs(t, NewCircle(NewVector3(math.NaN(), 0, 0), NewVector3(0, 0, 1), 1).Validate(), ErrNoProfileFound)
}
