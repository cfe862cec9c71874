package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTube(t *testing.T) {
	circle := NewCircle(NewVector3(1, 0, 0), NewVector3(1, 0, 0), 0.75)
	target := NewVector3(1, 0, 4)

	tube, err := PlanTube(circle, target, 0.25)
	require.NoError(t, err)

	assert.Equal(t, Segment{Start: circle.Center, End: target}, tube.Path)
	assert.Equal(t, NewVector3(0, 0, 1), tube.Direction)
	assert.InDelta(t, 4.0, tube.Length(), 1e-12)

	p := tube.Profile
	assert.Equal(t, circle.Center, p.Center)
	assert.Equal(t, tube.Direction, p.Normal)
	assert.Equal(t, 0.75, p.InnerRadius)
	assert.Equal(t, 1.0, p.OuterRadius)

	assert.InDelta(t, 0.0, p.U.Dot(p.Normal), 1e-12)
	assert.InDelta(t, 0.0, p.V.Dot(p.Normal), 1e-12)
	assert.InDelta(t, 0.0, p.U.Dot(p.V), 1e-12)
	assertVectorInDelta(t, p.Normal, p.U.Cross(p.V), 1e-12)
}

func TestPlanTubeIsDeterministic(t *testing.T) {
	circle := NewCircle(NewVector3(-3, 2.5, 7), NewVector3(0.3, 1, -2), 1.25)
	target := NewVector3(0.5, -1, 2)
	const wall = 0.375

	first, err := PlanTube(circle, target, wall)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := PlanTube(circle, target, wall)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	assert.Equal(t, wall, first.Profile.OuterRadius-first.Profile.InnerRadius)
	assert.Equal(t, wall, first.Profile.WallThickness())
}

func TestPlanTubeTargetAtCenter(t *testing.T) {
	circle := NewCircle(NewVector3(1, 2, 3), NewVector3(0, 0, 1), 1)
	_, err := PlanTube(circle, circle.Center, 0.4)
	assert.ErrorIs(t, err, ErrDegenerateDirection)
}

func TestPlanTubeInvalidProfile(t *testing.T) {
	circle := NewCircle(NewVector3(0, 0, 0), NewVector3(0, 0, 1), 1)

	tests := []struct {
		name   string
		circle Circle
		target Vector3
		wall   float64
	}{
		{"nan target", circle, NewVector3(math.NaN(), 0, 1), 0.4},
		{"infinite target", circle, NewVector3(0, math.Inf(1), 1), 0.4},
		{"zero radius", NewCircle(circle.Center, circle.Normal, 0), NewVector3(0, 0, 1), 0.4},
		{"negative radius", NewCircle(circle.Center, circle.Normal, -1), NewVector3(0, 0, 1), 0.4},
		{"zero wall", circle, NewVector3(0, 0, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanTube(tt.circle, tt.target, tt.wall)
			assert.ErrorIs(t, err, ErrNoProfileFound)
		})
	}
}

func TestPlanTubesAllOrNothing(t *testing.T) {
	target := NewVector3(0, 0, 5)
	circles := []Circle{
		NewCircle(NewVector3(1, 0, 0), NewVector3(0, 0, 1), 0.5),
		NewCircle(NewVector3(0, 1, 0), NewVector3(0, 0, 1), 0.5),
	}

	tubes, err := PlanTubes(circles, target, 0.4)
	require.NoError(t, err)
	require.Len(t, tubes, 2)
	for i, tube := range tubes {
		assert.Equal(t, circles[i].Center, tube.Path.Start)
		assert.Equal(t, target, tube.Path.End)
	}

	circles = append(circles, NewCircle(target, NewVector3(0, 0, 1), 0.5))
	tubes, err = PlanTubes(circles, target, 0.4)
	assert.ErrorIs(t, err, ErrDegenerateDirection)
	assert.Contains(t, err.Error(), "tube 3")
	assert.Nil(t, tubes)
}

func TestPlanTubesOrderIndependent(t *testing.T) {
	target := NewVector3(2, 2, 2)
	a := NewCircle(NewVector3(0, 0, 0), NewVector3(1, 1, 1), 0.5)
	b := NewCircle(NewVector3(10, 0, 0), NewVector3(-1, 0.25, 0.25), 0.75)

	forward, err := PlanTubes([]Circle{a, b}, target, 0.4)
	require.NoError(t, err)
	backward, err := PlanTubes([]Circle{b, a}, target, 0.4)
	require.NoError(t, err)

	assert.Equal(t, forward[0], backward[1])
	assert.Equal(t, forward[1], backward[0])
}

func TestPlanCap(t *testing.T) {
	circle := NewCircle(NewVector3(0, 0, 2), NewVector3(0, 0, -3), 0.5)

	capSpec, err := PlanCap(circle, DefaultCapOptions())
	require.NoError(t, err)

	assertVectorInDelta(t, NewVector3(0, 0, -1), capSpec.Ring.Normal, 1e-15)
	assert.Equal(t, 0.5, capSpec.Ring.InnerRadius)
	assert.InDelta(t, 0.9, capSpec.Ring.OuterRadius, 1e-12)
	assert.InDelta(t, 1.8, capSpec.OuterDiameter(), 1e-12)

	walls := capSpec.Walls()
	assertVectorInDelta(t, NewVector3(0, 0, 2.5), walls.Start, 1e-12)
	assertVectorInDelta(t, NewVector3(0, 0, 1), walls.End, 1e-12)
	assert.InDelta(t, 1.5, walls.Length(), 1e-12)

	plug := capSpec.Plug()
	assert.Equal(t, circle.Center, plug.Start)
	assertVectorInDelta(t, NewVector3(0, 0, 1.5), plug.End, 1e-12)
}

func TestPlanCapInvalidOptions(t *testing.T) {
	circle := NewCircle(NewVector3(0, 0, 0), NewVector3(0, 0, 1), 0.5)

	_, err := PlanCap(circle, CapOptions{WallThickness: 0.4, Height: 0, Overlap: 0.5})
	assert.Error(t, err)

	_, err = PlanCap(circle, CapOptions{WallThickness: 0.4, Height: 1, Overlap: -0.1})
	assert.Error(t, err)

	_, err = PlanCap(circle, CapOptions{WallThickness: 0, Height: 1, Overlap: 0.5})
	assert.ErrorIs(t, err, ErrNoProfileFound)

	_, err = PlanCap(NewCircle(circle.Center, Vector3{}, 0.5), DefaultCapOptions())
	assert.ErrorIs(t, err, ErrDegenerateDirection)
}
