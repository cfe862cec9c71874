package connector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/kernel"
	"github.com/philipparndt/dowelhub/pkg/kernel/sdfx"
	"github.com/philipparndt/dowelhub/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSolid struct{}

func (fakeSolid) BoundingBox() geometry.BoundingBox { return geometry.NewBoundingBox() }

type fakeKernel struct {
	tubes, caps int
	failTube    int
	failUnion   bool
}

func (k *fakeKernel) Tube(geometry.TubeSpec) (kernel.Solid, error) {
	k.tubes++
	if k.tubes == k.failTube {
		return nil, errors.New("sweep failed")
	}
	return fakeSolid{}, nil
}

func (k *fakeKernel) Cap(geometry.CapSpec) (kernel.Solid, error) {
	k.caps++
	return fakeSolid{}, nil
}

func (k *fakeKernel) Union(solids ...kernel.Solid) (kernel.Solid, error) {
	if k.failUnion {
		return nil, errors.New("union failed")
	}
	return fakeSolid{}, nil
}

func (k *fakeKernel) ToModel(s kernel.Solid, name string) (*stl.Model, error) {
	model := stl.NewModel(name)
	model.AddTriangle(geometry.NewTriangle(geometry.Vector3{},
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0)))
	return model, nil
}

// axisCircles returns three holes whose axes meet at the origin
func axisCircles() []geometry.Circle {
	return []geometry.Circle{
		geometry.NewCircle(geometry.NewVector3(8, 0, 0), geometry.NewVector3(1, 0, 0), 0.5),
		geometry.NewCircle(geometry.NewVector3(0, 8, 0), geometry.NewVector3(0, -1, 0), 0.5),
		geometry.NewCircle(geometry.NewVector3(0, 0, 8), geometry.NewVector3(0, 0, 2), 0.5),
	}
}

func TestConnectPlansTubesToHub(t *testing.T) {
	result, err := Connect(context.Background(), axisCircles(), Options{WallThickness: 0.25})
	require.NoError(t, err)

	assert.Equal(t, geometry.Vector3{}, result.Hub)
	assert.Equal(t, 3, result.Lines.Len())
	assert.InDelta(t, 0.0, result.Report.MaxDistance, 1e-12)
	assert.Nil(t, result.Model)

	require.Len(t, result.Tubes, 3)
	for _, tube := range result.Tubes {
		assert.Equal(t, geometry.Vector3{}, tube.Path.End)
		assert.Equal(t, 8.0, tube.Length())
		assert.Equal(t, 0.5, tube.Profile.InnerRadius)
		assert.Equal(t, 0.75, tube.Profile.OuterRadius)
	}
}

func TestConnectMeshesWithKernel(t *testing.T) {
	k := &fakeKernel{}
	result, err := Connect(context.Background(), axisCircles(), Options{WallThickness: 0.25, Kernel: k, Name: "hub"})
	require.NoError(t, err)

	assert.Equal(t, 3, k.tubes)
	require.NotNil(t, result.Model)
	assert.Equal(t, "hub", result.Model.Name)
}

func TestConnectFailures(t *testing.T) {
	t.Run("too few circles", func(t *testing.T) {
		_, err := Connect(context.Background(), axisCircles()[:1], Options{WallThickness: 0.25})
		assert.ErrorIs(t, err, geometry.ErrInsufficientInput)
	})

	t.Run("parallel axes", func(t *testing.T) {
		circles := []geometry.Circle{
			geometry.NewCircle(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1), 0.5),
			geometry.NewCircle(geometry.NewVector3(4, 0, 0), geometry.NewVector3(0, 0, 1), 0.5),
		}
		_, err := Connect(context.Background(), circles, Options{WallThickness: 0.25})
		assert.ErrorIs(t, err, geometry.ErrSingularSystem)
	})

	t.Run("invalid wall", func(t *testing.T) {
		_, err := Connect(context.Background(), axisCircles(), Options{})
		assert.ErrorIs(t, err, geometry.ErrNoProfileFound)
	})

	t.Run("kernel failure", func(t *testing.T) {
		result, err := Connect(context.Background(), axisCircles(), Options{WallThickness: 0.25, Kernel: &fakeKernel{failTube: 2}})
		assert.ErrorContains(t, err, "tube 2")
		assert.Nil(t, result)
	})

	t.Run("union failure", func(t *testing.T) {
		result, err := Connect(context.Background(), axisCircles(), Options{WallThickness: 0.25, Kernel: &fakeKernel{failUnion: true}})
		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		k := &fakeKernel{}
		_, err := Connect(ctx, axisCircles(), Options{WallThickness: 0.25, Kernel: k})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, k.tubes)
	})
}

func TestCaps(t *testing.T) {
	k := &fakeKernel{}
	result, err := Caps(context.Background(), axisCircles(), geometry.DefaultCapOptions(), Options{Kernel: k})
	require.NoError(t, err)

	assert.Equal(t, 3, k.caps)
	require.Len(t, result.Caps, 3)
	assert.InDelta(t, 1.8, result.Caps[0].OuterDiameter(), 1e-12)
	assert.NotNil(t, result.Model)

	_, err = Caps(context.Background(), axisCircles(), geometry.CapOptions{WallThickness: 0.4}, Options{})
	assert.Error(t, err)
}

func TestConnectWithSdfx(t *testing.T) {
	result, err := Connect(context.Background(), axisCircles(), Options{WallThickness: 0.25, Kernel: sdfx.New(48)})
	require.NoError(t, err)
	require.NotNil(t, result.Model)
	assert.Greater(t, result.Model.TriangleCount(), 0)

	bbox := result.Model.BoundingBox()
	assert.InDelta(t, 8.0, bbox.Max.X, 0.3)
	assert.InDelta(t, 8.0, bbox.Max.Y, 0.3)
	assert.InDelta(t, 8.0, bbox.Max.Z, 0.3)
}

func TestStagingCommitsAllOutputs(t *testing.T) {
	dir := t.TempDir()
	result, err := Connect(context.Background(), axisCircles(), Options{WallThickness: 0.25, Kernel: &fakeKernel{}})
	require.NoError(t, err)

	stlPath := filepath.Join(dir, "out", "hub.stl")
	scadPath := filepath.Join(dir, "out", "hub.scad")

	var stage Staging
	require.NoError(t, stage.Script(scadPath, result.Script(32)))
	require.NoError(t, stage.STL(stlPath, result.Model, false))

	tmp, ok := stage.Temp(stlPath)
	require.True(t, ok)
	assert.Equal(t, ".stl", filepath.Ext(tmp))
	_, err = os.Stat(stlPath)
	assert.True(t, os.IsNotExist(err), "nothing is in place before commit")

	require.NoError(t, stage.Commit())

	model, err := stl.Parse(stlPath)
	require.NoError(t, err)
	assert.Equal(t, 1, model.TriangleCount())

	data, err := os.ReadFile(scadPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "union()")

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestStagingFailureLeavesNoOutputs(t *testing.T) {
	dir := t.TempDir()
	result, err := Connect(context.Background(), axisCircles(), Options{WallThickness: 0.25, Kernel: &fakeKernel{}})
	require.NoError(t, err)

	scadPath := filepath.Join(dir, "hub.scad")
	stlPath := filepath.Join(dir, "hub.stl")
	pngPath := filepath.Join(dir, "hub.png")

	var stage Staging
	require.NoError(t, stage.Script(scadPath, result.Script(32)))
	require.NoError(t, stage.STL(stlPath, result.Model, false))
	err = stage.Stage(pngPath, func(string) error { return errors.New("render failed") })
	require.Error(t, err)
	stage.Discard()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, stage.STL(filepath.Join(dir, "empty.stl"), nil, false))

	require.NoError(t, stage.Script(scadPath, result.Script(32)))
	assert.Error(t, stage.Stage(scadPath, func(string) error { return nil }), "a path is staged once")
	stage.Discard()

	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
