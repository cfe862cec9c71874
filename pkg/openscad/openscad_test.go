package openscad

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScript(t *testing.T) *Script {
	t.Helper()
	hub := geometry.NewVector3(0, 0, 5)
	tube, err := geometry.PlanTube(geometry.NewCircle(geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 0, 1), 0.5), hub, 0.25)
	require.NoError(t, err)
	capSpec, err := geometry.PlanCap(geometry.NewCircle(geometry.NewVector3(3, 0, 0), geometry.NewVector3(1, 0, 0), 0.5), geometry.DefaultCapOptions())
	require.NoError(t, err)

	return &Script{Hub: &hub, Tubes: []geometry.TubeSpec{tube}, Caps: []geometry.CapSpec{capSpec}, Fragments: 32}
}

func TestScriptWriteTo(t *testing.T) {
	var sb strings.Builder
	n, err := testScript(t).WriteTo(&sb)
	require.NoError(t, err)

	out := sb.String()
	assert.Equal(t, int64(len(out)), n)
	assert.Contains(t, out, "$fn = 32;")
	assert.Contains(t, out, "// hub [0, 0, 5]")
	assert.Contains(t, out, "cylinder(h = 5, r = 0.75);")
	assert.Contains(t, out, "cylinder(h = 5.02, r = 0.5);")
	assert.Contains(t, out, "// cap 1 at [3, 0, 0]")
	assert.Contains(t, out, "cylinder(h = 0.5, r = 0.5);")
	assert.Equal(t, strings.Count(out, "{"), strings.Count(out, "}"))
}

func TestFrameMatrixPlacesCenter(t *testing.T) {
	p := geometry.AnnularProfile{
		Center: geometry.NewVector3(1, 2, 3),
		Normal: geometry.NewVector3(0, 0, 1),
		U:      geometry.NewVector3(1, 0, 0),
		V:      geometry.NewVector3(0, 1, 0),
	}
	assert.Equal(t, "[[1, 0, 0, 1], [0, 1, 0, 2], [0, 0, 1, 3], [0, 0, 0, 1]]", frameMatrix(p))
}

func TestRenderToSTL(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)
	if !r.Available() {
		t.Skip("openscad not installed")
	}

	scad := filepath.Join(dir, "hub.scad")
	f, err := os.Create(scad)
	require.NoError(t, err)
	_, err = testScript(t).WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "hub.stl")
	require.NoError(t, r.RenderToSTL(context.Background(), "hub.scad", out))

	model, err := stl.Parse(out)
	require.NoError(t, err)
	assert.NotZero(t, model.TriangleCount())
}
