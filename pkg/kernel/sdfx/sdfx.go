// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/kernel"
	"github.com/philipparndt/dowelhub/pkg/stl"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// boreOvershoot lengthens the inner cylinder so the bore cuts cleanly through both ends.
const boreOvershoot = 1.02

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() geometry.BoundingBox {
	bb := s.s.BoundingBox()
	return geometry.BoundingBox{Min: fromVec(bb.Min), Max: fromVec(bb.Max)}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// New returns a new SdfxKernel. meshCells <= 0 selects DefaultMeshCells.
func New(meshCells int) *SdfxKernel {
	if meshCells <= 0 {
		meshCells = DefaultMeshCells
	}
	return &SdfxKernel{meshCells: meshCells}
}

// MeshCells returns the marching cubes resolution along the longest axis.
func (k *SdfxKernel) MeshCells() int {
	return k.meshCells
}

func unwrap(s kernel.Solid) (sdf.SDF3, error) {
	solid, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("solid %T was not created by the sdfx kernel", s)
	}
	return solid.s, nil
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Tube builds a ring of the profile's radii extruded from the path start to its end.
func (k *SdfxKernel) Tube(t geometry.TubeSpec) (kernel.Solid, error) {
	ring, err := ringSolid(t.Profile, 0, t.Length())
	if err != nil {
		return nil, fmt.Errorf("tube at %s: %w", t.Path.Start, err)
	}
	return wrap(ring), nil
}

// Cap builds the cap walls spanning [-Overlap, Height] along the ring normal
// and joins the plug disk filling [0, Overlap].
func (k *SdfxKernel) Cap(c geometry.CapSpec) (kernel.Solid, error) {
	walls, err := ringSolid(c.Ring, -c.Overlap, c.Height+c.Overlap)
	if err != nil {
		return nil, fmt.Errorf("cap walls at %s: %w", c.Ring.Center, err)
	}
	if c.Overlap <= 0 {
		return wrap(walls), nil
	}

	plug, err := sdf.Cylinder3D(c.Overlap, c.Ring.InnerRadius, 0)
	if err != nil {
		return nil, fmt.Errorf("cap plug at %s: %w", c.Ring.Center, err)
	}
	plug = sdf.Transform3D(plug, placement(c.Ring.Center, c.Ring.Normal, c.Overlap/2))

	return wrap(sdf.Union3D(walls, plug)), nil
}

// Union returns the union of all solids.
func (k *SdfxKernel) Union(solids ...kernel.Solid) (kernel.Solid, error) {
	if len(solids) == 0 {
		return nil, errors.New("union of no solids")
	}
	parts := make([]sdf.SDF3, len(solids))
	for i, s := range solids {
		part, err := unwrap(s)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}
	if len(parts) == 1 {
		return wrap(parts[0]), nil
	}
	return wrap(sdf.Union3D(parts...)), nil
}

// ToModel converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToModel(s kernel.Solid, name string) (*stl.Model, error) {
	sdf3, err := unwrap(s)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	model := stl.NewModel(name)
	for _, tri := range triangles {
		model.AddTriangle(geometry.NewTriangle(
			fromVec(tri.Normal()),
			fromVec(tri[0]),
			fromVec(tri[1]),
			fromVec(tri[2]),
		))
	}
	if model.TriangleCount() == 0 {
		return nil, fmt.Errorf("tessellation of %q produced no triangles", name)
	}
	return model, nil
}

// ringSolid extrudes the annular profile over [from, from+length] along its normal.
func ringSolid(p geometry.AnnularProfile, from, length float64) (sdf.SDF3, error) {
	if length <= 0 {
		return nil, fmt.Errorf("extrusion length must be positive, got %g", length)
	}

	outer, err := sdf.Cylinder3D(length, p.OuterRadius, 0)
	if err != nil {
		return nil, err
	}
	inner, err := sdf.Cylinder3D(length*boreOvershoot, p.InnerRadius, 0)
	if err != nil {
		return nil, err
	}

	ring := sdf.Difference3D(outer, inner)
	return sdf.Transform3D(ring, placement(p.Center, p.Normal, from+length/2)), nil
}

// placement maps the Z axis onto normal, shifts by offset along it and moves
// the origin to center. sdfx cylinders are centered on the origin along Z.
func placement(center, normal geometry.Vector3, offset float64) sdf.M44 {
	theta := math.Acos(math.Max(-1, math.Min(1, normal.Z)))
	phi := math.Atan2(normal.Y, normal.X)

	return sdf.Translate3d(toVec(center)).
		Mul(sdf.RotateZ(phi)).
		Mul(sdf.RotateY(theta)).
		Mul(sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: offset}))
}

func toVec(v geometry.Vector3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromVec(v v3.Vec) geometry.Vector3 {
	return geometry.NewVector3(v.X, v.Y, v.Z)
}
