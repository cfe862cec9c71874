// Package kernel defines the solid modeling backend that turns planned tube
// and cap geometry into meshes. The planners in package geometry only
// describe paths and profiles; a Kernel performs the actual sweep.
package kernel

import (
	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/stl"
)

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() geometry.BoundingBox
}

// Kernel builds solids from planned geometry.
type Kernel interface {
	// Tube sweeps the annular profile along the straight path.
	Tube(t geometry.TubeSpec) (Solid, error)
	// Cap extrudes the cap ring two-sided and closes it with the plug.
	Cap(c geometry.CapSpec) (Solid, error)

	Union(solids ...Solid) (Solid, error)

	// ToModel tessellates a solid into a triangle mesh.
	ToModel(s Solid, name string) (*stl.Model, error)
}
