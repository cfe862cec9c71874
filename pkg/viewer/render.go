// Package viewer renders meshes to still images for previews.
package viewer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/philipparndt/dowelhub/pkg/geometry"
	"github.com/philipparndt/dowelhub/pkg/stl"
	"golang.org/x/image/draw"
)

// Options controls a preview render
type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the size and scales down
	Supersample int
	// RotationX and RotationY orbit the camera around the model center
	RotationX, RotationY float64
	Background           color.RGBA
	Surface              color.RGBA
	Overlay              color.RGBA
}

// DefaultOptions returns a three-quarter view
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      600,
		Supersample: 2,
		RotationX:   0.5,
		RotationY:   0.7,
		Background:  color.RGBA{30, 30, 35, 255},
		Surface:     color.RGBA{200, 170, 120, 255},
		Overlay:     color.RGBA{230, 60, 60, 255},
	}
}

// Render draws the model with flat shading. Overlay segments such as rod
// axes are drawn on top where they are not hidden by the surface.
func Render(model *stl.Model, opts Options, overlays ...geometry.Segment) (*image.RGBA, error) {
	if model == nil || model.TriangleCount() == 0 {
		return nil, errors.New("nothing to render")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	scale := max(opts.Supersample, 1)
	width, height := opts.Width*scale, opts.Height*scale

	bbox := model.BoundingBox()
	for _, s := range overlays {
		bbox.Extend(s.Start)
		bbox.Extend(s.End)
	}
	camera := NewCamera(bbox)
	camera.Rotate(opts.RotationX, opts.RotationY)

	buf := newDepthBuffer(width, height, opts.Background)
	light := camera.Forward().Mul(-1)
	project := func(v geometry.Vector3) [3]float64 {
		x, y, z := camera.Project(v, float64(width), float64(height))
		return [3]float64{x, y, z}
	}

	for _, tri := range model.Triangles {
		normal := tri.CalculateNormal()
		// Two-sided lighting keeps inner bore walls visible
		intensity := 0.25 + 0.75*math.Abs(normal.Dot(light))
		buf.fillTriangle([3][3]float64{project(tri.V1), project(tri.V2), project(tri.V3)}, shade(opts.Surface, intensity))
	}

	for _, s := range overlays {
		buf.drawLine(project(s.Start), project(s.End), opts.Overlay)
	}

	if scale == 1 {
		return buf.img, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), buf.img, buf.img.Bounds(), draw.Src, nil)
	return out, nil
}

// SavePNG writes img to filename
func SavePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return file.Close()
}

func shade(c color.RGBA, intensity float64) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, float64(v)*intensity))
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}
