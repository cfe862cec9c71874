package viewer

import (
	"image"
	"image/color"
	"math"
)

// depthBuffer pairs an image with per-pixel depth; smaller depth is closer
type depthBuffer struct {
	img   *image.RGBA
	depth []float64
}

func newDepthBuffer(width, height int, background color.RGBA) *depthBuffer {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = background.R, background.G, background.B, background.A
	}

	depth := make([]float64, width*height)
	for i := range depth {
		depth[i] = math.Inf(1)
	}
	return &depthBuffer{img: img, depth: depth}
}

func (b *depthBuffer) plot(x, y int, z float64, col color.RGBA) {
	bounds := b.img.Bounds()
	if x < 0 || y < 0 || x >= bounds.Max.X || y >= bounds.Max.Y {
		return
	}
	idx := y*bounds.Max.X + x
	if z < b.depth[idx] {
		b.depth[idx] = z
		b.img.SetRGBA(x, y, col)
	}
}

// fillTriangle rasterizes a projected triangle with depth testing. Pixels are
// covered when their center lies inside the triangle; depth is interpolated
// barycentrically.
func (b *depthBuffer) fillTriangle(p [3][3]float64, col color.RGBA) {
	area := edge(p[0], p[1], p[2][0], p[2][1])
	if area == 0 || math.IsNaN(area) {
		return
	}

	bounds := b.img.Bounds()
	minX := int(math.Max(0, math.Floor(math.Min(p[0][0], math.Min(p[1][0], p[2][0])))))
	maxX := int(math.Min(float64(bounds.Max.X-1), math.Ceil(math.Max(p[0][0], math.Max(p[1][0], p[2][0])))))
	minY := int(math.Max(0, math.Floor(math.Min(p[0][1], math.Min(p[1][1], p[2][1])))))
	maxY := int(math.Min(float64(bounds.Max.Y-1), math.Ceil(math.Max(p[0][1], math.Max(p[1][1], p[2][1])))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			w0 := edge(p[1], p[2], px, py) / area
			w1 := edge(p[2], p[0], px, py) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			b.plot(x, y, w0*p[0][2]+w1*p[1][2]+w2*p[2][2], col)
		}
	}
}

// drawLine draws a depth-tested line with Bresenham's algorithm
func (b *depthBuffer) drawLine(from, to [3]float64, col color.RGBA) {
	x1, y1 := int(math.Round(from[0])), int(math.Round(from[1]))
	x2, y2 := int(math.Round(to[0])), int(math.Round(to[1]))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := max(dx, dy)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for i := 0; ; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		// Bias lines slightly towards the camera so they stay visible on surfaces
		b.plot(x1, y1, (from[2]+t*(to[2]-from[2]))*0.995, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func edge(a, b [3]float64, x, y float64) float64 {
	return (b[0]-a[0])*(y-a[1]) - (b[1]-a[1])*(x-a[0])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
