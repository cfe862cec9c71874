package openscad

import (
	"bufio"
	"fmt"
	"io"

	"github.com/philipparndt/dowelhub/pkg/geometry"
)

// DefaultFragments is the $fn used for every cylinder
const DefaultFragments = 96

// bore extends inner cylinders past both ends so the difference leaves no skin
const bore = 0.01

// Script collects tubes and caps and writes them as one OpenSCAD union
type Script struct {
	Hub       *geometry.Vector3
	Tubes     []geometry.TubeSpec
	Caps      []geometry.CapSpec
	Fragments int
}

// WriteTo writes the script. Each ring is modeled along +Z and placed with a
// multmatrix built from the profile frame (U, V, Normal, Center).
func (s *Script) WriteTo(w io.Writer) (int64, error) {
	fragments := s.Fragments
	if fragments <= 0 {
		fragments = DefaultFragments
	}

	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	fmt.Fprintln(cw, "// generated by dowelhub")
	fmt.Fprintf(cw, "$fn = %d;\n\n", fragments)

	if s.Hub != nil {
		fmt.Fprintf(cw, "// hub %s\n", formatVector(*s.Hub))
	}

	fmt.Fprintln(cw, "union() {")
	for i, tube := range s.Tubes {
		fmt.Fprintf(cw, "  // tube %d from %s\n", i+1, formatVector(tube.Path.Start))
		fmt.Fprintf(cw, "  multmatrix(%s)\n", frameMatrix(tube.Profile))
		writeRing(cw, "    ", tube.Profile, 0, tube.Length())
	}
	for i, c := range s.Caps {
		fmt.Fprintf(cw, "  // cap %d at %s\n", i+1, formatVector(c.Ring.Center))
		fmt.Fprintf(cw, "  multmatrix(%s) union() {\n", frameMatrix(c.Ring))
		writeRing(cw, "    ", c.Ring, -c.Overlap, c.Height+c.Overlap)
		if c.Overlap > 0 {
			fmt.Fprintf(cw, "    cylinder(h = %g, r = %g);\n", c.Overlap, c.Ring.InnerRadius)
		}
		fmt.Fprintln(cw, "  }")
	}
	fmt.Fprintln(cw, "}")

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, cw.err
}

func writeRing(w io.Writer, indent string, p geometry.AnnularProfile, from, length float64) {
	fmt.Fprintf(w, "%stranslate([0, 0, %g]) difference() {\n", indent, from)
	fmt.Fprintf(w, "%s  cylinder(h = %g, r = %g);\n", indent, length, p.OuterRadius)
	fmt.Fprintf(w, "%s  translate([0, 0, %g]) cylinder(h = %g, r = %g);\n", indent, -bore, length+2*bore, p.InnerRadius)
	fmt.Fprintf(w, "%s}\n", indent)
}

// frameMatrix maps local X, Y, Z onto U, V, Normal and the origin onto Center
func frameMatrix(p geometry.AnnularProfile) string {
	u, v, n, c := p.U, p.V, p.Normal, p.Center
	return fmt.Sprintf("[[%g, %g, %g, %g], [%g, %g, %g, %g], [%g, %g, %g, %g], [0, 0, 0, 1]]",
		u.X, v.X, n.X, c.X,
		u.Y, v.Y, n.Y, c.Y,
		u.Z, v.Z, n.Z, c.Z,
	)
}

func formatVector(v geometry.Vector3) string {
	return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
