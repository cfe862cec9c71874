package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/dowelhub/pkg/geometry"
)

// WriteBinary writes the model in binary STL format
func WriteBinary(w io.Writer, model *Model) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, binaryHeaderSize)
	copy(header, model.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, tri := range model.Triangles {
		record := binaryTriangle{
			Normal: toFloat32(facetNormal(tri)),
			V1:     toFloat32(tri.V1),
			V2:     toFloat32(tri.V2),
			V3:     toFloat32(tri.V3),
		}
		if err := binary.Write(bw, binary.LittleEndian, &record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// WriteASCII writes the model in ASCII STL format
func WriteASCII(w io.Writer, model *Model) error {
	bw := bufio.NewWriter(w)
	name := strings.Fields(model.Name)

	fmt.Fprintf(bw, "solid %s\n", strings.Join(name, "_"))
	for _, tri := range model.Triangles {
		n := facetNormal(tri)
		fmt.Fprintf(bw, "  facet normal %e %e %e\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range [3]geometry.Vector3{tri.V1, tri.V2, tri.V3} {
			fmt.Fprintf(bw, "      vertex %e %e %e\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", strings.Join(name, "_"))

	return bw.Flush()
}

// Save writes the model to filename, in ASCII when ascii is set and binary otherwise
func Save(filename string, model *Model, ascii bool) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if ascii {
		err = WriteASCII(file, model)
	} else {
		err = WriteBinary(file, model)
	}
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// facetNormal prefers the stored normal and recomputes it when missing
func facetNormal(tri geometry.Triangle) geometry.Vector3 {
	if tri.Normal.Length() > 0 {
		return tri.Normal
	}
	return tri.CalculateNormal()
}
