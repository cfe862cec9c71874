// Package document reads the circle descriptors a host exported for the
// selected hole edges. Documents are YAML or JSON:
//
//	units: cm
//	circles:
//	  - name: leg-1
//	    center: [0, 0, 0]
//	    normal: [0.577, 0.577, 0.577]
//	    radius: 0.5
//	  - name: leg-2
//	    rim: [[10.5, 0, 0], [10, 0.5, 0], [9.5, 0, 0]]
//
// A circle is given either by center, normal and radius, or by three or
// more points on its rim. A rim normal points to the side from which the
// points run counterclockwise; an optional normal on a rim entry picks the
// side instead.
//
// Units are cm (the default), mm or m. Coordinates and radii are converted
// to cm, the unit all lengths in the config use.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/dowelhub/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// Vec3 is a vector written as a three element list
type Vec3 [3]float64

// Vector converts to a geometry vector
func (v Vec3) Vector() geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}

// CircleData is one circle entry
type CircleData struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Center *Vec3   `json:"center,omitempty" yaml:"center,omitempty"`
	Normal *Vec3   `json:"normal,omitempty" yaml:"normal,omitempty"`
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Rim    []Vec3  `json:"rim,omitempty" yaml:"rim,omitempty"`
}

// Document is the top-level input
type Document struct {
	Units   string       `json:"units,omitempty" yaml:"units,omitempty"`
	Circles []CircleData `json:"circles" yaml:"circles"`
}

// unitScale converts a length in the given unit to cm
var unitScale = map[string]float64{
	"":   1,
	"cm": 1,
	"mm": 0.1,
	"m":  100,
}

// Scale returns the factor converting document lengths to cm
func (d *Document) Scale() (float64, error) {
	scale, ok := unitScale[strings.ToLower(strings.TrimSpace(d.Units))]
	if !ok {
		return 0, fmt.Errorf("unsupported units %q (expected cm, mm or m)", d.Units)
	}
	return scale, nil
}

// Format selects the encoding of a document
type Format int

const (
	YAML Format = iota
	JSON
)

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("unsupported file type: %s (expected .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// Load reads a document from path
func Load(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Decode reads a document in the given format. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document

	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}

	if _, err := doc.Scale(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode writes the document in the given format
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %d", format)
	}
}

// Resolve converts every entry into a validated circle in cm
func (d *Document) Resolve() ([]geometry.Circle, error) {
	scale, err := d.Scale()
	if err != nil {
		return nil, err
	}

	circles := make([]geometry.Circle, 0, len(d.Circles))
	for i, entry := range d.Circles {
		circle, err := entry.scaled(scale).Circle()
		if err != nil {
			return nil, fmt.Errorf("circle %d%s: %w", i+1, entry.label(), err)
		}
		circles = append(circles, circle)
	}
	return circles, nil
}

// Circle converts one entry as given, without unit conversion. Rim points
// take the place of center and radius.
func (c CircleData) Circle() (geometry.Circle, error) {
	if len(c.Rim) > 0 {
		if c.Center != nil || c.Radius != 0 {
			return geometry.Circle{}, errors.New("rim cannot be combined with center or radius")
		}
		points := make([]geometry.Vector3, len(c.Rim))
		for i, p := range c.Rim {
			points[i] = p.Vector()
		}
		fit, err := geometry.FitCircle(points)
		if err != nil {
			return geometry.Circle{}, fmt.Errorf("rim: %w", err)
		}
		if c.Normal != nil {
			if err := fit.OrientToward(c.Normal.Vector()); err != nil {
				return geometry.Circle{}, fmt.Errorf("rim: %w", err)
			}
		}
		return fit.Circle(), nil
	}

	if c.Center == nil || c.Normal == nil {
		return geometry.Circle{}, errors.New("center and normal are required")
	}
	circle := geometry.NewCircle(c.Center.Vector(), c.Normal.Vector(), c.Radius)
	if err := circle.Validate(); err != nil {
		return geometry.Circle{}, err
	}
	return circle, nil
}

// Names returns the display name of every circle, numbering unnamed ones
func (d *Document) Names() []string {
	names := make([]string, len(d.Circles))
	for i, c := range d.Circles {
		names[i] = c.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("circle-%d", i+1)
		}
	}
	return names
}

// scaled returns a copy with all lengths multiplied by scale. Normals are
// directions and stay as they are.
func (c CircleData) scaled(scale float64) CircleData {
	if scale == 1 {
		return c
	}
	if c.Center != nil {
		center := Vec3{c.Center[0] * scale, c.Center[1] * scale, c.Center[2] * scale}
		c.Center = &center
	}
	c.Radius *= scale
	if len(c.Rim) > 0 {
		rim := make([]Vec3, len(c.Rim))
		for i, p := range c.Rim {
			rim[i] = Vec3{p[0] * scale, p[1] * scale, p[2] * scale}
		}
		c.Rim = rim
	}
	return c
}

func (c CircleData) label() string {
	if c.Name == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", c.Name)
}
