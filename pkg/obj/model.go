// Package obj parses Wavefront OBJ geometry into a flat, group-partitioned model.
package obj

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultGroupName is used for faces that appear before any "g" directive.
const DefaultGroupName = "default"

// Vertex is a single "v" position.
type Vertex = mgl64.Vec3

// Color is an RGBA color with components in [0, 1].
type Color [4]float64

// Materials maps material names to their resolved colors.
type Materials map[string]Color

// Face is a polygon referencing the model's vertex list by 0-based index.
// Color is nil when no material was bound.
type Face struct {
	Indices []int
	Color   *Color
}

// Group is a named run of faces started by a "g" directive.
type Group struct {
	Index int
	Name  string
	Faces []Face
}

// Model is the result of parsing one OBJ document.
// Vertices are shared by every group.
type Model struct {
	Vertices []Vertex
	Groups   []Group
}

// FaceCount returns the number of faces across all groups.
func (m *Model) FaceCount() int {
	n := 0
	for i := range m.Groups {
		n += len(m.Groups[i].Faces)
	}
	return n
}

// Bounds returns the axis-aligned bounding box of all vertices.
// Both corners are zero for an empty model.
func (m *Model) Bounds() (min, max Vertex) {
	if len(m.Vertices) == 0 {
		return Vertex{}, Vertex{}
	}
	min = m.Vertices[0]
	max = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], v[i])
			max[i] = math.Max(max[i], v[i])
		}
	}
	return min, max
}

// Colors returns the distinct face colors of a group in first-use order.
// A nil entry stands for faces without a material.
func (g *Group) Colors() []*Color {
	var out []*Color
	seen := make(map[Color]bool)
	sawNil := false
	for _, f := range g.Faces {
		if f.Color == nil {
			if !sawNil {
				sawNil = true
				out = append(out, nil)
			}
			continue
		}
		if !seen[*f.Color] {
			seen[*f.Color] = true
			out = append(out, f.Color)
		}
	}
	return out
}
