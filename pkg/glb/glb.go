// Package glb writes a parsed OBJ model as a binary glTF (GLB) document.
package glb

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/objtool/pkg/obj"
)

// Build converts m into a glTF document. All groups share one POSITION
// accessor; each group becomes a mesh and node, with one primitive per face
// color. Polygons are fan-triangulated, keeping their winding.
func Build(m *obj.Model) *gltf.Document {
	doc := gltf.NewDocument()
	if len(m.Vertices) == 0 {
		return doc
	}

	positions := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
	}
	positionAccessor := modeler.WritePosition(doc, positions)

	materials := make(map[obj.Color]uint32)
	materialFor := func(c obj.Color) uint32 {
		if idx, ok := materials[c]; ok {
			return idx
		}
		color := new([4]float32)
		*color = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name:        fmt.Sprintf("color%d", len(doc.Materials)),
			DoubleSided: true,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: color,
			},
		})
		idx := uint32(len(doc.Materials) - 1)
		materials[c] = idx
		return idx
	}

	for i := range m.Groups {
		g := &m.Groups[i]
		mesh := &gltf.Mesh{Name: g.Name}

		for _, color := range g.Colors() {
			indices := triangulate(g.Faces, color)
			indicesAccessor := modeler.WriteIndices(doc, indices)

			primitive := &gltf.Primitive{
				Indices:    gltf.Index(indicesAccessor),
				Attributes: map[string]uint32{"POSITION": positionAccessor},
			}
			if color != nil {
				primitive.Material = gltf.Index(materialFor(*color))
			}
			mesh.Primitives = append(mesh.Primitives, primitive)
		}

		doc.Meshes = append(doc.Meshes, mesh)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: g.Name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}

	return doc
}

// Encode writes m to w as GLB.
func Encode(w io.Writer, m *obj.Model) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	if err := encoder.Encode(Build(m)); err != nil {
		return fmt.Errorf("encoding glb: %w", err)
	}
	return nil
}

// triangulate fans every face whose color matches into triangle indices.
func triangulate(faces []obj.Face, color *obj.Color) []uint32 {
	var out []uint32
	for _, f := range faces {
		if !sameColor(f.Color, color) {
			continue
		}
		for i := 2; i < len(f.Indices); i++ {
			out = append(out,
				uint32(f.Indices[0]),
				uint32(f.Indices[i-1]),
				uint32(f.Indices[i]))
		}
	}
	return out
}

func sameColor(a, b *obj.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
