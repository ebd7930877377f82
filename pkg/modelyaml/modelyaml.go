// Package modelyaml dumps a parsed OBJ model as YAML.
package modelyaml

import (
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objtool/pkg/obj"
)

// Document is the YAML shape of a model.
type Document struct {
	Points [][3]float64 `yaml:"points,flow"`
	Groups []Group      `yaml:"groups"`
}

// Group is the YAML shape of one group.
type Group struct {
	Name   string        `yaml:"name"`
	Faces  [][]int       `yaml:"faces,flow"`
	Colors []*[4]float64 `yaml:"colors,flow"`
}

// FromModel converts m to its YAML document form.
func FromModel(m *obj.Model) Document {
	doc := Document{
		Points: make([][3]float64, len(m.Vertices)),
		Groups: make([]Group, len(m.Groups)),
	}
	for i, v := range m.Vertices {
		doc.Points[i] = [3]float64(v)
	}
	for i, g := range m.Groups {
		out := Group{
			Name:   g.Name,
			Faces:  make([][]int, len(g.Faces)),
			Colors: make([]*[4]float64, len(g.Faces)),
		}
		for j, f := range g.Faces {
			out.Faces[j] = f.Indices
			if f.Color != nil {
				c := [4]float64(*f.Color)
				out.Colors[j] = &c
			}
		}
		doc.Groups[i] = out
	}
	return doc
}

// Marshal renders m as YAML.
func Marshal(m *obj.Model) ([]byte, error) {
	return yaml.Marshal(FromModel(m))
}
