// Package jscad renders a parsed OBJ model as a JSCAD script built from
// primitives.polyhedron calls, one per group, sharing a single point list.
package jscad

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Faultbox/objtool/pkg/obj"
)

// Options controls script generation.
type Options struct {
	// AddMetaData prepends a comment block naming the producer and source.
	AddMetaData bool
	Filename    string
	Version     string
	// Date is written to the metadata block when non-zero.
	Date time.Time
}

// Serialize renders m as JSCAD source. Output depends only on m and opts.
func Serialize(m *obj.Model, opts Options) string {
	var b strings.Builder

	if opts.AddMetaData {
		writeMetaData(&b, m, opts)
	}

	fmt.Fprintf(&b, "// groups: %d\n", len(m.Groups))
	fmt.Fprintf(&b, "// points: %d\n", len(m.Vertices))
	b.WriteString("function main() {\n")
	b.WriteString("  // points are common to all geometries\n")
	b.WriteString("  let points = [\n")
	for _, v := range m.Vertices {
		b.WriteString("    ")
		writeList(&b, v[:])
		b.WriteString(",\n")
	}
	b.WriteString("  ]\n")
	b.WriteString("\n")
	b.WriteString("  let geometries = [\n")
	for _, g := range m.Groups {
		fmt.Fprintf(&b, "    group%d(points), // %s\n", g.Index, g.Name)
	}
	b.WriteString("  ]\n")
	b.WriteString("  return geometries\n")
	b.WriteString("}\n")
	b.WriteString("\n")

	for i := range m.Groups {
		writeGroup(&b, &m.Groups[i])
	}
	b.WriteString("\n")

	return b.String()
}

func writeMetaData(b *strings.Builder, m *obj.Model, opts Options) {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	filename := opts.Filename
	if filename == "" {
		filename = "obj"
	}

	b.WriteString("//\n")
	fmt.Fprintf(b, "// Produced by objtool : OBJ Deserializer (%s)\n", version)
	if !opts.Date.IsZero() {
		fmt.Fprintf(b, "// date: %s\n", opts.Date.Format(time.RFC1123Z))
	}
	fmt.Fprintf(b, "// source: %s\n", filename)
	if len(m.Vertices) > 0 {
		min, max := m.Bounds()
		b.WriteString("// bounds: ")
		writeList(b, min[:])
		b.WriteString(" - ")
		writeList(b, max[:])
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "// faces: %d\n", m.FaceCount())
	b.WriteString("//\n")
}

func writeGroup(b *strings.Builder, g *obj.Group) {
	b.WriteString("\n")
	fmt.Fprintf(b, "// group : %s\n", g.Name)
	fmt.Fprintf(b, "// faces: %d\n", len(g.Faces))
	fmt.Fprintf(b, "const group%d = (points) => {\n", g.Index)

	b.WriteString("  let faces = [\n")
	for _, f := range g.Faces {
		b.WriteString("    [")
		for i, idx := range f.Indices {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(idx))
		}
		b.WriteString("],\n")
	}
	b.WriteString("  ]\n")

	b.WriteString("  let colors = [\n")
	for _, f := range g.Faces {
		b.WriteString("    ")
		if f.Color == nil {
			b.WriteString("null")
		} else {
			writeList(b, f.Color[:])
		}
		b.WriteString(",\n")
	}
	b.WriteString("  ]\n")

	b.WriteString("  return primitives.polyhedron({ orientation: 'outward', points, faces, colors })\n")
	b.WriteString("}\n")
}

// writeList writes values as a bracketed, comma-separated literal without spaces.
func writeList(b *strings.Builder, values []float64) {
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(FormatNumber(v))
	}
	b.WriteByte(']')
}
