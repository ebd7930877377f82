package obj

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

const byteOrderMark = "\ufeff"

// parser holds the state of a single pass over an OBJ document.
type parser struct {
	materials Materials

	vertices []Vertex
	groups   []Group
	current  int // index into groups, -1 until a group is opened
	color    *Color
}

// Parse converts OBJ text into a Model. A leading UTF-8 byte order mark is ignored.
//
// Material names given to "usemtl" are looked up in materials first and then
// as CSS color names. Unknown materials leave faces uncolored.
// Any malformed number, out-of-range index or degenerate face aborts the parse.
func Parse(text string, materials Materials) (*Model, error) {
	stmts, err := scan([]byte(strings.TrimPrefix(text, byteOrderMark)))
	if err != nil {
		return nil, err
	}

	p := &parser{materials: materials, current: -1}
	for _, st := range stmts {
		if err := p.statement(st); err != nil {
			return nil, err
		}
	}
	return p.model(), nil
}

// ParseReader reads r fully and parses it.
func ParseReader(r io.Reader, materials Materials) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}
	return Parse(string(data), materials)
}

// MaterialLibraries returns the file names referenced by "mtllib" directives, in order.
func MaterialLibraries(text string) ([]string, error) {
	stmts, err := scan([]byte(strings.TrimPrefix(text, byteOrderMark)))
	if err != nil {
		return nil, err
	}
	var libs []string
	for _, st := range stmts {
		if st.keyword == "mtllib" {
			libs = append(libs, st.args...)
		}
	}
	return libs, nil
}

func (p *parser) statement(st statement) error {
	switch st.keyword {
	case "v":
		return p.vertex(st)
	case "g":
		p.openGroup(strings.Join(st.args, " "))
	case "usemtl":
		p.useMaterial(st.args)
	case "f":
		return p.face(st)
	}
	// vt, vn, s, o, mtllib and everything else carries nothing we emit.
	return nil
}

func (p *parser) vertex(st statement) error {
	if len(st.args) < 3 {
		return &ParseError{
			Line:      st.line,
			Directive: st.keyword,
			Err:       fmt.Errorf("%w: expected 3 coordinates, got %d", ErrMalformedNumber, len(st.args)),
		}
	}

	var v Vertex
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(st.args[i], 64)
		if err != nil {
			return &ParseError{Line: st.line, Directive: st.keyword, Token: st.args[i], Err: ErrMalformedNumber}
		}
		v[i] = f
	}
	p.vertices = append(p.vertices, v)
	return nil
}

func (p *parser) openGroup(name string) {
	if name == "" {
		name = DefaultGroupName
	}
	p.groups = append(p.groups, Group{Name: name})
	p.current = len(p.groups) - 1
}

func (p *parser) useMaterial(args []string) {
	p.color = nil
	if len(args) == 0 {
		return
	}
	if c, ok := ResolveColor(args[0], p.materials); ok {
		p.color = &c
	}
}

// ResolveColor looks name up in materials, then as a CSS color name.
// Names that read as bare hex ("bad", "cafe") are not treated as colors.
func ResolveColor(name string, materials Materials) (Color, bool) {
	if c, ok := materials[name]; ok {
		return c, true
	}
	if isHex(name) {
		return Color{}, false
	}
	c, err := csscolorparser.Parse(name)
	if err != nil {
		return Color{}, false
	}
	return Color{c.R, c.G, c.B, c.A}, true
}

func isHex(name string) bool {
	for _, r := range name {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func (p *parser) face(st statement) error {
	indices := make([]int, 0, len(st.args))
	distinct := make(map[int]struct{}, len(st.args))

	for _, tok := range st.args {
		idx, err := p.resolveIndex(tok)
		if err != nil {
			return &ParseError{Line: st.line, Directive: st.keyword, Token: tok, Err: err}
		}
		indices = append(indices, idx)
		distinct[idx] = struct{}{}
	}

	if len(distinct) < 3 {
		return &ParseError{
			Line:      st.line,
			Directive: st.keyword,
			Token:     strings.Join(st.args, " "),
			Err:       ErrDegenerateFace,
		}
	}

	if p.current < 0 {
		p.openGroup(DefaultGroupName)
	}

	face := Face{Indices: indices}
	if p.color != nil {
		c := *p.color
		face.Color = &c
	}
	g := &p.groups[p.current]
	g.Faces = append(g.Faces, face)
	return nil
}

// resolveIndex normalizes a face reference ("7", "-2", "7/1/3") to a 0-based
// index, resolving negative references against the vertices read so far.
func (p *parser) resolveIndex(tok string) (int, error) {
	ref := tok
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		ref = tok[:i]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, ErrMalformedNumber
	}

	count := len(p.vertices)
	idx := n - 1
	if n < 0 {
		idx = count + n
	}
	if n == 0 || idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %d with %d vertices declared", ErrIndexOutOfRange, n, count)
	}
	return idx, nil
}

// model drops groups that never received a face and numbers the rest.
func (p *parser) model() *Model {
	m := &Model{Vertices: p.vertices}
	for _, g := range p.groups {
		if len(g.Faces) == 0 {
			continue
		}
		g.Index = len(m.Groups)
		m.Groups = append(m.Groups, g)
	}
	return m
}
