// Package convert turns OBJ text into one of the supported output formats.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Faultbox/objtool/pkg/glb"
	"github.com/Faultbox/objtool/pkg/jscad"
	"github.com/Faultbox/objtool/pkg/modelyaml"
	"github.com/Faultbox/objtool/pkg/obj"
)

// ErrUnknownOutput is returned for an output name that has no writer.
var ErrUnknownOutput = errors.New("unknown output format")

// Output selects the serialized form of a model.
type Output string

// Supported outputs.
const (
	OutputJSCAD Output = "jscad"
	OutputGLB   Output = "glb"
	OutputYAML  Output = "yaml"
)

// Outputs lists every supported output in display order.
var Outputs = []Output{OutputJSCAD, OutputGLB, OutputYAML}

// Extension returns the file extension used for the output, with a leading dot.
func (o Output) Extension() string {
	switch o {
	case OutputGLB:
		return ".glb"
	case OutputYAML:
		return ".yaml"
	default:
		return ".jscad"
	}
}

// ContentType returns the MIME type of the output.
func (o Output) ContentType() string {
	switch o {
	case OutputGLB:
		return "model/gltf-binary"
	case OutputYAML:
		return "application/yaml"
	default:
		return "application/javascript"
	}
}

// ParseOutput validates an output name. An empty name selects jscad.
func ParseOutput(name string) (Output, error) {
	if name == "" {
		return OutputJSCAD, nil
	}
	o := Output(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Outputs {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutput, name)
}

// Options configures a conversion.
type Options struct {
	Output      Output
	AddMetaData bool
	Filename    string
	Version     string
	Date        time.Time
}

// Deserialize parses OBJ text and serializes the resulting model.
// A parse failure returns no output.
func Deserialize(text string, materials obj.Materials, opts Options) ([]byte, error) {
	m, err := obj.Parse(text, materials)
	if err != nil {
		return nil, err
	}
	return Serialize(m, opts)
}

// Serialize writes an already parsed model in the selected output.
func Serialize(m *obj.Model, opts Options) ([]byte, error) {
	output := opts.Output
	if output == "" {
		output = OutputJSCAD
	}

	switch output {
	case OutputJSCAD:
		return []byte(jscad.Serialize(m, jscad.Options{
			AddMetaData: opts.AddMetaData,
			Filename:    opts.Filename,
			Version:     opts.Version,
			Date:        opts.Date,
		})), nil
	case OutputGLB:
		var buf bytes.Buffer
		if err := glb.Encode(&buf, m); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case OutputYAML:
		data, err := modelyaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, output)
	}
}
