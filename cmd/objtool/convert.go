package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objtool/internal/config"
	"github.com/Faultbox/objtool/internal/logger"
	"github.com/Faultbox/objtool/pkg/convert"
	"github.com/Faultbox/objtool/pkg/encoding"
	"github.com/Faultbox/objtool/pkg/mtl"
	"github.com/Faultbox/objtool/pkg/obj"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
}

func dumpModel(m *obj.Model) string {
	return spewConfig.Sdump(m)
}

// cmdConvert converts every input and returns the process exit code.
func cmdConvert(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	out := fs.String("o", "", "Output file, directory, or - for stdout")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool convert [-o path] <file.obj>...")
		return 1
	}

	opts := cfg.ConvertOptions(Version)
	inputs := fs.Args()

	var errs error
	converted := 0
	for _, input := range inputs {
		target, err := outputPath(input, *out, cfg.Convert.OutputDir, opts.Output, len(inputs))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := convertFile(cfg, input, target, opts); err != nil {
			logger.Error("conversion failed", zap.String("file", input), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", input, err))
			continue
		}
		converted++
	}

	if len(inputs) > 1 {
		fmt.Fprintf(os.Stderr, "\nConverted %d of %d files\n", converted, len(inputs))
	}
	logger.Sugar.Debugf("convert finished: %d of %d files", converted, len(inputs))
	if errs != nil {
		for _, err := range multierr.Errors(errs) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// outputPath decides where input's conversion goes. An empty result means stdout.
// Input "-" (stdin) goes to stdout unless -o names a destination.
func outputPath(input, out, outputDir string, output convert.Output, inputs int) (string, error) {
	if input == stdinName {
		if out == "" || out == "-" {
			return "", nil
		}
		input = "stdin"
	}
	if out == "-" {
		if inputs > 1 {
			return "", fmt.Errorf("cannot write %d files to stdout", inputs)
		}
		return "", nil
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + output.Extension()

	if out != "" {
		if inputs == 1 && !strings.HasSuffix(out, string(os.PathSeparator)) {
			if info, err := os.Stat(out); err != nil || !info.IsDir() {
				return out, nil
			}
		}
		return filepath.Join(out, base), nil
	}
	if outputDir != "" {
		return filepath.Join(outputDir, base), nil
	}
	return filepath.Join(filepath.Dir(input), base), nil
}

func convertFile(cfg *config.Config, input, target string, opts convert.Options) error {
	m, err := loadModel(cfg, input)
	if err != nil {
		return err
	}

	opts.Filename = filepath.Base(input)
	if input == stdinName {
		opts.Filename = ""
	}
	data, err := convert.Serialize(m, opts)
	if err != nil {
		return err
	}

	if target == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Info("converted",
		zap.String("input", input),
		zap.String("output", target),
		zap.Int("groups", len(m.Groups)),
		zap.Int("points", len(m.Vertices)))
	fmt.Printf("Converted: %s -> %s (%d bytes)\n", input, target, len(data))
	return nil
}

// stdinName is the input path that reads the OBJ document from stdin.
const stdinName = "-"

// loadModel reads, decodes and parses an OBJ file along with its materials.
func loadModel(cfg *config.Config, path string) (*obj.Model, error) {
	if path == stdinName {
		return loadStdin(cfg)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	text, err := encoding.Decode(raw, cfg.Convert.Encoding)
	if err != nil {
		return nil, err
	}

	materials, err := loadMaterials(cfg, path, text)
	if err != nil {
		return nil, err
	}

	m, err := obj.Parse(text, materials)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed",
		zap.String("file", path),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("groups", len(m.Groups)),
		zap.Int("faces", m.FaceCount()))
	return m, nil
}

// loadStdin parses an OBJ document streamed on stdin. mtllib references have
// no directory to resolve against, so only the configured library applies.
func loadStdin(cfg *config.Config) (*obj.Model, error) {
	var materials obj.Materials
	if cfg.Convert.Materials != "" {
		var err error
		if materials, err = mtl.ParseFile(cfg.Convert.Materials); err != nil {
			return nil, err
		}
	}

	r, err := encoding.NewReader(os.Stdin, cfg.Convert.Encoding)
	if err != nil {
		return nil, err
	}
	m, err := obj.ParseReader(r, materials)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed stdin",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("groups", len(m.Groups)))
	return m, nil
}

// loadMaterials builds the material table for an OBJ file from its mtllib
// references, read relative to it. The configured library is used only when
// the file names none. Missing libraries produce a warning.
func loadMaterials(cfg *config.Config, path, text string) (obj.Materials, error) {
	libs, err := obj.MaterialLibraries(text)
	if err != nil {
		return nil, err
	}
	if len(libs) == 0 {
		if cfg.Convert.Materials == "" {
			return nil, nil
		}
		return mtl.ParseFile(cfg.Convert.Materials)
	}

	materials := make(obj.Materials)
	for _, lib := range libs {
		libPath := filepath.Join(filepath.Dir(path), lib)
		raw, err := os.ReadFile(libPath)
		if err != nil {
			logger.Warn("material library not found", zap.String("file", libPath), zap.Error(err))
			continue
		}
		libText, err := encoding.Decode(raw, cfg.Convert.Encoding)
		if err != nil {
			return nil, err
		}
		parsed, err := mtl.Parse(libText)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", libPath, err)
		}
		for name, c := range parsed {
			materials[name] = c
		}
	}
	return materials, nil
}
