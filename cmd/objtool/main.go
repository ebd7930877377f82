// objtool converts Wavefront OBJ geometry into JSCAD scripts and other formats.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/objtool/internal/config"
	"github.com/Faultbox/objtool/internal/logger"
	"github.com/Faultbox/objtool/internal/server"
	"github.com/Faultbox/objtool/pkg/encoding"
	"github.com/Faultbox/objtool/pkg/mtl"
	"github.com/Faultbox/objtool/pkg/obj"
)

// Version is reported in generated metadata headers.
var Version = "0.1.0"

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "convert", "c":
		code := cmdConvert(cfg, args)
		logger.Sync()
		os.Exit(code)
	case "info":
		cmdInfo(cfg, args)
	case "dump":
		cmdDump(cfg, args)
	case "serve":
		cmdServe(cfg)
	case "encodings":
		cmdEncodings()
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ converter

Usage:
  objtool [global options] <command> [options]

Commands:
  convert [-o path] <file.obj|->... Convert files (jscad, glb or yaml); - reads stdin
  info <file.obj>                   Show vertex, group and face counts
  dump <file.obj>                   Dump the parsed model
  serve                             Run the HTTP conversion service
  encodings                         List supported input encodings
  config [save [path]]              Print or save the effective config

Global options:
  -config <file>     Config file (default ./objtool.yaml or user config dir)
  -output <format>   jscad, glb or yaml
  -metadata          Prepend the metadata comment block
  -no-metadata       Omit the metadata comment block
  -encoding <name>   Input text encoding (default utf-8)
  -mtl <file.mtl>    Material library to use when the OBJ names none
  -addr <host:port>  Listen address for serve
  -debug             Enable debug logging
  -log-file <file>   Also write logs to file

Examples:
  objtool convert -o - cube.obj
  cat cube.obj | objtool convert -
  objtool -output glb convert -o out/ models/*.obj
  objtool -encoding "Windows 1252" info legacy.obj
  objtool -addr :8080 serve`)
}

func cmdInfo(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info <file.obj>")
		os.Exit(1)
	}

	m, err := loadModel(cfg, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	min, max := m.Bounds()
	fmt.Printf("File:     %s\n", args[0])
	fmt.Printf("Vertices: %d\n", len(m.Vertices))
	fmt.Printf("Groups:   %d\n", len(m.Groups))
	fmt.Printf("Faces:    %d\n", m.FaceCount())
	fmt.Printf("Bounds:   (%g, %g, %g) - (%g, %g, %g)\n", min[0], min[1], min[2], max[0], max[1], max[2])
	fmt.Printf("Size:     %g x %g x %g\n", max[0]-min[0], max[1]-min[1], max[2]-min[2])
	if len(m.Groups) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Groups:")
	for _, g := range m.Groups {
		fmt.Printf("  %-4d %-24s %6d faces %3d colors\n", g.Index, g.Name, len(g.Faces), len(g.Colors()))
	}
}

func cmdDump(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool dump <file.obj>")
		os.Exit(1)
	}

	m, err := loadModel(cfg, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(dumpModel(m))
}

func cmdServe(cfg *config.Config) {
	var materials obj.Materials
	if cfg.Convert.Materials != "" {
		var err error
		materials, err = mtl.ParseFile(cfg.Convert.Materials)
		if err != nil {
			logger.Fatal("loading materials", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(cfg.Server, cfg.ConvertOptions(Version), cfg.Convert.Encoding, materials)
	if err := s.ListenAndServe(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func cmdEncodings() {
	for _, name := range encoding.Names() {
		fmt.Println(name)
	}
}

func cmdConfig(cfg *config.Config, args []string) {
	if len(args) > 0 && args[0] == "save" {
		path := config.DefaultPath()
		save := cfg.Save
		if len(args) > 1 {
			path = args[1]
			save = func() error { return cfg.SaveTo(path) }
		}
		if err := save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved: %s\n", path)
		return
	}

	data, err := cfg.YAML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
