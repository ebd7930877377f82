// Package config handles objtool configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/objtool/pkg/convert"
	"github.com/Faultbox/objtool/pkg/encoding"
)

// Config holds all objtool settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds conversion defaults.
type ConvertConfig struct {
	Output      string `yaml:"output"`       // jscad, glb or yaml
	AddMetaData bool   `yaml:"add_metadata"` // Prepend the producer comment block
	Encoding    string `yaml:"encoding"`     // Input text encoding
	Materials   string `yaml:"materials"`    // MTL file used when the OBJ names none
	OutputDir   string `yaml:"output_dir"`   // Empty writes next to the input
}

// ServerConfig holds HTTP conversion service settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Output:      string(convert.OutputJSCAD),
			AddMetaData: true,
			Encoding:    encoding.UTF8,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			MaxBodyBytes:    32 << 20,
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	if _, err := convert.ParseOutput(c.Convert.Output); err != nil {
		return err
	}
	if !encoding.Valid(c.Convert.Encoding) {
		return fmt.Errorf("unknown encoding %q", c.Convert.Encoding)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// ConvertOptions returns the conversion options described by the config.
func (c *Config) ConvertOptions(version string) convert.Options {
	output, _ := convert.ParseOutput(c.Convert.Output)
	return convert.Options{
		Output:      output,
		AddMetaData: c.Convert.AddMetaData,
		Version:     version,
	}
}
