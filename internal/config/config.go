// Package config handles generator configuration loading and validation.
package config

import (
	"fmt"

	"github.com/charmforge/bookcharm/book"
	"github.com/charmforge/bookcharm/solid"
)

// Config holds all generator settings.
type Config struct {
	Book    book.Params   `yaml:"book"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig holds output file paths and post-processing settings.
type OutputConfig struct {
	// Path is where the binary STL mesh is written.
	Path string `yaml:"path"`
	// MaterialPath is where the material sidecar is written. Empty skips it.
	MaterialPath string `yaml:"material_path"`
	// PreviewPath is where a rendered PNG preview is written. Empty skips it.
	PreviewPath string `yaml:"preview_path"`
	// UnitScale rescales the finished model, 1 keeps millimeters.
	UnitScale float64 `yaml:"unit_scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with stock charm dimensions and output paths.
func Default() *Config {
	return &Config{
		Book: book.DefaultParams(),
		Output: OutputConfig{
			Path:         "bookcharm.stl",
			MaterialPath: "bookcharm_material.yaml",
			UnitScale:    1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects configurations that cannot run, naming the first
// offending field.
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		return fmt.Errorf("%w: output.path is empty", solid.ErrInvalidParameter)
	}
	if c.Output.UnitScale <= 0 {
		return fmt.Errorf("%w: output.unit_scale %g <= 0", solid.ErrInvalidParameter, c.Output.UnitScale)
	}
	return c.Book.Validate()
}
