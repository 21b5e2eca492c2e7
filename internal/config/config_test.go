package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmforge/bookcharm/solid"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Path != Default().Output.Path {
		t.Errorf("got output path %q", cfg.Output.Path)
	}
}

func TestLoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
book:
  width: 45
  engrave: true
output:
  path: out/charm.stl
  unit_scale: 0.5
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Book.Width != 45 {
		t.Errorf("book width %g, want 45", cfg.Book.Width)
	}
	if !cfg.Book.Engrave {
		t.Error("engrave flag not loaded")
	}
	// Untouched fields keep their defaults.
	if cfg.Book.Height != Default().Book.Height {
		t.Errorf("book height %g, want default %g", cfg.Book.Height, Default().Book.Height)
	}
	if cfg.Output.Path != "out/charm.stl" || cfg.Output.UnitScale != 0.5 {
		t.Errorf("output section %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("merged config invalid: %v", err)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("book: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error loading malformed YAML")
	}
}

func TestValidateNamesField(t *testing.T) {
	cfg := Default()
	cfg.Output.UnitScale = -1
	err := cfg.Validate()
	if !errors.Is(err, solid.ErrInvalidParameter) {
		t.Fatalf("got %v, want ErrInvalidParameter", err)
	}
	if !strings.Contains(err.Error(), "unit_scale") {
		t.Errorf("error %q does not name the offending field", err)
	}

	cfg = Default()
	cfg.Book.Width = 0
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "width") {
		t.Errorf("error %v does not name the offending field", err)
	}
}

func TestSaveMaterial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "material.yaml")
	material := map[string]any{"roughness": 0.7}
	if err := SaveMaterial(path, material); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "roughness") {
		t.Errorf("sidecar content %q", data)
	}
}
