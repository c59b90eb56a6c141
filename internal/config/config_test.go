package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	if cfg.MaxLevel != 2 {
		t.Errorf("max_level = %d", cfg.MaxLevel)
	}
	if cfg.TargetLevel != 1 {
		t.Errorf("target_level = %d", cfg.TargetLevel)
	}
	if cfg.AtlasSize != 512 {
		t.Errorf("atlas_size = %d", cfg.AtlasSize)
	}
	if cfg.Supersample != 2 {
		t.Errorf("supersample = %d", cfg.Supersample)
	}
	if cfg.Format != "webp" {
		t.Errorf("format = %q", cfg.Format)
	}
	if cfg.Workers < 1 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	cfg := Config{InputDir: "/from/file", MaxLevel: 3, Format: "tga"}
	cfg.Resolve(Flags{InputDir: "/from/flag", MaxLevel: 4, Workers: 2})

	if cfg.InputDir != "/from/flag" {
		t.Errorf("input_dir = %q", cfg.InputDir)
	}
	if cfg.MaxLevel != 4 {
		t.Errorf("max_level = %d", cfg.MaxLevel)
	}
	if cfg.Format != "tga" {
		t.Errorf("format = %q", cfg.Format)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers = %d", cfg.Workers)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
input_dir: /meshes
output_dir: /out
max_level: 3
target_level: 2
adaptive: true
atlas_size: 256
format: tga
log_level: debug
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputDir != "/meshes" || cfg.OutputDir != "/out" {
		t.Errorf("dirs: %q %q", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.MaxLevel != 3 || cfg.TargetLevel != 2 || !cfg.Adaptive {
		t.Errorf("refinement: %d %d %v", cfg.MaxLevel, cfg.TargetLevel, cfg.Adaptive)
	}
	if cfg.AtlasSize != 256 || cfg.Format != "tga" {
		t.Errorf("atlas: %d %q", cfg.AtlasSize, cfg.Format)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte(":\tnot yaml"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml accepted")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"max level too high", func(c *Config) { c.MaxLevel = 11 }},
		{"target beyond max", func(c *Config) { c.TargetLevel = 5 }},
		{"unknown format", func(c *Config) { c.Format = "png" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.Resolve(Flags{})
			tc.mut(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("accepted")
			}
		})
	}
}
