package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and refinement settings.
type Config struct {
	// Paths
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// Refinement settings
	MaxLevel    int  `yaml:"max_level"`
	TargetLevel int  `yaml:"target_level"`
	Adaptive    bool `yaml:"adaptive"`

	// Atlas output settings
	AtlasSize   int    `yaml:"atlas_size"`
	Supersample int    `yaml:"supersample"`
	Format      string `yaml:"format"` // webp or tga

	Workers int `yaml:"workers"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Load reads a YAML config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir    string
	OutputDir   string
	MaxLevel    int
	TargetLevel int
	Adaptive    bool
	Workers     int
	Format      string
}

// Resolve applies CLI flag overrides and fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.MaxLevel > 0 {
		c.MaxLevel = flags.MaxLevel
	}
	if flags.TargetLevel > 0 {
		c.TargetLevel = flags.TargetLevel
	}
	if flags.Adaptive {
		c.Adaptive = true
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}

	// Defaults
	if c.MaxLevel <= 0 {
		c.MaxLevel = 2
	}
	if c.TargetLevel <= 0 {
		c.TargetLevel = 1
	}
	if c.AtlasSize <= 0 {
		c.AtlasSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate rejects settings the refiner cannot honor.
func (c *Config) Validate() error {
	if c.MaxLevel < 1 || c.MaxLevel > 10 {
		return fmt.Errorf("config: max_level %d outside 1..10", c.MaxLevel)
	}
	if c.TargetLevel < 1 || c.TargetLevel > c.MaxLevel {
		return fmt.Errorf("config: target_level %d outside 1..max_level (%d)", c.TargetLevel, c.MaxLevel)
	}
	if c.Format != "webp" && c.Format != "tga" {
		return fmt.Errorf("config: format %q, want webp or tga", c.Format)
	}
	return nil
}
