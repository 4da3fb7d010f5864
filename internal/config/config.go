// Package config holds the run configuration and its YAML preset files.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config collects every knob of a detection run. Zero values fall back to
// the defaults applied by Normalize.
type Config struct {
	InputPath   string  `yaml:"input"`
	OutputPath  string  `yaml:"output"`
	Percentile  float64 `yaml:"percentile"`
	Direction   string  `yaml:"direction"`
	TargetColor string  `yaml:"target_color"`
	MaxDistance float64 `yaml:"max_distance"`
	Conn8       bool    `yaml:"conn8"`
	MinArea     int     `yaml:"min_area"`
	Mode        string  `yaml:"mode"`
	Background  string  `yaml:"background"`
	OutlineHex  string  `yaml:"outline_color"`
	FillHex     string  `yaml:"fill_color"`
	DPI         int     `yaml:"dpi"`
	Workers     int     `yaml:"workers"`
	ShowStats   bool    `yaml:"show_stats"`
	Preview     bool    `yaml:"preview"`
}

// Normalize fills in defaults for unset fields.
func (c *Config) Normalize() {
	if c.Percentile == 0 {
		c.Percentile = 0.5
	}
	if c.Direction == "" {
		c.Direction = "below"
	}
	if c.Mode == "" {
		c.Mode = "outline"
	}
	if c.DPI <= 0 {
		c.DPI = 150
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
}

// WritePreset saves the configuration as a YAML preset file.
func WritePreset(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPreset loads a YAML preset file.
func ReadPreset(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
