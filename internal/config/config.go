// Package config provides the JSON run configuration for batch map analysis.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"seed-analyser/internal/analyser"
)

// Resource is one palette entry of the configuration file.
type Resource struct {
	Name  string `json:"name"`
	Color string `json:"color"` // #rrggbb
}

// Config holds the batch analysis settings.
type Config struct {
	TilesPerPixel int        `json:"tiles_per_pixel"`
	Workers       int        `json:"workers"` // 0 means one worker per CPU
	Resources     []Resource `json:"resources"`

	// MinPatchReportSize drops maps whose largest patch is smaller than this
	// many tiles from the report. 0 reports every map.
	MinPatchReportSize int `json:"min_patch_report_size,omitempty"`
}

// Default returns the stock Factorio preview palette at 8 tiles per pixel.
func Default() *Config {
	return &Config{
		TilesPerPixel: 8,
		Resources: []Resource{
			{Name: "iron", Color: "#688492"},
			{Name: "copper", Color: "#cb6135"},
			{Name: "coal", Color: "#000000"},
			{Name: "water", Color: "#33535f"},
		},
	}
}

// Load reads a configuration file. Fields absent from the file keep their
// default values; a resources list in the file replaces the default palette
// entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (c *Config) validate() error {
	if c.TilesPerPixel <= 0 {
		return fmt.Errorf("tiles_per_pixel must be positive, got %d", c.TilesPerPixel)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf("resources must not be empty")
	}
	if c.MinPatchReportSize < 0 {
		return fmt.Errorf("min_patch_report_size must not be negative, got %d", c.MinPatchReportSize)
	}
	return nil
}

// Palette resolves the configured resources into the exact colors the
// analyser matches against.
func (c *Config) Palette() ([]analyser.ResourceColor, error) {
	palette := make([]analyser.ResourceColor, 0, len(c.Resources))
	for _, r := range c.Resources {
		rgb, err := ParseHexColor(r.Color)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", r.Name, err)
		}
		palette = append(palette, analyser.ResourceColor{Name: r.Name, Color: rgb})
	}
	return palette, nil
}

// ParseHexColor parses a #rrggbb color string.
func ParseHexColor(s string) (analyser.RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return analyser.RGB{}, fmt.Errorf("color %q must have the form #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return analyser.RGB{}, fmt.Errorf("color %q must have the form #rrggbb", s)
	}
	return analyser.RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}
