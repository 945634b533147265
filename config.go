package xgrid

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-project configuration file discovered by
// FindConfig.
const ConfigFileName = ".xgrid.yaml"

// FileConfig holds project defaults loaded from a .xgrid.yaml file. Zero
// values mean "not set" and leave the caller's defaults in place.
type FileConfig struct {
	// Width is the default fixed target width; 0 keeps natural widths.
	Width int `yaml:"width"`
	// Padding is the spaces between a border and the cell content.
	Padding int `yaml:"padding"`
	// MinColumnWidth bounds how narrow a column may be squeezed.
	MinColumnWidth int `yaml:"min_column_width"`
}

// LoadConfig reads a FileConfig from path.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Width < 0 || cfg.Padding < 0 || cfg.MinColumnWidth < 0 {
		return nil, fmt.Errorf("parse %s: negative values not allowed", path)
	}
	return &cfg, nil
}

// FindConfig walks from dir upwards looking for ConfigFileName and returns
// the first match.
func FindConfig(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// RenderOptions translates the config into render options for table
// processing.
func (c *FileConfig) RenderOptions() []RenderOption {
	var opts []RenderOption
	if c == nil {
		return opts
	}
	if c.Padding > 0 {
		opts = append(opts, WithPadding(c.Padding))
	}
	if c.MinColumnWidth > 0 {
		opts = append(opts, WithMinColumnWidth(c.MinColumnWidth))
	}
	return opts
}
