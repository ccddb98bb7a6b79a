package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	DataDir         string  `yaml:"data_dir"`
	DBPath          string  `yaml:"db_path"`
	CanvasWidth     int     `yaml:"canvas_width"`
	CanvasHeight    int     `yaml:"canvas_height"`
	Background      string  `yaml:"background"`
	DefaultFontSize float64 `yaml:"default_font_size"`
	// AutosaveCron is a cron expression for the background save of open
	// documents. Empty disables autosave.
	AutosaveCron string `yaml:"autosave_cron"`
}

// Default returns sane defaults rooted under the user's data directory.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "easel")
	return &Config{
		DataDir:         dataDir,
		DBPath:          filepath.Join(dataDir, "easel.db"),
		CanvasWidth:     1280,
		CanvasHeight:    800,
		Background:      "#ffffff",
		DefaultFontSize: 16,
		AutosaveCron:    "@every 30s",
	}
}

// Load reads and parses a YAML config file merged over Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas dimensions must be > 0")
	}
	if c.DefaultFontSize <= 0 {
		return fmt.Errorf("default_font_size must be > 0")
	}
	return nil
}
