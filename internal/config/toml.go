// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dashboard DashboardConfig `toml:"dashboard"`
	Serve     ServeConfig     `toml:"serve"`
	Sample    SampleConfig    `toml:"sample"`
}

// DashboardConfig maps dashboard-related settings.
type DashboardConfig struct {
	DataDir *string `toml:"data-dir"`
}

// ServeConfig maps the serve command settings.
type ServeConfig struct {
	Addr *string `toml:"addr"`
}

// SampleConfig maps demo data generation settings.
type SampleConfig struct {
	Subjects *int `toml:"subjects"`
	Days     *int `toml:"days"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
