// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Report   ReportConfig   `toml:"report"`
	Features FeaturesConfig `toml:"features"`
}

// ReportConfig maps engine limits. Nil fields are unset.
type ReportConfig struct {
	TopN      *int     `toml:"top-n"`
	DiffTopN  *int     `toml:"diff-top-n"`
	DiffLimit *float64 `toml:"diff-limit"`
	MinUsers  *int     `toml:"min-users"`
	MaxTables *int     `toml:"max-tables"`
	Workers   *int     `toml:"workers"`
	MaxPValue *float64 `toml:"max-p-value"`
	Color     *bool    `toml:"color"`
}

// FeaturesConfig maps feature extraction settings.
type FeaturesConfig struct {
	Cutoff      *int `toml:"cutoff"`
	MaxValueLen *int `toml:"max-value-len"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
