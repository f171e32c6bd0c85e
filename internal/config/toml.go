// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownConfigField classifies config files with keys this version does not know.
var ErrUnknownConfigField = errors.New("unknown config field")

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Log      LogConfig       `toml:"log"`
	Store    StoreConfig     `toml:"store"`
	Defaults DefaultsConfig  `toml:"defaults"`
	Machine  []MachineConfig `toml:"machine"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// StoreConfig maps the location of the config store.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// DefaultsConfig maps values used for freshly created acquisition configs.
type DefaultsConfig struct {
	Project   *string `toml:"project"`
	CellLine  *string `toml:"cell-line"`
	Wellplate *string `toml:"wellplate"`
	Autofocus *bool   `toml:"autofocus"`
}

// MachineConfig maps one machine setting that seeds new configs.
type MachineConfig struct {
	Name    string         `toml:"name"`
	Handle  string         `toml:"handle"`
	Kind    string         `toml:"kind"`
	Value   any            `toml:"value"`
	Frozen  bool           `toml:"frozen"`
	Options []OptionConfig `toml:"options"`
}

// OptionConfig maps one choice of an option setting.
type OptionConfig struct {
	Name   string `toml:"name"`
	Handle string `toml:"handle"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return FileConfig{}, fmt.Errorf("%w: %s", ErrUnknownConfigField, strings.Join(keys, ", "))
	}
	return cfg, nil
}
