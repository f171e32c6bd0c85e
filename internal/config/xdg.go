package config

import (
	"os"
	"path/filepath"
)

const appName = "seaconfig"

// xdgBase is one XDG base directory: an environment override plus a fallback
// below the home directory.
type xdgBase struct {
	env  string
	home []string
}

var (
	configBase = xdgBase{env: "XDG_CONFIG_HOME", home: []string{".config"}}
	dataBase   = xdgBase{env: "XDG_DATA_HOME", home: []string{".local", "share"}}
)

// appDir returns the seaconfig directory under the base. Relative overrides
// are ignored, as the XDG rules require. Without a home directory the
// working directory is used.
func (b xdgBase) appDir() string {
	if v := os.Getenv(b.env); v != "" && filepath.IsAbs(v) {
		return filepath.Join(v, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return appName
	}
	return filepath.Join(append(append([]string{home}, b.home...), appName)...)
}

// ConfigDir holds config.toml.
func ConfigDir() string { return configBase.appDir() }

// DataDir holds the config store.
func DataDir() string { return dataBase.appDir() }

// DefaultDBPath returns the default path of the config store.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "seaconfig.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}
