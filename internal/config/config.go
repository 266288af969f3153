// Package config loads tool configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the ambient settings a numbering run falls back to when the
// corresponding flags are not given.
type Config struct {
	Workspace WorkspaceConfig
	Output    OutputConfig
}

// WorkspaceConfig holds the default GeoPackage workspace.
type WorkspaceConfig struct {
	Path string
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Format string
}

// Load reads configuration from file and env. Env var overrides use prefix
// PARCELNUM_, so PARCELNUM_WORKSPACE_PATH selects the workspace. The config
// file is TOML, looked up at $PARCELNUM_CONFIG or
// ~/.config/parcelnum/config.toml; a missing file is not an error.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("workspace.path", "")
	v.SetDefault("output.format", "text")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PARCELNUM_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "parcelnum"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PARCELNUM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
