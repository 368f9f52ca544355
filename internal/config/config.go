// Package config holds the configuration object queried by #getConfig
// instructions and the loaders that populate it from lil.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Value is a configuration entry: string, int64, float64, bool or a
// list of those.
type Value interface{}

// Configuration answers #getConfig lookups. Missing keys are an error
// surfaced by the config getter pass.
type Configuration struct {
	values map[string]Value
}

// New creates an empty configuration
func New() *Configuration {
	return &Configuration{values: make(map[string]Value)}
}

// Set stores a value under a key
func (c *Configuration) Set(key string, value Value) {
	c.values[key] = value
}

// Get returns the value for a key and whether it exists
func (c *Configuration) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Len returns the number of stored entries
func (c *Configuration) Len() int {
	return len(c.values)
}

// fileConfig mirrors the lil.toml layout
type fileConfig struct {
	Build map[string]interface{} `toml:"build"`
}

// LoadFile reads a lil.toml file into a configuration. Nested tables
// flatten into dotted keys the way #getConfig addresses them.
func LoadFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg := New()
	flatten("", fc.Build, cfg)
	return cfg, nil
}

func flatten(prefix string, m map[string]interface{}, cfg *Configuration) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(key, nested, cfg)
			continue
		}
		cfg.Set(key, v)
	}
}

// Discover finds the nearest lil.toml walking up from dir, honoring a
// LILC_CONFIG environment override.
func Discover(dir string) (string, error) {
	v := viper.New()
	v.SetEnvPrefix("LILC")
	_ = v.BindEnv("config")
	if override := v.GetString("config"); override != "" {
		return override, nil
	}
	current := dir
	for {
		candidate := filepath.Join(current, "lil.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no lil.toml found from %s upwards", dir)
		}
		current = parent
	}
}

// DefaultTOML is the starter configuration written by `lilc init`
const DefaultTOML = `[build]
name = "app"
automaticFullScreen = false

[build.colors]
format = "rgba"
`
