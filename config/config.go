// Package config reads the TOML configuration shared by the command line
// and the signing service.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
)

// TokenEnv is the environment variable overriding the signing token.
const TokenEnv = "IMGIX_TOKEN"

// ErrUnknownPreset is returned when a preset is not defined.
var ErrUnknownPreset = errors.New("unknown preset")

// Config stores the builder defaults and the service settings.
type Config struct {
	Domain     string                            `toml:"domain"`
	Token      string                            `toml:"token"`
	IncludeLib bool                              `toml:"ixlib"`
	Params     map[string]interface{}            `toml:"params"`
	Presets    map[string]map[string]interface{} `toml:"presets"`
	SrcSet     SrcSetConfig                      `toml:"srcset"`
	Server     ServerConfig                      `toml:"server"`
}

// SrcSetConfig holds the source set generation settings.
type SrcSetConfig struct {
	MinWidth        float64 `toml:"minWidth"`
	MaxWidth        float64 `toml:"maxWidth"`
	Tolerance       float64 `toml:"tolerance"`
	VariableQuality *bool   `toml:"variableQuality"`
}

// ServerConfig represents the signing service settings.
type ServerConfig struct {
	Host      string   `toml:"host"`
	Port      int      `toml:"port"`
	Cache     string   `toml:"cache"`
	CacheSize int64    `toml:"-"`
	Peers     []string `toml:"peers"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "localhost",
			Port:      8080,
			Cache:     "32M",
			CacheSize: 32 * bytefmt.MEGABYTE,
		},
	}
}

// NewConfigFromFile reads the file over the defaults.
func NewConfigFromFile(file string) (*Config, error) {
	c := Default()

	if _, err := toml.DecodeFile(file, c); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", file, err)
	}

	if err := c.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", file, err)
	}

	return c, nil
}

// Normalize fills the derived values and applies the environment.
func (c *Config) Normalize() error {
	if token := os.Getenv(TokenEnv); token != "" {
		c.Token = token
	}

	if c.Server.Cache != "" {
		size, err := bytefmt.ToBytes(c.Server.Cache)
		if err != nil {
			return fmt.Errorf("server.cache %#v: %w", c.Server.Cache, err)
		}
		c.Server.CacheSize = int64(size)
	}

	return nil
}

// Listen is the address the service binds to.
func (c *Config) Listen() string {
	return fmt.Sprintf("%v:%v", c.Server.Host, c.Server.Port)
}

// Self is the groupcache peer URL of this node.
func (c *Config) Self() string {
	return fmt.Sprintf("http://%s", c.Listen())
}

// DefaultParams converts the [params] table into parameter values.
func (c *Config) DefaultParams() (map[string]string, error) {
	return toParams(c.Params)
}

// Preset converts a named preset into parameter values.
func (c *Config) Preset(name string) (map[string]string, error) {
	raw, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w %#v", ErrUnknownPreset, name)
	}
	return toParams(raw)
}

// PresetNames lists the presets, sorted.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// toParams turns TOML values (integers, floats, booleans, strings or lists)
// into strings, e.g. w = 100 becomes "100" and auto = ["format",
// "compress"] becomes "format,compress".
func toParams(raw map[string]interface{}) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if list, ok := v.([]interface{}); ok {
			var items []string
			if err := mapstructure.WeakDecode(list, &items); err != nil {
				return nil, fmt.Errorf("parameter %s: %w", k, err)
			}
			s = strings.Join(items, ",")
		} else if err := mapstructure.WeakDecode(v, &s); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		params[k] = s
	}
	return params, nil
}
