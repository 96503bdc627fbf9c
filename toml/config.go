// Package toml loads questlog configuration from a TOML file.
package toml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/questlog"
	"github.com/fwojciec/questlog/fs"
	"github.com/fwojciec/questlog/gemini"
)

// ConfigFile is the config file name inside the config directory.
const ConfigFile = "config.toml"

// Defaults applied when the file and environment leave a value unset.
const (
	DefaultTheme   = "dark"
	DefaultTimeout = 90 * time.Second
)

// Environment variables that override file values.
const (
	EnvEndpoint = "QUESTLOG_ENDPOINT"
	EnvModel    = "QUESTLOG_MODEL"
	EnvAPIKey   = "GEMINI_API_KEY"
)

// Config is the resolved application configuration.
type Config struct {
	Model    string            `toml:"model"`
	Endpoint string            `toml:"endpoint"`
	Tasks    string            `toml:"tasks"`
	Story    string            `toml:"story"`
	Log      string            `toml:"log"`
	Theme    string            `toml:"theme"`
	Timeout  Duration          `toml:"timeout"` // "0s" disables the per-call timeout
	Settings questlog.Settings `toml:"settings"`

	// APIKey is read from the environment only.
	APIKey string `toml:"-"`
}

// Duration is a time.Duration written as a string such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(fs.DefaultConfigDir(), ConfigFile)
}

// Load reads the config file at path, applies environment overrides and
// fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	// Preset so an explicit "0s" in the file survives defaulting.
	cfg := &Config{Timeout: Duration{Duration: DefaultTimeout}}

	if path != "" {
		md, err := toml.DecodeFile(fs.ExpandHome(path), cfg)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("toml: decode %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return nil, fmt.Errorf("toml: unknown keys in %s: %s", path, strings.Join(keys, ", "))
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if cfg.Timeout.Duration < 0 {
		return nil, fmt.Errorf("toml: timeout must not be negative")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
	c.APIKey = os.Getenv(EnvAPIKey)
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = gemini.DefaultModel
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.Story == "" {
		c.Story = filepath.Join(fs.DefaultDataDir(), fs.StoryFile)
	}
	if c.Log == "" {
		c.Log = filepath.Join(fs.DefaultStateDir(), "questlog.log")
	}
	c.Tasks = fs.ExpandHome(c.Tasks)
	c.Story = fs.ExpandHome(c.Story)
	c.Log = fs.ExpandHome(c.Log)
}
