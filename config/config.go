// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/bar"
)

var (
	// ErrNoBars is returned when the configuration defines no bar.
	ErrNoBars = errors.New("config: no bars configured")

	// ErrExists is returned by WriteDefault when the file already exists.
	ErrExists = errors.New("config: file already exists")
)

// Config holds all configuration values for gbar.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// Interval is the pause between frames.
	Interval time.Duration `mapstructure:"interval" yaml:"-"`
	// Backend names the display host; empty picks the best available one.
	Backend      string      `mapstructure:"backend" yaml:"backend"`
	OutputDir    string      `mapstructure:"output_dir" yaml:"output_dir"`
	DefaultWidth int         `mapstructure:"default_width" yaml:"default_width"`
	Font         FontConfig  `mapstructure:"font" yaml:"font"`
	Bars         []BarConfig `mapstructure:"bars" yaml:"bars"`
}

// FontConfig selects the font used by text modules.
type FontConfig struct {
	// Path to a TTF/OTF file. Empty uses the embedded Go Regular font.
	Path    string  `mapstructure:"path" yaml:"path"`
	Backend string  `mapstructure:"backend" yaml:"backend"`
	Size    float64 `mapstructure:"size" yaml:"size"`
}

// BarConfig describes one bar.
type BarConfig struct {
	Position   string         `mapstructure:"position" yaml:"position"`
	Height     int            `mapstructure:"height" yaml:"height"`
	Background string         `mapstructure:"background" yaml:"background"`
	Modules    []ModuleConfig `mapstructure:"modules" yaml:"modules"`
}

// ModuleConfig describes one module. Which fields matter depends on Type.
type ModuleConfig struct {
	Type       string  `mapstructure:"type" yaml:"type"`
	Width      int     `mapstructure:"width" yaml:"width"`
	Color      string  `mapstructure:"color" yaml:"color,omitempty"`
	Background string  `mapstructure:"background" yaml:"background,omitempty"`
	Text       string  `mapstructure:"text" yaml:"text,omitempty"`
	Format     string  `mapstructure:"format" yaml:"format,omitempty"`
	Radius     int     `mapstructure:"radius" yaml:"radius,omitempty"`
	Size       float64 `mapstructure:"size" yaml:"size,omitempty"`
}

// MarshalYAML writes Interval as a duration string.
func (c Config) MarshalYAML() (any, error) {
	type plain Config
	return struct {
		plain    `yaml:",inline"`
		Interval string `yaml:"interval"`
	}{plain(c), c.Interval.String()}, nil
}

// Default returns the built-in configuration: a red top bar with a pill, a
// greeting and a clock, and a teal bottom bar with an oval.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		Interval:     time.Second,
		Backend:      "",
		OutputDir:    "frames",
		DefaultWidth: 1920,
		Font: FontConfig{
			Backend: "sfnt",
			Size:    20,
		},
		Bars: []BarConfig{
			{
				Position:   "top",
				Height:     40,
				Background: "#CF4345",
				Modules: []ModuleConfig{
					{Type: "spacing", Width: 5},
					{Type: "pill", Width: 100, Color: "#181818", Radius: 15},
					{Type: "spacing", Width: 15},
					{Type: "text", Width: 200, Text: "Hello, World!", Color: "#000000"},
					{Type: "clock", Width: 120, Format: "15:04:05", Color: "#000000"},
				},
			},
			{
				Position:   "bottom",
				Height:     40,
				Background: "#44848C",
				Modules: []ModuleConfig{
					{Type: "spacing", Width: 5},
					{Type: "oval", Width: 30, Color: "#000000"},
				},
			},
		},
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"interval":   "interval",
	"backend":    "backend",
	"output-dir": "output_dir",
}

// Load loads configuration with full precedence:
// flags > GBAR_* env vars > path > XDG global config > defaults.
// An empty path skips the explicit file; a missing global file is ignored.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("interval", def.Interval)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("default_width", def.DefaultWidth)
	v.SetDefault("font.path", def.Font.Path)
	v.SetDefault("font.backend", def.Font.Backend)
	v.SetDefault("font.size", def.Font.Size)
	v.SetDefault("bars", def.Bars)

	v.SetEnvPrefix("GBAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"log_level", "interval", "backend", "output_dir", "default_width", "font.path", "font.backend", "font.size"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding %s flag: %w", name, err)
			}
		}
	}

	globalPath := GlobalPath()
	if globalPath != "" && fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the global and per-bar settings. Module entries are
// checked when modules are built.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return fmt.Errorf("config: interval %v must be positive", c.Interval)
	}
	if c.DefaultWidth <= 0 {
		return fmt.Errorf("config: default_width %d must be positive", c.DefaultWidth)
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("config: font.size %v must be positive", c.Font.Size)
	}
	if len(c.Bars) == 0 {
		return ErrNoBars
	}
	for i, b := range c.Bars {
		if b.Position != "top" && b.Position != "bottom" {
			return fmt.Errorf("config: bars[%d]: position %q is not top or bottom", i, b.Position)
		}
		if b.Height <= 0 {
			return fmt.Errorf("config: bars[%d]: height %d must be positive", i, b.Height)
		}
		if b.Background != "" {
			if _, err := bar.ParseHex(b.Background); err != nil {
				return fmt.Errorf("config: bars[%d]: background: %w", i, err)
			}
		}
	}
	return nil
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// GlobalPath returns the XDG global config path.
// Returns $XDG_CONFIG_HOME/gbar/gbar.yml or ~/.config/gbar/gbar.yml, and ""
// when neither variable gives an absolute directory.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(xdg) {
		return filepath.Join(xdg, "gbar", "gbar.yml")
	}
	home, err := os.UserHomeDir()
	if err != nil || !filepath.IsAbs(home) {
		return ""
	}
	return filepath.Join(home, ".config", "gbar", "gbar.yml")
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if fileExists(path) && !force {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config file is not secret
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
