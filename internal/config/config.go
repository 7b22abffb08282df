package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	envPrefix      = "SLIDES_"
	configFileName = "config.yaml"
)

func DefaultConfig() *Config {
	return &Config{
		QuietPeriodMS: 800,
		URLField:      "slide",
		Theme:         "auto",
		Footer:        "",
		Topic:         "",
		Ink: InkConfig{
			PenColor:      "#e11d48",
			PenWidth:      3,
			PressureScale: 6,
			MinPenWidth:   1,
			EraserWidth:   24,
		},
		Web: WebConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir is where config.yaml lives. SLIDES_CONFIG_DIR overrides it.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("SLIDES_CONFIG_DIR")); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "slides"), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads configuration from the given YAML file (missing is fine), then
// overlays SLIDES_* environment variables. A double underscore nests:
// SLIDES_INK__PEN_WIDTH -> ink.pen_width.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

func (c *Config) Validate() error {
	if c.QuietPeriodMS <= 0 {
		return fmt.Errorf("quiet_period_ms must be positive")
	}
	if strings.TrimSpace(c.URLField) == "" {
		return fmt.Errorf("url_field is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Theme)) {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("invalid theme %q: must be auto, dark or light", c.Theme)
	}
	if _, err := c.Ink.PenRGBA(); err != nil {
		return err
	}
	if c.Ink.PenWidth <= 0 || c.Ink.EraserWidth <= 0 {
		return fmt.Errorf("ink widths must be positive")
	}
	if c.Ink.MinPenWidth < 0 || c.Ink.PressureScale < 0 {
		return fmt.Errorf("ink min_pen_width and pressure_scale must be non-negative")
	}
	if c.Log.Level != "" && !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
