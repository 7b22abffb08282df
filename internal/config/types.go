package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"
)

// Config is the presenter configuration, corresponding to config.yaml.
type Config struct {
	// QuietPeriodMS bounds how long a multi-key sequence may take.
	QuietPeriodMS int    `yaml:"quiet_period_ms" koanf:"quiet_period_ms" json:"quiet_period_ms"`
	URLField      string `yaml:"url_field" koanf:"url_field" json:"url_field"`
	// Theme is auto, dark or light.
	Theme string `yaml:"theme" koanf:"theme" json:"theme"`

	// Slide chrome.
	Footer string `yaml:"footer" koanf:"footer" json:"footer"`
	Topic  string `yaml:"topic" koanf:"topic" json:"topic"`

	Ink InkConfig `yaml:"ink" koanf:"ink" json:"ink"`
	Web WebConfig `yaml:"web" koanf:"web" json:"web"`
	Log LogConfig `yaml:"log" koanf:"log" json:"log"`
}

type InkConfig struct {
	Persist       bool    `yaml:"persist" koanf:"persist" json:"persist"`
	PenColor      string  `yaml:"pen_color" koanf:"pen_color" json:"pen_color"`
	PenWidth      float64 `yaml:"pen_width" koanf:"pen_width" json:"pen_width"`
	PressureScale float64 `yaml:"pressure_scale" koanf:"pressure_scale" json:"pressure_scale"`
	MinPenWidth   float64 `yaml:"min_pen_width" koanf:"min_pen_width" json:"min_pen_width"`
	EraserWidth   float64 `yaml:"eraser_width" koanf:"eraser_width" json:"eraser_width"`
}

type WebConfig struct {
	Addr           string   `yaml:"addr" koanf:"addr" json:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins" json:"allowed_origins"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level" json:"level"`
	File  string `yaml:"file" koanf:"file" json:"file"`
}

func (c *Config) QuietPeriod() time.Duration {
	return time.Duration(c.QuietPeriodMS) * time.Millisecond
}

// PenRGBA parses PenColor ("#rrggbb" or "#rrggbbaa").
func (c InkConfig) PenRGBA() (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(c.PenColor), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid pen_color %q: want #rrggbb or #rrggbbaa", c.PenColor)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid pen_color %q: %w", c.PenColor, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
