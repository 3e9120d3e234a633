// Package config handles shadow generator configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// Config holds all generator settings.
type Config struct {
	Shadow  ShadowConfig  `yaml:"shadow"`
	Capture CaptureConfig `yaml:"capture"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShadowConfig holds the shadow geometry and look.
type ShadowConfig struct {
	DownscaleMax     int     `yaml:"downscale_max"` // longest edge of the shadow raster before warping
	BlurPx           float64 `yaml:"blur_px"`
	Opacity          float64 `yaml:"opacity"`
	Side             string  `yaml:"side"` // auto, front, back, left, right
	ExtendFactor     float64 `yaml:"extend_factor"`
	MinExtend        float64 `yaml:"min_extend"`
	Squash           float64 `yaml:"squash"`
	FootSampleTarget int     `yaml:"foot_sample_target"`
	FootEpsilon      float64 `yaml:"foot_epsilon"`
}

// CaptureConfig holds render-pass readback timing.
type CaptureConfig struct {
	SettleDelay   time.Duration `yaml:"settle_delay"`
	SettleTimeout time.Duration `yaml:"settle_timeout"`
}

// RenderConfig holds the 3D view settings.
type RenderConfig struct {
	Backend         string  `yaml:"backend"` // soft or gl
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	ReceiverY       float64 `yaml:"receiver_y"`
	ReceiverOpacity float64 `yaml:"receiver_opacity"`
	ModelSize       float64 `yaml:"model_size"` // longest model extent in world units; 0 keeps the file's scale
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shadow: ShadowConfig{
			DownscaleMax:     700,
			BlurPx:           18,
			Opacity:          0.55,
			Side:             "auto",
			ExtendFactor:     1.15,
			MinExtend:        20,
			Squash:           0.6,
			FootSampleTarget: 4000,
			FootEpsilon:      0.03,
		},
		Capture: CaptureConfig{
			SettleDelay:   30 * time.Millisecond,
			SettleTimeout: 2 * time.Second,
		},
		Render: RenderConfig{
			Backend:         "soft",
			Width:           800,
			Height:          600,
			ReceiverY:       -0.6,
			ReceiverOpacity: 0.5,
			ModelSize:       1.2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Shadow.Opacity < 0 || c.Shadow.Opacity > 1:
		return fmt.Errorf("shadow.opacity %v outside [0, 1]", c.Shadow.Opacity)
	case c.Shadow.BlurPx < 0:
		return fmt.Errorf("shadow.blur_px %v is negative", c.Shadow.BlurPx)
	case c.Shadow.FootEpsilon <= 0:
		return fmt.Errorf("shadow.foot_epsilon %v must be positive", c.Shadow.FootEpsilon)
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	case c.Render.ModelSize < 0:
		return fmt.Errorf("render.model_size %v is negative", c.Render.ModelSize)
	case c.Capture.SettleTimeout <= 0:
		return fmt.Errorf("capture.settle_timeout %v must be positive", c.Capture.SettleTimeout)
	}
	switch c.Shadow.Side {
	case "auto", "front", "back", "left", "right":
	default:
		return fmt.Errorf("shadow.side %q: want auto, front, back, left or right", c.Shadow.Side)
	}
	switch c.Render.Backend {
	case "soft", "gl":
	default:
		return fmt.Errorf("render.backend %q: want soft or gl", c.Render.Backend)
	}
	return nil
}
