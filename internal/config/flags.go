package config

import "flag"

// Flags are the command-line overrides shared by every subcommand.
type Flags struct {
	Config  string
	Debug   bool
	LogFile string
	Backend string
	Width   int
	Height  int
	Blur    float64
	Opacity float64
	Side    string
}

// Bind registers the override flags on fs. Unset flags keep their zero
// value and leave the config alone.
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also log to this file")
	fs.StringVar(&f.Backend, "backend", "", "3D backend: soft or gl")
	fs.IntVar(&f.Width, "width", 0, "3D view width")
	fs.IntVar(&f.Height, "height", 0, "3D view height")
	fs.Float64Var(&f.Blur, "blur", -1, "Shadow blur in pixels")
	fs.Float64Var(&f.Opacity, "opacity", -1, "Shadow opacity (0-1)")
	fs.StringVar(&f.Side, "side", "", "Shadow side: auto, front, back, left, right")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Backend != "" {
		cfg.Render.Backend = f.Backend
	}
	if f.Width > 0 {
		cfg.Render.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Render.Height = f.Height
	}
	if f.Blur >= 0 {
		cfg.Shadow.BlurPx = f.Blur
	}
	if f.Opacity >= 0 {
		cfg.Shadow.Opacity = f.Opacity
	}
	if f.Side != "" {
		cfg.Shadow.Side = f.Side
	}
}
