package main

import (
	"github.com/Faultbox/groundshadow/internal/config"
	"github.com/Faultbox/groundshadow/internal/engine/pipeline"
)

// pipelineOptions maps the config file onto the pipeline's stage options.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.DownscaleMax = cfg.Shadow.DownscaleMax
	opts.Capture.SettleDelay = cfg.Capture.SettleDelay
	opts.Capture.SettleTimeout = cfg.Capture.SettleTimeout
	opts.Feet.SampleTarget = cfg.Shadow.FootSampleTarget
	opts.Feet.Epsilon = float32(cfg.Shadow.FootEpsilon)
	opts.Quad.ExtendFactor = cfg.Shadow.ExtendFactor
	opts.Quad.MinExtend = cfg.Shadow.MinExtend
	opts.Quad.Squash = cfg.Shadow.Squash
	opts.Composite.BlurPx = cfg.Shadow.BlurPx
	opts.Composite.Opacity = cfg.Shadow.Opacity
	return opts
}
