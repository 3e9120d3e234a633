package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/groundshadow/internal/engine/composite"
	"github.com/Faultbox/groundshadow/internal/engine/homography"
	"github.com/Faultbox/groundshadow/internal/engine/pipeline"
	"github.com/Faultbox/groundshadow/internal/engine/warp"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

func cmdWarp(args []string) error {
	fs := flag.NewFlagSet("warp", flag.ExitOnError)
	inPath := fs.String("in", "", "Source PNG")
	outPath := fs.String("out", "warped.png", "Output PNG")
	quadArg := fs.String("quad", "", "Destination corners x0,y0,...,x3,y3 (near-left, near-right, far-right, far-left)")
	sizeArg := fs.String("size", "", "Output size W,H")
	soften := fs.Bool("soften", false, "Blur and fade the result with the configured shadow look")

	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *inPath == "" || *quadArg == "" || *sizeArg == "" {
		return errors.New("warp: -in, -quad and -size are required")
	}

	q, err := parseQuad(*quadArg)
	if err != nil {
		return fmt.Errorf("-quad: %w", err)
	}
	size, err := parseSize(*sizeArg)
	if err != nil {
		return fmt.Errorf("-size: %w", err)
	}
	if q.Degenerate() {
		return pipeline.ErrDegenerateQuad
	}

	f, err := os.Open(*inPath)
	if err != nil {
		return err
	}
	src, err := raster.DecodePNG(f)
	f.Close()
	if err != nil {
		return err
	}

	h, err := homography.Compute(homography.UnitSquare, q.Normalize(size))
	if err != nil {
		return errors.Join(pipeline.ErrDegenerateQuad, err)
	}
	inv, err := h.Inverse()
	if err != nil {
		return errors.Join(pipeline.ErrDegenerateQuad, err)
	}

	out := warp.Warp(src.Downscale(cfg.Shadow.DownscaleMax), inv, size)
	if *soften {
		out = composite.Compose(out, raster.New(size.W, size.H), composite.Options{
			BlurPx:  cfg.Shadow.BlurPx,
			Opacity: cfg.Shadow.Opacity,
		})
	}
	return writePNG(*outPath, out)
}
