// Package pipeline runs the whole shadow synthesis for one placed object:
// capture both passes, anchor a quad at the object's feet, warp the shadow
// onto it and composite the object on top.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/groundshadow/internal/engine/capture"
	"github.com/Faultbox/groundshadow/internal/engine/composite"
	"github.com/Faultbox/groundshadow/internal/engine/direction"
	"github.com/Faultbox/groundshadow/internal/engine/footpoint"
	"github.com/Faultbox/groundshadow/internal/engine/homography"
	"github.com/Faultbox/groundshadow/internal/engine/quad"
	"github.com/Faultbox/groundshadow/internal/engine/warp"
	"github.com/Faultbox/groundshadow/internal/logger"
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

// Options gathers the tunables of every stage.
type Options struct {
	// DownscaleMax bounds the shadow raster's longest edge before warping.
	DownscaleMax int
	Capture      capture.Options
	Feet         footpoint.Options
	Quad         quad.Options
	Composite    composite.Options
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		DownscaleMax: 700,
		Capture:      capture.DefaultOptions(),
		Feet:         footpoint.DefaultOptions(),
		Quad:         quad.DefaultOptions(),
		Composite:    composite.DefaultOptions(),
	}
}

// Request describes one "generate shadow" call.
type Request struct {
	Placement space.Placement
	// Overlay is the on-screen size of the 3D view. Zero means the
	// renderer's viewport.
	Overlay space.Size

	// Direction, when set, is used verbatim as the shadow vector.
	Direction *direction.Vector
	// Light is the light handle's canvas position.
	Light *space.Overlay
	Side  direction.Side
	// Resolver overrides the direction policy entirely.
	Resolver direction.Resolver
}

// Result is the composed sprite plus the geometry that produced it.
type Result struct {
	Sprite *raster.Buffer
	// Object is the object-only pass, for callers degrading to a plain
	// blend when the shadow geometry fails.
	Object    *raster.Buffer
	Feet      []space.Overlay
	Direction direction.Result
	Quad      space.Quad
}

// Foreground returns the sprite to hand to a blender: the composed one when
// available, otherwise the bare object.
func (r *Result) Foreground() *raster.Buffer {
	if r.Sprite != nil {
		return r.Sprite
	}
	return r.Object
}

// Generator runs the pipeline with fixed options.
type Generator struct {
	opts Options
}

// New creates a Generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate runs every stage in order against a borrowed render context. On
// a GeometryError the returned Result still carries the object pass.
func (g *Generator) Generate(ctx context.Context, rc *capture.RenderContext, req Request) (*Result, error) {
	log := logger.Named("pipeline")
	start := time.Now()

	release, err := rc.Borrow()
	if err != nil {
		return nil, err
	}
	defer release()

	shadow, err := capture.Capture(ctx, rc, capture.ShadowPass, g.opts.Capture)
	if err != nil {
		return nil, err
	}
	object, err := capture.Capture(ctx, rc, capture.ObjectPass, g.opts.Capture)
	if err != nil {
		return nil, err
	}
	res := &Result{Object: object}

	viewport := rc.Renderer.Viewport()
	overlay := req.Overlay
	if overlay.W <= 0 || overlay.H <= 0 {
		overlay = viewport
	}

	res.Feet = footpoint.Extract(rc.Object, rc.Camera, viewport, rc.Overlay, g.opts.Feet)

	resolver := req.Resolver
	if resolver == nil {
		resolver = direction.Pick(req.Direction, req.Side)
	}
	res.Direction = resolver.Resolve(direction.Input{
		Placement: req.Placement,
		Overlay:   overlay,
		Light:     req.Light,
	})

	anchored := len(res.Feet) >= 2
	if !anchored && !req.Placement.Valid() {
		return res, &GeometryError{Stage: "quad", Err: ErrNoFootPoints}
	}
	res.Quad = quad.Build(res.Feet, res.Direction, req.Placement, overlay, g.opts.Quad)
	log.Debug("shadow geometry",
		zap.Int("feet", len(res.Feet)),
		zap.Bool("anchored", anchored),
		zap.Float64("dx", res.Direction.DX),
		zap.Float64("dy", res.Direction.DY),
		zap.Float64("length", res.Direction.Length),
		zap.Stringers("quad", res.Quad[:]))

	if res.Quad.Degenerate() {
		err := ErrDegenerateQuad
		if !anchored {
			err = fmt.Errorf("%w: %w", ErrNoFootPoints, ErrDegenerateQuad)
		}
		return res, &GeometryError{Stage: "quad", Quad: res.Quad, Err: err}
	}

	h, err := homography.Compute(homography.UnitSquare, res.Quad.Normalize(overlay))
	if err != nil {
		return res, &GeometryError{Stage: "homography", Quad: res.Quad, Err: errors.Join(ErrDegenerateQuad, err)}
	}
	inv, err := h.Inverse()
	if err != nil {
		return res, &GeometryError{Stage: "inverse", Quad: res.Quad, Err: errors.Join(ErrDegenerateQuad, err)}
	}

	small := shadow.Downscale(g.opts.DownscaleMax)
	warped := warp.Warp(small, inv, overlay)
	res.Sprite = composite.Compose(warped, object, g.opts.Composite)

	log.Debug("shadow composed",
		zap.Int("shadow_w", small.Width),
		zap.Int("shadow_h", small.Height),
		zap.Int("out_w", res.Sprite.Width),
		zap.Int("out_h", res.Sprite.Height),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}
