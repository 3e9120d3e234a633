package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

var errNothingToBlend = errors.New("nothing to blend")

// BlendRequest is what the downstream 2D blend service takes.
type BlendRequest struct {
	Background string // reference to the background image
	Foreground *raster.Buffer
	Placement  space.Placement
	Canvas     space.Size
}

// Blender composes a foreground sprite onto a background and returns a
// reference to the result.
type Blender interface {
	Blend(ctx context.Context, req BlendRequest) (string, error)
}

// Handoff passes a Generate result to a blender. A geometry failure
// degrades to blending the object pass alone; the geometry error is
// returned alongside the reference so callers can tell the user.
func Handoff(ctx context.Context, b Blender, res *Result, genErr error, bg string, p space.Placement, canvas space.Size) (string, error) {
	var geo *GeometryError
	if genErr != nil && !errors.As(genErr, &geo) {
		return "", genErr
	}
	if res == nil || res.Foreground() == nil {
		return "", errNothingToBlend
	}

	ref, err := b.Blend(ctx, BlendRequest{
		Background: bg,
		Foreground: res.Foreground(),
		Placement:  p,
		Canvas:     canvas,
	})
	if err != nil {
		return "", fmt.Errorf("blend: %w", err)
	}
	return ref, genErr
}
