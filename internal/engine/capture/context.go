// Package capture renders the shadow-only and object-only passes of a 3D
// scene and reads them back as raster buffers.
package capture

import (
	"context"

	"github.com/Faultbox/groundshadow/internal/engine/scene"
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

// Renderer is the 3D backend a capture drives.
type Renderer interface {
	// Viewport returns the framebuffer size in pixels.
	Viewport() space.Size
	ClearColor() [4]float32
	SetClearColor(c [4]float32)
	// Render submits one frame of s as seen from cam.
	Render(s *scene.Scene, cam scene.Camera) error
	// Finish blocks until the submitted frame is complete or ctx is done.
	Finish(ctx context.Context) error
	// ReadPixels returns the last frame, top row first.
	ReadPixels() (*raster.Buffer, error)
}

// RenderContext bundles the externally owned renderer, scene, camera and
// placed object for one engine call at a time. Captures mutate scene state,
// so a context can only be borrowed by one in-flight call.
type RenderContext struct {
	Renderer Renderer
	Scene    *scene.Scene
	Camera   scene.Camera
	Object   *scene.Node

	// Overlay is where the on-screen 3D viewport sits relative to the
	// renderer's framebuffer origin.
	Overlay space.Offset

	busy chan struct{}
}

// NewRenderContext wires the collaborators together.
func NewRenderContext(r Renderer, s *scene.Scene, cam scene.Camera, obj *scene.Node) *RenderContext {
	return &RenderContext{
		Renderer: r,
		Scene:    s,
		Camera:   cam,
		Object:   obj,
		busy:     make(chan struct{}, 1),
	}
}

// Ready reports ErrRenderNotReady if any collaborator is missing.
func (rc *RenderContext) Ready() error {
	switch {
	case rc == nil:
		return ErrRenderNotReady
	case rc.Renderer == nil:
		return &Error{Op: "ready", Err: ErrRenderNotReady, Detail: "renderer"}
	case rc.Scene == nil || rc.Scene.Root == nil:
		return &Error{Op: "ready", Err: ErrRenderNotReady, Detail: "scene"}
	case rc.Camera == nil:
		return &Error{Op: "ready", Err: ErrRenderNotReady, Detail: "camera"}
	}
	return nil
}

// Borrow claims the context for one call. The returned release must be
// called exactly once. A context already in use yields ErrContextBusy.
func (rc *RenderContext) Borrow() (release func(), err error) {
	if err := rc.Ready(); err != nil {
		return nil, err
	}
	if rc.busy == nil {
		return nil, &Error{Op: "borrow", Err: ErrRenderNotReady, Detail: "context not built with NewRenderContext"}
	}
	select {
	case rc.busy <- struct{}{}:
	default:
		return nil, ErrContextBusy
	}
	return func() { <-rc.busy }, nil
}
