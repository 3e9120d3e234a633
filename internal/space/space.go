// Package space defines one point type per coordinate space used by the
// shadow engine and the only functions allowed to convert between them.
//
//	World       scene units, y up
//	NDC         normalized device coordinates, [-1, 1], y up
//	Framebuffer pixels of the renderer's full framebuffer, origin top-left, y down
//	Overlay     pixels of the on-screen 3D viewport region, origin top-left, y down
//
// Overlay is the space every 2D pipeline stage agrees on.
package space

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/groundshadow/pkg/math"
)

// World is a point in scene space.
type World = math.Vec3

// NDC is a point in normalized device coordinates.
type NDC struct {
	X, Y, Z float64
}

// Framebuffer is a pixel position in the renderer's framebuffer.
type Framebuffer struct {
	X, Y float64
}

// Overlay is a pixel position in overlay space.
type Overlay struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p Overlay) Add(dx, dy float64) Overlay {
	return Overlay{p.X + dx, p.Y + dy}
}

func (p Overlay) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Size is a pixel extent.
type Size struct {
	W, H int
}

// Max returns the longer edge.
func (s Size) Max() int {
	return max(s.W, s.H)
}

// Quad is an ordered quadrilateral in overlay space:
// top-left, top-right, bottom-right, bottom-left.
type Quad [4]Overlay

// Shift returns the quad translated by (dx, dy).
func (q Quad) Shift(dx, dy float64) Quad {
	for i := range q {
		q[i] = q[i].Add(dx, dy)
	}
	return q
}

// Degenerate reports whether any three corners are collinear or any corner
// is not finite.
func (q Quad) Degenerate() bool {
	for _, p := range q {
		if gomath.IsNaN(p.X) || gomath.IsNaN(p.Y) || gomath.IsInf(p.X, 0) || gomath.IsInf(p.Y, 0) {
			return true
		}
	}
	for i := 0; i < 4; i++ {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		if !(gomath.Abs(cross) >= 1e-9) {
			return true
		}
	}
	return false
}

// Normalize maps the quad into [0,1] units of the given overlay size.
func (q Quad) Normalize(size Size) Quad {
	w, h := float64(size.W), float64(size.H)
	for i := range q {
		q[i] = Overlay{q[i].X / w, q[i].Y / h}
	}
	return q
}

// Offset is the position of the overlay's origin inside the framebuffer,
// both measured in screen pixels.
type Offset struct {
	X, Y float64
}

// WorldToNDC projects a world point through a view-projection matrix.
// ok is false when the point lies on the camera plane (w == 0).
func WorldToNDC(p World, viewProj math.Mat4) (NDC, bool) {
	c := viewProj.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if c[3] == 0 {
		return NDC{}, false
	}
	return NDC{
		X: float64(c[0] / c[3]),
		Y: float64(c[1] / c[3]),
		Z: float64(c[2] / c[3]),
	}, true
}

// NDCToFramebuffer converts NDC to framebuffer pixels, flipping y.
func NDCToFramebuffer(p NDC, fb Size) Framebuffer {
	return Framebuffer{
		X: (p.X + 1) / 2 * float64(fb.W),
		Y: (-p.Y + 1) / 2 * float64(fb.H),
	}
}

// FramebufferToOverlay subtracts the overlay's offset within the framebuffer.
func FramebufferToOverlay(p Framebuffer, off Offset) Overlay {
	return Overlay{X: p.X - off.X, Y: p.Y - off.Y}
}

// WorldToOverlay chains the three conversions.
func WorldToOverlay(p World, viewProj math.Mat4, fb Size, off Offset) (Overlay, bool) {
	ndc, ok := WorldToNDC(p, viewProj)
	if !ok {
		return Overlay{}, false
	}
	return FramebufferToOverlay(NDCToFramebuffer(ndc, fb), off), true
}

// Placement is the 2D canvas transform of the object sprite. Left and Top
// are canvas pixels; Width and Height are the scaled sprite size.
type Placement struct {
	Left, Top     float64
	Width, Height float64
	Rotation      float64 // degrees
}

// Center returns the middle of the placement box.
func (p Placement) Center() Overlay {
	return Overlay{X: p.Left + p.Width/2, Y: p.Top + p.Height/2}
}

// Valid reports whether the box has a positive area.
func (p Placement) Valid() bool {
	return p.Width > 0 && p.Height > 0
}

// ToOverlay maps a canvas point relative to the placement box onto an
// overlay of the given size, the box filling the whole overlay.
func (p Placement) ToOverlay(pt Overlay, size Size) Overlay {
	return Overlay{
		X: (pt.X - p.Left) / p.Width * float64(size.W),
		Y: (pt.Y - p.Top) / p.Height * float64(size.H),
	}
}
