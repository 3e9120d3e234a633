package direction

import (
	gomath "math"

	"github.com/Faultbox/groundshadow/internal/engine/scene"
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/math"
)

// DefaultPlaneY is the ground height used when a scene has no receiver.
const DefaultPlaneY = -0.6

// worldStep is the world distance projected to measure a direction on screen.
const worldStep = 0.2

// Anchor returns obj's world origin dropped onto the ground plane.
func Anchor(obj *scene.Node, planeY float32) space.World {
	p := obj.World().TransformVec3(math.Vec3{})
	p.Y = planeY
	return p
}

// FromWorld projects a short step along worldDir from anchor and returns the
// resulting framebuffer pixel delta. ok is false for a zero direction or a
// step that cannot be projected.
func FromWorld(anchor space.World, worldDir math.Vec3, cam scene.Camera, fb space.Size) (Vector, bool) {
	if worldDir.Length() == 0 || cam == nil {
		return Vector{}, false
	}
	vp := cam.ViewProjection()
	n0, ok0 := space.WorldToNDC(anchor, vp)
	n1, ok1 := space.WorldToNDC(anchor.Add(worldDir.Normalize().Scale(worldStep)), vp)
	if !ok0 || !ok1 {
		return Vector{}, false
	}
	p0 := space.NDCToFramebuffer(n0, fb)
	p1 := space.NDCToFramebuffer(n1, fb)
	return Vector{DX: p1.X - p0.X, DY: p1.Y - p0.Y}, true
}

// Sun places a point light around the origin on the side the light handle
// points to, at a fixed radius and height.
func Sun(p space.Placement, handle space.Overlay) scene.Light {
	const radius, height = 4, 3
	c := p.Center()
	ang := gomath.Atan2(handle.Y-c.Y, handle.X-c.X)
	return scene.Light{Position: math.Vec3{
		X: float32(gomath.Cos(ang) * radius),
		Y: height,
		Z: float32(gomath.Sin(ang) * radius),
	}}
}
