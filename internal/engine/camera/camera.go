// Package camera provides the perspective orbit camera used to render and
// project the placed 3D object.
package camera

import (
	gomath "math"

	"github.com/Faultbox/groundshadow/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FovY   float32 // radians
	Aspect float32 // width / height
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32
}

// NewOrbitCamera creates a camera looking slightly down at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    3.0,
		RotationX:   0.35,
		RotationY:   0.0,
		FovY:        float32(45 * gomath.Pi / 180),
		Aspect:      1,
		Near:        0.1,
		Far:         100,
		MinDistance: 0.5,
		MaxDistance: 50.0,
		MinPitch:    0.05,
		MaxPitch:    1.5,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	pos := c.Position()
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(pos, center, up)
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// SetAspect updates the aspect ratio from viewport pixels.
func (c *OrbitCamera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Orbit rotates the camera by yaw/pitch deltas in radians.
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.RotationY += deltaYaw
	c.RotationX += deltaPitch

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// FitToBounds centers the camera on a bounding box and backs off until the
// whole box fits vertically in the field of view.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	c.CenterX = (lo.X + hi.X) / 2
	c.CenterY = (lo.Y + hi.Y) / 2
	c.CenterZ = (lo.Z + hi.Z) / 2

	radius := hi.Sub(lo).Length() / 2
	dist := radius / float32(gomath.Sin(float64(c.FovY)/2))
	if dist < c.MinDistance {
		dist = c.MinDistance
	}
	if dist > c.MaxDistance {
		dist = c.MaxDistance
	}
	c.Distance = dist
}
