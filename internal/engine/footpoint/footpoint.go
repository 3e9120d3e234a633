// Package footpoint finds where a placed 3D object touches the ground and
// projects those contact vertices into overlay pixels.
package footpoint

import (
	gomath "math"

	"github.com/Faultbox/groundshadow/internal/engine/scene"
	"github.com/Faultbox/groundshadow/internal/space"
)

// Options tunes vertex sampling.
type Options struct {
	// SampleTarget caps the samples taken per mesh; dense meshes are strided.
	SampleTarget int
	// Epsilon is the height of the ground band above the lowest sample,
	// in world units.
	Epsilon float32
}

// DefaultOptions returns 4000 samples per mesh and a 0.03 band.
func DefaultOptions() Options {
	return Options{SampleTarget: 4000, Epsilon: 0.03}
}

// Band is the lowest slice of an object's sampled world vertices.
type Band struct {
	Feet    []space.World
	MinY    float32
	Sampled int
}

// Stride returns the vertex step that keeps a mesh of count vertices near
// the sample target.
func Stride(count, target int) int {
	if target <= 0 {
		return 1
	}
	return max(1, count/target)
}

// Ground samples every mesh under obj in world space and keeps the vertices
// strictly less than Epsilon above the lowest one.
func Ground(obj *scene.Node, opts Options) Band {
	if obj == nil {
		return Band{}
	}

	var pts []space.World
	for _, n := range obj.Meshes() {
		count := n.Mesh.VertexCount()
		if count == 0 {
			continue
		}
		world := n.World()
		stride := Stride(count, opts.SampleTarget)
		for i := 0; i < count; i += stride {
			pts = append(pts, world.TransformVec3(n.Mesh.Positions[i]))
		}
	}
	if len(pts) == 0 {
		return Band{}
	}

	minY := float32(gomath.Inf(1))
	for _, p := range pts {
		minY = min(minY, p.Y)
	}

	band := Band{MinY: minY, Sampled: len(pts)}
	for _, p := range pts {
		if p.Y < minY+opts.Epsilon {
			band.Feet = append(band.Feet, p)
		}
	}
	return band
}

// Extract returns the object's foot points in overlay space. fb is the
// renderer's full framebuffer size and off the overlay's origin within it.
// An object without geometry yields an empty set, which callers treat as a
// degenerate placement rather than an error.
func Extract(obj *scene.Node, cam scene.Camera, fb space.Size, off space.Offset, opts Options) []space.Overlay {
	band := Ground(obj, opts)
	if len(band.Feet) == 0 || cam == nil {
		return nil
	}

	vp := cam.ViewProjection()
	out := make([]space.Overlay, 0, len(band.Feet))
	for _, p := range band.Feet {
		if q, ok := space.WorldToOverlay(p, vp, fb, off); ok {
			out = append(out, q)
		}
	}
	return out
}
