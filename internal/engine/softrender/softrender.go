// Package softrender is a headless CPU rasterizer for the capture contract.
// It draws flat-shaded triangles with a depth buffer, honors per-material
// color-write, and darkens the shadow receiver with planar shadows cast from
// the scene light.
package softrender

import (
	"context"
	"fmt"
	gomath "math"

	"github.com/Faultbox/groundshadow/internal/engine/scene"
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/math"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

const ambient = 0.4

// Renderer draws into an in-memory framebuffer.
type Renderer struct {
	size  space.Size
	clear [4]float32

	color *raster.Buffer
	depth []float32
	// recv marks pixels where the receiver plane is the nearest surface.
	recv []bool
}

// New creates a renderer with a width x height framebuffer.
func New(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	return &Renderer{
		size:  space.Size{W: width, H: height},
		color: raster.New(width, height),
		depth: make([]float32, width*height),
		recv:  make([]bool, width*height),
	}, nil
}

// Viewport returns the framebuffer size.
func (r *Renderer) Viewport() space.Size { return r.size }

// ClearColor returns the current clear color.
func (r *Renderer) ClearColor() [4]float32 { return r.clear }

// SetClearColor sets the color used at the start of each frame.
func (r *Renderer) SetClearColor(c [4]float32) { r.clear = c }

// Render draws one frame of s.
func (r *Renderer) Render(s *scene.Scene, cam scene.Camera) error {
	if s == nil || cam == nil {
		return fmt.Errorf("render: nil scene or camera")
	}
	r.reset()
	vp := cam.ViewProjection()

	meshes := visibleMeshes(s)
	for _, n := range meshes {
		r.drawMesh(n, vp, s.Light)
	}

	rc := s.Receiver
	if rc == nil || rc.Node == nil || rc.Node.Mesh == nil || !rc.Node.ShownInTree() {
		return nil
	}
	r.markReceiver(rc.Node, vp)

	shadow := make([]bool, len(r.depth))
	proj := math.PlanarShadow(rc.Y, s.Light.Homogeneous())
	for _, n := range meshes {
		r.castShadow(n, vp.Mul(proj).Mul(n.World()), shadow)
	}

	dark := [4]float64{0, 0, 0, float64(rc.Opacity)}
	for i, hit := range shadow {
		if hit {
			blendOver(r.color.Pix[i*4:i*4+4], dark)
		}
	}
	return nil
}

// Finish returns immediately; CPU frames are complete when Render returns.
func (r *Renderer) Finish(ctx context.Context) error {
	return ctx.Err()
}

// ReadPixels returns a copy of the last frame.
func (r *Renderer) ReadPixels() (*raster.Buffer, error) {
	return r.color.Clone(), nil
}

func (r *Renderer) reset() {
	var c [4]byte
	for i, v := range r.clear {
		c[i] = unit8(float64(v))
	}
	for i := 0; i < len(r.color.Pix); i += 4 {
		copy(r.color.Pix[i:i+4], c[:])
	}
	for i := range r.depth {
		r.depth[i] = float32(gomath.Inf(1))
		r.recv[i] = false
	}
}

func visibleMeshes(s *scene.Scene) []*scene.Node {
	var out []*scene.Node
	for _, n := range s.Meshes() {
		if n.ShownInTree() {
			out = append(out, n)
		}
	}
	return out
}

// vertex is a projected vertex in framebuffer pixels with NDC depth.
type vertex struct {
	x, y, z float64
}

// toScreen divides a clip-space point into framebuffer pixels.
func (r *Renderer) toScreen(c math.Vec4) (vertex, bool) {
	if c[3] <= 1e-9 {
		return vertex{}, false
	}
	ndc := space.NDC{X: float64(c[0] / c[3]), Y: float64(c[1] / c[3]), Z: float64(c[2] / c[3])}
	fb := space.NDCToFramebuffer(ndc, r.size)
	return vertex{fb.X, fb.Y, ndc.Z}, true
}

// clipNear clips a clip-space polygon against the near plane z = -w.
func clipNear(in []math.Vec4) []math.Vec4 {
	dist := func(v math.Vec4) float32 { return v[2] + v[3] }
	out := make([]math.Vec4, 0, len(in)+1)
	for i := range in {
		cur, next := in[i], in[(i+1)%len(in)]
		dc, dn := dist(cur), dist(next)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			var v math.Vec4
			for k := range v {
				v[k] = cur[k] + (next[k]-cur[k])*t
			}
			out = append(out, v)
		}
	}
	return out
}

// triangles projects each triangle of m through clip, clipping it at the
// near plane, and calls fn once per resulting screen triangle with the
// source vertex indices.
func (r *Renderer) triangles(m *scene.Mesh, clip math.Mat4, fn func(ia, ib, ic int, a, b, c vertex)) {
	pos := m.Positions
	m.Triangles(func(ia, ib, ic int) {
		if ia >= len(pos) || ib >= len(pos) || ic >= len(pos) {
			return
		}
		poly := clipNear([]math.Vec4{
			clip.MulVec4(math.Vec4{pos[ia].X, pos[ia].Y, pos[ia].Z, 1}),
			clip.MulVec4(math.Vec4{pos[ib].X, pos[ib].Y, pos[ib].Z, 1}),
			clip.MulVec4(math.Vec4{pos[ic].X, pos[ic].Y, pos[ic].Z, 1}),
		})
		if len(poly) < 3 {
			return
		}
		vs := make([]vertex, len(poly))
		for i, c := range poly {
			v, ok := r.toScreen(c)
			if !ok {
				return
			}
			vs[i] = v
		}
		for i := 1; i+1 < len(vs); i++ {
			fn(ia, ib, ic, vs[0], vs[i], vs[i+1])
		}
	})
}

func (r *Renderer) drawMesh(n *scene.Node, vp math.Mat4, light scene.Light) {
	world := n.World()
	clip := vp.Mul(world)
	mat := n.Material
	if mat == nil {
		mat = scene.NewMaterial(1, 1, 1)
	}
	pos := n.Mesh.Positions

	r.triangles(n.Mesh, clip, func(ia, ib, ic int, a, b, c vertex) {
		var col [4]float64
		if mat.ColorWrite {
			shade := lambert(world.TransformVec3(pos[ia]), world.TransformVec3(pos[ib]), world.TransformVec3(pos[ic]), light)
			col = [4]float64{
				float64(mat.Color[0]) * shade,
				float64(mat.Color[1]) * shade,
				float64(mat.Color[2]) * shade,
				float64(mat.Color[3]),
			}
		}

		rasterize(a, b, c, r.size, func(i int, z float64) {
			if float32(z) >= r.depth[i] {
				return
			}
			r.depth[i] = float32(z)
			if mat.ColorWrite {
				blendOver(r.color.Pix[i*4:i*4+4], col)
			}
		})
	})
}

func (r *Renderer) markReceiver(n *scene.Node, vp math.Mat4) {
	clip := vp.Mul(n.World())
	r.triangles(n.Mesh, clip, func(_, _, _ int, a, b, c vertex) {
		rasterize(a, b, c, r.size, func(i int, z float64) {
			if float32(z) < r.depth[i] {
				r.recv[i] = true
			}
		})
	})
}

func (r *Renderer) castShadow(n *scene.Node, clip math.Mat4, mask []bool) {
	r.triangles(n.Mesh, clip, func(_, _, _ int, a, b, c vertex) {
		rasterize(a, b, c, r.size, func(i int, _ float64) {
			if r.recv[i] {
				mask[i] = true
			}
		})
	})
}

// lambert returns the two-sided diffuse factor of a world-space triangle.
func lambert(a, b, c math.Vec3, light scene.Light) float64 {
	normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
	toLight := light.Position
	if !light.Directional {
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		toLight = light.Position.Sub(centroid)
	}
	d := gomath.Abs(float64(normal.Dot(toLight.Normalize())))
	return ambient + (1-ambient)*d
}

// rasterize calls fn for every pixel whose center lies inside the triangle,
// with the interpolated depth.
func rasterize(a, b, c vertex, size space.Size, fn func(i int, z float64)) {
	area := edge(a, b, c.x, c.y)
	if gomath.Abs(area) < 1e-12 {
		return
	}
	minX := max(0, int(gomath.Floor(min(a.x, b.x, c.x))))
	maxX := min(size.W-1, int(gomath.Ceil(max(a.x, b.x, c.x))))
	minY := max(0, int(gomath.Floor(min(a.y, b.y, c.y))))
	maxY := min(size.H-1, int(gomath.Ceil(max(a.y, b.y, c.y))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			fn(y*size.W+x, w0*a.z+w1*b.z+w2*c.z)
		}
	}
}

func edge(a, b vertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// blendOver draws a straight-alpha color with components in 0..1 over a
// straight-alpha RGBA8 pixel.
func blendOver(dst []byte, src [4]float64) {
	sa := src[3]
	if sa >= 1 {
		dst[0], dst[1], dst[2], dst[3] = unit8(src[0]), unit8(src[1]), unit8(src[2]), 255
		return
	}
	if sa <= 0 {
		return
	}
	da := float64(dst[3]) / 255
	outA := sa + da*(1-sa)
	for i := 0; i < 3; i++ {
		d := float64(dst[i]) / 255
		dst[i] = unit8((src[i]*sa + d*da*(1-sa)) / outA)
	}
	dst[3] = unit8(outA)
}

func unit8(v float64) byte {
	v = v*255 + 0.5
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
