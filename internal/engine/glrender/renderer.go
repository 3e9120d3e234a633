// Package glrender renders capture passes with OpenGL 4.1 into an offscreen
// framebuffer owned by a hidden SDL window.
//
// All methods must be called from the goroutine that called New; the
// package locks the main OS thread at init.
package glrender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/groundshadow/internal/engine/scene"
	"github.com/Faultbox/groundshadow/internal/logger"
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/math"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

// fenceSlice is how long one ClientWaitSync call may block before the
// context is checked again.
const fenceSlice = time.Millisecond

// meshBuffers is the GPU copy of one scene.Mesh.
type meshBuffers struct {
	vao, vbo uint32
	count    int32
}

// Renderer implements the capture renderer contract on the GPU.
type Renderer struct {
	size  space.Size
	clear [4]float32

	window *glContext
	fb     *framebuffer
	prog   *program
	meshes map[*scene.Mesh]*meshBuffers
	log    *zap.Logger
}

// New creates the GL context and a width x height offscreen target.
func New(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	log := logger.Named("glrender")

	ctx, err := newContext(log)
	if err != nil {
		return nil, err
	}
	fb, err := newFramebuffer(int32(width), int32(height))
	if err != nil {
		ctx.close()
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	prog, err := newProgram()
	if err != nil {
		fb.destroy()
		ctx.close()
		return nil, fmt.Errorf("compiling shaders: %w", err)
	}

	return &Renderer{
		size:   space.Size{W: width, H: height},
		window: ctx,
		fb:     fb,
		prog:   prog,
		meshes: make(map[*scene.Mesh]*meshBuffers),
		log:    log,
	}, nil
}

// Close releases every GL resource and the window.
func (r *Renderer) Close() {
	for _, mb := range r.meshes {
		gl.DeleteVertexArrays(1, &mb.vao)
		gl.DeleteBuffers(1, &mb.vbo)
	}
	gl.DeleteProgram(r.prog.id)
	r.fb.destroy()
	r.window.close()
}

// Viewport returns the framebuffer size.
func (r *Renderer) Viewport() space.Size { return r.size }

// ClearColor returns the current clear color.
func (r *Renderer) ClearColor() [4]float32 { return r.clear }

// SetClearColor sets the color used at the start of each frame.
func (r *Renderer) SetClearColor(c [4]float32) { r.clear = c }

// Render submits one frame. Meshes write depth always and color only when
// their material allows it. A visible receiver is stenciled where it is the
// nearest surface, then the scene's planar shadow is blended into that area.
func (r *Renderer) Render(s *scene.Scene, cam scene.Camera) error {
	if s == nil || cam == nil {
		return fmt.Errorf("render: nil scene or camera")
	}
	r.fb.bind()
	gl.ClearColor(r.clear[0], r.clear[1], r.clear[2], r.clear[3])
	gl.ClearStencil(0)
	gl.DepthMask(true)
	gl.ColorMask(true, true, true, true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.UseProgram(r.prog.id)

	light := s.Light.Homogeneous()
	gl.Uniform4f(r.prog.light, light[0], light[1], light[2], light[3])
	gl.Uniform1i(r.prog.unlit, 0)

	vp := cam.ViewProjection()
	var casters []*scene.Node
	for _, n := range s.Meshes() {
		if !n.ShownInTree() {
			continue
		}
		casters = append(casters, n)
		write := n.Material == nil || n.Material.ColorWrite
		gl.ColorMask(write, write, write, write)
		color := [4]float32{1, 1, 1, 1}
		if n.Material != nil {
			color = n.Material.Color
		}
		r.draw(n.Mesh, vp, n.World(), color)
	}

	if rc := s.Receiver; rc != nil && rc.Node != nil && rc.Node.Mesh != nil && rc.Node.ShownInTree() {
		r.drawShadow(rc, casters, vp, light)
	}

	gl.ColorMask(true, true, true, true)
	gl.DepthMask(true)
	gl.Disable(gl.STENCIL_TEST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("render: GL error 0x%x", code)
	}
	return nil
}

func (r *Renderer) drawShadow(rc *scene.Receiver, casters []*scene.Node, vp math.Mat4, light math.Vec4) {
	gl.Uniform1i(r.prog.unlit, 1)

	// Stencil the visible receiver without touching color or depth.
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilFunc(gl.ALWAYS, 1, 0xFF)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
	gl.ColorMask(false, false, false, false)
	gl.DepthMask(false)
	r.draw(rc.Node.Mesh, vp, rc.Node.World(), [4]float32{})

	// Blend flattened casters once per stenciled pixel.
	gl.Disable(gl.DEPTH_TEST)
	gl.ColorMask(true, true, true, true)
	gl.StencilFunc(gl.EQUAL, 1, 0xFF)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.INCR)
	proj := math.PlanarShadow(rc.Y, light)
	dark := [4]float32{0, 0, 0, rc.Opacity}
	for _, n := range casters {
		r.draw(n.Mesh, vp.Mul(proj), n.World(), dark)
	}
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) draw(m *scene.Mesh, vp, model math.Mat4, color [4]float32) {
	mb := r.upload(m)
	if mb.count == 0 {
		return
	}
	mvp := vp.Mul(model)
	gl.UniformMatrix4fv(r.prog.mvp, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.prog.model, 1, false, model.Ptr())
	gl.Uniform4f(r.prog.color, color[0], color[1], color[2], color[3])
	gl.BindVertexArray(mb.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, mb.count)
	gl.BindVertexArray(0)
}

// upload returns the GPU buffers for m, creating them on first use.
func (r *Renderer) upload(m *scene.Mesh) *meshBuffers {
	if mb, ok := r.meshes[m]; ok {
		return mb
	}
	verts := m.FlatVertices()
	mb := &meshBuffers{count: int32(len(verts) / 6)}
	r.meshes[m] = mb
	if mb.count == 0 {
		return mb
	}

	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)
	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	const stride = 6 * 4
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	r.log.Debug("mesh uploaded", zap.Int32("vertices", mb.count))
	return mb
}

// Finish waits on a fence for the submitted frame, polling ctx between
// short waits.
func (r *Renderer) Finish(ctx context.Context) error {
	sync := gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
	defer gl.DeleteSync(sync)

	for {
		switch gl.ClientWaitSync(sync, gl.SYNC_FLUSH_COMMANDS_BIT, uint64(fenceSlice.Nanoseconds())) {
		case gl.ALREADY_SIGNALED, gl.CONDITION_SATISFIED:
			return nil
		case gl.WAIT_FAILED:
			return errors.New("fence wait failed")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// ReadPixels reads the frame back top row first.
func (r *Renderer) ReadPixels() (*raster.Buffer, error) {
	pix := r.fb.readPixels()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("glReadPixels: GL error 0x%x", code)
	}
	buf, err := raster.FromPixels(pix, r.size.W, r.size.H)
	if err != nil {
		return nil, err
	}
	return buf.FlipVertical(), nil
}
