// Package scene holds the 3D scene graph rendered by the capture backends:
// mesh nodes with per-material color-write flags, a ground shadow receiver
// and a single light.
package scene

import (
	"github.com/Faultbox/groundshadow/pkg/math"
)

// Camera is anything that can project world points to clip space.
type Camera interface {
	ViewProjection() math.Mat4
}

// Mesh is indexed triangle geometry in node-local space.
type Mesh struct {
	Positions []math.Vec3
	Indices   []uint32 // triangle list; nil means consecutive triples
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Triangles calls fn with the vertex indices of each triangle.
func (m *Mesh) Triangles(fn func(a, b, c int)) {
	if m.Indices == nil {
		for i := 0; i+2 < len(m.Positions); i += 3 {
			fn(i, i+1, i+2)
		}
		return
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		fn(int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2]))
	}
}

// Material controls how a mesh contributes to the color buffer.
type Material struct {
	Color      [4]float32 // straight RGBA, 0..1
	ColorWrite bool
}

// NewMaterial returns an opaque, color-writing material.
func NewMaterial(r, g, b float32) *Material {
	return &Material{Color: [4]float32{r, g, b, 1}, ColorWrite: true}
}

// Node is an element of the scene graph.
type Node struct {
	Name     string
	Mesh     *Mesh
	Material *Material
	Visible  bool
	Local    math.Mat4

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Visible: true, Local: math.Identity()}
}

// NewMeshNode creates a visible node carrying geometry and a material.
func NewMeshNode(name string, mesh *Mesh, mat *Material) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	n.Material = mat
	return n
}

// Add attaches child to n.
func (n *Node) Add(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	return n.children
}

// World returns the node's local-to-world transform.
func (n *Node) World() math.Mat4 {
	if n.parent == nil {
		return n.Local
	}
	return n.parent.World().Mul(n.Local)
}

// Walk visits n and all descendants depth-first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// IsMesh reports whether the node draws geometry.
func (n *Node) IsMesh() bool {
	return n.Mesh != nil
}

// Meshes returns every mesh node under n, n included.
func (n *Node) Meshes() []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.IsMesh() {
			out = append(out, c)
		}
	})
	return out
}

// ShownInTree reports whether n and all its ancestors are visible.
func (n *Node) ShownInTree() bool {
	for c := n; c != nil; c = c.parent {
		if !c.Visible {
			return false
		}
	}
	return true
}

// Light is a point light, or a directional light whose Position is the
// direction toward the light.
type Light struct {
	Position    math.Vec3
	Directional bool
}

// Homogeneous returns the light as a Vec4 for planar shadow projection.
func (l Light) Homogeneous() math.Vec4 {
	if l.Directional {
		d := l.Position.Normalize()
		return math.Vec4{d.X, d.Y, d.Z, 0}
	}
	return math.Vec4{l.Position.X, l.Position.Y, l.Position.Z, 1}
}

// Receiver is a horizontal surface that only shows the shadows cast onto it.
type Receiver struct {
	Node    *Node
	Y       float32 // world height of the plane
	Opacity float32 // alpha of fully shadowed texels
}

// Scene is the renderable world.
type Scene struct {
	Root     *Node
	Receiver *Receiver
	Light    Light
}

// New returns an empty scene with a light above and to the right of the origin.
func New() *Scene {
	return &Scene{
		Root:  NewNode("root"),
		Light: Light{Position: math.Vec3{X: 4, Y: 3, Z: 0}},
	}
}

// Meshes returns every mesh node in the graph. The receiver is not part of
// the graph and is never returned here.
func (s *Scene) Meshes() []*Node {
	return s.Root.Meshes()
}

// FlatVertices expands the mesh into a non-indexed triangle list of
// interleaved position and face normal, six floats per vertex.
func (m *Mesh) FlatVertices() []float32 {
	n := len(m.Indices)
	if m.Indices == nil {
		n = len(m.Positions)
	}
	out := make([]float32, 0, n*6)
	m.Triangles(func(a, b, c int) {
		if a >= len(m.Positions) || b >= len(m.Positions) || c >= len(m.Positions) {
			return
		}
		pa, pb, pc := m.Positions[a], m.Positions[b], m.Positions[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
		for _, p := range []math.Vec3{pa, pb, pc} {
			out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
		}
	})
	return out
}

// Bounds returns the world-space bounding box of every mesh under n.
// ok is false when there is no geometry.
func (n *Node) Bounds() (lo, hi math.Vec3, ok bool) {
	for _, m := range n.Meshes() {
		world := m.World()
		for _, p := range m.Mesh.Positions {
			w := world.TransformVec3(p)
			if !ok {
				lo, hi, ok = w, w, true
				continue
			}
			lo = lo.Min(w)
			hi = hi.Max(w)
		}
	}
	return lo, hi, ok
}
