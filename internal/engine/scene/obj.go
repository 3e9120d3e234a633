package scene

import (
	"github.com/Faultbox/groundshadow/pkg/formats"
	"github.com/Faultbox/groundshadow/pkg/math"
)

// NewOBJNode builds a group node with one mesh child per OBJ object, all
// sharing mat.
func NewOBJNode(name string, obj *formats.OBJ, mat *Material) *Node {
	root := NewNode(name)
	for i := range obj.Objects {
		o := &obj.Objects[i]
		mesh := &Mesh{
			Positions: make([]math.Vec3, len(o.Positions)),
			Indices:   o.Indices,
		}
		for j, p := range o.Positions {
			mesh.Positions[j] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
		}
		root.Add(NewMeshNode(o.Name, mesh, mat))
	}
	return root
}

// PlaceOnGround sets n's local transform so its geometry is centered over
// the origin in x and z with its lowest point at height y. A positive size
// also scales it uniformly so its longest extent equals size. It reports
// false when n has no geometry. n's ancestors are assumed not to transform.
func (n *Node) PlaceOnGround(y, size float32) bool {
	n.Local = math.Identity()
	lo, hi, ok := n.Bounds()
	if !ok {
		return false
	}
	s := float32(1)
	if ext := max(hi.X-lo.X, hi.Y-lo.Y, hi.Z-lo.Z); size > 0 && ext > 0 {
		s = size / ext
	}
	n.Local = math.Translate(-s*(lo.X+hi.X)/2, y-s*lo.Y, -s*(lo.Z+hi.Z)/2).Mul(math.Scale(s, s, s))
	return true
}
