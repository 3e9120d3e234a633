package scene

import "github.com/Faultbox/groundshadow/pkg/math"

// NewGroundReceiver builds a square receiver of half-extent size at height y.
func NewGroundReceiver(y, size, opacity float32) *Receiver {
	mesh := &Mesh{
		Positions: []math.Vec3{
			{X: -size, Y: y, Z: -size},
			{X: size, Y: y, Z: -size},
			{X: size, Y: y, Z: size},
			{X: -size, Y: y, Z: size},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
	node := NewMeshNode("shadow-receiver", mesh, &Material{Color: [4]float32{0, 0, 0, opacity}, ColorWrite: true})
	return &Receiver{Node: node, Y: y, Opacity: opacity}
}

// NewBox builds an axis-aligned box mesh spanning lo..hi.
func NewBox(lo, hi math.Vec3) *Mesh {
	p := []math.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z}, {X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z}, {X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return &Mesh{Positions: p, Indices: idx}
}
