package scene

import (
	"slices"
	"testing"

	"github.com/Faultbox/groundshadow/pkg/formats"
	"github.com/Faultbox/groundshadow/pkg/math"
)

func TestWorldComposesParents(t *testing.T) {
	root := NewNode("root")
	root.Local = math.Translate(1, 0, 0)
	child := NewNode("child")
	child.Local = math.Translate(0, 2, 0)
	root.Add(child)

	got := child.World().TransformVec3(math.Vec3{})
	if got != (math.Vec3{X: 1, Y: 2}) {
		t.Errorf("World: got %v, want (1, 2, 0)", got)
	}
}

func TestMeshesSkipsGroups(t *testing.T) {
	s := New()
	group := NewNode("group")
	s.Root.Add(group)
	group.Add(NewMeshNode("a", NewBox(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}), NewMaterial(1, 0, 0)))
	s.Root.Add(NewMeshNode("b", NewBox(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}), NewMaterial(0, 1, 0)))

	meshes := s.Meshes()
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0].Name != "a" || meshes[1].Name != "b" {
		t.Errorf("unexpected order: %s, %s", meshes[0].Name, meshes[1].Name)
	}
}

func TestShownInTree(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.Add(child)

	if !child.ShownInTree() {
		t.Error("child should be shown")
	}
	root.Visible = false
	if child.ShownInTree() {
		t.Error("hidden parent should hide child")
	}
}

func TestTrianglesWithoutIndices(t *testing.T) {
	m := &Mesh{Positions: make([]math.Vec3, 7)}
	count := 0
	m.Triangles(func(a, b, c int) { count++ })
	if count != 2 {
		t.Errorf("expected 2 triangles, got %d", count)
	}
}

func TestFlatVertices(t *testing.T) {
	m := &Mesh{
		Positions: []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Indices:   []uint32{0, 1, 2, 0, 1, 9},
	}
	got := m.FlatVertices()
	if len(got) != 18 {
		t.Fatalf("len: got %d, want 18 (out-of-range triangle dropped)", len(got))
	}
	// Counter-clockwise in the xy plane faces +z.
	for v := 0; v < 3; v++ {
		n := got[v*6+3 : v*6+6]
		if n[0] != 0 || n[1] != 0 || n[2] != 1 {
			t.Errorf("vertex %d normal: got %v, want [0 0 1]", v, n)
		}
	}
	if got[6] != 1 || got[7] != 0 {
		t.Errorf("second vertex position: got %v", got[6:9])
	}
}

func TestFlatVerticesNonIndexed(t *testing.T) {
	box := NewBox(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	m := &Mesh{}
	box.Triangles(func(a, b, c int) {
		m.Positions = append(m.Positions, box.Positions[a], box.Positions[b], box.Positions[c])
	})

	got := m.FlatVertices()
	if want := len(m.Positions) * 6; len(got) != want || cap(got) != want {
		t.Errorf("len/cap: got %d/%d, want %d/%d", len(got), cap(got), want, want)
	}
	if want := box.FlatVertices(); !slices.Equal(got, want) {
		t.Error("non-indexed expansion differs from the indexed box")
	}
}

func TestBounds(t *testing.T) {
	root := NewNode("obj")
	root.Local = math.Translate(0, 1, 0)
	root.Add(NewMeshNode("box", NewBox(math.Vec3{X: -1, Y: 0, Z: -2}, math.Vec3{X: 1, Y: 2, Z: 2}), NewMaterial(1, 1, 1)))

	lo, hi, ok := root.Bounds()
	if !ok {
		t.Fatal("Bounds: no geometry")
	}
	if lo != (math.Vec3{X: -1, Y: 1, Z: -2}) || hi != (math.Vec3{X: 1, Y: 3, Z: 2}) {
		t.Errorf("Bounds: got %v..%v", lo, hi)
	}

	if _, _, ok := NewNode("empty").Bounds(); ok {
		t.Error("empty node reported bounds")
	}
}

func TestNewOBJNode(t *testing.T) {
	obj := &formats.OBJ{Objects: []formats.OBJObject{
		{Name: "body", Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, Indices: []uint32{0, 1, 2}},
		{Name: "hat", Positions: [][3]float32{{0, 2, 0}, {1, 2, 0}, {0, 3, 0}}, Indices: []uint32{0, 1, 2}},
	}}
	mat := NewMaterial(0.5, 0.5, 0.5)

	root := NewOBJNode("model", obj, mat)
	meshes := root.Meshes()
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(meshes))
	}
	if meshes[1].Name != "hat" || meshes[1].Material != mat {
		t.Errorf("second mesh: got %q with %p, want hat with %p", meshes[1].Name, meshes[1].Material, mat)
	}
	if got := meshes[1].Mesh.Positions[2]; got != (math.Vec3{Y: 3}) {
		t.Errorf("position: got %v, want (0, 3, 0)", got)
	}
}

func TestPlaceOnGround(t *testing.T) {
	root := NewNode("obj")
	root.Add(NewMeshNode("box", NewBox(math.Vec3{X: 0, Y: 1, Z: 0}, math.Vec3{X: 2, Y: 3, Z: 4}), NewMaterial(1, 1, 1)))

	tests := []struct {
		name   string
		size   float32
		lo, hi math.Vec3
	}{
		{"keep scale", 0, math.Vec3{X: -1, Y: -0.5, Z: -2}, math.Vec3{X: 1, Y: 1.5, Z: 2}},
		{"fit to 2", 2, math.Vec3{X: -0.5, Y: -0.5, Z: -1}, math.Vec3{X: 0.5, Y: 0.5, Z: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Placing again starts from the untransformed geometry.
			for i := 0; i < 2; i++ {
				if !root.PlaceOnGround(-0.5, tt.size) {
					t.Fatal("PlaceOnGround: no geometry")
				}
				lo, hi, _ := root.Bounds()
				if lo != tt.lo || hi != tt.hi {
					t.Errorf("placement %d: got %v..%v, want %v..%v", i, lo, hi, tt.lo, tt.hi)
				}
			}
		})
	}

	if NewNode("empty").PlaceOnGround(0, 1) {
		t.Error("empty node reported placement")
	}
}
