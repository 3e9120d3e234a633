package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const cubeOBJ = `# unit quad and a triangle
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1

o quad
usemtl red
f 1/1/1 2/1/1 3/1/1 4/1/1

g tri
f -4 -3 -1
`

func TestReadOBJ(t *testing.T) {
	obj, err := ReadOBJ(strings.NewReader(cubeOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}

	want := &OBJ{Objects: []OBJObject{
		{
			Name:      "quad",
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			Indices:   []uint32{0, 1, 2, 0, 2, 3},
		},
		{
			Name:      "tri",
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Indices:   []uint32{0, 1, 2},
		},
	}}
	if diff := cmp.Diff(want, obj); diff != "" {
		t.Errorf("OBJ mismatch (-want +got):\n%s", diff)
	}
	if got := obj.TriangleCount(); got != 3 {
		t.Errorf("TriangleCount = %d, want 3", got)
	}
	if got := obj.VertexCount(); got != 7 {
		t.Errorf("VertexCount = %d, want 7", got)
	}
}

func TestReadOBJDefaultGroup(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 0 1\nf 1//1 2//1 3//1\n"
	obj, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if len(obj.Objects) != 1 || obj.Objects[0].Name != "default" {
		t.Fatalf("got %+v, want one default object", obj.Objects)
	}
}

func TestReadOBJSkipsEmptyGroups(t *testing.T) {
	src := "o empty\ng body\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\ng trailing\n"
	obj, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if len(obj.Objects) != 1 || obj.Objects[0].Name != "body" {
		t.Errorf("got %+v, want only body", obj.Objects)
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"index out of range", "v 0 0 0\nv 1 0 0\nf 1 2 3\n", ErrInvalidOBJIndex},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrInvalidOBJIndex},
		{"garbage index", "v 0 0 0\nf a b c\n", ErrInvalidOBJIndex},
		{"short vertex", "v 0 0\n", ErrInvalidOBJVertex},
		{"bad float", "v 0 x 0\n", ErrInvalidOBJVertex},
		{"two-vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrShortOBJFace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0644); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}
	obj, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if len(obj.Objects) != 2 {
		t.Errorf("got %d objects, want 2", len(obj.Objects))
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
