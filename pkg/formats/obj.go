// Package formats provides parsers for the model files the shadow generator
// renders.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrInvalidOBJIndex  = errors.New("invalid OBJ vertex index")
	ErrInvalidOBJVertex = errors.New("invalid OBJ vertex")
	ErrShortOBJFace     = errors.New("OBJ face needs at least 3 vertices")
)

// OBJ is a parsed Wavefront OBJ file, split into its o/g groups.
type OBJ struct {
	Objects []OBJObject
}

// OBJObject is one named group of triangles. Positions holds only the
// vertices the group's faces reference.
type OBJObject struct {
	Name      string
	Positions [][3]float32
	Indices   []uint32 // triangle list into Positions
}

// TriangleCount returns the number of triangles in the object.
func (o *OBJObject) TriangleCount() int {
	return len(o.Indices) / 3
}

// VertexCount returns the total number of positions across all objects.
func (m *OBJ) VertexCount() int {
	n := 0
	for i := range m.Objects {
		n += len(m.Objects[i].Positions)
	}
	return n
}

// TriangleCount returns the total number of triangles across all objects.
func (m *OBJ) TriangleCount() int {
	n := 0
	for i := range m.Objects {
		n += m.Objects[i].TriangleCount()
	}
	return n
}

// LoadOBJ reads an OBJ file from disk.
func LoadOBJ(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ: %w", err)
	}
	defer f.Close()
	return ReadOBJ(f)
}

// objBuilder collects faces for the current group.
type objBuilder struct {
	vertices [][3]float32
	objects  []OBJObject
	cur      *OBJObject
	remap    map[int]uint32
}

func (b *objBuilder) begin(name string) {
	b.flush()
	b.cur = &OBJObject{Name: name}
	b.remap = make(map[int]uint32)
}

// flush keeps the current group if it has any faces.
func (b *objBuilder) flush() {
	if b.cur != nil && len(b.cur.Indices) > 0 {
		b.objects = append(b.objects, *b.cur)
	}
	b.cur = nil
}

func (b *objBuilder) local(global int) uint32 {
	if idx, ok := b.remap[global]; ok {
		return idx
	}
	idx := uint32(len(b.cur.Positions))
	b.cur.Positions = append(b.cur.Positions, b.vertices[global])
	b.remap[global] = idx
	return idx
}

// ReadOBJ parses vertex positions and faces. Polygons are fan-triangulated;
// texture coordinates, normals and materials are ignored. Faces before any
// o or g line land in an object named "default".
func ReadOBJ(r io.Reader) (*OBJ, error) {
	b := &objBuilder{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			b.vertices = append(b.vertices, v)
		case "o", "g":
			b.begin(strings.Join(fields[1:], " "))
		case "f":
			if b.cur == nil {
				b.begin("default")
			}
			if err := b.face(fields[1:]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	b.flush()
	return &OBJ{Objects: b.objects}, nil
}

func parseVertex(fields []string) ([3]float32, error) {
	var v [3]float32
	if len(fields) < 3 {
		return v, fmt.Errorf("%w: %d components", ErrInvalidOBJVertex, len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, fmt.Errorf("%w: %v", ErrInvalidOBJVertex, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func (b *objBuilder) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("%w: got %d", ErrShortOBJFace, len(refs))
	}
	idx := make([]uint32, len(refs))
	for i, ref := range refs {
		global, err := b.resolve(ref)
		if err != nil {
			return err
		}
		idx[i] = b.local(global)
	}
	for i := 1; i+1 < len(idx); i++ {
		b.cur.Indices = append(b.cur.Indices, idx[0], idx[i], idx[i+1])
	}
	return nil
}

// resolve turns a v, v/vt, v//vn or v/vt/vn reference into a 0-based
// position index. Negative indices count back from the last vertex read.
func (b *objBuilder) resolve(ref string) (int, error) {
	head, _, _ := strings.Cut(ref, "/")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOBJIndex, ref)
	}
	var i int
	switch {
	case n > 0:
		i = n - 1
	case n < 0:
		i = len(b.vertices) + n
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOBJIndex, ref)
	}
	if i < 0 || i >= len(b.vertices) {
		return 0, fmt.Errorf("%w: %q with %d vertices", ErrInvalidOBJIndex, ref, len(b.vertices))
	}
	return i, nil
}
