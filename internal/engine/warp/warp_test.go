package warp

import (
	"bytes"
	gomath "math"
	"testing"

	"github.com/Faultbox/groundshadow/internal/engine/homography"
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/math"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

func gradient(w, h int) *raster.Buffer {
	b := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, [4]byte{byte(x * 20), byte(y * 20), byte(x + y), 255})
		}
	}
	return b
}

func TestIdentityCopiesPixels(t *testing.T) {
	// With a (W+1)x(H+1) source the sample grid lands exactly on source
	// pixels, so the identity map is a crop.
	src := gradient(9, 7)
	dst := space.Size{W: 8, H: 6}

	got := Warp(src, math.Identity3(), dst)
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			if got.At(x, y) != src.At(x, y) {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got.At(x, y), src.At(x, y))
			}
		}
	}
}

func TestIdentityIsNotFlipped(t *testing.T) {
	src := raster.New(5, 5)
	src.Set(0, 0, [4]byte{255, 0, 0, 255})

	got := Warp(src, math.Identity3(), space.Size{W: 4, H: 4})
	if got.At(0, 0) != [4]byte{255, 0, 0, 255} {
		t.Errorf("top-left: got %v, want red", got.At(0, 0))
	}
	if got.At(0, 3) != [4]byte{} {
		t.Errorf("bottom-left: got %v, want transparent", got.At(0, 3))
	}
}

func TestOutsideQuadIsTransparent(t *testing.T) {
	src := raster.New(11, 11)
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	dst := space.Size{W: 100, H: 100}
	q := space.Quad{{X: 25, Y: 25}, {X: 75, Y: 25}, {X: 75, Y: 75}, {X: 25, Y: 75}}

	h, err := homography.Compute(homography.UnitSquare, q.Normalize(dst))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	inv, err := h.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	got := Warp(src, inv, dst)
	if a := got.At(50, 50)[3]; a != 255 {
		t.Errorf("inside: alpha %d, want 255", a)
	}
	for _, p := range [][2]int{{10, 10}, {90, 50}, {50, 90}, {24, 50}} {
		if a := got.At(p[0], p[1])[3]; a != 0 {
			t.Errorf("outside %v: alpha %d, want 0", p, a)
		}
	}
}

func TestVanishingWIsTransparent(t *testing.T) {
	src := gradient(4, 4)
	// Third row zero: w is 0 everywhere.
	inv := math.Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}}
	got := Warp(src, inv, space.Size{W: 3, H: 3})
	if !bytes.Equal(got.Pix, raster.New(3, 3).Pix) {
		t.Error("expected fully transparent output")
	}
}

func TestNonFiniteInverseIsTransparent(t *testing.T) {
	src := gradient(4, 4)
	nan := gomath.NaN()
	for _, inv := range []math.Mat3{
		{{nan, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		{{1, 0, 0}, {0, 1, 0}, {0, 0, nan}},
		{{1, 0, 0}, {0, 1, 0}, {0, 0, gomath.Inf(1)}},
	} {
		got := Warp(src, inv, space.Size{W: 3, H: 3})
		if !bytes.Equal(got.Pix, raster.New(3, 3).Pix) {
			t.Errorf("inverse %v: expected fully transparent output", inv)
		}
	}
}

func TestDeterministic(t *testing.T) {
	src := gradient(10, 10)
	inv := math.Mat3{{1.1, 0.2, -5}, {0.1, 0.9, 3}, {0.001, 0.002, 1}}
	a := Warp(src, inv, space.Size{W: 12, H: 12})
	b := Warp(src, inv, space.Size{W: 12, H: 12})
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Warp is not deterministic")
	}
}
