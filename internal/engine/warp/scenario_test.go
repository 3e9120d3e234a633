package warp_test

import (
	"testing"

	"github.com/Faultbox/groundshadow/internal/engine/composite"
	"github.com/Faultbox/groundshadow/internal/engine/homography"
	"github.com/Faultbox/groundshadow/internal/engine/warp"
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

// A gray shadow warped onto a trapezoid below an opaque square.
func TestTrapezoidUnderSquare(t *testing.T) {
	size := space.Size{W: 300, H: 300}

	shadow := raster.New(100, 100)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			shadow.Set(x, y, [4]byte{128, 128, 128, 255})
		}
	}
	object := raster.New(size.W, size.H)
	for y := 100; y < 200; y++ {
		for x := 100; x < 200; x++ {
			object.Set(x, y, [4]byte{255, 0, 0, 255})
		}
	}

	q := space.Quad{{X: 50, Y: 250}, {X: 250, Y: 250}, {X: 350, Y: 300}, {X: -50, Y: 300}}
	h, err := homography.Compute(homography.UnitSquare, q.Normalize(size))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	inv, err := h.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	out := composite.Compose(warp.Warp(shadow, inv, size), object, composite.Options{BlurPx: 2, Opacity: 0.55})

	if got := out.At(150, 150); got != ([4]byte{255, 0, 0, 255}) {
		t.Errorf("square center: got %v, want opaque red", got)
	}

	// Inside the trapezoid, well clear of its edges.
	for _, p := range [][2]int{{150, 275}, {60, 280}, {240, 280}} {
		c := out.At(p[0], p[1])
		if c[3] < 138 || c[3] > 142 {
			t.Errorf("trapezoid %v alpha: got %d, want about 140", p, c[3])
		}
		if c[0] < 127 || c[0] > 129 || c[0] != c[1] || c[1] != c[2] {
			t.Errorf("trapezoid %v color: got %v, want gray 128", p, c)
		}
	}

	// Above the near edge and beside the far corners nothing is drawn.
	for _, p := range [][2]int{{150, 60}, {150, 230}, {5, 255}, {295, 255}} {
		if a := out.At(p[0], p[1])[3]; a != 0 {
			t.Errorf("outside %v: got alpha %d, want 0", p, a)
		}
	}
}
