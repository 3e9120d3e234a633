package composite

import (
	"bytes"
	gomath "math"
	"testing"

	"github.com/Faultbox/groundshadow/pkg/raster"
)

func fill(w, h int, c [4]byte) *raster.Buffer {
	b := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, c)
		}
	}
	return b
}

func TestGaussianKernel(t *testing.T) {
	k := GaussianKernel(1)
	if len(k) != 7 {
		t.Fatalf("len: got %d, want 7", len(k))
	}
	sum := 0.0
	for i, v := range k {
		sum += v
		if v != k[len(k)-1-i] {
			t.Errorf("kernel not symmetric at %d", i)
		}
	}
	if gomath.Abs(sum-1) > 1e-12 {
		t.Errorf("sum: got %v, want 1", sum)
	}
	if k[3] <= k[2] {
		t.Error("center tap should be the largest")
	}

	if got := GaussianKernel(0); len(got) != 1 || got[0] != 1 {
		t.Errorf("sigma 0: got %v, want [1]", got)
	}
}

func TestBlurZeroIsIdentity(t *testing.T) {
	src := fill(4, 4, [4]byte{10, 20, 30, 255})
	src.Set(1, 1, [4]byte{200, 100, 50, 128})
	if got := Blur(src, 0); !bytes.Equal(got.Pix, src.Pix) {
		t.Errorf("Blur(0) changed pixels")
	}
}

func TestBlurSpreadsAndFadesAtEdges(t *testing.T) {
	src := raster.New(21, 21)
	src.Set(10, 10, [4]byte{0, 0, 0, 255})

	got := Blur(src, 2)
	center := got.At(10, 10)[3]
	side := got.At(12, 10)[3]
	if center == 255 || center == 0 {
		t.Errorf("center alpha: got %d, want partially spread", center)
	}
	if side == 0 || side >= center {
		t.Errorf("neighbor alpha: got %d, want 0 < a < %d", side, center)
	}

	// A solid buffer loses alpha at the border: outside is transparent.
	solid := Blur(fill(20, 20, [4]byte{128, 128, 128, 255}), 3)
	if a := solid.At(10, 10)[3]; a != 255 {
		t.Errorf("interior alpha: got %d, want 255", a)
	}
	if a := solid.At(0, 0)[3]; a >= 128 {
		t.Errorf("corner alpha: got %d, want < 128", a)
	}
	if c := solid.At(0, 0); c[0] != 128 {
		t.Errorf("corner color: got %v, want gray kept under straight alpha", c)
	}
}

func TestComposeOpacity(t *testing.T) {
	shadow := fill(2, 2, [4]byte{0, 0, 0, 255})
	object := raster.New(2, 2)

	got := Compose(shadow, object, Options{BlurPx: 0, Opacity: 0.5})
	if c := got.At(0, 0); c != [4]byte{0, 0, 0, 128} {
		t.Errorf("shadow pixel: got %v, want [0 0 0 128]", c)
	}
}

func TestComposeObjectOnTop(t *testing.T) {
	shadow := fill(8, 8, [4]byte{50, 50, 50, 255})
	object := raster.New(10, 10)
	red := [4]byte{255, 0, 0, 255}
	object.Set(2, 2, red)
	object.Set(3, 2, [4]byte{0, 0, 255, 128})
	object.Set(9, 9, red)

	got := Compose(shadow, object, Options{BlurPx: 0, Opacity: 0.5})
	if got.Width != 8 || got.Height != 8 {
		t.Fatalf("size: got %dx%d, want shadow size 8x8", got.Width, got.Height)
	}
	if c := got.At(2, 2); c != red {
		t.Errorf("opaque object pixel: got %v, want %v", c, red)
	}
	c := got.At(3, 2)
	if c[3] < 190 || c[3] > 193 {
		t.Errorf("half-alpha object over shadow: alpha %d, want ~191", c[3])
	}
	if c[2] <= c[0] {
		t.Errorf("half-alpha object over shadow: got %v, want blue dominant", c)
	}
}

func TestComposeDeterministic(t *testing.T) {
	shadow := raster.New(30, 30)
	for y := 10; y < 20; y++ {
		for x := 5; x < 25; x++ {
			shadow.Set(x, y, [4]byte{90, 90, 90, 200})
		}
	}
	object := fill(10, 10, [4]byte{0, 200, 0, 255})

	a := Compose(shadow, object, DefaultOptions())
	b := Compose(shadow, object, DefaultOptions())
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Compose is not deterministic")
	}
}
