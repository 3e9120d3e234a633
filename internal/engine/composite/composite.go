// Package composite blurs a warped shadow and lays the object sprite over it.
package composite

import (
	"github.com/Faultbox/groundshadow/pkg/raster"
)

// Options controls the shadow's look.
type Options struct {
	BlurPx  float64 // Gaussian standard deviation in pixels, as CSS blur()
	Opacity float64 // alpha multiplier for the blurred shadow, 0..1
}

// DefaultOptions returns an 18px blur at 0.55 opacity.
func DefaultOptions() Options {
	return Options{BlurPx: 18, Opacity: 0.55}
}

// layer is a premultiplied float RGBA image.
type layer struct {
	w, h int
	pix  []float64
}

func premultiply(b *raster.Buffer) *layer {
	l := &layer{w: b.Width, h: b.Height, pix: make([]float64, len(b.Pix))}
	for i := 0; i < len(b.Pix); i += 4 {
		a := float64(b.Pix[i+3]) / 255
		l.pix[i] = float64(b.Pix[i]) * a
		l.pix[i+1] = float64(b.Pix[i+1]) * a
		l.pix[i+2] = float64(b.Pix[i+2]) * a
		l.pix[i+3] = float64(b.Pix[i+3])
	}
	return l
}

func (l *layer) straight() *raster.Buffer {
	out := raster.New(l.w, l.h)
	for i := 0; i < len(l.pix); i += 4 {
		a := l.pix[i+3]
		if a <= 0 {
			continue
		}
		scale := 255 / a
		out.Pix[i] = clamp8(l.pix[i] * scale)
		out.Pix[i+1] = clamp8(l.pix[i+1] * scale)
		out.Pix[i+2] = clamp8(l.pix[i+2] * scale)
		out.Pix[i+3] = clamp8(a)
	}
	return out
}

func clamp8(v float64) byte {
	v += 0.5
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}

// blur runs a separable convolution. Pixels beyond the edge count as
// transparent, so a shadow fades out at the border instead of smearing.
func (l *layer) blur(sigma float64) {
	k := GaussianKernel(sigma)
	if len(k) == 1 {
		return
	}
	half := len(k) / 2
	tmp := make([]float64, len(l.pix))

	for y := 0; y < l.h; y++ {
		row := y * l.w
		for x := 0; x < l.w; x++ {
			var acc [4]float64
			for i, wt := range k {
				sx := x + i - half
				if sx < 0 || sx >= l.w {
					continue
				}
				j := (row + sx) * 4
				acc[0] += l.pix[j] * wt
				acc[1] += l.pix[j+1] * wt
				acc[2] += l.pix[j+2] * wt
				acc[3] += l.pix[j+3] * wt
			}
			copy(tmp[(row+x)*4:], acc[:])
		}
	}

	for y := 0; y < l.h; y++ {
		for x := 0; x < l.w; x++ {
			var acc [4]float64
			for i, wt := range k {
				sy := y + i - half
				if sy < 0 || sy >= l.h {
					continue
				}
				j := (sy*l.w + x) * 4
				acc[0] += tmp[j] * wt
				acc[1] += tmp[j+1] * wt
				acc[2] += tmp[j+2] * wt
				acc[3] += tmp[j+3] * wt
			}
			copy(l.pix[(y*l.w+x)*4:], acc[:])
		}
	}
}

// Blur returns a Gaussian-blurred copy of b.
func Blur(b *raster.Buffer, sigma float64) *raster.Buffer {
	l := premultiply(b)
	l.blur(sigma)
	return l.straight()
}

// Compose blurs the warped shadow, scales it by the opacity and draws the
// object over it at the origin with source-over. The result has the
// shadow's size; object pixels outside it are clipped. Fully opaque object
// pixels come through unchanged.
func Compose(shadow, object *raster.Buffer, opts Options) *raster.Buffer {
	dst := premultiply(shadow)
	dst.blur(opts.BlurPx)

	opacity := max(0, min(1, opts.Opacity))
	for i := range dst.pix {
		dst.pix[i] *= opacity
	}

	w := min(dst.w, object.Width)
	h := min(dst.h, object.Height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := object.Offset(x, y)
			sa := float64(object.Pix[s+3]) / 255
			if sa == 0 {
				continue
			}
			d := (y*dst.w + x) * 4
			inv := 1 - sa
			dst.pix[d] = float64(object.Pix[s])*sa + dst.pix[d]*inv
			dst.pix[d+1] = float64(object.Pix[s+1])*sa + dst.pix[d+1]*inv
			dst.pix[d+2] = float64(object.Pix[s+2])*sa + dst.pix[d+2]*inv
			dst.pix[d+3] = float64(object.Pix[s+3]) + dst.pix[d+3]*inv
		}
	}
	return dst.straight()
}
