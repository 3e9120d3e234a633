// Package warp resamples a shadow raster through an inverse homography.
package warp

import (
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/math"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

// Warp inverse-maps every pixel of a dst-sized buffer into src. inv is the
// inverse of a homography solved in normalized [0,1] overlay units; it is
// pre-scaled by diag(1/W, 1/H, 1) so it can be fed pixel coordinates. The
// resulting unit coordinates are stretched over src's (w-1, h-1) grid and
// sampled bilinearly. Vanishing w and samples outside src are transparent.
func Warp(src *raster.Buffer, inv math.Mat3, dst space.Size) *raster.Buffer {
	out := raster.New(dst.W, dst.H)
	if dst.W == 0 || dst.H == 0 || src.Width == 0 || src.Height == 0 {
		return out
	}

	m := inv.Mul(math.Diag3(1/float64(dst.W), 1/float64(dst.H), 1))
	sx := float64(src.Width - 1)
	sy := float64(src.Height - 1)

	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			u, v, w := m.Apply(float64(x), float64(y))
			if !(w <= -1e-9 || w >= 1e-9) {
				continue
			}
			c := src.Bilinear(u/w*sx, v/w*sy)
			copy(out.Pix[out.Offset(x, y):], c[:])
		}
	}
	return out
}
