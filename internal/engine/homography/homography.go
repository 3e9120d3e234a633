// Package homography computes projective maps between quadrilaterals.
package homography

import (
	"fmt"

	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/math"
)

// UnitSquare is the conventional source quad for a shadow sprite.
var UnitSquare = space.Quad{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

// Compute returns H mapping each src[i] to dst[i], with H[2][2] fixed to 1.
// Each correspondence contributes the two direct linear transform rows
//
//	x' = (h0·x + h1·y + h2) / (h6·x + h7·y + 1)
//	y' = (h3·x + h4·y + h5) / (h6·x + h7·y + 1)
//
// Collinear or coincident corners make the system singular and the error
// wraps math.ErrSingular.
func Compute(src, dst space.Quad) (math.Mat3, error) {
	a := make([][]float64, 0, 8)
	b := make([]float64, 0, 8)
	for i := 0; i < 4; i++ {
		xs, ys := src[i].X, src[i].Y
		xd, yd := dst[i].X, dst[i].Y

		a = append(a, []float64{xs, ys, 1, 0, 0, 0, -xs * xd, -ys * xd})
		b = append(b, xd)

		a = append(a, []float64{0, 0, 0, xs, ys, 1, -xs * yd, -ys * yd})
		b = append(b, yd)
	}

	h, err := math.SolveLinear(a, b)
	if err != nil {
		return math.Mat3{}, fmt.Errorf("homography %v -> %v: %w", src, dst, err)
	}

	return math.Mat3{
		{h[0], h[1], h[2]},
		{h[3], h[4], h[5]},
		{h[6], h[7], 1},
	}, nil
}

// Apply maps p through H. ok is false when the homogeneous w vanishes.
func Apply(h math.Mat3, p space.Overlay) (space.Overlay, bool) {
	u, v, w := h.Apply(p.X, p.Y)
	if !(w <= -1e-9 || w >= 1e-9) {
		return space.Overlay{}, false
	}
	return space.Overlay{X: u / w, Y: v / w}, true
}
