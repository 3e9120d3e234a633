// Package quad builds the destination quadrilateral a shadow sprite is
// warped onto: a near edge along the object's feet and a far edge pushed out
// along the shadow direction.
package quad

import (
	gomath "math"
	"slices"

	"github.com/Faultbox/groundshadow/internal/engine/direction"
	"github.com/Faultbox/groundshadow/internal/space"
)

// Options shapes the far edge.
type Options struct {
	ExtendFactor float64 // far edge distance as a multiple of the shadow length
	MinExtend    float64 // floor for that distance, in pixels
	Squash       float64 // vertical flattening of the far edge
}

// DefaultOptions returns 1.15x extension, a 20px floor and 0.6 squash.
func DefaultOptions() Options {
	return Options{ExtendFactor: 1.15, MinExtend: 20, Squash: 0.6}
}

// Build returns [near-left, near-right, far-right, far-left] in overlay
// space. With two or more feet the near edge spans the leftmost and
// rightmost foot; otherwise it is the bottom edge of the placement box
// stretched over the overlay. When any foot exists the quad is finally
// shifted so its near edge sits on the lowest one.
func Build(feet []space.Overlay, dir direction.Result, p space.Placement, overlay space.Size, opts Options) space.Quad {
	ext := max(opts.MinExtend, dir.Length*opts.ExtendFactor)
	far := func(pt space.Overlay) space.Overlay {
		// max(1, |c|) only guards the zero component; the extension is not
		// a true normalization.
		return space.Overlay{
			X: pt.X + dir.DX*ext/max(1, gomath.Abs(dir.DX)),
			Y: pt.Y + dir.DY*ext/max(1, gomath.Abs(dir.DY))*opts.Squash,
		}
	}

	var q space.Quad
	if len(feet) >= 2 {
		sorted := slices.Clone(feet)
		slices.SortStableFunc(sorted, func(a, b space.Overlay) int {
			switch {
			case a.X < b.X:
				return -1
			case a.X > b.X:
				return 1
			}
			return 0
		})
		left, right := sorted[0], sorted[len(sorted)-1]
		avgY := (left.Y + right.Y) / 2

		q = space.Quad{
			{X: left.X, Y: avgY},
			{X: right.X, Y: avgY},
			far(right),
			far(left),
		}
	} else {
		bl := p.ToOverlay(space.Overlay{X: p.Left, Y: p.Top + p.Height}, overlay)
		br := p.ToOverlay(space.Overlay{X: p.Left + p.Width, Y: p.Top + p.Height}, overlay)
		q = space.Quad{bl, br, far(br), far(bl)}
	}

	if len(feet) > 0 {
		lowest := feet[0].Y
		for _, f := range feet[1:] {
			lowest = max(lowest, f.Y)
		}
		q = q.Shift(0, lowest-(q[0].Y+q[1].Y)/2)
	}
	return q
}
