// Package direction turns a light handle, an explicit vector or a side
// preset into the screen-space vector a ground shadow extends along.
//
// None of this is physically derived: the scene carries no light height or
// distance, so the length rules are a tunable policy.
package direction

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/Faultbox/groundshadow/internal/space"
)

const (
	// lightGap is how far right of the object the default light handle sits.
	lightGap = 40
	// minReach and reachFactor size the heuristic vector against the overlay.
	minReach    = 20
	reachFactor = 0.5
)

// Vector is an overlay pixel delta. It is not normalized.
type Vector struct {
	DX, DY float64
}

// Result is a shadow direction plus the length the quad builder extends it by.
type Result struct {
	Vector
	Length float64
}

// Input is what a Resolver may look at.
type Input struct {
	Placement space.Placement
	Overlay   space.Size
	// Light is the light handle's canvas position. Nil places it at the
	// default spot right of the object.
	Light *space.Overlay
}

// Resolver picks the shadow direction for one request.
type Resolver interface {
	Resolve(in Input) Result
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(in Input) Result

// Resolve calls f.
func (f ResolverFunc) Resolve(in Input) Result { return f(in) }

// Length derives the shadow length from a direction vector: its Manhattan
// magnitude over 200, clamped to [0.3, 2.5], times 0.8 of the overlay's
// longer edge.
func Length(v Vector, overlay space.Size) float64 {
	base := (gomath.Abs(v.DX) + gomath.Abs(v.DY)) / 200
	base = max(0.3, min(2.5, base))
	return base * float64(overlay.Max()) * 0.8
}

// reach is the pixel magnitude the heuristic and presets give their vectors.
func reach(overlay space.Size) float64 {
	return max(minReach, float64(overlay.Max())*reachFactor)
}

// DefaultLight returns where the light handle sits when none was placed.
func DefaultLight(p space.Placement) space.Overlay {
	return space.Overlay{X: p.Left + p.Width + lightGap, Y: p.Top + p.Height/2}
}

// Heuristic points the shadow away from the light handle.
type Heuristic struct{}

// Resolve implements Resolver.
func (Heuristic) Resolve(in Input) Result {
	light := DefaultLight(in.Placement)
	if in.Light != nil {
		light = *in.Light
	}
	c := in.Placement.Center()
	ang := gomath.Atan2(-(light.Y - c.Y), -(light.X - c.X))

	r := reach(in.Overlay)
	v := Vector{DX: gomath.Cos(ang) * r, DY: gomath.Sin(ang) * r}
	return Result{Vector: v, Length: Length(v, in.Overlay)}
}

// Explicit uses the caller's vector verbatim.
type Explicit Vector

// Resolve implements Resolver.
func (e Explicit) Resolve(in Input) Result {
	v := Vector(e)
	return Result{Vector: v, Length: Length(v, in.Overlay)}
}

// Side is a shadow side preset.
type Side string

const (
	SideAuto  Side = "auto"
	SideFront Side = "front"
	SideBack  Side = "back"
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Sides lists the accepted presets.
var Sides = []Side{SideAuto, SideFront, SideBack, SideLeft, SideRight}

// ParseSide accepts a preset name in any case. The empty string is auto.
func ParseSide(s string) (Side, error) {
	if s == "" {
		return SideAuto, nil
	}
	side := Side(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sides {
		if side == known {
			return side, nil
		}
	}
	return "", fmt.Errorf("unknown shadow side %q", s)
}

// Resolve implements Resolver. Front casts toward the viewer (down the
// overlay), back away from it; auto defers to Heuristic.
func (s Side) Resolve(in Input) Result {
	r := reach(in.Overlay)
	var v Vector
	switch s {
	case SideFront:
		v = Vector{DY: r}
	case SideBack:
		v = Vector{DY: -r}
	case SideLeft:
		v = Vector{DX: -r}
	case SideRight:
		v = Vector{DX: r}
	default:
		return Heuristic{}.Resolve(in)
	}
	return Result{Vector: v, Length: Length(v, in.Overlay)}
}

// Pick returns the resolver for a request: an explicit vector wins, then a
// non-auto side, then the light heuristic.
func Pick(explicit *Vector, side Side) Resolver {
	if explicit != nil {
		return Explicit(*explicit)
	}
	if side != "" && side != SideAuto {
		return side
	}
	return Heuristic{}
}
