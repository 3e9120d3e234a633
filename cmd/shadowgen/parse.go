package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Faultbox/groundshadow/internal/engine/direction"
	"github.com/Faultbox/groundshadow/internal/space"
)

// parseFloats splits a comma-separated list of exactly n finite numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma-separated numbers, got %d", s, n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%q: value %d is not finite", s, i+1)
		}
		out[i] = v
	}
	return out, nil
}

func parsePoint(s string) (*space.Overlay, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseFloats(s, 2)
	if err != nil {
		return nil, err
	}
	return &space.Overlay{X: v[0], Y: v[1]}, nil
}

func parseVector(s string) (*direction.Vector, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseFloats(s, 2)
	if err != nil {
		return nil, err
	}
	return &direction.Vector{DX: v[0], DY: v[1]}, nil
}

func parseSize(s string) (space.Size, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return space.Size{}, err
	}
	if v[0] < 1 || v[1] < 1 {
		return space.Size{}, fmt.Errorf("%q: size must be at least 1x1", s)
	}
	return space.Size{W: int(v[0]), H: int(v[1])}, nil
}

// parsePlacement reads left,top,width[,height[,rotation]]. A missing height
// keeps the box square.
func parsePlacement(s string) (space.Placement, error) {
	parts := strings.Count(s, ",") + 1
	if parts < 3 || parts > 5 {
		return space.Placement{}, fmt.Errorf("%q: want left,top,width[,height[,rotation]]", s)
	}
	v, err := parseFloats(s, parts)
	if err != nil {
		return space.Placement{}, err
	}
	p := space.Placement{Left: v[0], Top: v[1], Width: v[2], Height: v[2]}
	if parts >= 4 {
		p.Height = v[3]
	}
	if parts == 5 {
		p.Rotation = v[4]
	}
	return p, nil
}

// parseQuad reads eight numbers as four corners in near-left, near-right,
// far-right, far-left order.
func parseQuad(s string) (space.Quad, error) {
	v, err := parseFloats(s, 8)
	if err != nil {
		return space.Quad{}, err
	}
	var q space.Quad
	for i := range q {
		q[i] = space.Overlay{X: v[2*i], Y: v[2*i+1]}
	}
	return q, nil
}
