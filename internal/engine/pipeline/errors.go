package pipeline

import (
	"errors"
	"fmt"

	"github.com/Faultbox/groundshadow/internal/space"
)

var (
	// ErrDegenerateQuad means the destination quad has collinear corners or
	// its homography could not be solved or inverted. Callers should fall
	// back to the object sprite without a shadow.
	ErrDegenerateQuad = errors.New("degenerate shadow quad")

	// ErrNoFootPoints means the object had fewer than two foot points and
	// the placement box could not stand in for them.
	ErrNoFootPoints = errors.New("no foot points")
)

// GeometryError reports which stage rejected the shadow geometry.
type GeometryError struct {
	Stage string // quad, homography, inverse
	Quad  space.Quad
	Err   error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("shadow geometry (%s) %v: %v", e.Stage, e.Quad, e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}
