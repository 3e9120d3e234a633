package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrRenderNotReady means the renderer, scene or camera is missing.
	ErrRenderNotReady = errors.New("renderer/scene/camera not initialized")

	// ErrReadbackFailed means the frame could not be read back. Scene state
	// has already been restored when this is returned.
	ErrReadbackFailed = errors.New("pixel readback failed")

	// ErrSettleTimeout means the frame did not finish within the settle ceiling.
	ErrSettleTimeout = errors.New("frame did not settle before timeout")

	// ErrContextBusy means another call currently holds the render context.
	ErrContextBusy = errors.New("render context in use")
)

// Error describes a failed capture step.
type Error struct {
	Op     string // ready, borrow, render, settle, readback
	Pass   Pass
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("capture %s", e.Op)
	if e.Op != "ready" && e.Op != "borrow" {
		msg += " (" + e.Pass.String() + " pass)"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
