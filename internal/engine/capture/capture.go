package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/groundshadow/internal/engine/scene"
	"github.com/Faultbox/groundshadow/internal/logger"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

// Pass selects what a capture renders.
type Pass int

const (
	// ObjectPass renders the meshes in color with the shadow receiver hidden.
	ObjectPass Pass = iota
	// ShadowPass keeps the meshes in the depth buffer only and shows the
	// shadow receiver, leaving just the ground shadow in color.
	ShadowPass
)

func (p Pass) String() string {
	if p == ShadowPass {
		return "shadow"
	}
	return "object"
}

// Options bounds the wait between render submission and readback.
type Options struct {
	SettleDelay   time.Duration // fixed wait after submitting the frame
	SettleTimeout time.Duration // ceiling for the backend fence
}

// DefaultOptions returns a 30ms settle delay with a 2s ceiling.
func DefaultOptions() Options {
	return Options{
		SettleDelay:   30 * time.Millisecond,
		SettleTimeout: 2 * time.Second,
	}
}

// Capture renders one pass and returns its pixels at the renderer's viewport
// size. Every color-write flag and visibility it touches, and the clear
// color, are restored before it returns, whatever the outcome.
func Capture(ctx context.Context, rc *RenderContext, pass Pass, opts Options) (_ *raster.Buffer, err error) {
	if err := rc.Ready(); err != nil {
		return nil, err
	}
	log := logger.Named("capture").With(zap.Stringer("pass", pass))
	r := rc.Renderer

	snap := takeSnapshot(rc.Scene)
	prevClear := r.ClearColor()
	defer func() {
		snap.restore()
		r.SetClearColor(prevClear)
		if err != nil {
			log.Warn("capture failed, scene state restored", zap.Error(err))
		}
	}()

	applyPass(rc.Scene, pass)
	r.SetClearColor([4]float32{0, 0, 0, 0})

	start := time.Now()
	if err := r.Render(rc.Scene, rc.Camera); err != nil {
		return nil, &Error{Op: "render", Pass: pass, Err: err}
	}
	if err := settle(ctx, r, opts); err != nil {
		return nil, &Error{Op: "settle", Pass: pass, Err: err}
	}

	buf, err := r.ReadPixels()
	if err != nil {
		return nil, &Error{Op: "readback", Pass: pass, Err: fmt.Errorf("%w: %v", ErrReadbackFailed, err)}
	}
	if vp := r.Viewport(); buf.Width != vp.W || buf.Height != vp.H {
		return nil, &Error{
			Op:     "readback",
			Pass:   pass,
			Detail: fmt.Sprintf("got %dx%d, viewport is %dx%d", buf.Width, buf.Height, vp.W, vp.H),
			Err:    ErrReadbackFailed,
		}
	}

	log.Debug("pass captured",
		zap.Int("width", buf.Width),
		zap.Int("height", buf.Height),
		zap.Duration("elapsed", time.Since(start)))
	return buf, nil
}

// settle waits the fixed delay, then the backend fence, both bounded by
// SettleTimeout.
func settle(ctx context.Context, r Renderer, opts Options) error {
	timeout := opts.SettleTimeout
	if timeout <= 0 {
		timeout = DefaultOptions().SettleTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if opts.SettleDelay > 0 {
		timer := time.NewTimer(opts.SettleDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return settleErr(ctx.Err())
		}
	}

	if err := r.Finish(ctx); err != nil {
		return settleErr(err)
	}
	return nil
}

func settleErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrSettleTimeout, err)
	}
	return err
}

// applyPass toggles the scene into the requested pass.
func applyPass(s *scene.Scene, pass Pass) {
	shadow := pass == ShadowPass
	for _, n := range s.Meshes() {
		if n.Material != nil {
			n.Material.ColorWrite = !shadow
		}
		if !shadow {
			n.Visible = true
		}
	}
	if s.Receiver != nil && s.Receiver.Node != nil {
		s.Receiver.Node.Visible = shadow
	}
}
