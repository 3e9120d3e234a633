package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/groundshadow/internal/config"
	"github.com/Faultbox/groundshadow/internal/engine/camera"
	"github.com/Faultbox/groundshadow/internal/engine/capture"
	"github.com/Faultbox/groundshadow/internal/engine/direction"
	"github.com/Faultbox/groundshadow/internal/engine/glrender"
	"github.com/Faultbox/groundshadow/internal/engine/pipeline"
	"github.com/Faultbox/groundshadow/internal/engine/scene"
	"github.com/Faultbox/groundshadow/internal/engine/softrender"
	"github.com/Faultbox/groundshadow/internal/logger"
	"github.com/Faultbox/groundshadow/internal/space"
	"github.com/Faultbox/groundshadow/pkg/formats"
	"github.com/Faultbox/groundshadow/pkg/raster"
)

func cmdGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	modelPath := fs.String("model", "", "OBJ model to render")
	outPath := fs.String("out", "shadow.png", "Output PNG")
	lightArg := fs.String("light", "", "Light handle position X,Y in canvas pixels")
	dirArg := fs.String("dir", "", "Explicit shadow vector DX,DY in overlay pixels")
	placeArg := fs.String("placement", "", "Object box left,top,width[,height] (default: the whole view)")
	objectOnly := fs.Bool("object-only", false, "On shadow failure, write the bare object instead of exiting")

	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *modelPath == "" {
		return errors.New("generate: -model is required")
	}

	light, err := parsePoint(*lightArg)
	if err != nil {
		return fmt.Errorf("-light: %w", err)
	}
	dir, err := parseVector(*dirArg)
	if err != nil {
		return fmt.Errorf("-dir: %w", err)
	}
	side, err := direction.ParseSide(cfg.Shadow.Side)
	if err != nil {
		return err
	}

	view := space.Size{W: cfg.Render.Width, H: cfg.Render.Height}
	placement := space.Placement{Width: float64(view.W), Height: float64(view.H)}
	if *placeArg != "" {
		if placement, err = parsePlacement(*placeArg); err != nil {
			return fmt.Errorf("-placement: %w", err)
		}
	}

	obj, err := formats.LoadOBJ(*modelPath)
	if err != nil {
		return err
	}
	model, cam, s, err := buildScene(cfg, obj, placement, light)
	if err != nil {
		return err
	}

	r, closeRenderer, err := newRenderer(cfg.Render.Backend, view)
	if err != nil {
		return err
	}
	defer closeRenderer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rc := capture.NewRenderContext(r, s, cam, model)
	gen := pipeline.New(pipelineOptions(cfg))
	res, err := gen.Generate(ctx, rc, pipeline.Request{
		Placement: placement,
		Direction: dir,
		Light:     light,
		Side:      side,
	})

	var geomErr *pipeline.GeometryError
	switch {
	case err == nil:
		logger.Info("shadow generated",
			zap.String("model", *modelPath),
			zap.Int("feet", len(res.Feet)),
			zap.Stringers("quad", res.Quad[:]))
	case errors.As(err, &geomErr) && *objectOnly:
		logger.Warn("shadow geometry failed, writing object only", zap.Error(err))
	default:
		return err
	}

	return writePNG(*outPath, res.Foreground())
}

// buildScene loads the model onto the receiver plane, aims an orbit camera
// at it and lights it from the side the light handle points to.
func buildScene(cfg *config.Config, obj *formats.OBJ, p space.Placement, light *space.Overlay) (*scene.Node, *camera.OrbitCamera, *scene.Scene, error) {
	planeY := float32(cfg.Render.ReceiverY)

	model := scene.NewOBJNode("model", obj, scene.NewMaterial(0.75, 0.75, 0.75))
	if !model.PlaceOnGround(planeY, float32(cfg.Render.ModelSize)) {
		return nil, nil, nil, errors.New("model has no faces")
	}
	lo, hi, _ := model.Bounds()

	s := scene.New()
	s.Root.Add(model)
	extent := max(hi.X-lo.X, hi.Z-lo.Z, hi.Y-lo.Y)
	s.Receiver = scene.NewGroundReceiver(planeY, max(2, extent*4), float32(cfg.Render.ReceiverOpacity))

	handle := direction.DefaultLight(p)
	if light != nil {
		handle = *light
	}
	s.Light = direction.Sun(p, handle)

	cam := camera.NewOrbitCamera()
	cam.SetAspect(cfg.Render.Width, cfg.Render.Height)
	cam.FitToBounds(lo, hi)

	logger.Debug("scene built",
		zap.Int("meshes", len(model.Meshes())),
		zap.Int("triangles", obj.TriangleCount()),
		zap.Any("light", s.Light.Position))
	return model, cam, s, nil
}

func newRenderer(backend string, view space.Size) (capture.Renderer, func(), error) {
	switch backend {
	case "gl":
		r, err := glrender.New(view.W, view.H)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	default:
		r, err := softrender.New(view.W, view.H)
		if err != nil {
			return nil, nil, err
		}
		return r, func() {}, nil
	}
}

func writePNG(path string, buf *raster.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := buf.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote image", zap.String("path", path), zap.Int("width", buf.Width), zap.Int("height", buf.Height))
	return nil
}
