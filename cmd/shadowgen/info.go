package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/Faultbox/groundshadow/internal/engine/footpoint"
	"github.com/Faultbox/groundshadow/internal/engine/scene"
	"github.com/Faultbox/groundshadow/pkg/formats"
)

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	modelPath := fs.String("model", "", "OBJ model")

	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *modelPath == "" {
		if fs.NArg() < 1 {
			return errors.New("info: -model is required")
		}
		*modelPath = fs.Arg(0)
	}

	obj, err := formats.LoadOBJ(*modelPath)
	if err != nil {
		return err
	}

	fmt.Printf("Model:     %s\n", *modelPath)
	fmt.Printf("Objects:   %d\n", len(obj.Objects))
	fmt.Printf("Vertices:  %d\n", obj.VertexCount())
	fmt.Printf("Triangles: %d\n", obj.TriangleCount())
	fmt.Println()
	for _, o := range obj.Objects {
		fmt.Printf("  %-20s %6d verts %6d tris\n", o.Name, len(o.Positions), o.TriangleCount())
	}

	model := scene.NewOBJNode("model", obj, scene.NewMaterial(1, 1, 1))
	lo, hi, ok := model.Bounds()
	if !ok {
		fmt.Println("\nNo geometry.")
		return nil
	}
	fmt.Println()
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) .. (%.3f, %.3f, %.3f)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)

	band := footpoint.Ground(model, footpoint.Options{
		SampleTarget: cfg.Shadow.FootSampleTarget,
		Epsilon:      float32(cfg.Shadow.FootEpsilon),
	})
	fmt.Printf("Ground:    y=%.3f, %d of %d sampled vertices within %.3f\n",
		band.MinY, len(band.Feet), band.Sampled, cfg.Shadow.FootEpsilon)
	return nil
}
