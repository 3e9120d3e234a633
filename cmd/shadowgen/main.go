// shadowgen renders a 3D model and turns its shadow pass into a perspective
// ground shadow composited under the object sprite.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/groundshadow/internal/config"
	"github.com/Faultbox/groundshadow/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "generate", "gen":
		err = cmdGenerate(args)
	case "warp":
		err = cmdWarp(args)
	case "info":
		err = cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shadowgen - perspective ground shadow generator

Usage:
  shadowgen <command> [options]

Commands:
  generate -model m.obj -out out.png   Render a model and compose its shadow
  warp -in s.png -quad ... -out o.png  Warp an image onto a quadrilateral
  info -model m.obj                    Show mesh counts, bounds and ground band

Common options:
  -config path     Config file (default ./config.yaml or user config dir)
  -debug           Debug logging
  -backend soft|gl 3D backend

Examples:
  shadowgen generate -model chair.obj -out chair.png -light 900,300
  shadowgen generate -model chair.obj -out chair.png -side left -blur 8
  shadowgen warp -in shadow.png -quad 0,80,100,80,130,160,-30,160 -size 100,200 -out warped.png
  shadowgen info -model chair.obj`)
}

// setup parses args with the shared config flags bound, then loads config
// and starts the logger.
func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	var cf config.Flags
	cf.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(&cf)
	if err != nil {
		return nil, err
	}

	opts := logger.Options{Level: cfg.Logging.Level, Console: true, JSON: cfg.Logging.JSON}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg, nil
}
