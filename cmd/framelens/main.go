package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/valerio/go-framelens/framelens/backend"
	"github.com/valerio/go-framelens/framelens/backend/terminal"
	"github.com/valerio/go-framelens/framelens/backend/window"
	"github.com/valerio/go-framelens/framelens/config"
	"github.com/valerio/go-framelens/framelens/inspect"
	"github.com/valerio/go-framelens/framelens/softcore"
)

func main() {
	app := cli.NewApp()
	app.Name = "framelens"
	app.Description = "A frame layer inspector for emulated video hardware"
	app.Usage = "framelens [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML config file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Display backend: terminal or window",
		},
		cli.IntFlag{
			Name:  "magnification",
			Usage: "Display scale factor (1-8)",
		},
		cli.BoolFlag{
			Name:  "freeze",
			Usage: "Start with queue refresh paused",
		},
		cli.BoolFlag{
			Name:  "disable-scanline-effects",
			Usage: "Suppress mid-frame raster writes after layer edits",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display and export the composited frame",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode",
			Value: 2,
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "PNG path for the headless composited frame",
			Value: "framelens.png",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runInspector

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running inspector", "error", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("magnification") {
		cfg.Magnification = c.Int("magnification")
	}
	if c.Bool("freeze") {
		cfg.Freeze = true
	}
	if c.Bool("disable-scanline-effects") {
		cfg.DisableScanlineEffects = true
	}
	return cfg, cfg.Validate()
}

func runInspector(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// the software core supplies the frames to inspect; a hardware
	// emulator would plug in through the same controller contract
	machine := softcore.NewTestMachine()

	insp, err := inspect.New(machine, softcore.Factory, nil, inspect.Options{
		Magnification:          cfg.Magnification,
		GlowInterval:           cfg.GlowInterval(),
		DisableScanlineEffects: cfg.DisableScanlineEffects,
	})
	if err != nil {
		return err
	}
	defer insp.Close()

	if cfg.Freeze {
		insp.SetFrozen(true)
	}

	if c.Bool("headless") {
		return runHeadless(c, machine, insp)
	}

	var b backend.Backend
	switch cfg.Backend {
	case "terminal":
		b = terminal.New()
	case "window":
		b = window.New()
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if err := b.Init(backend.Config{
		Title:         "framelens",
		Magnification: cfg.Magnification,
		OnTick:        machine.Advance,
	}); err != nil {
		return err
	}
	defer b.Cleanup()

	slog.Info("Inspector running", "backend", cfg.Backend, "platform", machine.Platform())
	return b.Run(insp)
}

func runHeadless(c *cli.Context, machine *softcore.Machine, insp *inspect.Inspector) error {
	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("headless mode requires --frames with a positive value")
	}

	slog.Info("Running headless", "frames", frames)
	for i := 0; i < frames; i++ {
		if err := machine.Advance(); err != nil {
			return err
		}
	}

	insp.Rebuild()
	composited := insp.Composited()
	if composited == nil {
		return errors.New("no composited frame produced")
	}

	out := c.String("out")
	if err := composited.SavePNG(out, insp.Magnification()); err != nil {
		return err
	}
	slog.Info("Headless execution completed", "frames", frames, "out", out)
	return nil
}
