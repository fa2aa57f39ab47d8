package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"

	"github.com/lixenwraith/racecar/config"
	"github.com/lixenwraith/racecar/constants"
	"github.com/lixenwraith/racecar/core"
	"github.com/lixenwraith/racecar/engine"
	"github.com/lixenwraith/racecar/laps"
	"github.com/lixenwraith/racecar/logging"
	"github.com/lixenwraith/racecar/status"
)

const instrumentationName = "github.com/lixenwraith/racecar/cmd/racecar"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", constants.AppName, err)
		os.Exit(1)
	}
}

// run loads configuration, wires the controller to its listeners and starts the selected mode
func run(ctx context.Context, args []string, stderr io.Writer) error {
	// Panic Recovery: restore the terminal even if a frame callback crashes
	defer func() {
		core.HandleCrash(recover())
	}()

	fs := config.NewFlagSet(constants.AppName)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs, config.ConfigFile(fs))
	if err != nil {
		return err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Dir: cfg.Log.Dir}
	if !cfg.Interactive() {
		logOpts.Console = stderr
	}
	log, logCloser, err := logging.Setup(logOpts)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	core.OnCrash(func() { logCloser.Close() })

	log.Info().
		Str("config", cfg.File).
		Float64("width", cfg.Viewport.Width).
		Float64("height", cfg.Viewport.Height).
		Str("entry", cfg.Entry.String()).
		Bool("interactive", cfg.Interactive()).
		Msg("starting")

	ctrl, err := engine.NewController(engine.ControllerConfig{
		Width:       cfg.Viewport.Width,
		Height:      cfg.Viewport.Height,
		BaseStep:    cfg.Engine.Step,
		InitialRate: cfg.Engine.Rate,
		Entry:       cfg.Entry,
		Logger:      log.With().Str("component", "engine").Logger(),
	})
	if err != nil {
		return err
	}
	// A configured rate of 0 starts stalled
	ctrl.SetRate(cfg.Engine.Rate)
	defer func() {
		log.Info().Fields(ctrl.StatusRegistry().Dump()).Msg("final status")
	}()

	if cfg.Metrics.Enabled {
		reg, err := status.Publish(ctrl.StatusRegistry(), otel.Meter(instrumentationName))
		if err != nil {
			return fmt.Errorf("publish metrics: %w", err)
		}
		defer reg.Unregister()
		log.Info().Int("metrics", ctrl.StatusRegistry().TotalCount()).Msg("engine gauges published")
	}

	if cfg.Laps.Path != "" {
		rec, err := laps.Open(cfg.Laps.Path, log)
		if err != nil {
			return err
		}
		defer rec.Close()
		ctrl.AddListener(rec)
		defer reportLaps(rec, log)
	}

	if !cfg.Interactive() {
		return runExport(ctx, cfg, ctrl, log)
	}
	return runInteractive(ctx, cfg, ctrl, log)
}
