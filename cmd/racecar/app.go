package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/racecar/audio"
	"github.com/lixenwraith/racecar/config"
	"github.com/lixenwraith/racecar/core"
	"github.com/lixenwraith/racecar/engine"
	"github.com/lixenwraith/racecar/export"
	"github.com/lixenwraith/racecar/laps"
	"github.com/lixenwraith/racecar/render"
	"github.com/lixenwraith/racecar/vehicle"
)

// actionBuffer absorbs key repeat bursts between ticks
const actionBuffer = 32

// runInteractive animates on the terminal until quit or ctx cancellation
func runInteractive(ctx context.Context, cfg *config.Config, ctrl *engine.Controller, log zerolog.Logger) error {
	sound := newSound(cfg, log)
	defer sound.Cleanup()
	ctrl.AddListener(sound)

	screen, err := render.NewScreen(vehicle.Viewport{W: cfg.Viewport.Width, H: cfg.Viewport.Height})
	if err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	core.SetCrashTerminal(screen)
	defer func() {
		screen.Fini()
		core.SetCrashTerminal(nil)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	actions := make(chan engine.Action, actionBuffer)
	core.Go(func() {
		pollInput(ctx, screen, actions, log)
	})

	loop := engine.NewLoop(ctrl, engine.LoopConfig{
		TickInterval:  cfg.Engine.Tick,
		FrameInterval: cfg.Engine.Frame,
		Logger:        log.With().Str("component", "loop").Logger(),
	})

	err = loop.Run(ctx, actions, func(snap vehicle.Snapshot, st engine.Status) {
		screen.Render(snap, st)
		sound.Sync(st)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pollInput forwards key actions until the screen is finalized or ctx ends
func pollInput(ctx context.Context, screen *render.Screen, actions chan<- engine.Action, log zerolog.Logger) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}

		key, ok := ev.(*tcell.EventKey)
		if !ok {
			// Resize is picked up by the next Render
			continue
		}

		a := keyAction(key)
		if a == engine.ActionNone {
			continue
		}
		log.Debug().Stringer("action", a).Msg("key")

		select {
		case actions <- a:
		case <-ctx.Done():
			return
		}
	}
}

// newSound returns a sound manager; it stays silent when audio is disabled or no device exists
func newSound(cfg *config.Config, log zerolog.Logger) *audio.SoundManager {
	sm := audio.NewSoundManager()
	sm.SetVolume(cfg.Audio.Volume)
	if !cfg.Audio.Enabled {
		return sm
	}
	if err := sm.Initialize(); err != nil {
		log.Warn().Err(err).Msg("audio initialization failed, continuing without sound")
	}
	return sm
}

// runExport writes PNG frames and returns without touching the terminal
func runExport(ctx context.Context, cfg *config.Config, ctrl *engine.Controller, log zerolog.Logger) error {
	paths, err := export.Frames(ctx, ctrl, export.Options{
		Dir:    cfg.Export.Dir,
		Frames: cfg.Export.Frames,
		Every:  cfg.Export.Every,
		Width:  cfg.Export.Width,
		Height: cfg.Export.Height,
	}, log.With().Str("component", "export").Logger())
	if err != nil {
		return fmt.Errorf("export after %d frames: %w", len(paths), err)
	}
	return nil
}

// reportLaps logs the session's lap totals on exit
func reportLaps(rec *laps.Recorder, log zerolog.Logger) {
	rec.Flush()

	n, err := rec.Count()
	if err != nil {
		log.Warn().Err(err).Msg("lap count unavailable")
		return
	}
	ev := log.Info().Int64("laps", n).Uint64("dropped", rec.Dropped())
	if recent, err := rec.Recent(1); err == nil && len(recent) > 0 {
		ev = ev.Uint64("last", recent[0].Number).Float64("last_rate", recent[0].Rate)
	}
	ev.Msg("lap session finished")
}
