package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/racecar/constants"
	"github.com/lixenwraith/racecar/vehicle"
)

// Default loop timing
const (
	DefaultTickInterval  = constants.TickInterval
	DefaultFrameInterval = constants.FrameUpdateInterval
)

// FrameFunc receives a detached snapshot on every frame tick
type FrameFunc func(snap vehicle.Snapshot, st Status)

// LoopConfig configures a Loop
type LoopConfig struct {
	TickInterval  time.Duration // <= 0 selects DefaultTickInterval
	FrameInterval time.Duration // <= 0 selects DefaultFrameInterval
	NewTicker     TickerFactory // nil selects NewTimeTicker
	Logger        zerolog.Logger
}

// Loop is the fixed-interval tick source for a Controller
// Ticks, frames and actions are serialized on the goroutine calling Run, so the
// controller needs no locking
type Loop struct {
	ctrl          *Controller
	tickInterval  time.Duration
	frameInterval time.Duration
	newTicker     TickerFactory
	log           zerolog.Logger
}

// NewLoop creates a loop driving ctrl
func NewLoop(ctrl *Controller, cfg LoopConfig) *Loop {
	l := &Loop{
		ctrl:          ctrl,
		tickInterval:  cfg.TickInterval,
		frameInterval: cfg.FrameInterval,
		newTicker:     cfg.NewTicker,
		log:           cfg.Logger,
	}
	if l.tickInterval <= 0 {
		l.tickInterval = DefaultTickInterval
	}
	if l.frameInterval <= 0 {
		l.frameInterval = DefaultFrameInterval
	}
	if l.newTicker == nil {
		l.newTicker = NewTimeTicker
	}
	return l
}

// Run ticks the controller until ctx is done, actions is closed or ActionQuit arrives
// frame may be nil when nothing renders
func (l *Loop) Run(ctx context.Context, actions <-chan Action, frame FrameFunc) error {
	tick := l.newTicker(l.tickInterval)
	defer tick.Stop()

	var frameC <-chan time.Time
	if frame != nil {
		ft := l.newTicker(l.frameInterval)
		defer ft.Stop()
		frameC = ft.C()
	}

	l.log.Info().
		Dur("tick", l.tickInterval).
		Dur("frame", l.frameInterval).
		Int("cycle_length", l.ctrl.CycleLength()).
		Msg("loop started")

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Err(ctx.Err()).Msg("loop cancelled")
			return ctx.Err()

		case a, ok := <-actions:
			if !ok || !l.apply(a) {
				l.log.Info().Uint64("cycles", l.ctrl.Cycles()).Msg("loop stopped")
				return nil
			}

		case <-tick.C():
			// Actions queued alongside the tick take effect before it
			if !l.drain(actions) {
				l.log.Info().Uint64("cycles", l.ctrl.Cycles()).Msg("loop stopped")
				return nil
			}
			l.ctrl.Tick()

		case <-frameC:
			frame(l.ctrl.Snapshot(), l.ctrl.Status())
		}
	}
}

func (l *Loop) apply(a Action) bool {
	l.log.Debug().Stringer("action", a).Msg("action")
	return l.ctrl.Apply(a)
}

// drain applies every action already buffered, without blocking
func (l *Loop) drain(actions <-chan Action) bool {
	for {
		select {
		case a, ok := <-actions:
			if !ok || !l.apply(a) {
				return false
			}
		default:
			return true
		}
	}
}
