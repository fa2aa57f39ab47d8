// Package engine drives the vehicle: tick stepping, cycle reset and playback rate control
package engine

import (
	"math"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/racecar/constants"
	"github.com/lixenwraith/racecar/status"
	"github.com/lixenwraith/racecar/vehicle"
)

// DefaultBaseStep is the distance moved per tick at rate 1
const DefaultBaseStep = constants.BaseStep

// Metric keys maintained by the controller
const (
	MetricTicks   = "engine.ticks"
	MetricCycles  = "engine.cycles"
	MetricElapsed = "engine.elapsed"
	MetricRate    = "engine.rate"
	MetricPaused  = "engine.paused"
	MetricState   = "engine.state"
)

// ControllerConfig configures a Controller
type ControllerConfig struct {
	Width, Height float64

	// BaseStep is the per-tick distance at rate 1; <= 0 selects DefaultBaseStep
	BaseStep float64

	// InitialRate is the starting multiplier; 0 or NaN selects 1, negatives clamp to 0
	InitialRate float64

	Entry  vehicle.EntryPolicy
	Logger zerolog.Logger
}

// CycleEvent describes one completed traversal
type CycleEvent struct {
	Number       uint64           // 1-based cycle number
	ExitPosition vehicle.Snapshot // Geometry on the final tick, before reset
	Rate         float64          // Rate in effect on the final tick
	Ticks        int              // Ticks the cycle took
}

// CycleListener is notified synchronously on the ticking goroutine
// Implementations must not block; hand work to their own goroutine if needed
type CycleListener interface {
	CycleCompleted(ev CycleEvent)
}

// CycleListenerFunc adapts a function to CycleListener
type CycleListenerFunc func(ev CycleEvent)

func (f CycleListenerFunc) CycleCompleted(ev CycleEvent) {
	f(ev)
}

// TickResult reports what a single Tick did
type TickResult struct {
	Moved     float64 // Horizontal distance applied
	Stalled   bool    // Paused or rate 0; nothing changed
	Completed bool    // This tick finished a cycle and reset the vehicle
	Cycle     CycleEvent
}

// Controller owns the vehicle geometry and the animation state
// All methods must be called from a single goroutine (the tick loop); readers elsewhere
// use Snapshot copies or the attached status registry
type Controller struct {
	geom *vehicle.Geometry
	log  zerolog.Logger

	baseStep    float64
	rate        float64
	state       PlaybackState
	elapsed     int
	cycleLength int
	cycles      uint64

	listeners []CycleListener

	// Cached metric pointers
	statusReg   *status.Registry
	statTicks   *atomic.Int64
	statCycles  *atomic.Int64
	statElapsed *atomic.Int64
	statRate    *status.AtomicFloat
	statPaused  *atomic.Bool
	statState   *status.AtomicString
}

// NewController builds the vehicle for the viewport and parks it at the pre-entry position
func NewController(cfg ControllerConfig) (*Controller, error) {
	geom, err := vehicle.New(cfg.Width, cfg.Height, vehicle.WithEntryPolicy(cfg.Entry))
	if err != nil {
		return nil, err
	}

	step := cfg.BaseStep
	if !(step > 0) || math.IsInf(step, 0) {
		step = DefaultBaseStep
	}

	rate := cfg.InitialRate
	switch {
	case rate == 0 || math.IsNaN(rate) || math.IsInf(rate, 0):
		rate = constants.InitialRate
	case rate < 0:
		rate = 0
	}

	c := &Controller{
		geom:        geom,
		log:         cfg.Logger,
		baseStep:    step,
		rate:        rate,
		state:       StateRunning,
		cycleLength: cycleLengthFor(geom.Viewport()),
	}
	c.AttachStatus(status.NewRegistry())
	c.geom.ResetToEntry()

	c.log.Debug().
		Float64("width", cfg.Width).
		Float64("height", cfg.Height).
		Int("cycle_length", c.cycleLength).
		Str("entry", geom.EntryPolicy().String()).
		Msg("controller initialized")

	return c, nil
}

// cycleLengthFor is one tick per unit of viewport width, at least one tick
func cycleLengthFor(vp vehicle.Viewport) int {
	n := int(vp.W)
	if n < 1 {
		n = 1
	}
	return n
}

// AttachStatus publishes controller state into reg, replacing any previous registry
func (c *Controller) AttachStatus(reg *status.Registry) {
	c.statusReg = reg
	c.statTicks = reg.Ints.Get(MetricTicks)
	c.statCycles = reg.Ints.Get(MetricCycles)
	c.statElapsed = reg.Ints.Get(MetricElapsed)
	c.statRate = reg.Floats.Get(MetricRate)
	c.statPaused = reg.Bools.Get(MetricPaused)
	c.statState = reg.Strings.Get(MetricState)
	c.publish()
}

// StatusRegistry returns the registry currently receiving controller metrics
func (c *Controller) StatusRegistry() *status.Registry {
	return c.statusReg
}

func (c *Controller) publish() {
	c.statCycles.Store(int64(c.cycles))
	c.statElapsed.Store(int64(c.elapsed))
	c.statRate.Set(c.rate)
	c.statPaused.Store(c.state == StatePaused)
	c.statState.Store(c.state.String())
}

// AddListener registers l for cycle completion notifications
func (c *Controller) AddListener(l CycleListener) {
	c.listeners = append(c.listeners, l)
}

// Tick advances one frame; no-op while paused or at rate 0
func (c *Controller) Tick() TickResult {
	if c.state == StatePaused || c.rate == 0 {
		return TickResult{Stalled: true}
	}

	delta := c.baseStep * c.rate
	c.geom.Translate(delta)
	c.elapsed++
	c.statTicks.Add(1)

	res := TickResult{Moved: delta}
	if c.elapsed >= c.cycleLength {
		res.Completed = true
		res.Cycle = c.completeCycle()
	}
	c.statElapsed.Store(int64(c.elapsed))

	return res
}

// completeCycle resets the vehicle on the same tick the cycle ends
func (c *Controller) completeCycle() CycleEvent {
	ev := CycleEvent{
		Number:       c.cycles + 1,
		ExitPosition: c.geom.Snapshot(),
		Rate:         c.rate,
		Ticks:        c.elapsed,
	}

	c.geom.ResetToEntry()
	c.elapsed = 0
	c.cycles++
	c.statCycles.Store(int64(c.cycles))

	c.log.Debug().
		Uint64("cycle", ev.Number).
		Float64("rate", ev.Rate).
		Float64("exit_x", ev.ExitPosition.LeftWheel.X).
		Msg("cycle complete")

	for _, l := range c.listeners {
		l.CycleCompleted(ev)
	}
	return ev
}

// Pause stops ticks from moving the vehicle
func (c *Controller) Pause() {
	if c.state == StatePaused {
		return
	}
	c.state = StatePaused
	c.publish()
	c.log.Debug().Msg("paused")
}

// Resume lets ticks move the vehicle again
func (c *Controller) Resume() {
	if c.state == StateRunning {
		return
	}
	c.state = StateRunning
	c.publish()
	c.log.Debug().Msg("resumed")
}

// TogglePause flips between running and paused
func (c *Controller) TogglePause() {
	if c.state == StatePaused {
		c.Resume()
	} else {
		c.Pause()
	}
}

// IsPaused reports whether ticks are currently ignored
func (c *Controller) IsPaused() bool {
	return c.state == StatePaused
}

// State returns the transport state
func (c *Controller) State() PlaybackState {
	return c.state
}

// IncreaseRate adds 1 to the rate multiplier, without upper bound
func (c *Controller) IncreaseRate() {
	c.setRate(c.rate + constants.RateStep)
}

// DecreaseRate subtracts 1 from the rate multiplier, stopping at 0
func (c *Controller) DecreaseRate() {
	c.setRate(math.Max(0, c.rate-constants.RateStep))
}

// SetRate sets the multiplier; negatives clamp to 0, NaN and infinities are ignored
func (c *Controller) SetRate(r float64) {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		c.log.Warn().Float64("rate", r).Msg("ignoring non-finite rate")
		return
	}
	c.setRate(math.Max(0, r))
}

func (c *Controller) setRate(r float64) {
	if r == c.rate {
		return
	}
	c.rate = r
	c.statRate.Set(r)
	c.log.Debug().Float64("rate", r).Msg("rate changed")
}

// Rate returns the current multiplier
func (c *Controller) Rate() float64 {
	return c.rate
}

// CycleLength returns the number of moving ticks in one cycle, independent of rate
func (c *Controller) CycleLength() int {
	return c.cycleLength
}

// Elapsed returns the ticks counted in the current cycle
func (c *Controller) Elapsed() int {
	return c.elapsed
}

// Cycles returns the number of completed cycles
func (c *Controller) Cycles() uint64 {
	return c.cycles
}

// BaseStep returns the per-tick distance at rate 1
func (c *Controller) BaseStep() float64 {
	return c.baseStep
}

// Restart parks the vehicle at the pre-entry position and restarts the cycle count
// The interrupted cycle is not counted and listeners are not notified
func (c *Controller) Restart() {
	c.geom.ResetToEntry()
	c.elapsed = 0
	c.publish()
	c.log.Debug().Msg("restarted")
}

// Snapshot returns a detached copy of the vehicle coordinates
func (c *Controller) Snapshot() vehicle.Snapshot {
	return c.geom.Snapshot()
}

// Status returns the current animation state
func (c *Controller) Status() Status {
	return Status{
		State:       c.state,
		Rate:        c.rate,
		Elapsed:     c.elapsed,
		CycleLength: c.cycleLength,
		Cycles:      c.cycles,
	}
}
