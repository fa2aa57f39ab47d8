package engine

import (
	"context"
	"testing"
	"time"

	"github.com/lixenwraith/racecar/vehicle"
)

type frame struct {
	snap vehicle.Snapshot
	st   Status
}

// loopHarness runs a Loop on manual tickers and collects frames
type loopHarness struct {
	ctrl    *Controller
	tick    *ManualTicker
	frame   *ManualTicker
	actions chan Action
	frames  chan frame
	done    chan error
	cancel  context.CancelFunc
}

func startLoop(t *testing.T) *loopHarness {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &loopHarness{
		ctrl:    newTestController(t),
		tick:    NewManualTicker(start, DefaultTickInterval),
		frame:   NewManualTicker(start, DefaultFrameInterval),
		actions: make(chan Action),
		frames:  make(chan frame, 1),
		done:    make(chan error, 1),
	}

	loop := NewLoop(h.ctrl, LoopConfig{
		NewTicker: func(d time.Duration) Ticker {
			if d == DefaultTickInterval {
				return h.tick
			}
			return h.frame
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() {
		h.done <- loop.Run(ctx, h.actions, func(snap vehicle.Snapshot, st Status) {
			h.frames <- frame{snap: snap, st: st}
		})
	}()
	t.Cleanup(cancel)
	return h
}

// observe fires a frame and waits for it; everything before it on the loop has completed
func (h *loopHarness) observe(t *testing.T) frame {
	t.Helper()
	h.frame.Fire(1)
	select {
	case f := <-h.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for frame")
		return frame{}
	}
}

func (h *loopHarness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for loop to stop")
		return nil
	}
}

func TestLoopTicksController(t *testing.T) {
	h := startLoop(t)

	h.tick.Fire(10)
	f := h.observe(t)

	if f.snap.LeftWheel.X != -120 {
		t.Errorf("Expected left wheel at -120, got %v", f.snap.LeftWheel.X)
	}
	if f.st.Elapsed != 10 {
		t.Errorf("Expected 10 elapsed ticks, got %d", f.st.Elapsed)
	}

	h.actions <- ActionQuit
	if err := h.wait(t); err != nil {
		t.Errorf("Expected nil error on quit, got %v", err)
	}
	if !h.tick.Stopped() || !h.frame.Stopped() {
		t.Error("Expected both tickers stopped")
	}
}

// TestLoopActionBeforeNextTick verifies a rate change applies to the very next tick
func TestLoopActionBeforeNextTick(t *testing.T) {
	h := startLoop(t)

	h.actions <- ActionFaster
	h.tick.Fire(1)
	f := h.observe(t)
	if f.snap.LeftWheel.X != -128 {
		t.Errorf("Expected one double step to -128, got %v", f.snap.LeftWheel.X)
	}

	h.actions <- ActionPause
	h.tick.Fire(50)
	f = h.observe(t)
	if f.snap.LeftWheel.X != -128 || f.st.State != StatePaused {
		t.Errorf("Expected frozen paused vehicle, got x=%v state=%v", f.snap.LeftWheel.X, f.st.State)
	}

	h.actions <- ActionResume
	h.tick.Fire(1)
	f = h.observe(t)
	if f.snap.LeftWheel.X != -126 {
		t.Errorf("Expected -126 after resume, got %v", f.snap.LeftWheel.X)
	}
}

func TestLoopCompletesCycles(t *testing.T) {
	h := startLoop(t)

	h.tick.Fire(650*2 + 3)
	f := h.observe(t)

	if f.st.Cycles != 2 {
		t.Errorf("Expected 2 cycles, got %d", f.st.Cycles)
	}
	if f.st.Elapsed != 3 {
		t.Errorf("Expected 3 elapsed, got %d", f.st.Elapsed)
	}
	if f.snap.LeftWheel.X != -127 {
		t.Errorf("Expected -127, got %v", f.snap.LeftWheel.X)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	h := startLoop(t)
	h.tick.Fire(1)
	h.cancel()

	if err := h.wait(t); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLoopStopsOnClosedActions(t *testing.T) {
	h := startLoop(t)
	close(h.actions)

	if err := h.wait(t); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestLoopWithoutFrames(t *testing.T) {
	ctrl := newTestController(t)
	tick := NewManualTicker(time.Now(), time.Millisecond)
	created := 0
	loop := NewLoop(ctrl, LoopConfig{
		TickInterval: time.Millisecond,
		NewTicker: func(time.Duration) Ticker {
			created++
			return tick
		},
	})

	actions := make(chan Action)
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(context.Background(), actions, nil)
	}()

	tick.Fire(5)
	actions <- ActionQuit
	if err := <-done; err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if created != 1 {
		t.Errorf("Expected only the tick ticker to be created, got %d", created)
	}
	if ctrl.Elapsed() != 5 {
		t.Errorf("Expected 5 elapsed, got %d", ctrl.Elapsed())
	}
}

func TestNewLoopDefaults(t *testing.T) {
	l := NewLoop(newTestController(t), LoopConfig{})
	if l.tickInterval != DefaultTickInterval || l.frameInterval != DefaultFrameInterval {
		t.Errorf("Unexpected intervals %v/%v", l.tickInterval, l.frameInterval)
	}
	if l.newTicker == nil {
		t.Error("Expected default ticker factory")
	}
}
