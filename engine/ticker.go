package engine

import (
	"sync/atomic"
	"time"
)

// Ticker is a periodic time source
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every d
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

// NewTimeTicker wraps time.Ticker
func NewTimeTicker(d time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(d)}
}

func (t *timeTicker) C() <-chan time.Time {
	return t.t.C
}

func (t *timeTicker) Stop() {
	t.t.Stop()
}

// ManualTicker fires only when told to, for deterministic tests
type ManualTicker struct {
	c       chan time.Time
	now     time.Time
	period  time.Duration
	stopped atomic.Bool
}

// NewManualTicker creates a ticker whose Fire blocks until the consumer receives
func NewManualTicker(start time.Time, period time.Duration) *ManualTicker {
	return &ManualTicker{
		c:      make(chan time.Time),
		now:    start,
		period: period,
	}
}

func (m *ManualTicker) C() <-chan time.Time {
	return m.c
}

func (m *ManualTicker) Stop() {
	m.stopped.Store(true)
}

// Stopped reports whether the consumer released the ticker
func (m *ManualTicker) Stopped() bool {
	return m.stopped.Load()
}

// Fire delivers n ticks, advancing the synthetic clock by one period each
// Must not be called concurrently
func (m *ManualTicker) Fire(n int) {
	for i := 0; i < n; i++ {
		m.now = m.now.Add(m.period)
		m.c <- m.now
	}
}
