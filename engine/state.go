package engine

import "fmt"

// PlaybackState is the transport state of the animation
type PlaybackState uint8

const (
	StateRunning PlaybackState = iota
	StatePaused
)

func (s PlaybackState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("PlaybackState(%d)", uint8(s))
	}
}

// Status is a point-in-time read of the controller, for HUDs and logs
type Status struct {
	State       PlaybackState
	Rate        float64
	Elapsed     int // Ticks into the current cycle
	CycleLength int
	Cycles      uint64 // Completed cycles since construction
}

// Progress returns the fraction of the current cycle already ticked, in [0, 1)
func (s Status) Progress() float64 {
	if s.CycleLength <= 0 {
		return 0
	}
	return float64(s.Elapsed) / float64(s.CycleLength)
}
