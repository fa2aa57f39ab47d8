package status

import "sync/atomic"

// MaxStringLen caps stored labels so HUD fields keep a fixed width
const MaxStringLen = 20

// AtomicString is a string slot swapped by pointer
// Zero value is ready to use and reads as ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, truncated to MaxStringLen bytes
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

// Load returns the current value
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
