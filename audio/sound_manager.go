// Package audio plays the engine hum and the lap chime through the system speaker
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/racecar/engine"
)

const (
	sampleRate = beep.SampleRate(48000)

	speakerBufferDurationMs = 100
)

// SoundManager manages the engine hum and the lap chime
// Every method is a no-op until Initialize succeeds, so a missing audio device never stops the animation
type SoundManager struct {
	mu           sync.Mutex
	hum          *EngineHum
	humStreamer  *beep.Ctrl
	mixer        *beep.Mixer
	volume       float64
	initialized  bool
	lapsAnnounce bool
}

// NewSoundManager creates a sound manager at full volume
func NewSoundManager() *SoundManager {
	return &SoundManager{
		hum:          NewEngineHum(sampleRate),
		mixer:        &beep.Mixer{},
		volume:       1.0,
		lapsAnnounce: true,
	}
}

// Initialize sets up the speaker
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*speakerBufferDurationMs))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	if sm.humStreamer != nil {
		speaker.Lock()
		sm.humStreamer.Paused = true
		speaker.Unlock()
		sm.humStreamer = nil
	}

	speaker.Clear()
	speaker.Close()
	sm.mixer = &beep.Mixer{}
	sm.initialized = false
}

// IsInitialized reports whether the speaker is open
func (sm *SoundManager) IsInitialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// SetVolume scales every sound started afterwards; clamped to [0, 1]
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.volume = min(max(v, 0), 1)
}

// SetLapChime enables or disables the chime on cycle completion
func (sm *SoundManager) SetLapChime(enabled bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lapsAnnounce = enabled
}

// SetRate retunes the engine hum to the playback rate
// Safe before Initialize; the hum picks up the rate when it starts
func (sm *SoundManager) SetRate(rate float64) {
	sm.hum.SetRate(rate)
}

// PlayEngine starts the looping engine hum
func (sm *SoundManager) PlayEngine() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	if sm.humStreamer != nil {
		if sm.humStreamer.Paused {
			speaker.Lock()
			sm.humStreamer.Paused = false
			speaker.Unlock()
		}
		return
	}

	ctrl := &beep.Ctrl{Streamer: newVolume(sm.hum, sm.volume), Paused: false}
	sm.humStreamer = ctrl
	speaker.Lock()
	sm.mixer.Add(ctrl)
	speaker.Unlock()
}

// StopEngine silences the hum, keeping it for a later PlayEngine
func (sm *SoundManager) StopEngine() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.humStreamer != nil {
		speaker.Lock()
		sm.humStreamer.Paused = true
		speaker.Unlock()
	}
}

// EngineRunning reports whether the hum is audible
func (sm *SoundManager) EngineRunning() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.humStreamer != nil && !sm.humStreamer.Paused
}

// PlayLap plays the lap chime once
func (sm *SoundManager) PlayLap() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.lapsAnnounce {
		return
	}

	speaker.Lock()
	sm.mixer.Add(CreateLapChime(sampleRate, sm.volume))
	speaker.Unlock()
}

// CycleCompleted chimes on every finished traversal
func (sm *SoundManager) CycleCompleted(engine.CycleEvent) {
	sm.PlayLap()
}

// Sync follows the controller status: hum on while running, off while paused
func (sm *SoundManager) Sync(st engine.Status) {
	sm.SetRate(st.Rate)
	if st.State == engine.StatePaused || st.Rate == 0 {
		sm.StopEngine()
		return
	}
	sm.PlayEngine()
}
