package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/racecar/status"
)

const (
	humCycleDurationS    = 2
	humBaseFrequencyHz   = 70.0
	humFreqPerRateHz     = 25.0
	humFreqMaxHz         = 400.0
	humSweepHz           = 15.0
	humBaseAmplitude     = 0.12
	humOvertoneAmplitude = 0.04
)

// EngineHum is an endless low sine whose pitch rises with the playback rate
// The rate is read from the speaker goroutine, so it is kept atomically
type EngineHum struct {
	sr      beep.SampleRate
	rate    status.AtomicFloat
	phase   float64
	pos     int
	samples int
}

// NewEngineHum creates a hum at rate 1
func NewEngineHum(sr beep.SampleRate) *EngineHum {
	h := &EngineHum{
		sr:      sr,
		samples: sr.N(time.Second * humCycleDurationS),
	}
	h.rate.Set(1)
	return h
}

// SetRate retunes the hum; negatives and NaN are treated as 0
func (h *EngineHum) SetRate(rate float64) {
	if math.IsNaN(rate) || rate < 0 {
		rate = 0
	}
	h.rate.Set(rate)
}

// Rate returns the current rate
func (h *EngineHum) Rate() float64 {
	return h.rate.Get()
}

// Frequency returns the fundamental for the current rate, capped at humFreqMaxHz
func (h *EngineHum) Frequency() float64 {
	return min(humBaseFrequencyHz+humFreqPerRateHz*h.rate.Get(), humFreqMaxHz)
}

func (h *EngineHum) Stream(samples [][2]float64) (n int, ok bool) {
	base := h.Frequency()
	for i := range samples {
		// Slow wobble so the hum does not sound like a test tone
		cyclePos := float64(h.pos%h.samples) / float64(h.samples)
		freq := base + humSweepHz*math.Sin(cyclePos*math.Pi*2)

		sample := humBaseAmplitude*math.Sin(2*math.Pi*h.phase) +
			humOvertoneAmplitude*math.Sin(4*math.Pi*h.phase)

		samples[i][0] = sample
		samples[i][1] = sample

		h.phase += freq / float64(h.sr)
		h.phase -= math.Floor(h.phase)
		h.pos++
	}
	return len(samples), true
}

func (h *EngineHum) Err() error {
	return nil
}
