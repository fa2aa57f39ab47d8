package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const (
	lapChimeNote1Hz       = 659.25 // E5
	lapChimeNote2Hz       = 987.77 // B5
	lapChimeNoteDuration  = 90 * time.Millisecond
	lapChimeAttack        = 5 * time.Millisecond
	lapChimeRelease       = 60 * time.Millisecond
	lapChimeAmplitude     = 0.35
	lapChimeOvertoneRatio = 0.25
)

// oscillator is a finite sine tone with an optional octave overtone
type oscillator struct {
	freq     float64
	overtone float64 // Octave partial level, 0 for a pure sine
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

func newOscillator(freq, overtone float64, duration time.Duration, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		overtone: overtone,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		val := (1-o.overtone)*math.Sin(2*math.Pi*o.phase) + o.overtone*math.Sin(4*math.Pi*o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

// gain returns the envelope level at sample pos
func (e *envelope) gain(pos int) float64 {
	if pos >= e.totalSamples {
		return 0
	}
	if pos < e.attackSamples {
		return float64(pos) / float64(e.attackSamples)
	}
	releaseStart := e.totalSamples - e.releaseSamples
	if e.releaseSamples > 0 && pos >= releaseStart {
		return float64(e.totalSamples-pos) / float64(e.releaseSamples)
	}
	return 1.0
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}
		g := e.gain(e.position)
		samples[i][0] *= g
		samples[i][1] *= g
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly
// math.Log2(0) is -Inf, so zero volume uses the silent flag
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func chimeNote(freq float64, rate beep.SampleRate) beep.Streamer {
	osc := newOscillator(freq, lapChimeOvertoneRatio, lapChimeNoteDuration, rate)
	return newEnvelope(osc, lapChimeNoteDuration, lapChimeAttack, lapChimeRelease, rate)
}

// CreateLapChime builds the two-note rising chime played when the car leaves the viewport
func CreateLapChime(rate beep.SampleRate, volume float64) beep.Streamer {
	seq := beep.Seq(chimeNote(lapChimeNote1Hz, rate), chimeNote(lapChimeNote2Hz, rate))
	return newVolume(seq, volume*lapChimeAmplitude)
}
