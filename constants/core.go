package constants

import "time"

// Application identity
const (
	// AppName names the binary, the config file and the log file
	AppName = "racecar"

	// EnvPrefix prefixes environment overrides (RACECAR_ENGINE_RATE)
	EnvPrefix = "RACECAR"
)

// Animation Loop Timing
const (
	// TickInterval is the animation step interval (100 ticks per second)
	TickInterval = 10 * time.Millisecond

	// FrameUpdateInterval is the screen refresh interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond
)

// Reference viewport in logical units
const (
	ViewportWidth  = 650.0
	ViewportHeight = 200.0
)

// Playback defaults
const (
	// BaseStep is the distance moved per tick at rate 1
	BaseStep = 1.0

	// InitialRate is the playback multiplier at startup
	InitialRate = 1.0

	// RateStep is the change applied by one faster/slower action
	RateStep = 1.0
)

// Export defaults
const (
	// ExportEvery is the tick count between exported frames
	ExportEvery = 10

	// ExportPrefix names exported PNG files
	ExportPrefix = "frame"
)

// Telemetry
const (
	// LapQueueSize bounds laps waiting for the database writer
	LapQueueSize = 256

	// LogMaxSize rotates the previous log file at startup when exceeded
	LogMaxSize = 10 * 1024 * 1024
)
