package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/racecar/constants"
)

// FlagConfig names the flag carrying an explicit config file path
const FlagConfig = "config"

// flagKeys maps flag names to config keys
var flagKeys = map[string]string{
	"width":      "viewport.width",
	"height":     "viewport.height",
	"tick":       "engine.tick",
	"frame":      "engine.frame",
	"step":       "engine.step",
	"rate":       "engine.rate",
	"entry":      "engine.entry",
	"audio":      "audio.enabled",
	"volume":     "audio.volume",
	"laps":       "laps.path",
	"export":     "export.dir",
	"frames":     "export.frames",
	"every":      "export.every",
	"png-width":  "export.width",
	"png-height": "export.height",
	"log-level":  "log.level",
	"log-dir":    "log.dir",
	"metrics":    "metrics.enabled",
}

// NewFlagSet declares every racecar flag with defaults matching the config defaults
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.StringP(FlagConfig, "c", "", "config file (default: racecar.toml in . or ~/.config/racecar)")

	fs.Float64("width", constants.ViewportWidth, "viewport width in logical units")
	fs.Float64("height", constants.ViewportHeight, "viewport height in logical units")

	fs.Duration("tick", constants.TickInterval, "animation tick interval")
	fs.Duration("frame", constants.FrameUpdateInterval, "screen refresh interval")
	fs.Float64("step", constants.BaseStep, "distance moved per tick at rate 1")
	fs.Float64P("rate", "r", constants.InitialRate, "initial playback rate")
	fs.String("entry", "fixed", "reset offset policy: fixed or bounds")

	fs.Bool("audio", true, "play engine hum and lap chime")
	fs.Float64("volume", 1, "audio volume in [0, 1]")

	fs.String("laps", "", "SQLite file recording completed laps")

	fs.StringP("export", "o", "", "write PNG frames to this directory instead of running interactively")
	fs.Int("frames", 0, "frames to export (default one full cycle)")
	fs.Int("every", constants.ExportEvery, "ticks between exported frames")
	fs.Int("png-width", 0, "exported frame width in pixels (default viewport width)")
	fs.Int("png-height", 0, "exported frame height in pixels (default viewport height)")

	fs.String("log-level", "info", "log level: trace, debug, info, warn, error")
	fs.String("log-dir", "./logs", "log file directory")

	fs.Bool("metrics", false, "publish engine gauges through OpenTelemetry")

	return fs
}

// ConfigFile returns the --config value, empty when unset or undeclared
func ConfigFile(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	file, err := fs.GetString(FlagConfig)
	if err != nil {
		return ""
	}
	return file
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
