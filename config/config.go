// Package config loads racecar settings from defaults, a TOML file, RACECAR_* environment variables and flags
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/racecar/constants"
	"github.com/lixenwraith/racecar/vehicle"
)

// ErrInvalid is returned when a loaded value is out of range
var ErrInvalid = errors.New("invalid configuration")

const (
	configName = constants.AppName
	configType = "toml"
)

// ViewportConfig is the logical drawing area
type ViewportConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// EngineConfig drives the controller and the tick loop
type EngineConfig struct {
	Tick  time.Duration `mapstructure:"tick"`
	Frame time.Duration `mapstructure:"frame"`
	Step  float64       `mapstructure:"step"`
	Rate  float64       `mapstructure:"rate"`
	Entry string        `mapstructure:"entry"`
}

// AudioConfig toggles the speaker
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// LapsConfig locates the lap database; empty path disables recording
type LapsConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig selects headless PNG export when Dir is set
type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Frames int    `mapstructure:"frames"`
	Every  int    `mapstructure:"every"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// MetricsConfig enables the OpenTelemetry gauge bridge
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the validated, typed configuration
type Config struct {
	Viewport ViewportConfig `mapstructure:"viewport"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Laps     LapsConfig     `mapstructure:"laps"`
	Export   ExportConfig   `mapstructure:"export"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`

	// Entry is Engine.Entry parsed
	Entry vehicle.EntryPolicy `mapstructure:"-"`

	// File is the config file that was read, empty when none
	File string `mapstructure:"-"`
}

// Interactive reports whether the terminal view should run instead of an export
func (c *Config) Interactive() bool {
	return c.Export.Dir == ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("viewport.width", constants.ViewportWidth)
	v.SetDefault("viewport.height", constants.ViewportHeight)

	v.SetDefault("engine.tick", constants.TickInterval)
	v.SetDefault("engine.frame", constants.FrameUpdateInterval)
	v.SetDefault("engine.step", constants.BaseStep)
	v.SetDefault("engine.rate", constants.InitialRate)
	v.SetDefault("engine.entry", "fixed")

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 1.0)

	v.SetDefault("laps.path", "")

	v.SetDefault("export.dir", "")
	v.SetDefault("export.frames", 0)
	v.SetDefault("export.every", constants.ExportEvery)
	v.SetDefault("export.width", 0)
	v.SetDefault("export.height", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "./logs")

	v.SetDefault("metrics.enabled", false)
}

// Load layers defaults, the config file, environment and flags, then validates
// file selects an explicit config file; empty searches . and $HOME/.config/racecar for racecar.toml
// fs may be nil; only flags the user changed override other sources
func Load(fs *pflag.FlagSet, file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType(configType)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and parses the entry policy
func (c *Config) Validate() error {
	if !positive(c.Viewport.Width) || !positive(c.Viewport.Height) {
		return fmt.Errorf("%w: viewport %vx%v must be positive", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	}
	if c.Engine.Tick <= 0 {
		return fmt.Errorf("%w: engine.tick %v must be positive", ErrInvalid, c.Engine.Tick)
	}
	if c.Engine.Frame <= 0 {
		return fmt.Errorf("%w: engine.frame %v must be positive", ErrInvalid, c.Engine.Frame)
	}
	if !positive(c.Engine.Step) {
		return fmt.Errorf("%w: engine.step %v must be positive", ErrInvalid, c.Engine.Step)
	}
	if c.Engine.Rate < 0 || math.IsNaN(c.Engine.Rate) || math.IsInf(c.Engine.Rate, 0) {
		return fmt.Errorf("%w: engine.rate %v must be a non-negative number", ErrInvalid, c.Engine.Rate)
	}

	entry, err := vehicle.ParseEntryPolicy(c.Engine.Entry)
	if err != nil {
		return fmt.Errorf("%w: engine.entry: %w", ErrInvalid, err)
	}
	c.Entry = entry

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume %v must be within [0, 1]", ErrInvalid, c.Audio.Volume)
	}
	if c.Export.Frames < 0 {
		return fmt.Errorf("%w: export.frames %d must not be negative", ErrInvalid, c.Export.Frames)
	}
	if c.Export.Every < 1 {
		return fmt.Errorf("%w: export.every %d must be at least 1", ErrInvalid, c.Export.Every)
	}
	if c.Export.Width < 0 || c.Export.Height < 0 {
		return fmt.Errorf("%w: export size %dx%d must not be negative", ErrInvalid, c.Export.Width, c.Export.Height)
	}
	return nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
