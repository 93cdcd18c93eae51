// Package config loads engine settings from YAML or TOML files and hot-reloads them.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for config files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("config: unknown format")

// Window holds the window and swap chain settings.
type Window struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	VSync  bool   `yaml:"vsync" toml:"vsync"`
	FXAA   bool   `yaml:"fxaa" toml:"fxaa"`
}

// Physics holds the simulation settings.
type Physics struct {
	Gravity   []float32 `yaml:"gravity" toml:"gravity"`
	FixedStep float32   `yaml:"fixed_step" toml:"fixed_step"`
}

// FPS holds the tuning of the first person driver.
type FPS struct {
	GroundThreshold float32 `yaml:"ground_threshold" toml:"ground_threshold"`
	ImpulseScale    float32 `yaml:"impulse_scale" toml:"impulse_scale"`
	JumpImpulse     float32 `yaml:"jump_impulse" toml:"jump_impulse"`
}

// Audio holds the output device settings.
type Audio struct {
	SampleRate   int `yaml:"sample_rate" toml:"sample_rate"`
	BufferMillis int `yaml:"buffer_millis" toml:"buffer_millis"`
}

// Config is the full engine configuration. Keys missing from a file keep their Default value.
type Config struct {
	Window    Window  `yaml:"window" toml:"window"`
	Resources string  `yaml:"resources" toml:"resources"`
	Physics   Physics `yaml:"physics" toml:"physics"`
	FPS       FPS     `yaml:"fps" toml:"fps"`
	Audio     Audio   `yaml:"audio" toml:"audio"`

	// Profiling logs frame measurements every ProfileSeconds.
	Profiling      bool    `yaml:"profiling" toml:"profiling"`
	ProfileSeconds float64 `yaml:"profile_seconds" toml:"profile_seconds"`

	Debug bool `yaml:"debug" toml:"debug"`
}

// Default returns the engine defaults.
//
// Returns:
//   - *Config: a new config
func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "GDT",
			Width:  1280,
			Height: 720,
			VSync:  true,
			FXAA:   true,
		},
		Resources: "res",
		Physics: Physics{
			Gravity:   []float32{0, -10, 0},
			FixedStep: 1.0 / 120,
		},
		FPS: FPS{
			GroundThreshold: 3,
			ImpulseScale:    3,
			JumpImpulse:     50,
		},
		Audio: Audio{
			SampleRate:   44100,
			BufferMillis: 100,
		},
		ProfileSeconds: 1,
	}
}

// Load reads a config file over the defaults. The extension selects the format:
// .yaml or .yml for YAML, .toml for TOML.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - *Config: the validated config
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Parse decodes config data over the defaults.
//
// Parameters:
//   - data: the file contents
//   - ext: the format extension, e.g. ".toml"
//
// Returns:
//   - *Config: the validated config
//   - error: error if the format is unknown or the data is invalid
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "decode yaml")
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "decode toml")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot start with.
//
// Returns:
//   - error: the first invalid setting, nil if the config is usable
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case len(c.Physics.Gravity) != 3:
		return errors.Errorf("config: gravity needs 3 components, got %d", len(c.Physics.Gravity))
	case c.Physics.FixedStep <= 0:
		return errors.Errorf("config: physics step %v must be positive", c.Physics.FixedStep)
	case c.FPS.GroundThreshold < 0:
		return errors.Errorf("config: ground threshold %v is negative", c.FPS.GroundThreshold)
	case c.Audio.SampleRate <= 0:
		return errors.Errorf("config: sample rate %d must be positive", c.Audio.SampleRate)
	case c.Profiling && c.ProfileSeconds <= 0:
		return errors.Errorf("config: profile interval %v must be positive", c.ProfileSeconds)
	}
	return nil
}

// GravityVec returns the physics gravity as a vector.
func (c *Config) GravityVec() mgl32.Vec3 {
	if len(c.Physics.Gravity) != 3 {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{c.Physics.Gravity[0], c.Physics.Gravity[1], c.Physics.Gravity[2]}
}
