package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
window:
  title: fox demo
  width: 800
  height: 600
physics:
  gravity: [0, -20, 0]
fps:
  ground_threshold: 2.5
debug: true
`

const tomlConfig = `
resources = "assets"
profiling = true
profile_seconds = 5.0

[window]
vsync = false

[audio]
sample_rate = 48000
`

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, mgl32.Vec3{0, -10, 0}, cfg.GravityVec())
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(yamlConfig), ".yml")
	require.NoError(t, err)
	assert.Equal(t, "fox demo", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, mgl32.Vec3{0, -20, 0}, cfg.GravityVec())
	assert.Equal(t, float32(2.5), cfg.FPS.GroundThreshold)
	assert.True(t, cfg.Debug)

	// Untouched keys keep their defaults.
	assert.True(t, cfg.Window.VSync)
	assert.Equal(t, "res", cfg.Resources)
	assert.Equal(t, float32(3), cfg.FPS.ImpulseScale)
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse([]byte(tomlConfig), ".TOML")
	require.NoError(t, err)
	assert.Equal(t, "assets", cfg.Resources)
	assert.True(t, cfg.Profiling)
	assert.Equal(t, 5.0, cfg.ProfileSeconds)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestParseEmptyYAML(t *testing.T) {
	cfg, err := Parse([]byte("# nothing yet\n"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("a = 1"), ".ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Parse([]byte("window:\n  width: -1\n"), ".yaml")
	assert.ErrorContains(t, err, "window size")

	_, err = Parse([]byte("physics:\n  gravity: [0, 1]\n"), ".yaml")
	assert.ErrorContains(t, err, "gravity")

	_, err = Parse([]byte("colour: red\n"), ".yaml")
	assert.Error(t, err)

	_, err = Parse([]byte("[audio]\nsample_rate = 0\n"), ".toml")
	assert.ErrorContains(t, err, "sample rate")

	_, err = Parse([]byte("profiling = true\nprofile_seconds = 0.0\n"), ".toml")
	assert.ErrorContains(t, err, "profile interval")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o644))

	reloaded := make(chan *Config, 8)
	w, err := Watch(path, func(c *Config) { reloaded <- c })
	require.NoError(t, err)
	defer w.Close()

	// An invalid write is skipped, the next valid one is delivered.
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 0\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 1024\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Window.Width == 1024 {
				require.NoError(t, w.Close())
				require.NoError(t, w.Close())
				return
			}
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}
}
