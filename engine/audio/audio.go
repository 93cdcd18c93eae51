// Package audio plays sound files addressed by their path.
package audio

import (
	"github.com/google/uuid"
)

// BackendType identifies the audio implementation.
type BackendType int

const (
	// BackendTypeBeep selects the beep speaker backend.
	BackendTypeBeep BackendType = iota
)

// Backend plays sounds keyed by file path. Lookups of paths never added log and return -1.
type Backend interface {
	// AddSound decodes a sound file and keeps it for playback.
	//
	// Parameters:
	//   - path: the sound file, also its key
	//
	// Returns:
	//   - int: the sound index
	//   - error: error if the file could not be read or decoded
	AddSound(path string) (int, error)

	// PlaySound starts the sound from the beginning.
	//
	// Parameters:
	//   - path: the sound key
	//
	// Returns:
	//   - int: the sound index, or -1 if the sound was never added
	PlaySound(path string) int

	// StopSound stops every playback of the sound.
	//
	// Parameters:
	//   - path: the sound key
	//
	// Returns:
	//   - int: the sound index, or -1 if the sound was never added
	StopSound(path string) int

	// IsPlaying reports whether the sound is playing. Unknown sounds are not playing.
	//
	// Parameters:
	//   - path: the sound key
	//
	// Returns:
	//   - bool: true while a playback is running
	IsPlaying(path string) bool

	// SetVolume sets the playback gain, 1 being the file's own level.
	//
	// Parameters:
	//   - path: the sound key
	//   - volume: linear gain, 0 mutes
	//
	// Returns:
	//   - int: the sound index, or -1 if the sound was never added
	SetVolume(path string, volume float32) int

	// Close stops all playback.
	Close() error
}

// NewBackend creates an audio backend of the given type.
//
// Parameters:
//   - backendType: the implementation to create
//   - options: functional options configuring the backend
//
// Returns:
//   - Backend: the audio backend
//   - error: error if the output device could not be opened
func NewBackend(backendType BackendType, options ...BackendOption) (Backend, error) {
	cfg := &backendConfig{
		sampleRate: 44100,
		bufferSize: 100,
	}
	for _, opt := range options {
		opt(cfg)
	}

	switch backendType {
	case BackendTypeBeep:
		return newBeepBackend(cfg)
	default:
		return newBeepBackend(cfg)
	}
}

// Sound is a handle to one sound of a backend.
type Sound struct {
	id      uuid.UUID
	path    string
	backend Backend
}

// NewSound adds the sound file to the backend and returns its handle.
//
// Parameters:
//   - backend: the audio backend
//   - path: the sound file
//
// Returns:
//   - *Sound: the sound handle
//   - error: error if the file could not be added
func NewSound(backend Backend, path string) (*Sound, error) {
	if backend == nil {
		panic("audio: NewSound requires a backend")
	}
	if _, err := backend.AddSound(path); err != nil {
		return nil, err
	}
	return &Sound{id: uuid.New(), path: path, backend: backend}, nil
}

// ID returns the unique handle identifier.
func (s *Sound) ID() uuid.UUID {
	return s.id
}

// Path returns the sound file path.
func (s *Sound) Path() string {
	return s.path
}

// Play starts the sound.
func (s *Sound) Play() {
	s.backend.PlaySound(s.path)
}

// Stop stops the sound.
func (s *Sound) Stop() {
	s.backend.StopSound(s.path)
}

// IsPlaying reports whether the sound is playing.
func (s *Sound) IsPlaying() bool {
	return s.backend.IsPlaying(s.path)
}

// Volume sets the playback gain.
func (s *Sound) Volume(volume float32) {
	s.backend.SetVolume(s.path, volume)
}
