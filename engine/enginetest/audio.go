package enginetest

import "github.com/Carmen-Shannon/gdt-go/engine/audio"

// Audio is a fake audio backend recording plays.
type Audio struct {
	sounds  []string
	playing map[string]bool

	Plays   []string
	Volumes map[string]float32
}

var _ audio.Backend = &Audio{}

// NewAudio creates a fake audio backend.
func NewAudio() *Audio {
	return &Audio{playing: make(map[string]bool), Volumes: make(map[string]float32)}
}

func (a *Audio) index(path string) int {
	for i, s := range a.sounds {
		if s == path {
			return i
		}
	}
	return -1
}

func (a *Audio) AddSound(path string) (int, error) {
	if i := a.index(path); i >= 0 {
		return i, nil
	}
	a.sounds = append(a.sounds, path)
	return len(a.sounds) - 1, nil
}

func (a *Audio) PlaySound(path string) int {
	i := a.index(path)
	if i >= 0 {
		a.Plays = append(a.Plays, path)
		a.playing[path] = true
	}
	return i
}

func (a *Audio) StopSound(path string) int {
	i := a.index(path)
	if i >= 0 {
		a.playing[path] = false
	}
	return i
}

func (a *Audio) IsPlaying(path string) bool {
	return a.playing[path]
}

func (a *Audio) SetVolume(path string, volume float32) int {
	i := a.index(path)
	if i >= 0 {
		a.Volumes[path] = volume
	}
	return i
}

func (a *Audio) Close() error {
	return nil
}
