package audio

import (
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// beepSound is a decoded sound and its live playback controls.
type beepSound struct {
	path   string
	buffer *beep.Buffer
	volume float32

	// playback is the control of the most recent Play, guarded by the speaker lock.
	playback *beep.Ctrl
	gain     *effects.Volume
	playing  atomic.Bool
}

// soundBank decodes and indexes sounds. It does not touch the output device.
type soundBank struct {
	mu         *sync.Mutex
	sampleRate beep.SampleRate
	sounds     []*beepSound
}

func newSoundBank(rate beep.SampleRate) *soundBank {
	return &soundBank{mu: &sync.Mutex{}, sampleRate: rate}
}

func (b *soundBank) add(path string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.sounds {
		if s.path == path {
			return i, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return -1, errors.Wrapf(err, "audio: open %s", path)
	}
	defer f.Close()

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return -1, errors.Errorf("audio: unsupported sound format %s", path)
	}
	if err != nil {
		return -1, errors.Wrapf(err, "audio: decode %s", path)
	}
	defer streamer.Close()

	var source beep.Streamer = streamer
	if format.SampleRate != b.sampleRate {
		source = beep.Resample(4, format.SampleRate, b.sampleRate, streamer)
		format.SampleRate = b.sampleRate
	}
	buffer := beep.NewBuffer(format)
	buffer.Append(source)

	log.Printf("audio: added sound %s (%d samples)", path, buffer.Len())
	b.sounds = append(b.sounds, &beepSound{path: path, buffer: buffer, volume: 1})
	return len(b.sounds) - 1, nil
}

// find logs and returns -1 for paths never added.
func (b *soundBank) find(path string) (int, *beepSound) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.sounds {
		if s.path == path {
			return i, s
		}
	}
	log.Printf("audio: sound not loaded: %s", path)
	return -1, nil
}

// beepBackend plays sounds through the beep speaker.
// The speaker lock is never taken while holding the bank lock.
type beepBackend struct {
	bank *soundBank
}

var _ Backend = &beepBackend{}

func newBeepBackend(cfg *backendConfig) (*beepBackend, error) {
	rate := beep.SampleRate(cfg.sampleRate)
	if err := speaker.Init(rate, rate.N(time.Duration(cfg.bufferSize)*time.Millisecond)); err != nil {
		return nil, errors.Wrap(err, "audio: initialize speaker")
	}
	return &beepBackend{bank: newSoundBank(rate)}, nil
}

func (b *beepBackend) AddSound(path string) (int, error) {
	return b.bank.add(path)
}

func (b *beepBackend) PlaySound(path string) int {
	i, s := b.bank.find(path)
	if s == nil {
		return -1
	}

	ctrl := &beep.Ctrl{Streamer: s.buffer.Streamer(0, s.buffer.Len())}
	gain := &effects.Volume{Streamer: ctrl, Base: 2}

	speaker.Lock()
	applyVolume(gain, s.volume)
	if s.playback != nil {
		s.playback.Streamer = nil
	}
	s.playback, s.gain = ctrl, gain
	speaker.Unlock()

	s.playing.Store(true)
	speaker.Play(beep.Seq(gain, beep.Callback(func() {
		if s.playback == ctrl {
			s.playing.Store(false)
		}
	})))
	return i
}

func (b *beepBackend) StopSound(path string) int {
	i, s := b.bank.find(path)
	if s == nil {
		return -1
	}

	speaker.Lock()
	if s.playback != nil {
		s.playback.Streamer = nil
	}
	speaker.Unlock()
	s.playing.Store(false)
	return i
}

func (b *beepBackend) IsPlaying(path string) bool {
	_, s := b.bank.find(path)
	if s == nil {
		return false
	}
	return s.playing.Load()
}

func (b *beepBackend) SetVolume(path string, volume float32) int {
	i, s := b.bank.find(path)
	if s == nil {
		return -1
	}

	speaker.Lock()
	s.volume = volume
	if s.gain != nil {
		applyVolume(s.gain, volume)
	}
	speaker.Unlock()
	return i
}

func (b *beepBackend) Close() error {
	speaker.Clear()
	return nil
}

// applyVolume converts a linear gain to the base 2 exponent effects.Volume expects.
func applyVolume(v *effects.Volume, gain float32) {
	if gain <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(float64(gain))
}
