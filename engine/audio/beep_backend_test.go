package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a mono 16 bit PCM file of n silent samples.
func writeWAV(t *testing.T, path string, rate, n int) {
	t.Helper()
	data := make([]byte, n*2)
	header := make([]byte, 44)
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(36+len(data)))
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1)
	binary.LittleEndian.PutUint16(header[22:], 1)
	binary.LittleEndian.PutUint32(header[24:], uint32(rate))
	binary.LittleEndian.PutUint32(header[28:], uint32(rate*2))
	binary.LittleEndian.PutUint16(header[32:], 2)
	binary.LittleEndian.PutUint16(header[34:], 16)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(len(data)))
	require.NoError(t, os.WriteFile(path, append(header, data...), 0o644))
}

func TestSoundBankAddAndFind(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	writeWAV(t, a, 44100, 441)
	writeWAV(t, b, 44100, 882)

	bank := newSoundBank(beep.SampleRate(44100))

	i, err := bank.add(a)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	i, err = bank.add(b)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	again, err := bank.add(a)
	require.NoError(t, err)
	assert.Equal(t, 0, again)

	idx, s := bank.find(b)
	assert.Equal(t, 1, idx)
	require.NotNil(t, s)
	assert.Equal(t, 882, s.buffer.Len())
}

func TestSoundBankMissing(t *testing.T) {
	bank := newSoundBank(beep.SampleRate(44100))

	idx, s := bank.find("missing.wav")
	assert.Equal(t, -1, idx)
	assert.Nil(t, s)

	_, err := bank.add(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)

	_, err = bank.add("sound.ogg")
	assert.Error(t, err)
}

func TestSoundBankResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "low.wav")
	writeWAV(t, path, 22050, 2205)

	bank := newSoundBank(beep.SampleRate(44100))
	_, err := bank.add(path)
	require.NoError(t, err)

	_, s := bank.find(path)
	assert.Equal(t, beep.SampleRate(44100), s.buffer.Format().SampleRate)
	assert.InDelta(t, 4410, s.buffer.Len(), 50)
}

func TestApplyVolume(t *testing.T) {
	v := &effects.Volume{Base: 2}

	applyVolume(v, 0.5)
	assert.False(t, v.Silent)
	assert.InDelta(t, -1, v.Volume, 1e-9)

	applyVolume(v, 0)
	assert.True(t, v.Silent)
}
