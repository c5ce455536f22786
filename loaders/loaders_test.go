package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lundis/go-ndsp/dsp"
)

func TestSound(t *testing.T) {
	s := &Sound{Data: make([]byte, 400), Format: dsp.FormatPCM16Stereo, SampleRate: 1000}
	assert.Equal(t, uint32(100), s.Samples())
	assert.Equal(t, 100*time.Millisecond, s.Duration())

	assert.Zero(t, (&Sound{Data: make([]byte, 4)}).Duration())
}

func TestDecode(t *testing.T) {
	want := &Sound{Data: []byte{1}, Format: dsp.FormatPCM8Mono, SampleRate: 8000}
	Register(".test", func(data []byte) (*Sound, error) {
		if len(data) == 0 {
			return nil, errors.New("empty")
		}
		return want, nil
	})

	got, err := Decode("sound.TEST", []byte{1})
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = Decode("sound.test", nil)
	require.ErrorContains(t, err, "sound.test: empty")

	_, err = Decode("sound.flac", []byte{1})
	require.ErrorContains(t, err, "no decoder")

	path := filepath.Join(t.TempDir(), "a.test")
	require.NoError(t, os.WriteFile(path, []byte{1}, 0o644))
	got, err = LoadFile(path)
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.test"))
	require.ErrorContains(t, err, "failed to open")
}
