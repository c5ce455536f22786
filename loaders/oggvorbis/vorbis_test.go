package oggvorbis

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lundis/go-ndsp/loaders"
)

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load([]byte("OggS but not really"))
	require.Error(t, err)

	_, err = loaders.Decode("music.ogg", nil)
	require.ErrorContains(t, err, "music.ogg")
}

func TestToPCM16(t *testing.T) {
	out := toPCM16([]float32{0, 0.5, -1, 1.5, -2})
	require.Len(t, out, 10)
	want := []int16{0, 16384, -32767, 32767, -32768}
	for i, w := range want {
		assert.Equal(t, w, int16(binary.LittleEndian.Uint16(out[i*2:])), "sample %d", i)
	}
}
