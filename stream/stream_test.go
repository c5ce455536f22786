package stream_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lundis/go-ndsp/dsp"
	"github.com/Lundis/go-ndsp/loaders"
	"github.com/Lundis/go-ndsp/ndsp"
	"github.com/Lundis/go-ndsp/stream"
)

const rate = 1000

func newChannel(t *testing.T) (*ndsp.Channel, *dsp.Processor) {
	t.Helper()
	p := dsp.NewProcessor(dsp.Config{SampleRate: rate})
	n, err := ndsp.Init(p, ndsp.WithCounter(&ndsp.ServiceCounter{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })
	ch, err := n.Channel(0)
	require.NoError(t, err)
	ch.SetInterpolation(ndsp.InterpNone)
	return ch, p
}

// ramp returns a mono sound whose sample i has the value i+1.
func ramp(n int) *loaders.Sound {
	data := make([]byte, 0, n*2)
	for i := range n {
		data = binary.LittleEndian.AppendUint16(data, uint16(i+1))
	}
	return &loaders.Sound{Data: data, Format: dsp.FormatPCM16Mono, SampleRate: rate}
}

// play pumps n samples and returns the left channel as PCM16 values.
func play(p *dsp.Processor, n int) []int {
	out := make([]float32, n*2)
	p.ReadFloat32s(out)
	values := make([]int, n)
	for i := range values {
		values[i] = int(out[i*2]*32768 + 0.5)
	}
	return values
}

func TestStreamer_PlaysSourceInOrder(t *testing.T) {
	ch, p := newChannel(t)
	s, err := stream.New(ch, stream.NewMemorySource(ramp(10)), 4)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Start())

	var got []int
	for range 10 {
		got = append(got, play(p, 2)...)
		_, err := s.Process()
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, got[:10])
	for _, v := range got[10:] {
		assert.Zero(t, v)
	}

	playing, err := s.Process()
	require.NoError(t, err)
	assert.False(t, playing)
	assert.False(t, ch.IsPlaying())
}

func TestStreamer_Loop(t *testing.T) {
	ch, p := newChannel(t)
	s, err := stream.New(ch, stream.NewMemorySource(ramp(3)), 4, stream.WithLoop())
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Start())

	var got []int
	for range 4 {
		got = append(got, play(p, 4)...)
		playing, err := s.Process()
		require.NoError(t, err)
		assert.True(t, playing)
	}
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3, 1}, got)
}

func TestStreamer_ReaderSource(t *testing.T) {
	ch, p := newChannel(t)
	src := stream.NewSource(bytes.NewReader(ramp(6).Data), dsp.FormatPCM16Mono, rate*2)
	s, err := stream.New(ch, src, 2)
	require.NoError(t, err)
	require.NoError(t, s.Start())

	// The source runs at twice the output rate, so every other sample is heard.
	var got []int
	for range 3 {
		got = append(got, play(p, 1)...)
		_, err := s.Process()
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 3, 5}, got)
	require.NoError(t, s.Close())
}

func TestStreamer_CloseClearsChannel(t *testing.T) {
	ch, p := newChannel(t)
	s, err := stream.New(ch, stream.NewMemorySource(ramp(100)), 10)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	play(p, 5)
	require.True(t, ch.IsPlaying())

	require.NoError(t, s.Close())
	assert.False(t, ch.IsPlaying())
}

func TestNew_Errors(t *testing.T) {
	ch, _ := newChannel(t)
	src := stream.NewSource(bytes.NewReader(nil), dsp.FormatPCM16Mono, rate)
	_, err := stream.New(ch, src, 4, stream.WithLoop())
	require.ErrorContains(t, err, "seekable")

	_, err = stream.New(ch, stream.NewSource(bytes.NewReader(nil), dsp.AudioFormat(99), rate), 4)
	require.Error(t, err)
}

func TestStreamer_EmptySource(t *testing.T) {
	ch, _ := newChannel(t)
	s, err := stream.New(ch, stream.NewMemorySource(ramp(0)), 4, stream.WithLoop())
	require.NoError(t, err)
	require.NoError(t, s.Start())
	playing, err := s.Process()
	require.NoError(t, err)
	assert.False(t, playing)
}
