package dsp

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcm16Mono returns n samples of the constant v.
func pcm16Mono(n int, v int16) []byte {
	b := make([]byte, n*2)
	for i := range n {
		b[i*2] = byte(uint16(v))
		b[i*2+1] = byte(uint16(v) >> 8)
	}
	return b
}

func newWaveBuf(data []byte, format AudioFormat, looping bool) *WaveBuf {
	return &WaveBuf{
		Data:     data,
		NSamples: uint32(len(data) / format.SampleSize()),
		Looping:  looping,
	}
}

func newActiveProcessor(t *testing.T) *Processor {
	t.Helper()
	p := NewProcessor(Config{SampleRate: 1000})
	require.NoError(t, p.Init())
	t.Cleanup(p.Exit)
	return p
}

// pump lets the DSP consume n output samples.
func pump(p *Processor, n int) []float32 {
	buf := make([]float32, n*2)
	p.ReadFloat32s(buf)
	return buf
}

func TestProcessor_PlaysQueueInOrder(t *testing.T) {
	p := newActiveProcessor(t)
	b1 := newWaveBuf(pcm16Mono(10, 1000), FormatPCM16Mono, false)
	b2 := newWaveBuf(pcm16Mono(10, 2000), FormatPCM16Mono, false)
	b3 := newWaveBuf(pcm16Mono(10, 3000), FormatPCM16Mono, false)

	p.ChnWaveBufAdd(0, b1)
	p.ChnWaveBufAdd(0, b2)
	p.ChnWaveBufAdd(0, b3)

	assert.Equal(t, WavePlaying, b1.Status())
	assert.Equal(t, WaveQueued, b2.Status())
	assert.Equal(t, WaveQueued, b3.Status())
	assert.Equal(t, b1.SequenceID(), p.ChnGetWaveBufSeq(0))
	assert.True(t, p.ChnIsPlaying(0))

	pump(p, 10)
	assert.Equal(t, WaveDone, b1.Status())
	assert.Equal(t, WavePlaying, b2.Status())
	assert.Equal(t, WaveQueued, b3.Status())
	assert.Equal(t, b2.SequenceID(), p.ChnGetWaveBufSeq(0))

	pump(p, 10)
	assert.Equal(t, WaveDone, b2.Status())
	assert.Equal(t, WavePlaying, b3.Status())

	pump(p, 10)
	assert.Equal(t, WaveDone, b3.Status())
	assert.False(t, p.ChnIsPlaying(0))
	assert.Zero(t, p.ChnGetWaveBufSeq(0))
}

func TestProcessor_SequenceIDs(t *testing.T) {
	p := newActiveProcessor(t)
	var ids []uint16
	for range 3 {
		wb := newWaveBuf(pcm16Mono(4, 0), FormatPCM16Mono, false)
		p.ChnWaveBufAdd(3, wb)
		ids = append(ids, wb.SequenceID())
	}
	assert.Equal(t, []uint16{1, 2, 3}, ids)
}

func TestProcessor_MixesSamples(t *testing.T) {
	p := newActiveProcessor(t)
	p.ChnWaveBufAdd(0, newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false))

	out := pump(p, 10)
	for i := range out {
		assert.InDelta(t, 0.5, out[i], 1e-6)
	}
}

func TestProcessor_DecodesStereoPCM8(t *testing.T) {
	p := newActiveProcessor(t)
	p.ChnSetFormat(1, FormatPCM8Stereo)
	p.ChnSetInterp(1, InterpNone)
	data := []byte{64, byte(0xC0), 64, byte(0xC0), 64, byte(0xC0)}
	p.ChnWaveBufAdd(1, newWaveBuf(data, FormatPCM8Stereo, false))

	out := pump(p, 2)
	assert.InDelta(t, 0.5, out[0], 1e-6)
	assert.InDelta(t, -0.5, out[1], 1e-6)
}

func TestProcessor_LoopingBufferKeepsPlaying(t *testing.T) {
	p := newActiveProcessor(t)
	wb := newWaveBuf(pcm16Mono(10, 100), FormatPCM16Mono, true)
	next := newWaveBuf(pcm16Mono(10, 100), FormatPCM16Mono, false)
	p.ChnWaveBufAdd(0, wb)
	p.ChnWaveBufAdd(0, next)

	pump(p, 95)
	assert.Equal(t, WavePlaying, wb.Status())
	assert.Equal(t, WaveQueued, next.Status())
	assert.Equal(t, uint32(5), p.ChnGetSamplePos(0))

	p.ChnWaveBufClear(0)
	assert.Equal(t, WaveDone, wb.Status())
	assert.Equal(t, WaveDone, next.Status())
	assert.False(t, p.ChnIsPlaying(0))
	assert.Zero(t, p.ChnGetWaveBufSeq(0))
}

func TestProcessor_RateConversion(t *testing.T) {
	p := newActiveProcessor(t)
	wb := newWaveBuf(pcm16Mono(10, 100), FormatPCM16Mono, false)
	p.ChnSetRate(0, 2000)
	p.ChnWaveBufAdd(0, wb)

	pump(p, 4)
	assert.Equal(t, WavePlaying, wb.Status())
	assert.Equal(t, uint32(8), p.ChnGetSamplePos(0))
	pump(p, 1)
	assert.Equal(t, WaveDone, wb.Status())
}

func TestProcessor_Pause(t *testing.T) {
	p := newActiveProcessor(t)
	wb := newWaveBuf(pcm16Mono(10, 16384), FormatPCM16Mono, false)
	p.ChnWaveBufAdd(0, wb)
	pump(p, 3)
	p.ChnSetPaused(0, true)

	out := pump(p, 20)
	assert.True(t, p.ChnIsPaused(0))
	assert.True(t, p.ChnIsPlaying(0))
	assert.Equal(t, uint32(3), p.ChnGetSamplePos(0))
	assert.Zero(t, out[0])

	p.ChnSetPaused(0, false)
	pump(p, 7)
	assert.Equal(t, WaveDone, wb.Status())
}

func TestProcessor_ZeroMixSilencesButKeepsPlaying(t *testing.T) {
	p := newActiveProcessor(t)
	p.ChnSetMix(0, &[NumMixGains]float32{})
	p.ChnWaveBufAdd(0, newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false))

	out := pump(p, 10)
	for _, s := range out {
		assert.Zero(t, s)
	}
	assert.True(t, p.ChnIsPlaying(0))
}

func TestProcessor_OutputModes(t *testing.T) {
	p := newActiveProcessor(t)
	p.ChnSetMix(0, &[NumMixGains]float32{0: 1})
	p.ChnWaveBufAdd(0, newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false))

	out := pump(p, 1)
	assert.InDelta(t, 0.5, out[0], 1e-6)
	assert.Zero(t, out[1])

	p.SetOutputMode(OutputMono)
	out = pump(p, 1)
	assert.InDelta(t, 0.25, out[0], 1e-6)
	assert.InDelta(t, 0.25, out[1], 1e-6)
}

func TestProcessor_AuxBus(t *testing.T) {
	p := newActiveProcessor(t)
	p.ChnSetMix(0, &[NumMixGains]float32{4: 1, 5: 1})
	p.ChnWaveBufAdd(0, newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false))

	assert.Zero(t, pump(p, 1)[0], "aux buses are off by default")

	p.AuxSetEnable(0, true)
	p.AuxSetVolume(0, 0.5)
	assert.InDelta(t, 0.25, pump(p, 1)[0], 1e-6)
}

func TestProcessor_MasterVolumeAndClamp(t *testing.T) {
	p := newActiveProcessor(t)
	p.ChnWaveBufAdd(0, newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false))
	p.ChnWaveBufAdd(1, newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false))
	p.ChnWaveBufAdd(2, newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false))

	assert.Equal(t, float32(1), pump(p, 1)[0], "output is clamped")

	p.SetMasterVolume(0.5)
	assert.InDelta(t, 0.75, pump(p, 1)[0], 1e-6)
}

func TestProcessor_ResetRestoresDefaults(t *testing.T) {
	p := newActiveProcessor(t)
	wb := newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false)
	p.ChnSetMix(0, &[NumMixGains]float32{})
	p.ChnSetPaused(0, true)
	p.ChnWaveBufAdd(0, wb)

	p.ChnReset(0)
	assert.Equal(t, WaveDone, wb.Status())
	assert.False(t, p.ChnIsPaused(0))
	assert.False(t, p.ChnIsPlaying(0))

	p.ChnWaveBufAdd(0, newWaveBuf(pcm16Mono(100, 16384), FormatPCM16Mono, false))
	assert.InDelta(t, 0.5, pump(p, 1)[0], 1e-6, "default mix is restored")
}

func TestProcessor_SampleCountLimitsPlayback(t *testing.T) {
	p := newActiveProcessor(t)
	wb := newWaveBuf(pcm16Mono(10, 100), FormatPCM16Mono, false)
	wb.NSamples = 4
	p.ChnWaveBufAdd(0, wb)
	pump(p, 4)
	assert.Equal(t, WaveDone, wb.Status())
}

func TestProcessor_IgnoresInvalidChannels(t *testing.T) {
	p := newActiveProcessor(t)
	wb := newWaveBuf(pcm16Mono(10, 100), FormatPCM16Mono, false)
	p.ChnWaveBufAdd(NumChannels, wb)
	p.ChnWaveBufAdd(-1, wb)
	assert.Equal(t, WaveFree, wb.Status())
	assert.False(t, p.ChnIsPlaying(NumChannels))
}

func TestProcessor_InactiveIsSilent(t *testing.T) {
	p := NewProcessor(Config{SampleRate: 1000})
	p.ChnWaveBufAdd(0, newWaveBuf(pcm16Mono(10, 16384), FormatPCM16Mono, false))
	out := pump(p, 4)
	for _, s := range out {
		assert.Zero(t, s)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestProcessor_InitOpensAndExitCloses(t *testing.T) {
	closed := false
	var src Source
	p := NewProcessor(Config{
		SampleRate: 1000,
		Open: func(s Source) (io.Closer, error) {
			src = s
			return closerFunc(func() error { closed = true; return nil }), nil
		},
	})
	require.NoError(t, p.Init())
	assert.True(t, p.Active())
	assert.Same(t, p, src)

	wb := newWaveBuf(pcm16Mono(10, 100), FormatPCM16Mono, false)
	p.ChnWaveBufAdd(0, wb)
	p.Exit()
	assert.True(t, closed)
	assert.False(t, p.Active())
	assert.Equal(t, WaveDone, wb.Status())
}

func TestProcessor_InitFailure(t *testing.T) {
	boom := errors.New("boom")
	p := NewProcessor(Config{
		Open: func(Source) (io.Closer, error) { return nil, boom },
	})
	err := p.Init()
	require.ErrorIs(t, err, boom)
	assert.False(t, p.Active())
	assert.Equal(t, DefaultSampleRate, p.SampleRate())
}
