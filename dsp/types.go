package dsp

import (
	"fmt"
	"sync/atomic"
)

// NumChannels is the number of mixing lanes the DSP exposes.
const NumChannels = 24

// NumMixGains is the length of a channel mix: front left, front right,
// back left and back right for the main output, then the same four for
// auxiliary bus 0 and auxiliary bus 1.
const NumMixGains = 12

// NumAuxBuses is the number of auxiliary output buses.
const NumAuxBuses = 2

type OutputMode int

const (
	OutputMono OutputMode = iota
	OutputStereo
	OutputSurround
)

func (m OutputMode) String() string {
	switch m {
	case OutputMono:
		return "mono"
	case OutputStereo:
		return "stereo"
	case OutputSurround:
		return "surround"
	}
	return fmt.Sprintf("OutputMode(%d)", int(m))
}

// AudioFormat describes the sample layout of a wave buffer.
// 8 bit samples are signed, 16 bit samples are signed little endian.
type AudioFormat uint16

const (
	FormatPCM8Mono AudioFormat = iota
	FormatPCM16Mono
	FormatPCM8Stereo
	FormatPCM16Stereo
)

// SampleSize returns the number of bytes needed to store one sample
// across all of the format's channels.
func (f AudioFormat) SampleSize() int {
	switch f {
	case FormatPCM8Mono:
		return 1
	case FormatPCM16Mono, FormatPCM8Stereo:
		return 2
	case FormatPCM16Stereo:
		return 4
	}
	return 0
}

func (f AudioFormat) Channels() int {
	if f == FormatPCM8Stereo || f == FormatPCM16Stereo {
		return 2
	}
	return 1
}

func (f AudioFormat) BitDepth() int {
	if f == FormatPCM8Mono || f == FormatPCM8Stereo {
		return 8
	}
	return 16
}

func (f AudioFormat) String() string {
	switch f {
	case FormatPCM8Mono:
		return "pcm8-mono"
	case FormatPCM16Mono:
		return "pcm16-mono"
	case FormatPCM8Stereo:
		return "pcm8-stereo"
	case FormatPCM16Stereo:
		return "pcm16-stereo"
	}
	return fmt.Sprintf("AudioFormat(%d)", int(f))
}

// FormatFor returns the format matching a channel count and bit depth.
func FormatFor(channels, bitDepth int) (AudioFormat, error) {
	switch {
	case channels == 1 && bitDepth == 8:
		return FormatPCM8Mono, nil
	case channels == 1 && bitDepth == 16:
		return FormatPCM16Mono, nil
	case channels == 2 && bitDepth == 8:
		return FormatPCM8Stereo, nil
	case channels == 2 && bitDepth == 16:
		return FormatPCM16Stereo, nil
	}
	return 0, fmt.Errorf("dsp: unsupported layout: %d channels, %d bits", channels, bitDepth)
}

type InterpolationType int

const (
	InterpPolyphase InterpolationType = iota
	InterpLinear
	InterpNone
)

func (t InterpolationType) String() string {
	switch t {
	case InterpPolyphase:
		return "polyphase"
	case InterpLinear:
		return "linear"
	case InterpNone:
		return "none"
	}
	return fmt.Sprintf("InterpolationType(%d)", int(t))
}

// WaveStatus is the DSP's view of a wave buffer.
type WaveStatus uint32

const (
	// WaveFree buffers have never been queued.
	WaveFree WaveStatus = iota
	// WaveQueued buffers wait behind the playing buffer of their channel.
	WaveQueued
	// WavePlaying is the buffer the channel is currently reading.
	WavePlaying
	// WaveDone buffers finished playing or were discarded by a queue clear.
	// The DSP no longer references them.
	WaveDone
)

func (s WaveStatus) String() string {
	switch s {
	case WaveFree:
		return "free"
	case WaveQueued:
		return "queued"
	case WavePlaying:
		return "playing"
	case WaveDone:
		return "done"
	}
	return fmt.Sprintf("WaveStatus(%d)", uint32(s))
}

// InFlight reports whether the DSP may still read a buffer with this status.
func (s WaveStatus) InFlight() bool {
	return s == WaveQueued || s == WavePlaying
}

// WaveBuf is the descriptor handed to the DSP when a buffer is queued.
// Data and NSamples must not change while the buffer is in flight.
// The status and sequence ID are written by the DSP.
type WaveBuf struct {
	Data     []byte
	NSamples uint32
	Looping  bool

	status atomic.Uint32
	seq    atomic.Uint32
}

func (w *WaveBuf) Status() WaveStatus {
	return WaveStatus(w.status.Load())
}

// SequenceID returns the ID the DSP assigned when the buffer was queued.
func (w *WaveBuf) SequenceID() uint16 {
	return uint16(w.seq.Load())
}

func (w *WaveBuf) setStatus(s WaveStatus) {
	w.status.Store(uint32(s))
}
