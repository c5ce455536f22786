package ndsp

import "github.com/Lundis/go-ndsp/dsp"

const NumChannels = dsp.NumChannels

type (
	OutputMode        = dsp.OutputMode
	AudioFormat       = dsp.AudioFormat
	InterpolationType = dsp.InterpolationType
	WaveStatus        = dsp.WaveStatus
)

const (
	OutputMono     = dsp.OutputMono
	OutputStereo   = dsp.OutputStereo
	OutputSurround = dsp.OutputSurround

	FormatPCM8Mono    = dsp.FormatPCM8Mono
	FormatPCM16Mono   = dsp.FormatPCM16Mono
	FormatPCM8Stereo  = dsp.FormatPCM8Stereo
	FormatPCM16Stereo = dsp.FormatPCM16Stereo

	InterpPolyphase = dsp.InterpPolyphase
	InterpLinear    = dsp.InterpLinear
	InterpNone      = dsp.InterpNone

	WaveFree    = dsp.WaveFree
	WaveQueued  = dsp.WaveQueued
	WavePlaying = dsp.WavePlaying
	WaveDone    = dsp.WaveDone
)

// Backend is the audio service the handles drive. Channel IDs passed to it
// are always valid and the caller holds the channel.
//
// *dsp.Processor implements Backend.
type Backend interface {
	Init() error
	Exit()

	SetOutputMode(mode OutputMode)
	SetMasterVolume(volume float32)
	AuxSetEnable(bus int, enable bool)
	AuxSetVolume(bus int, volume float32)

	ChnReset(id int)
	ChnInitParams(id int)
	ChnIsPlaying(id int) bool
	ChnIsPaused(id int) bool
	ChnGetSamplePos(id int) uint32
	ChnGetWaveBufSeq(id int) uint16
	ChnSetPaused(id int, paused bool)
	ChnSetFormat(id int, format AudioFormat)
	ChnSetInterp(id int, interp InterpolationType)
	ChnSetMix(id int, mix *[12]float32)
	ChnSetRate(id int, rate float32)
	ChnWaveBufClear(id int)
	ChnWaveBufAdd(id int, wb *dsp.WaveBuf)

	ChnIirMonoSetEnable(id int, enable bool)
	ChnIirMonoSetParamsHighPassFilter(id int, cutoff float32)
	ChnIirMonoSetParamsLowPassFilter(id int, cutoff float32)
	ChnIirBiquadSetEnable(id int, enable bool)
	ChnIirBiquadSetParamsHighPassFilter(id int, cutoff, quality float32)
	ChnIirBiquadSetParamsLowPassFilter(id int, cutoff, quality float32)
	ChnIirBiquadSetParamsNotchFilter(id int, notch, quality float32)
	ChnIirBiquadSetParamsBandPassFilter(id int, mid, quality float32)
	ChnIirBiquadSetParamsPeakingEqualizer(id int, central, quality, gain float32)
}

var _ Backend = (*dsp.Processor)(nil)
