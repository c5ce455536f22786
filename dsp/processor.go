// Copyright 2021 The Oto Authors
// Copyright 2025 Lundis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dsp is a software audio DSP with 24 mixing lanes.
//
// Each lane plays a FIFO queue of PCM wave buffers, resamples them to the
// output rate, runs them through a one-pole and a biquad filter and mixes
// them into a main output and two auxiliary buses. Output is pulled as
// interleaved stereo float32 by a driver calling ReadFloat32s.
//
// The exported channel methods take lane IDs in [0, NumChannels); calls
// with other IDs are ignored. Arbitrating who may drive which lane is the
// caller's job.
package dsp

import (
	"fmt"
	"io"
	"math"
	"sync"
)

// DefaultSampleRate is used when Config.SampleRate is zero.
const DefaultSampleRate = 48000

// Source is anything that can produce interleaved stereo float32 samples.
type Source interface {
	ReadFloat32s(buf []float32)
}

type Config struct {
	// SampleRate is the output rate in Hz.
	SampleRate int

	// Open starts pulling samples from the processor, usually by opening an
	// audio driver. It is called by Init. With a nil Open nothing pulls
	// samples and the owner is expected to call ReadFloat32s itself.
	Open func(src Source) (io.Closer, error)
}

type auxBus struct {
	enabled bool
	volume  float32
}

// Processor is the software DSP.
type Processor struct {
	sampleRate int
	open       func(src Source) (io.Closer, error)

	m            sync.Mutex
	active       bool
	out          io.Closer
	outputMode   OutputMode
	masterVolume float32
	aux          [NumAuxBuses]auxBus
	voices       [NumChannels]*voice
}

func NewProcessor(cfg Config) *Processor {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	p := &Processor{
		sampleRate: cfg.SampleRate,
		open:       cfg.Open,
	}
	p.resetGlobals()
	for i := range p.voices {
		p.voices[i] = newVoice(p.sampleRate)
	}
	return p
}

func (p *Processor) SampleRate() int {
	return p.sampleRate
}

func (p *Processor) resetGlobals() {
	p.outputMode = OutputStereo
	p.masterVolume = 1
	for i := range p.aux {
		p.aux[i] = auxBus{volume: 1}
	}
}

// Init resets every lane and starts the output.
func (p *Processor) Init() error {
	p.m.Lock()
	if p.active {
		p.m.Unlock()
		return nil
	}
	p.resetGlobals()
	for _, v := range p.voices {
		v.reset(p.sampleRate)
	}
	p.active = true
	p.m.Unlock()

	if p.open == nil {
		return nil
	}
	// The output may start pulling right away, so it must be opened without the lock.
	out, err := p.open(p)
	if err != nil {
		p.m.Lock()
		p.active = false
		p.m.Unlock()
		return fmt.Errorf("dsp: failed to open output: %w", err)
	}
	p.m.Lock()
	p.out = out
	p.m.Unlock()
	return nil
}

// Exit stops the output and releases every queued buffer.
func (p *Processor) Exit() {
	p.m.Lock()
	p.active = false
	for _, v := range p.voices {
		v.clear()
	}
	out := p.out
	p.out = nil
	p.m.Unlock()

	if out != nil {
		_ = out.Close()
	}
}

func (p *Processor) Active() bool {
	p.m.Lock()
	defer p.m.Unlock()
	return p.active
}

// ReadFloat32s fills buf with interleaved stereo samples of all playing lanes.
// A trailing odd sample is zeroed.
func (p *Processor) ReadFloat32s(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
	p.m.Lock()
	defer p.m.Unlock()
	if !p.active {
		return
	}

	outRate := float64(p.sampleRate)
	for i := 0; i+1 < len(buf); i += 2 {
		var main [4]float64
		var aux [NumAuxBuses][4]float64
		for _, v := range p.voices {
			v.next(outRate, &main, &aux)
		}
		for b, bus := range p.aux {
			if !bus.enabled {
				continue
			}
			for k := range main {
				main[k] += aux[b][k] * float64(bus.volume)
			}
		}
		l, r := p.downmix(main)
		buf[i] = clamp(l * float64(p.masterVolume))
		buf[i+1] = clamp(r * float64(p.masterVolume))
	}
}

// downmix folds front left, front right, back left, back right into stereo.
func (p *Processor) downmix(m [4]float64) (l, r float64) {
	switch p.outputMode {
	case OutputMono:
		s := (m[0] + m[1] + m[2] + m[3]) / 2
		return s, s
	case OutputSurround:
		const k = math.Sqrt2 / 2
		return m[0] + k*m[2] - k*m[3]/2, m[1] + k*m[3] - k*m[2]/2
	}
	return m[0] + m[2], m[1] + m[3]
}

func clamp(v float64) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return float32(v)
}

func (p *Processor) voice(id int) *voice {
	if id < 0 || id >= NumChannels {
		return nil
	}
	return p.voices[id]
}

// withVoice runs f with the lock held if id names a lane.
func (p *Processor) withVoice(id int, f func(v *voice)) {
	v := p.voice(id)
	if v == nil {
		return
	}
	p.m.Lock()
	f(v)
	p.m.Unlock()
}

func (p *Processor) SetOutputMode(mode OutputMode) {
	p.m.Lock()
	p.outputMode = mode
	p.m.Unlock()
}

func (p *Processor) SetMasterVolume(volume float32) {
	p.m.Lock()
	p.masterVolume = volume
	p.m.Unlock()
}

func (p *Processor) AuxSetEnable(bus int, enable bool) {
	if bus < 0 || bus >= NumAuxBuses {
		return
	}
	p.m.Lock()
	p.aux[bus].enabled = enable
	p.m.Unlock()
}

func (p *Processor) AuxSetVolume(bus int, volume float32) {
	if bus < 0 || bus >= NumAuxBuses {
		return
	}
	p.m.Lock()
	p.aux[bus].volume = volume
	p.m.Unlock()
}

// ChnReset clears the lane's queue and restores every parameter.
func (p *Processor) ChnReset(id int) {
	p.withVoice(id, func(v *voice) { v.reset(p.sampleRate) })
}

// ChnInitParams restores rate, interpolation, mix and filters.
func (p *Processor) ChnInitParams(id int) {
	p.withVoice(id, func(v *voice) { v.initParams(p.sampleRate) })
}

func (p *Processor) ChnIsPlaying(id int) (playing bool) {
	p.withVoice(id, func(v *voice) { playing = v.playing })
	return
}

func (p *Processor) ChnIsPaused(id int) (paused bool) {
	p.withVoice(id, func(v *voice) { paused = v.paused })
	return
}

func (p *Processor) ChnGetSamplePos(id int) (pos uint32) {
	p.withVoice(id, func(v *voice) { pos = v.samplePosition() })
	return
}

// ChnGetWaveBufSeq returns the sequence ID of the playing buffer, or 0 when idle.
func (p *Processor) ChnGetWaveBufSeq(id int) (seq uint16) {
	p.withVoice(id, func(v *voice) { seq = v.sequenceID() })
	return
}

func (p *Processor) ChnSetPaused(id int, paused bool) {
	p.withVoice(id, func(v *voice) { v.paused = paused })
}

func (p *Processor) ChnSetFormat(id int, format AudioFormat) {
	p.withVoice(id, func(v *voice) { v.format = format })
}

func (p *Processor) ChnSetInterp(id int, interp InterpolationType) {
	p.withVoice(id, func(v *voice) { v.interp = interp })
}

func (p *Processor) ChnSetMix(id int, mix *[NumMixGains]float32) {
	p.withVoice(id, func(v *voice) { v.mix = *mix })
}

// ChnSetRate sets the rate the lane's buffers were recorded at, in Hz.
func (p *Processor) ChnSetRate(id int, rate float32) {
	if rate <= 0 {
		return
	}
	p.withVoice(id, func(v *voice) { v.rate = float64(rate) })
}

// ChnWaveBufClear stops the lane and marks every queued buffer done.
func (p *Processor) ChnWaveBufClear(id int) {
	p.withVoice(id, func(v *voice) { v.clear() })
}

// ChnWaveBufAdd appends wb to the lane's queue. Playback starts on wb if
// the queue was empty.
func (p *Processor) ChnWaveBufAdd(id int, wb *WaveBuf) {
	if wb == nil {
		return
	}
	p.withVoice(id, func(v *voice) { v.add(wb) })
}

func (p *Processor) ChnIirMonoSetEnable(id int, enable bool) {
	p.withVoice(id, func(v *voice) { v.monoEnabled = enable })
}

func (p *Processor) ChnIirMonoSetParamsHighPassFilter(id int, cutoff float32) {
	p.withVoice(id, func(v *voice) {
		v.mono = newOnePoleHighPass(float64(p.sampleRate), float64(cutoff))
	})
}

func (p *Processor) ChnIirMonoSetParamsLowPassFilter(id int, cutoff float32) {
	p.withVoice(id, func(v *voice) {
		v.mono = newOnePoleLowPass(float64(p.sampleRate), float64(cutoff))
	})
}

func (p *Processor) ChnIirBiquadSetEnable(id int, enable bool) {
	p.withVoice(id, func(v *voice) { v.biquadEnabled = enable })
}

func (p *Processor) ChnIirBiquadSetParamsHighPassFilter(id int, cutoff, quality float32) {
	p.withVoice(id, func(v *voice) {
		v.biquad = newBiquadHighPass(float64(p.sampleRate), float64(cutoff), float64(quality))
	})
}

func (p *Processor) ChnIirBiquadSetParamsLowPassFilter(id int, cutoff, quality float32) {
	p.withVoice(id, func(v *voice) {
		v.biquad = newBiquadLowPass(float64(p.sampleRate), float64(cutoff), float64(quality))
	})
}

func (p *Processor) ChnIirBiquadSetParamsNotchFilter(id int, notch, quality float32) {
	p.withVoice(id, func(v *voice) {
		v.biquad = newBiquadNotch(float64(p.sampleRate), float64(notch), float64(quality))
	})
}

func (p *Processor) ChnIirBiquadSetParamsBandPassFilter(id int, mid, quality float32) {
	p.withVoice(id, func(v *voice) {
		v.biquad = newBiquadBandPass(float64(p.sampleRate), float64(mid), float64(quality))
	})
}

func (p *Processor) ChnIirBiquadSetParamsPeakingEqualizer(id int, central, quality, gain float32) {
	p.withVoice(id, func(v *voice) {
		v.biquad = newBiquadPeaking(float64(p.sampleRate), float64(central), float64(quality), float64(gain))
	})
}
