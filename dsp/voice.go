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

package dsp

// voice is the state of one mixing lane. It is only touched with the
// processor lock held.
type voice struct {
	format AudioFormat
	interp InterpolationType
	rate   float64
	mix    [NumMixGains]float32
	paused bool

	playing bool
	queue   []*WaveBuf
	// pos is the fractional sample position inside queue[0].
	pos    float64
	seqPos uint16

	monoEnabled   bool
	mono          onePole
	biquadEnabled bool
	biquad        biquad
}

func newVoice(sampleRate int) *voice {
	v := &voice{format: FormatPCM16Mono}
	v.initParams(sampleRate)
	return v
}

func (v *voice) initParams(sampleRate int) {
	v.interp = InterpPolyphase
	v.rate = float64(sampleRate)
	v.mix = [NumMixGains]float32{0: 1, 1: 1}
	v.monoEnabled = false
	v.mono = onePole{}
	v.biquadEnabled = false
	v.biquad = biquad{}
}

func (v *voice) reset(sampleRate int) {
	v.clear()
	v.format = FormatPCM16Mono
	v.paused = false
	v.initParams(sampleRate)
}

// clear stops playback and hands every buffer back to the client.
func (v *voice) clear() {
	for i, wb := range v.queue {
		wb.setStatus(WaveDone)
		v.queue[i] = nil
	}
	v.queue = v.queue[:0]
	v.playing = false
	v.pos = 0
}

func (v *voice) add(wb *WaveBuf) {
	v.seqPos++
	if v.seqPos == 0 {
		v.seqPos = 1
	}
	wb.seq.Store(uint32(v.seqPos))
	v.queue = append(v.queue, wb)
	if len(v.queue) == 1 {
		v.pos = 0
		v.playing = true
		wb.setStatus(WavePlaying)
		return
	}
	wb.setStatus(WaveQueued)
}

func (v *voice) samplesIn(wb *WaveBuf) int {
	size := v.format.SampleSize()
	if size == 0 {
		return 0
	}
	return min(int(wb.NSamples), len(wb.Data)/size)
}

// settle moves the queue forward until pos points inside the playing buffer.
func (v *voice) settle() {
	for len(v.queue) > 0 {
		wb := v.queue[0]
		n := v.samplesIn(wb)
		if v.pos < float64(n) {
			return
		}
		if wb.Looping && n > 0 {
			v.pos -= float64(n)
			continue
		}
		wb.setStatus(WaveDone)
		v.queue[0] = nil
		v.queue = v.queue[1:]
		v.pos -= float64(n)
		if len(v.queue) > 0 {
			v.queue[0].setStatus(WavePlaying)
		}
	}
	v.playing = false
	v.pos = 0
}

// sampleAt decodes sample i of wb, clamping to the buffer edges
// or wrapping around for looping buffers.
func (v *voice) sampleAt(wb *WaveBuf, i, n int) (l, r float64) {
	if i >= n {
		if wb.Looping {
			i %= n
		} else {
			i = n - 1
		}
	}
	if i < 0 {
		i = 0
	}
	d := wb.Data
	switch v.format {
	case FormatPCM8Mono:
		l = float64(int8(d[i])) / 128
		return l, l
	case FormatPCM16Mono:
		o := i * 2
		l = float64(int16(uint16(d[o])|uint16(d[o+1])<<8)) / 32768
		return l, l
	case FormatPCM8Stereo:
		o := i * 2
		return float64(int8(d[o])) / 128, float64(int8(d[o+1])) / 128
	case FormatPCM16Stereo:
		o := i * 4
		l = float64(int16(uint16(d[o])|uint16(d[o+1])<<8)) / 32768
		r = float64(int16(uint16(d[o+2])|uint16(d[o+3])<<8)) / 32768
		return l, r
	}
	return 0, 0
}

func (v *voice) interpolate(wb *WaveBuf, n int) (l, r float64) {
	i := int(v.pos)
	t := v.pos - float64(i)
	switch v.interp {
	case InterpNone:
		return v.sampleAt(wb, i, n)
	case InterpLinear:
		l0, r0 := v.sampleAt(wb, i, n)
		l1, r1 := v.sampleAt(wb, i+1, n)
		return l0 + (l1-l0)*t, r0 + (r1-r0)*t
	}
	lm, rm := v.sampleAt(wb, i-1, n)
	l0, r0 := v.sampleAt(wb, i, n)
	l1, r1 := v.sampleAt(wb, i+1, n)
	l2, r2 := v.sampleAt(wb, i+2, n)
	return hermite(lm, l0, l1, l2, t), hermite(rm, r0, r1, r2, t)
}

// hermite is a 4 point, 3rd order Hermite interpolator.
func hermite(xm, x0, x1, x2, t float64) float64 {
	c1 := (x1 - xm) / 2
	c2 := xm - 2.5*x0 + 2*x1 - x2/2
	c3 := (x2-xm)/2 + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + x0
}

// next renders one output sample of this lane into the main and aux
// accumulators. It returns false when the lane is silent.
func (v *voice) next(outRate float64, main *[4]float64, aux *[NumAuxBuses][4]float64) bool {
	if !v.playing || v.paused {
		return false
	}
	v.settle()
	if !v.playing {
		return false
	}
	wb := v.queue[0]
	n := v.samplesIn(wb)
	l, r := v.interpolate(wb, n)
	v.pos += v.rate / outRate
	v.settle()

	if v.monoEnabled {
		l = v.mono.process(0, l)
		r = v.mono.process(1, r)
	}
	if v.biquadEnabled {
		l = v.biquad.process(0, l)
		r = v.biquad.process(1, r)
	}

	m := &v.mix
	main[0] += l * float64(m[0])
	main[1] += r * float64(m[1])
	main[2] += l * float64(m[2])
	main[3] += r * float64(m[3])
	for b := range aux {
		g := m[4+4*b : 8+4*b]
		aux[b][0] += l * float64(g[0])
		aux[b][1] += r * float64(g[1])
		aux[b][2] += l * float64(g[2])
		aux[b][3] += r * float64(g[3])
	}
	return true
}

func (v *voice) samplePosition() uint32 {
	if !v.playing || len(v.queue) == 0 {
		return 0
	}
	return uint32(v.pos)
}

func (v *voice) sequenceID() uint16 {
	if !v.playing || len(v.queue) == 0 {
		return 0
	}
	return v.queue[0].SequenceID()
}
