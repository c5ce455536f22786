package dsp

import "math"

// onePole is the single pole filter of a channel. It is cheaper and
// less selective than the biquad.
type onePole struct {
	b0, b1, a1 float64

	x1, y1 [2]float64
}

func newOnePoleLowPass(sampleRate, cutoff float64) onePole {
	a1 := math.Exp(-2 * math.Pi * clampFrequency(sampleRate, cutoff) / sampleRate)
	return onePole{b0: 1 - a1, a1: a1}
}

func newOnePoleHighPass(sampleRate, cutoff float64) onePole {
	a1 := math.Exp(-2 * math.Pi * clampFrequency(sampleRate, cutoff) / sampleRate)
	g := (1 + a1) / 2
	return onePole{b0: g, b1: -g, a1: a1}
}

func (f *onePole) process(side int, x float64) float64 {
	y := f.b0*x + f.b1*f.x1[side] + f.a1*f.y1[side]
	f.x1[side] = x
	f.y1[side] = y
	return y
}

// biquad is a second order section with coefficients from Robert
// Bristow-Johnson's audio EQ cookbook, normalized by a0.
type biquad struct {
	b0, b1, b2, a1, a2 float64

	x1, x2, y1, y2 [2]float64
}

func newBiquad(a0, a1, a2, b0, b1, b2 float64) biquad {
	return biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// cookbook returns the angular frequency and alpha shared by every design.
func cookbook(sampleRate, frequency, q float64) (w0, cosW0, alpha float64) {
	if q <= 0 {
		q = math.Sqrt2 / 2
	}
	w0 = 2 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	return w0, math.Cos(w0), math.Sin(w0) / (2 * q)
}

func newBiquadLowPass(sampleRate, cutoff, q float64) biquad {
	_, c, alpha := cookbook(sampleRate, cutoff, q)
	return newBiquad(1+alpha, -2*c, 1-alpha, (1-c)/2, 1-c, (1-c)/2)
}

func newBiquadHighPass(sampleRate, cutoff, q float64) biquad {
	_, c, alpha := cookbook(sampleRate, cutoff, q)
	return newBiquad(1+alpha, -2*c, 1-alpha, (1+c)/2, -(1 + c), (1+c)/2)
}

// newBiquadBandPass has a constant 0 dB peak gain.
func newBiquadBandPass(sampleRate, mid, q float64) biquad {
	_, c, alpha := cookbook(sampleRate, mid, q)
	return newBiquad(1+alpha, -2*c, 1-alpha, alpha, 0, -alpha)
}

func newBiquadNotch(sampleRate, notch, q float64) biquad {
	_, c, alpha := cookbook(sampleRate, notch, q)
	return newBiquad(1+alpha, -2*c, 1-alpha, 1, -2*c, 1)
}

// newBiquadPeaking takes gain as a linear amplitude at the central frequency.
func newBiquadPeaking(sampleRate, central, q, gain float64) biquad {
	_, c, alpha := cookbook(sampleRate, central, q)
	if gain <= 0 {
		gain = 1e-6
	}
	a := math.Sqrt(gain)
	return newBiquad(1+alpha/a, -2*c, 1-alpha/a, 1+alpha*a, -2*c, 1-alpha*a)
}

func (f *biquad) process(side int, x float64) float64 {
	y := f.b0*x + f.b1*f.x1[side] + f.b2*f.x2[side] - f.a1*f.y1[side] - f.a2*f.y2[side]
	f.x2[side] = f.x1[side]
	f.x1[side] = x
	f.y2[side] = f.y1[side]
	f.y1[side] = y
	return y
}

// clampFrequency keeps a design frequency strictly inside (0, Nyquist).
func clampFrequency(sampleRate, f float64) float64 {
	nyquist := sampleRate / 2
	switch {
	case f < 1:
		return 1
	case f > nyquist*0.999:
		return nyquist * 0.999
	}
	return f
}
