package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testRate = 48000

type filter interface {
	process(side int, x float64) float64
}

// settle feeds a constant and returns the last output.
func settle(f filter, x float64, n int) float64 {
	var y float64
	for range n {
		y = f.process(0, x)
	}
	return y
}

// amplitude returns the peak output for a sine at freq after the filter settled.
func amplitude(f filter, freq float64) float64 {
	peak := 0.0
	for i := range 20000 {
		y := f.process(0, math.Sin(2*math.Pi*freq*float64(i)/testRate))
		if i > 15000 {
			peak = math.Max(peak, math.Abs(y))
		}
	}
	return peak
}

func TestOnePole_DC(t *testing.T) {
	lp := newOnePoleLowPass(testRate, 1000)
	assert.InDelta(t, 0.5, settle(&lp, 0.5, 2000), 1e-3, "low pass should keep DC")

	hp := newOnePoleHighPass(testRate, 1000)
	assert.InDelta(t, 0, settle(&hp, 0.5, 2000), 1e-3, "high pass should block DC")
}

func TestBiquad_DC(t *testing.T) {
	lp := newBiquadLowPass(testRate, 1000, 0.707)
	assert.InDelta(t, 0.5, settle(&lp, 0.5, 5000), 1e-3)

	hp := newBiquadHighPass(testRate, 1000, 0.707)
	assert.InDelta(t, 0, settle(&hp, 0.5, 5000), 1e-3)

	bp := newBiquadBandPass(testRate, 1000, 0.707)
	assert.InDelta(t, 0, settle(&bp, 0.5, 5000), 1e-3)

	notch := newBiquadNotch(testRate, 1000, 0.707)
	assert.InDelta(t, 0.5, settle(&notch, 0.5, 5000), 1e-3)
}

func TestBiquad_Frequencies(t *testing.T) {
	lp := newBiquadLowPass(testRate, 500, 0.707)
	assert.Less(t, amplitude(&lp, 8000), 0.05, "low pass should attenuate far above cutoff")

	notch := newBiquadNotch(testRate, 1000, 2)
	assert.Less(t, amplitude(&notch, 1000), 0.05, "notch should remove its frequency")

	bp := newBiquadBandPass(testRate, 1000, 0.707)
	assert.InDelta(t, 1, amplitude(&bp, 1000), 0.02, "band pass has unity gain at its center")
}

func TestBiquad_PeakingGain(t *testing.T) {
	unity := newBiquadPeaking(testRate, 1000, 1, 1)
	for i := range 100 {
		x := math.Sin(float64(i))
		assert.InDelta(t, x, unity.process(0, x), 1e-9, "gain 1 should not change the signal")
	}

	boost := newBiquadPeaking(testRate, 1000, 1, 2)
	assert.InDelta(t, 2, amplitude(&boost, 1000), 0.05)
}

func TestFilter_SidesAreIndependent(t *testing.T) {
	lp := newBiquadLowPass(testRate, 1000, 0.707)
	for range 1000 {
		lp.process(0, 1)
	}
	assert.Zero(t, lp.process(1, 0), "right side must not see the left history")
}

func TestClampFrequency(t *testing.T) {
	assert.Equal(t, 1.0, clampFrequency(testRate, -10))
	assert.Less(t, clampFrequency(testRate, 40000), float64(testRate)/2)
	assert.Equal(t, 1000.0, clampFrequency(testRate, 1000))
}
