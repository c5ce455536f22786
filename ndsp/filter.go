package ndsp

// Every channel has a one-pole filter followed by a biquad filter.
// Both are off by default and are set up independently.

// IirMonoSetEnabled turns the one-pole filter on or off.
func (c *Channel) IirMonoSetEnabled(enable bool) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirMonoSetEnable(int(c.id), enable)
}

// IirMonoSetParamsHighPassFilter makes the one-pole filter a high pass.
// It is a lower quality filter than the biquad alternative.
func (c *Channel) IirMonoSetParamsHighPassFilter(cutoff float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirMonoSetParamsHighPassFilter(int(c.id), cutoff)
}

// IirMonoSetParamsLowPassFilter makes the one-pole filter a low pass.
// It is a lower quality filter than the biquad alternative.
func (c *Channel) IirMonoSetParamsLowPassFilter(cutoff float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirMonoSetParamsLowPassFilter(int(c.id), cutoff)
}

func (c *Channel) IirBiquadSetEnabled(enable bool) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirBiquadSetEnable(int(c.id), enable)
}

func (c *Channel) IirBiquadSetParamsHighPassFilter(cutoff, quality float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirBiquadSetParamsHighPassFilter(int(c.id), cutoff, quality)
}

func (c *Channel) IirBiquadSetParamsLowPassFilter(cutoff, quality float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirBiquadSetParamsLowPassFilter(int(c.id), cutoff, quality)
}

func (c *Channel) IirBiquadSetParamsNotchFilter(notch, quality float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirBiquadSetParamsNotchFilter(int(c.id), notch, quality)
}

func (c *Channel) IirBiquadSetParamsBandPassFilter(mid, quality float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirBiquadSetParamsBandPassFilter(int(c.id), mid, quality)
}

// IirBiquadSetParamsPeakingEqualizer boosts or cuts around central by gain,
// a linear amplitude factor.
func (c *Channel) IirBiquadSetParamsPeakingEqualizer(central, quality, gain float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnIirBiquadSetParamsPeakingEqualizer(int(c.id), central, quality, gain)
}
