package ndsp

import "sync/atomic"

// Channel is the exclusive handle on one DSP channel.
// All of its state lives in the DSP and is queried live.
//
// After Close, setters do nothing, queries return zero values and
// QueueWave fails with ErrClosed.
type Channel struct {
	id       uint8
	ndsp     *Ndsp
	released atomic.Bool
}

func (c *Channel) ID() uint8 {
	return c.id
}

// lock keeps Ndsp.Close out until unlock. It reports false, holding
// nothing, once the channel or its Ndsp is closed.
func (c *Channel) lock() bool {
	c.ndsp.mu.RLock()
	if c.released.Load() || c.ndsp.closed.Load() {
		c.ndsp.mu.RUnlock()
		return false
	}
	return true
}

func (c *Channel) unlock() {
	c.ndsp.mu.RUnlock()
}

func (c *Channel) backend() Backend {
	return c.ndsp.backend
}

// Reset clears the queue and restores every parameter to its default.
func (c *Channel) Reset() {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnReset(int(c.id))
	c.ndsp.rec.QueueCleared(c.id, ClearReset)
}

// InitParameters restores rate, interpolation, mix and filters without
// touching the queue.
func (c *Channel) InitParameters() {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnInitParams(int(c.id))
}

// IsPlaying reports whether the channel has a buffer to play.
// A paused or silenced channel is still playing.
func (c *Channel) IsPlaying() bool {
	if !c.lock() {
		return false
	}
	defer c.unlock()
	return c.backend().ChnIsPlaying(int(c.id))
}

func (c *Channel) IsPaused() bool {
	if !c.lock() {
		return false
	}
	defer c.unlock()
	return c.backend().ChnIsPaused(int(c.id))
}

// SamplePosition returns the position inside the playing buffer, in samples.
func (c *Channel) SamplePosition() uint32 {
	if !c.lock() {
		return 0
	}
	defer c.unlock()
	return c.backend().ChnGetSamplePos(int(c.id))
}

// WaveSequenceID returns the sequence ID of the playing buffer, 0 when the
// queue is empty.
func (c *Channel) WaveSequenceID() uint16 {
	if !c.lock() {
		return 0
	}
	defer c.unlock()
	return c.backend().ChnGetWaveBufSeq(int(c.id))
}

func (c *Channel) SetPaused(paused bool) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnSetPaused(int(c.id), paused)
}

// SetFormat sets how the channel reads its buffers. It should match the
// format of the queued WaveInfo values.
func (c *Channel) SetFormat(format AudioFormat) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnSetFormat(int(c.id), format)
}

func (c *Channel) SetInterpolation(interp InterpolationType) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnSetInterp(int(c.id), interp)
}

// SetMix sets the channel's volume mix:
//
//	0..3   front left, front right, back left, back right
//	4..7   the same for auxiliary output 0
//	8..11  the same for auxiliary output 1
func (c *Channel) SetMix(mix *[12]float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnSetMix(int(c.id), mix)
}

// SetSampleRate sets the rate of the channel's samples in Hz.
func (c *Channel) SetSampleRate(rate float32) {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnSetRate(int(c.id), rate)
}

// ClearQueue stops playback and drops every queued buffer.
func (c *Channel) ClearQueue() {
	if !c.lock() {
		return
	}
	defer c.unlock()
	c.backend().ChnWaveBufClear(int(c.id))
	c.ndsp.rec.QueueCleared(c.id, ClearExplicit)
}

// QueueWave appends w to the channel's queue. Playback starts on w if
// the queue was empty.
//
// w must not be queued or playing anywhere; otherwise ErrWaveBusy is
// returned and nothing changes.
func (c *Channel) QueueWave(w *WaveInfo) error {
	if !c.lock() {
		return ErrClosed
	}
	defer c.unlock()
	w.m.Lock()
	defer w.m.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.raw.Status().InFlight() {
		err := &ChannelError{Kind: ErrWaveBusy, ID: w.channel}
		c.ndsp.rec.WaveQueued(c.id, err)
		return err
	}

	w.setChannel(c.ndsp, c.id)
	c.backend().ChnWaveBufAdd(int(c.id), &w.raw)
	c.ndsp.rec.WaveQueued(c.id, nil)
	return nil
}

// Close resets the channel and gives it back to its Ndsp.
func (c *Channel) Close() error {
	if !c.released.CompareAndSwap(false, true) {
		return nil
	}
	n := c.ndsp
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed.Load() {
		return nil
	}
	n.backend.ChnReset(int(c.id))
	n.rec.QueueCleared(c.id, ClearReset)
	n.flags[c.id].Store(false)
	n.log.Debug("channel released", "channel", c.id)
	return nil
}
