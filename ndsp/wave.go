package ndsp

import (
	"sync"

	"github.com/Lundis/go-ndsp/dsp"
)

// WaveInfo is a block of samples to be queued on a channel.
//
// Once queued, the DSP reads the buffer until Status reports WaveDone.
// Buffer and SetSampleCount refuse to touch it before that. Close a
// WaveInfo when it is no longer needed: closing it while it is in flight
// clears the whole queue of its channel.
//
// A WaveInfo must not be copied.
type WaveInfo struct {
	m sync.Mutex

	buffer []byte
	format AudioFormat
	raw    dsp.WaveBuf

	owner   *Ndsp
	channel uint8
	queued  bool
	closed  bool
}

// NewWaveInfo wraps buffer, which holds samples in format. The sample count
// covers the whole buffer. A looping buffer plays until its queue is cleared.
func NewWaveInfo(buffer []byte, format AudioFormat, looping bool) *WaveInfo {
	w := &WaveInfo{
		buffer: buffer,
		format: format,
	}
	w.raw.Data = buffer
	w.raw.NSamples = w.maxSamples()
	w.raw.Looping = looping
	return w
}

func (w *WaveInfo) maxSamples() uint32 {
	size := w.format.SampleSize()
	if size == 0 {
		return 0
	}
	return uint32(len(w.buffer) / size)
}

// Status returns the DSP's last word on this buffer.
func (w *WaveInfo) Status() WaveStatus {
	return w.raw.Status()
}

func (w *WaveInfo) Format() AudioFormat {
	return w.format
}

func (w *WaveInfo) Looping() bool {
	return w.raw.Looping
}

func (w *WaveInfo) SampleCount() uint32 {
	w.m.Lock()
	defer w.m.Unlock()
	return w.raw.NSamples
}

// Channel returns the channel the buffer was last queued on.
func (w *WaveInfo) Channel() (uint8, bool) {
	w.m.Lock()
	defer w.m.Unlock()
	return w.channel, w.queued
}

// Buffer returns the sample memory. It fails with ErrWaveBusy while the
// DSP may still read it.
func (w *WaveInfo) Buffer() ([]byte, error) {
	w.m.Lock()
	defer w.m.Unlock()
	if err := w.busy(); err != nil {
		return nil, err
	}
	return w.buffer, nil
}

// SetSampleCount limits playback to the first n samples of the buffer.
func (w *WaveInfo) SetSampleCount(n uint32) error {
	w.m.Lock()
	defer w.m.Unlock()
	if err := w.busy(); err != nil {
		return err
	}
	if limit := w.maxSamples(); n > limit {
		return &SampleCountError{Requested: n, Max: limit}
	}
	w.raw.NSamples = n
	return nil
}

func (w *WaveInfo) busy() error {
	if w.raw.Status().InFlight() {
		return &ChannelError{Kind: ErrWaveBusy, ID: w.channel}
	}
	return nil
}

// setChannel records the owner of a buffer about to be queued.
func (w *WaveInfo) setChannel(owner *Ndsp, id uint8) {
	w.owner = owner
	w.channel = id
	w.queued = true
}

// Close releases the buffer. If the DSP may still read it, the whole
// queue of its channel is cleared first.
func (w *WaveInfo) Close() error {
	owner := w.lockOwner()
	defer w.unlockOwner(owner)
	if w.closed {
		return nil
	}
	w.closed = true
	status := w.raw.Status()
	if !status.InFlight() || owner == nil || owner.closed.Load() {
		return nil
	}
	owner.backend.ChnWaveBufClear(int(w.channel))
	owner.rec.QueueCleared(w.channel, ClearPrematureRelease)
	owner.log.Warn("wave buffer closed while in flight, queue cleared",
		"channel", w.channel,
		"status", status.String())
	return nil
}

// lockOwner takes the read lock of the Ndsp the buffer was queued through,
// then w.m, in the same order as Channel.QueueWave. It returns with both
// held and the owner unchanged.
func (w *WaveInfo) lockOwner() *Ndsp {
	for {
		w.m.Lock()
		owner := w.owner
		w.m.Unlock()

		if owner != nil {
			owner.mu.RLock()
		}
		w.m.Lock()
		if w.owner == owner {
			return owner
		}
		w.m.Unlock()
		if owner != nil {
			owner.mu.RUnlock()
		}
	}
}

func (w *WaveInfo) unlockOwner(owner *Ndsp) {
	w.m.Unlock()
	if owner != nil {
		owner.mu.RUnlock()
	}
}
