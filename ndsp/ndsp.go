// Package ndsp hands out exclusive handles to the channels of an audio DSP.
//
// An Ndsp holds a share of the audio service. Channels are taken with
// Ndsp.Channel and given back with Channel.Close; at most one handle per
// channel exists at a time. Wave buffers are queued on a channel and played
// in FIFO order by the DSP, which runs independently of the caller.
//
// The DSP keeps reading a queued buffer until it reports it done, and it
// has no way of being told that the owner gave up on it. Closing a WaveInfo
// that is still queued or playing therefore clears the whole queue of its
// channel.
package ndsp

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Ndsp is a handle on the audio service and its channels.
type Ndsp struct {
	backend Backend
	counter *ServiceCounter
	ref     *ServiceReference
	log     *slog.Logger
	rec     Recorder

	// mu is held for reading across every backend call made through a
	// handle, and for writing by Close.
	mu        sync.RWMutex
	flags     [NumChannels]atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
}

type options struct {
	counter *ServiceCounter
	log     *slog.Logger
	rec     Recorder
}

type Option func(*options)

// WithCounter shares the service through counter instead of DefaultCounter.
// Every Ndsp on one counter must use the same backend.
func WithCounter(counter *ServiceCounter) Option {
	return func(o *options) { o.counter = counter }
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithRecorder(rec Recorder) Option {
	return func(o *options) { o.rec = rec }
}

// Init starts the audio service if this is its first owner and sets the
// output mode to stereo.
func Init(backend Backend, opts ...Option) (*Ndsp, error) {
	o := options{
		counter: DefaultCounter,
		log:     slog.Default(),
		rec:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	ref, err := NewServiceReference(o.counter, false,
		func() error {
			if err := backend.Init(); err != nil {
				return fmt.Errorf("%w: %w", ErrServiceInit, err)
			}
			return nil
		},
		backend.Exit,
	)
	if err != nil {
		o.log.Error("failed to start audio service", "error", err)
		return nil, err
	}

	n := &Ndsp{
		backend: backend,
		counter: o.counter,
		ref:     ref,
		log:     o.log.With("component", "ndsp"),
		rec:     o.rec,
	}
	n.SetOutputMode(OutputStereo)
	n.rec.ServiceOwners(o.counter.Count())
	n.log.Debug("audio service acquired", "owners", o.counter.Count())
	return n, nil
}

// Channel takes exclusive use of channel id. It never blocks: if another
// handle holds the channel it fails with ErrChannelInUse.
func (n *Ndsp) Channel(id uint8) (*Channel, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed.Load() {
		return nil, ErrClosed
	}
	if int(id) >= NumChannels {
		err := &ChannelError{Kind: ErrInvalidChannel, ID: id}
		n.rec.ChannelAcquired(id, err)
		return nil, err
	}
	if !n.flags[id].CompareAndSwap(false, true) {
		err := &ChannelError{Kind: ErrChannelInUse, ID: id}
		n.rec.ChannelAcquired(id, err)
		return nil, err
	}
	n.rec.ChannelAcquired(id, nil)
	n.log.Debug("channel acquired", "channel", id)
	return &Channel{id: id, ndsp: n}, nil
}

// SetOutputMode changes the routing of the final mix. It applies to all
// channels immediately.
func (n *Ndsp) SetOutputMode(mode OutputMode) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed.Load() {
		return
	}
	n.backend.SetOutputMode(mode)
}

func (n *Ndsp) SetMasterVolume(volume float32) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed.Load() {
		return
	}
	n.backend.SetMasterVolume(volume)
}

// SetAuxEnabled routes auxiliary bus 0 or 1 into the output.
func (n *Ndsp) SetAuxEnabled(bus int, enabled bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed.Load() {
		return
	}
	n.backend.AuxSetEnable(bus, enabled)
}

func (n *Ndsp) SetAuxVolume(bus int, volume float32) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed.Load() {
		return
	}
	n.backend.AuxSetVolume(bus, volume)
}

// Close clears the queue of every channel, whether or not a handle still
// holds it, and gives back the service share. Outstanding channel handles
// become inert. Close waits for calls already running on those handles.
func (n *Ndsp) Close() error {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.closed.Store(true)
		for id := range NumChannels {
			n.flags[id].Store(true)
			n.backend.ChnWaveBufClear(id)
			n.rec.QueueCleared(uint8(id), ClearTeardown)
		}
		n.ref.Release()
		n.rec.ServiceOwners(n.counter.Count())
		n.log.Debug("audio service released", "owners", n.counter.Count())
	})
	return nil
}
