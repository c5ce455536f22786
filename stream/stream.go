// Package stream plays a long source on one channel through two wave
// buffers that are refilled as the DSP finishes them.
package stream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Lundis/go-ndsp/ndsp"
)

// DefaultBufferSamples is used when New is given no buffer size.
const DefaultBufferSamples = 4096

// Streamer feeds a Source to a channel. It does not own the channel.
//
// The DSP plays buffers in FIFO order, so the buffers are refilled
// strictly alternately. Call Process regularly, well within the duration
// of one buffer.
type Streamer struct {
	ch   *ndsp.Channel
	src  Source
	loop bool
	log  *slog.Logger

	waves [2]*ndsp.WaveInfo
	next  int
	eof   bool
}

type Option func(*Streamer)

// WithLoop restarts the source when it ends. The source must implement
// io.Seeker.
func WithLoop() Option {
	return func(s *Streamer) { s.loop = true }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Streamer) { s.log = log }
}

// New prepares a stream of src on ch with buffers of bufferSamples
// samples each.
func New(ch *ndsp.Channel, src Source, bufferSamples int, opts ...Option) (*Streamer, error) {
	if bufferSamples <= 0 {
		bufferSamples = DefaultBufferSamples
	}
	size := src.Format().SampleSize()
	if size == 0 {
		return nil, fmt.Errorf("stream: invalid format %v", src.Format())
	}
	s := &Streamer{
		ch:  ch,
		src: src,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := src.(io.Seeker); s.loop && !ok {
		return nil, errors.New("stream: looping needs a seekable source")
	}
	for i := range s.waves {
		s.waves[i] = ndsp.NewWaveInfo(make([]byte, bufferSamples*size), src.Format(), false)
	}
	s.log = s.log.With("component", "stream", "channel", ch.ID())
	return s, nil
}

// Start configures the channel for the source and queues both buffers.
func (s *Streamer) Start() error {
	s.ch.SetFormat(s.src.Format())
	s.ch.SetSampleRate(float32(s.src.SampleRate()))
	_, err := s.Process()
	return err
}

// Process refills and queues every buffer the DSP is done with. It reports
// whether the stream is still playing.
func (s *Streamer) Process() (bool, error) {
	for range s.waves {
		w := s.waves[s.next]
		if w.Status().InFlight() || s.eof {
			break
		}
		queued, err := s.fill(w)
		if err != nil {
			return s.playing(), err
		}
		if !queued {
			break
		}
		s.next ^= 1
	}
	return s.playing(), nil
}

func (s *Streamer) playing() bool {
	if !s.eof {
		return true
	}
	for _, w := range s.waves {
		if w.Status().InFlight() {
			return true
		}
	}
	return false
}

// fill reads the next block into w and queues it.
func (s *Streamer) fill(w *ndsp.WaveInfo) (bool, error) {
	buf, err := w.Buffer()
	if err != nil {
		return false, err
	}
	size := w.Format().SampleSize()

	n := 0
	for n < len(buf) {
		m, err := io.ReadFull(s.src, buf[n:])
		n += m
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return false, fmt.Errorf("stream: read: %w", err)
		}
		if !s.loop || m == 0 && n == 0 && s.rewound() {
			s.eof = true
			break
		}
		if err := s.rewind(); err != nil {
			return false, err
		}
	}

	samples := uint32(n / size)
	if samples == 0 {
		s.eof = true
		return false, nil
	}
	if err := w.SetSampleCount(samples); err != nil {
		return false, err
	}
	if err := s.ch.QueueWave(w); err != nil {
		return false, err
	}
	return true, nil
}

// rewound reports whether the source is empty even right after a rewind.
func (s *Streamer) rewound() bool {
	pos, err := s.src.(io.Seeker).Seek(0, io.SeekCurrent)
	return err == nil && pos == 0
}

func (s *Streamer) rewind() error {
	if _, err := s.src.(io.Seeker).Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("stream: rewind: %w", err)
	}
	s.log.Debug("stream looped")
	return nil
}

// Close releases the buffers. If the stream is still playing the channel
// queue is cleared.
func (s *Streamer) Close() error {
	for _, w := range s.waves {
		if w.Status().InFlight() {
			s.ch.ClearQueue()
			break
		}
	}
	var errs []error
	for _, w := range s.waves {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}
