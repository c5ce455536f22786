package stream

import (
	"errors"
	"io"

	"github.com/Lundis/go-ndsp/dsp"
	"github.com/Lundis/go-ndsp/loaders"
)

// Source is PCM data in a fixed format.
type Source interface {
	io.Reader
	Format() dsp.AudioFormat
	SampleRate() int
}

// NewSource describes the PCM read from r.
func NewSource(r io.Reader, format dsp.AudioFormat, sampleRate int) Source {
	return &readerSource{Reader: r, format: format, rate: sampleRate}
}

type readerSource struct {
	io.Reader
	format dsp.AudioFormat
	rate   int
}

func (r *readerSource) Format() dsp.AudioFormat { return r.format }
func (r *readerSource) SampleRate() int         { return r.rate }

// MemorySource reads a decoded sound. It can be rewound with Seek.
type MemorySource struct {
	sound *loaders.Sound
	pos   int
}

func NewMemorySource(sound *loaders.Sound) *MemorySource {
	return &MemorySource{sound: sound}
}

func (r *MemorySource) Format() dsp.AudioFormat {
	return r.sound.Format
}

func (r *MemorySource) SampleRate() int {
	return r.sound.SampleRate
}

func (r *MemorySource) Read(p []byte) (n int, err error) {
	data := r.sound.Data
	if r.pos >= len(data) {
		return 0, io.EOF
	}
	n = copy(p, data[r.pos:])
	r.pos += n
	return n, nil
}

// Seek moves the read position. Offsets are in bytes.
func (r *MemorySource) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(r.pos) + offset
	case io.SeekEnd:
		pos = int64(len(r.sound.Data)) + offset
	default:
		return 0, errors.New("stream: invalid whence")
	}
	if pos < 0 {
		return 0, errors.New("stream: negative position")
	}
	r.pos = int(pos)
	return pos, nil
}
