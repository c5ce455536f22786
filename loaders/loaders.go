// Package loaders decodes audio files into sample buffers ready to be
// queued on a DSP channel.
//
// Decoders register themselves by file extension. Import them for their
// side effect:
//
//	import _ "github.com/Lundis/go-ndsp/loaders/wav"
package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Lundis/go-ndsp/dsp"
)

// Sound is a decoded file.
type Sound struct {
	// Data holds signed little endian PCM in Format.
	Data       []byte
	Format     dsp.AudioFormat
	SampleRate int
}

// Samples returns the number of samples per channel.
func (s *Sound) Samples() uint32 {
	size := s.Format.SampleSize()
	if size == 0 {
		return 0
	}
	return uint32(len(s.Data) / size)
}

func (s *Sound) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(s.Samples()) * time.Second / time.Duration(s.SampleRate)
}

// DecodeFunc decodes a whole file held in memory.
type DecodeFunc func(data []byte) (*Sound, error)

var (
	decodersMu sync.RWMutex
	decoders   = map[string]DecodeFunc{}
)

// Register makes a decoder available for files with extension ext, which
// includes the leading dot.
func Register(ext string, decode DecodeFunc) {
	decodersMu.Lock()
	defer decodersMu.Unlock()
	decoders[strings.ToLower(ext)] = decode
}

// Decode picks a decoder by the extension of name.
func Decode(name string, data []byte) (*Sound, error) {
	ext := strings.ToLower(filepath.Ext(name))
	decodersMu.RLock()
	decode, ok := decoders[ext]
	decodersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: no decoder for %q files", name, ext)
	}
	s, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

func LoadFile(path string) (*Sound, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open: %w", path, err)
	}
	return Decode(path, data)
}
