// Package wav decodes linear PCM WAV (RIFF) files.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/wav"

	"github.com/Lundis/go-ndsp/dsp"
	"github.com/Lundis/go-ndsp/loaders"
)

const formatPCM = 1

func init() {
	loaders.Register(".wav", Load)
}

// Load decodes a mono or stereo WAV file. 8 bit files keep their depth;
// deeper files are reduced to 16 bit.
func Load(data []byte) (*loaders.Sound, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("wav: invalid file: %w", err)
		}
		return nil, errors.New("wav: invalid header: 'RIFF' or 'WAVE' not found")
	}
	if d.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("wav: format must be linear PCM but was %d", d.WavAudioFormat)
	}
	bitDepth := int(d.BitDepth)
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("wav: unsupported bits per sample %d", bitDepth)
	}
	outDepth := min(bitDepth, 16)
	format, err := dsp.FormatFor(int(d.NumChans), outDepth)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: failed to read samples: %w", err)
	}

	out := make([]byte, 0, len(buf.Data)*outDepth/8)
	for _, v := range buf.Data {
		switch bitDepth {
		case 8:
			// WAV stores 8 bit samples unsigned.
			out = append(out, byte(int8(v-128)))
		default:
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(v>>(bitDepth-16))))
		}
	}

	return &loaders.Sound{
		Data:       out,
		Format:     format,
		SampleRate: int(d.SampleRate),
	}, nil
}
