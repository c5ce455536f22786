// Package oggvorbis decodes Ogg Vorbis files to 16 bit PCM.
package oggvorbis

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jfreymuth/oggvorbis"

	"github.com/Lundis/go-ndsp/dsp"
	"github.com/Lundis/go-ndsp/loaders"
)

func init() {
	loaders.Register(".ogg", Load)
}

func Load(oggData []byte) (*loaders.Sound, error) {
	data, format, err := oggvorbis.ReadAll(bytes.NewReader(oggData))
	if err != nil {
		return nil, fmt.Errorf("oggvorbis: %w", err)
	}
	pcm, err := dsp.FormatFor(format.Channels, 16)
	if err != nil {
		return nil, fmt.Errorf("oggvorbis: number of channels must be 1 or 2 but was %d", format.Channels)
	}
	return &loaders.Sound{
		Data:       toPCM16(data),
		Format:     pcm,
		SampleRate: format.SampleRate,
	}, nil
}

func toPCM16(samples []float32) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		v := math.Round(float64(s) * math.MaxInt16)
		v = max(min(v, math.MaxInt16), math.MinInt16)
		out = binary.LittleEndian.AppendUint16(out, uint16(int16(v)))
	}
	return out
}
