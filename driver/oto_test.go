//go:build !headless

package driver

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOtoDriver_ReadEncodesWholeFrames(t *testing.T) {
	d := &otoDriver{src: &countingSource{value: 0.25}}

	p := make([]byte, 20)
	n, err := d.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, 16, n)
	for i := 0; i < n; i += 4 {
		assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(p[i:])))
	}

	n, err = d.Read(make([]byte, 7))
	assert.NoError(t, err)
	assert.Zero(t, n)
}
