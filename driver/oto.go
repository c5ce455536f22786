// Copyright 2025 Lundis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !headless

package driver

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/Lundis/go-ndsp/dsp"
)

// oto allows a single context per process. It is created on first use and
// kept for the lifetime of the process.
var (
	contextCreationMutex sync.Mutex
	otoContext           *oto.Context
	otoReady             chan struct{}
	otoSampleRate        int
)

func sharedContext(opts Options) (*oto.Context, chan struct{}, error) {
	contextCreationMutex.Lock()
	defer contextCreationMutex.Unlock()

	if otoContext != nil {
		if otoSampleRate != opts.SampleRate {
			return nil, nil, fmt.Errorf("driver: oto context already runs at %d Hz, not %d Hz", otoSampleRate, opts.SampleRate)
		}
		return otoContext, otoReady, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatFloat32LE,
		BufferSize:   opts.BufferSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errDeviceNotFound, err)
	}
	otoContext, otoReady, otoSampleRate = ctx, ready, opts.SampleRate
	return ctx, ready, nil
}

type otoDriver struct {
	ctx     *oto.Context
	src     dsp.Source
	samples []float32

	m      sync.Mutex
	player *oto.Player
	closed bool
	err    firstError
	ready  chan struct{}
}

func newOtoDriver(src dsp.Source, opts Options) (*otoDriver, error) {
	ctx, ready, err := sharedContext(opts)
	if err != nil {
		return nil, err
	}
	d := &otoDriver{
		ctx:   ctx,
		src:   src,
		ready: make(chan struct{}),
	}

	// Initializing the device might take some time. Do this asynchronously.
	go func() {
		defer close(d.ready)
		<-ready
		if err := ctx.Err(); err != nil {
			d.err.Set(fmt.Errorf("driver: oto initialization failed: %w", err))
			return
		}
		d.m.Lock()
		defer d.m.Unlock()
		if d.closed {
			return
		}
		d.player = ctx.NewPlayer(d)
		d.player.Play()
	}()
	return d, nil
}

// Read implements io.Reader for the oto player. Only whole stereo frames are produced.
func (d *otoDriver) Read(p []byte) (int, error) {
	const frameSize = 4 * ChannelCount
	n := len(p) / frameSize * ChannelCount
	if n == 0 {
		return 0, nil
	}
	if cap(d.samples) < n {
		d.samples = make([]float32, n)
	}
	samples := d.samples[:n]
	d.src.ReadFloat32s(samples)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}

func (d *otoDriver) Err() error {
	d.m.Lock()
	if d.player != nil {
		d.err.Set(d.player.Err())
	}
	d.m.Unlock()
	return d.err.Err()
}

// Close stops the player. The shared oto context stays alive.
func (d *otoDriver) Close() error {
	<-d.ready
	d.m.Lock()
	defer d.m.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	return err
}
