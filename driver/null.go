// Copyright 2022 The Oto Authors
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

package driver

import (
	"sync"
	"time"

	"github.com/Lundis/go-ndsp/dsp"
)

const defaultNullBufferSamples = 4096

// nullDriver consumes samples at real-time speed and discards them.
type nullDriver struct {
	src  dsp.Source
	buf  []float32
	tick time.Duration

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newNullDriver(src dsp.Source, opts Options) *nullDriver {
	n := defaultNullBufferSamples
	if opts.BufferSize > 0 {
		n = int(int64(opts.BufferSize) * int64(opts.SampleRate) * ChannelCount / int64(time.Second))
		n = max(n/ChannelCount*ChannelCount, ChannelCount)
	}
	d := &nullDriver{
		src:  src,
		buf:  make([]float32, n),
		tick: time.Duration(float64(time.Second) * float64(n) / float64(ChannelCount) / float64(opts.SampleRate)),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *nullDriver) loop() {
	defer close(d.done)
	t := time.NewTicker(d.tick)
	defer t.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-t.C:
			d.src.ReadFloat32s(d.buf)
		}
	}
}

func (d *nullDriver) Err() error {
	return nil
}

// Close stops the loop and waits for it to exit.
func (d *nullDriver) Close() error {
	d.closeOnce.Do(func() { close(d.stop) })
	<-d.done
	return nil
}
