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

// Package driver pulls mixed audio out of the DSP and plays it.
package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Lundis/go-ndsp/dsp"
)

// ChannelCount is the number of interleaved output channels. The DSP
// always produces stereo.
const ChannelCount = 2

const (
	NameAuto = "auto"
	NameOto  = "oto"
	NameNull = "null"
)

var errDeviceNotFound = errors.New("driver: device not found")

// Options represents options for Open.
type Options struct {
	// Name selects the driver. NameAuto tries oto and falls back to the null
	// driver when no device is available.
	Name string

	// SampleRate specifies the number of samples that should be played during one second.
	// It must match the DSP's rate.
	SampleRate int

	// BufferSize specifies a buffer size in the underlying device.
	//
	// If 0 is specified, the driver's default buffer size is used.
	// Too big buffer size can increase the latency time.
	// On the other hand, too small buffer size can cause glitch noises due to buffer shortage.
	BufferSize time.Duration

	Logger *slog.Logger
}

// Driver is a running output.
type Driver interface {
	io.Closer
	// Err returns the first asynchronous failure of the output, if any.
	Err() error
}

// Open starts pulling samples from src.
func Open(src dsp.Source, opts Options) (Driver, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("driver: invalid sample rate %d", opts.SampleRate)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	log := opts.Logger.With("component", "driver")

	switch opts.Name {
	case NameNull:
		return newNullDriver(src, opts), nil
	case NameOto:
		d, err := newOtoDriver(src, opts)
		if err != nil {
			return nil, err
		}
		return d, nil
	case NameAuto, "":
		d, err := newOtoDriver(src, opts)
		if err == nil {
			return d, nil
		}
		log.Warn("no audio device, falling back to null driver", "error", err)
		return newNullDriver(src, opts), nil
	}
	return nil, fmt.Errorf("driver: unknown driver %q", opts.Name)
}

// Opener adapts Open to dsp.Config.Open.
func Opener(opts Options) func(src dsp.Source) (io.Closer, error) {
	return func(src dsp.Source) (io.Closer, error) {
		return Open(src, opts)
	}
}
