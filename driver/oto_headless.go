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

//go:build headless

package driver

import (
	"errors"
	"fmt"

	"github.com/Lundis/go-ndsp/dsp"
)

type otoDriver struct{}

func newOtoDriver(dsp.Source, Options) (*otoDriver, error) {
	return nil, fmt.Errorf("%w: %w", errDeviceNotFound, errors.New("built with the headless tag"))
}

func (*otoDriver) Err() error   { return nil }
func (*otoDriver) Close() error { return nil }
