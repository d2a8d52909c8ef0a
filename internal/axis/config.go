/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package axis holds the per-axis view state of a chart and the transform
// engine that moves it. A Domain is an immutable value: every gesture returns a
// new Domain re-derived from the fixed global extent, so there is no drift
// between the visible window and the affine mapping.
package axis

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidClampRange reports a zoom limit configuration that cannot be satisfied.
	ErrInvalidClampRange = errors.New("axis: invalid clamp range")
	// ErrInvalidPadding reports padding fractions that leave no drawable interval.
	ErrInvalidPadding = errors.New("axis: invalid padding")
	// ErrDegenerate is returned by Domain.Check when the axis has no usable extent.
	ErrDegenerate = errors.New("axis: degenerate domain")
)

// Padding reserves fractions of the pixel size at either end of the axis.
// For the horizontal axis Start is the left edge, for the vertical axis the bottom.
type Padding struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Config is the per-axis geometry and zoom limits.
// DeltaMin and DeltaMax bound the visible span in data units; DeltaMax may be +Inf.
type Config struct {
	PixelSize float64 `json:"pixelSize" yaml:"pixel_size"`
	Padding   Padding `json:"padding" yaml:"padding"`
	DeltaMin  float64 `json:"deltaMin" yaml:"delta_min"`
	DeltaMax  float64 `json:"deltaMax" yaml:"delta_max"`
}

// Validate fails fast on configuration mistakes.
func (c Config) Validate() error {
	if math.IsNaN(c.DeltaMin) || math.IsNaN(c.DeltaMax) || c.DeltaMin <= 0 || c.DeltaMax <= 0 || c.DeltaMin > c.DeltaMax || math.IsInf(c.DeltaMin, 0) {
		return fmt.Errorf("%w: deltaMin=%g deltaMax=%g", ErrInvalidClampRange, c.DeltaMin, c.DeltaMax)
	}
	p := c.Padding
	if p.Start < 0 || p.End < 0 || p.Start+p.End >= 1 || math.IsNaN(p.Start) || math.IsNaN(p.End) {
		return fmt.Errorf("%w: start=%g end=%g", ErrInvalidPadding, p.Start, p.End)
	}
	return nil
}

// Left is the first usable pixel coordinate.
func (c Config) Left() float64 { return c.PixelSize * c.Padding.Start }

// Right is the last usable pixel coordinate.
func (c Config) Right() float64 { return c.PixelSize * (1 - c.Padding.End) }

// Width is the usable pixel interval length.
func (c Config) Width() float64 { return c.Right() - c.Left() }
