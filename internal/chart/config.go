/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package chart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gochartview/internal/axis"
)

// ErrInvalidConfig reports chart geometry that cannot be drawn.
var ErrInvalidConfig = errors.New("chart: invalid config")

// AxisConfig is the per-axis part of Config; the pixel size comes from the chart size.
type AxisConfig struct {
	Padding  axis.Padding
	DeltaMin float64
	DeltaMax float64
}

// Config is the chart geometry and interaction tuning.
type Config struct {
	Width, Height int     // drawing surface in device pixels
	Density       float64 // device pixels per pointer pixel
	Precision     int     // tooltip and label fraction digits
	ZoomStep      float64 // relative scale change per wheel notch
	AutoFitY      bool    // re-tighten y to the visible x window after every x change
	TickCount     int     // approximate number of ticks per axis
	XTimeUnit     time.Duration
	X, Y          AxisConfig
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Width:     960,
		Height:    540,
		Density:   1,
		Precision: 2,
		ZoomStep:  0.1,
		AutoFitY:  true,
		TickCount: 6,
		X:         AxisConfig{Padding: axis.Padding{Start: 0.08, End: 0.03}, DeltaMin: 1e-9, DeltaMax: math.Inf(1)},
		Y:         AxisConfig{Padding: axis.Padding{Start: 0.08, End: 0.05}, DeltaMin: 1e-9, DeltaMax: math.Inf(1)},
	}
}

// Validate checks the geometry and both axes.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if !(c.ZoomStep > 0) || c.ZoomStep >= 10 {
		return fmt.Errorf("%w: zoom step %g", ErrInvalidConfig, c.ZoomStep)
	}
	if err := c.xAxis().Validate(); err != nil {
		return fmt.Errorf("x axis: %w", err)
	}
	if err := c.yAxis().Validate(); err != nil {
		return fmt.Errorf("y axis: %w", err)
	}
	return nil
}

func (c Config) xAxis() axis.Config {
	return axis.Config{PixelSize: float64(c.Width), Padding: c.X.Padding, DeltaMin: c.X.DeltaMin, DeltaMax: c.X.DeltaMax}
}

// yAxis measures pixels upward from the bottom edge; Padding.Start is the bottom margin.
func (c Config) yAxis() axis.Config {
	return axis.Config{PixelSize: float64(c.Height), Padding: c.Y.Padding, DeltaMin: c.Y.DeltaMin, DeltaMax: c.Y.DeltaMax}
}

func (c Config) density() float64 {
	if c.Density > 0 {
		return c.Density
	}
	return 1
}
