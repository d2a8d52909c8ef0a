/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package axis

import (
	"math"

	"gochartview/internal/domain"
)

// Mapping is a one-dimensional affine pair: pixel = Scale*value + Translate.
type Mapping struct {
	Scale     float64 `json:"scale"`
	Translate float64 `json:"translate"`
}

// Domain is the view state of one axis.
//
//	Global  union of every attached series' extent, fixed after Init
//	Base    the mapping that fits Global onto the usable pixel interval
//	Local   the visible sub-extent of Global
//	Delta   zoom/pan correction layered on Base
//
// The effective mapping is Base+Delta. Local is always re-derived from it.
type Domain struct {
	Config Config        `json:"config"`
	Global domain.Extent `json:"global"`
	Base   Mapping       `json:"base"`
	Local  domain.Extent `json:"local"`
	Delta  Mapping       `json:"delta"`
}

// Init builds the domain for the given series extents. When the dataset is
// wider than DeltaMax the initial window shows the last DeltaMax of it.
//
// Init fails only on configuration errors. Empty input or a zero-width union
// yields a degenerate domain on which every gesture is a no-op.
func Init(extents []domain.Extent, cfg Config) (Domain, error) {
	if err := cfg.Validate(); err != nil {
		return Domain{}, err
	}
	g := domain.EmptyExtent()
	for _, e := range extents {
		g = g.Union(e)
	}
	d := Domain{Config: cfg, Global: g, Local: g}
	if d.Degenerate() {
		return d, nil
	}
	span := g.Span()
	d.Base.Scale = cfg.Width() / span
	d.Base.Translate = cfg.Left() - d.Base.Scale*g.Min
	return d.initial(), nil
}

// initial is the window Init shows: all of Global, or its last DeltaMax.
func (d Domain) initial() Domain {
	d.Delta = Mapping{}
	d.Local = d.Global
	if d.Global.Span() > d.Config.DeltaMax {
		return d.Focus(domain.Extent{Min: d.Global.Max - d.Config.DeltaMax, Max: d.Global.Max})
	}
	return d
}

// Reset returns to the initial window.
func (d Domain) Reset() Domain {
	if d.Degenerate() {
		return d
	}
	return d.initial()
}

// Degenerate reports whether the axis has no valid transform.
func (d Domain) Degenerate() bool {
	if d.Global.Degenerate() || math.IsInf(d.Global.Min, 0) || math.IsInf(d.Global.Max, 0) {
		return true
	}
	w := d.Config.Width()
	return !(w > 0) || math.IsInf(w, 0)
}

// Check returns ErrDegenerate for a degenerate domain.
func (d Domain) Check() error {
	if d.Degenerate() {
		return ErrDegenerate
	}
	return nil
}

// Scale is the effective data-to-pixel scale a.
func (d Domain) Scale() float64 { return d.Base.Scale + d.Delta.Scale }

// Translate is the effective data-to-pixel translation e.
func (d Domain) Translate() float64 { return d.Base.Translate + d.Delta.Translate }

// ToPixel maps a data value to the pixel axis.
func (d Domain) ToPixel(v float64) float64 { return d.Scale()*v + d.Translate() }

// FromPixel inverts ToPixel. It returns NaN on a degenerate domain.
func (d Domain) FromPixel(p float64) float64 {
	if d.Degenerate() {
		return math.NaN()
	}
	return (p - d.Translate()) / d.Scale()
}

// Window is the visible extent.
func (d Domain) Window() domain.Extent { return d.Local }

// Fraction expresses the visible window as a [0,1] range over Global.
func (d Domain) Fraction() domain.Range {
	if d.Degenerate() {
		return domain.FullRange
	}
	s := d.Global.Span()
	return domain.Range{Start: (d.Local.Min - d.Global.Min) / s, End: (d.Local.Max - d.Global.Min) / s}.Normalize()
}

// SpanLimits returns the visible-span bounds actually enforced: the configured
// limits capped at the global span.
func (d Domain) SpanLimits() (lo, hi float64) {
	span := d.Global.Span()
	return math.Min(d.Config.DeltaMin, span), math.Min(d.Config.DeltaMax, span)
}

// AtMin reports whether the window touches the start of the data.
func (d Domain) AtMin() bool { return d.Local.Min == d.Global.Min }

// AtMax reports whether the window touches the end of the data.
func (d Domain) AtMax() bool { return d.Local.Max == d.Global.Max }

// Resize re-fits the domain to a new pixel size, keeping the visible window.
func (d Domain) Resize(pixelSize float64) Domain {
	if pixelSize == d.Config.PixelSize {
		return d
	}
	cfg := d.Config
	cfg.PixelSize = pixelSize
	n := Domain{Config: cfg, Global: d.Global, Local: d.Global}
	if n.Degenerate() {
		return n
	}
	n.Base.Scale = cfg.Width() / d.Global.Span()
	n.Base.Translate = cfg.Left() - n.Base.Scale*d.Global.Min
	if d.Degenerate() {
		return n.initial()
	}
	return n.Focus(d.Local)
}
