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

// snapTolerance is the relative distance to a boundary below which a derived
// window edge is set to the boundary exactly.
const snapTolerance = 1e-9

// Rescale applies a zoom delta ds to Delta.Scale (positive zooms in). The
// result keeps the right edge of the window anchored and the visible span
// within SpanLimits.
func (d Domain) Rescale(ds float64) Domain {
	if ds == 0 || math.IsNaN(ds) || d.Degenerate() {
		return d
	}
	w := d.Config.Width()
	span := d.Global.Span()
	gmin, gmax := d.Global.Min, d.Global.Max
	dMin, dMax := d.SpanLimits()

	n := d
	n.Delta.Scale = domain.Clamp(d.Delta.Scale+ds, w*(1/dMax-1/span), w*(1/dMin-1/span))
	if n.Delta.Scale == d.Delta.Scale {
		return d
	}

	localMin := domain.Clamp(d.Local.Max-1/(1/span+n.Delta.Scale/w), gmin, gmax-dMin)
	n.Delta.Translate += d.Config.Left() - localMin*n.Scale() - d.Translate()
	return n.derive(false, false)
}

// Retranslate applies a pixel-space pan delta dt to Delta.Translate. Positive
// dt moves the content right, revealing earlier data. The window stops hard
// at either end of the data; a window already covering all of it does not pan.
func (d Domain) Retranslate(dt float64) Domain {
	if dt == 0 || math.IsNaN(dt) || d.Degenerate() {
		return d
	}
	gmin, gmax := d.Global.Min, d.Global.Max

	n := d
	n.Delta.Translate += dt
	m, offset := n.multiplier()
	high := math.Min(0, gmax*(1-m)+offset)
	low := math.Max(0, gmin*(1-m)+offset)
	if high != 0 && low != 0 {
		return d
	}
	n.Delta.Translate -= (high + low) * n.Scale()
	n = n.derive(low != 0, high != 0)
	if n == d {
		return d
	}
	return n
}

// Focus places the window on e, clamped into Global with its span forced into
// SpanLimits. A window that is too wide keeps its upper end.
func (d Domain) Focus(e domain.Extent) Domain {
	if d.Degenerate() || e.Empty() {
		return d
	}
	gmin, gmax := d.Global.Min, d.Global.Max
	dMin, dMax := d.SpanLimits()

	lo, hi := d.Global.Clamp(e.Min), d.Global.Clamp(e.Max)
	switch s := hi - lo; {
	case s > dMax:
		lo = hi - dMax
	case s < dMin:
		c := lo + s/2
		lo, hi = c-dMin/2, c+dMin/2
		if lo < gmin {
			lo, hi = gmin, gmin+dMin
		}
		if hi > gmax {
			lo, hi = gmax-dMin, gmax
		}
	}

	w := d.Config.Width()
	span := d.Global.Span()
	local := hi - lo
	n := d
	n.Delta.Scale = w * (1/local - 1/span)
	n.Delta.Translate = w * (gmin/span - lo/local)
	n.Local = domain.Extent{Min: lo, Max: hi}
	return n
}

// multiplier returns Base.Scale/Scale and Delta.Translate/Scale, the factors
// that map Global onto the visible window: local = m*global - offset.
func (d Domain) multiplier() (m, offset float64) {
	w := d.Config.Width()
	m = w / (w + d.Delta.Scale*d.Global.Span())
	offset = m * d.Delta.Translate / d.Base.Scale
	return m, offset
}

// derive recomputes Local from Base+Delta, clamped into Global with the
// minimum span kept at both ends. snapMin/snapMax pin an edge that a pan
// clamped against.
func (d Domain) derive(snapMin, snapMax bool) Domain {
	gmin, gmax := d.Global.Min, d.Global.Max
	dMin, _ := d.SpanLimits()
	m, offset := d.multiplier()

	hi := domain.Clamp(m*gmax-offset, gmin+dMin, gmax)
	lo := domain.Clamp(m*gmin-offset, gmin, gmax-dMin)

	tol := snapTolerance * d.Global.Span()
	if snapMax || gmax-hi <= tol {
		hi = gmax
	}
	if snapMin || lo-gmin <= tol {
		lo = gmin
	}
	d.Local = domain.Extent{Min: lo, Max: hi}
	return d
}
