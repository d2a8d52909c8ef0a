/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package chart

import (
	"math"

	"gochartview/internal/domain"
)

type fitKey struct {
	series int
	lo, hi int
}

// fitY focuses the y axis on the values visible in v's x window. Localized
// extents are cached per series and index window, since panning inside one
// sample slot leaves them unchanged.
func (c *Chart) fitY(v View) View {
	if v.X.Degenerate() || v.Y.Degenerate() {
		return v
	}
	w := v.X.Window()
	e := domain.EmptyExtent()
	for i, a := range c.series {
		if c.hidden[a.Name()] {
			continue
		}
		r := a.RangeOf(w.Min, w.Max)
		lo, hi := r.Slice(a.Len())
		key := fitKey{series: i, lo: lo, hi: hi}
		if cached, ok := c.fits.Get(key); ok {
			e = e.Union(cached.(domain.Extent))
			continue
		}
		y := a.Localize(r).Y
		c.fits.Add(key, y)
		e = e.Union(y)
	}
	if e.Empty() {
		return v
	}
	v.Y = v.Y.Focus(padExtent(e))
	return v
}

// padExtent widens e by 10% of its span, with fixed pads for flat data,
// and does not cross zero for non-negative data.
func padExtent(e domain.Extent) domain.Extent {
	if e.Empty() {
		return e
	}
	var pad float64
	if span := e.Span(); span == 0 {
		switch abs := math.Abs(e.Max); {
		case abs < 0.001:
			pad = 0.0001
		case abs < 0.1:
			pad = abs * 0.1
		default:
			pad = 0.1
		}
	} else {
		pad = math.Max(span*0.1, 1e-6)
	}
	out := domain.Extent{Min: e.Min - pad, Max: e.Max + pad}
	if e.Min >= 0 && out.Min < 0 {
		out.Min = 0
	}
	return out
}
