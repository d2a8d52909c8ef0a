/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the data model shared by the chart engine: numeric
// extents, raw series data in its four supported shapes, and the points the
// series adapters hand out to renderers.
package domain

import "math"

// Extent is a closed interval [Min, Max] over one dimension.
// The zero value is the degenerate interval [0, 0]; use EmptyExtent for "no data".
type Extent struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// EmptyExtent returns the identity element for Include/Union (Min=+Inf, Max=-Inf).
func EmptyExtent() Extent { return Extent{Min: math.Inf(1), Max: math.Inf(-1)} }

// ExtentOf reduces values to their min/max, skipping NaN.
func ExtentOf(values ...float64) Extent {
	e := EmptyExtent()
	for _, v := range values {
		e = e.Include(v)
	}
	return e
}

// Include widens e so it contains v. NaN and infinities are ignored.
func (e Extent) Include(v float64) Extent {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return e
	}
	if v < e.Min {
		e.Min = v
	}
	if v > e.Max {
		e.Max = v
	}
	return e
}

// Union returns the smallest extent containing both e and o.
func (e Extent) Union(o Extent) Extent {
	if o.Empty() {
		return e
	}
	if e.Empty() {
		return o
	}
	return Extent{Min: math.Min(e.Min, o.Min), Max: math.Max(e.Max, o.Max)}
}

// Empty reports whether no value has been included.
func (e Extent) Empty() bool { return !(e.Min <= e.Max) }

// Degenerate reports whether e has no usable width (empty or Min == Max).
func (e Extent) Degenerate() bool { return e.Empty() || e.Max-e.Min <= 0 }

// Span is Max-Min, or 0 for empty extents.
func (e Extent) Span() float64 {
	if e.Empty() {
		return 0
	}
	return e.Max - e.Min
}

// Contains reports whether v lies inside the closed interval.
func (e Extent) Contains(v float64) bool { return v >= e.Min && v <= e.Max }

// Clamp limits v to [Min, Max].
func (e Extent) Clamp(v float64) float64 { return Clamp(v, e.Min, e.Max) }

// Clamp limits v to [lo, hi]. When lo > hi, hi wins, matching how the axis
// engine orders its lower and upper guards.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// Bounds pairs the x and y extents of a series or a window.
type Bounds struct {
	X Extent `json:"x" yaml:"x"`
	Y Extent `json:"y" yaml:"y"`
}

// EmptyBounds returns bounds with both extents empty.
func EmptyBounds() Bounds { return Bounds{X: EmptyExtent(), Y: EmptyExtent()} }

// Union merges two bounds per axis.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{X: b.X.Union(o.X), Y: b.Y.Union(o.Y)}
}

// Range selects a window of a record collection as fractions of its length.
// Start and End are in [0, 1] with Start <= End.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// FullRange covers the whole collection.
var FullRange = Range{Start: 0, End: 1}

// Normalize clamps both ends to [0,1] and orders them.
func (r Range) Normalize() Range {
	s := Clamp(r.Start, 0, 1)
	e := Clamp(r.End, 0, 1)
	if math.IsNaN(s) {
		s = 0
	}
	if math.IsNaN(e) {
		e = 1
	}
	if s > e {
		s, e = e, s
	}
	return Range{Start: s, End: e}
}

// Slice returns the [lo, hi) index bounds the range selects in a collection of n items:
// [floor(n*Start), ceil(n*End)).
func (r Range) Slice(n int) (lo, hi int) {
	r = r.Normalize()
	lo = int(math.Floor(float64(n) * r.Start))
	hi = int(math.Ceil(float64(n) * r.End))
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// Point is a data-space coordinate handed to renderers.
// Valid is false when the record's value is null; X is still meaningful then.
type Point struct {
	X     float64
	Y     float64
	Valid bool
}
