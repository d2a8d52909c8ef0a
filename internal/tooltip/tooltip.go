/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tooltip resolves a pointer position to the series values under it.
package tooltip

import (
	"math"
	"strconv"
	"strings"

	"gochartview/internal/series"
	"gochartview/internal/vector"
)

// Entry is one display-ready tooltip line.
type Entry struct {
	Series string
	Index  int
	X      float64
	Value  float64 // rounded to the resolver's precision
	Text   string
	Marker vector.Pt // pixel position of the sample, for a highlight dot
	// Fields holds the other numeric fields of a keyed record, by name.
	Fields []Field
}

// Field is one extra record value, rounded like Value.
type Field struct {
	Name  string
	Value float64
	Text  string
}

// Label is Text followed by the extra fields, if any.
func (e Entry) Label() string {
	if len(e.Fields) == 0 {
		return e.Text
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Name + "=" + f.Text
	}
	return e.Text + " (" + strings.Join(parts, ", ") + ")"
}

// Resolver inverts the chart transform for pointer positions. Density is the
// device-pixel ratio between pointer coordinates and drawing coordinates.
type Resolver struct {
	Density   float64
	Precision int
}

// DataX converts a pointer x to data space under m.
func (r Resolver) DataX(m vector.Affine, pixelX float64) (float64, bool) {
	if m.A == 0 || math.IsNaN(m.A) || math.IsInf(m.A, 0) {
		return 0, false
	}
	d := r.Density
	if d <= 0 {
		d = 1
	}
	inv, ok := vector.Affine{A: m.A, D: 1, E: m.E}.Invert()
	if !ok {
		return 0, false
	}
	return inv.Apply(vector.Pt{X: pixelX * d}).X, true
}

// Resolve returns the value of a under pointer x. ok is false when x maps
// outside the series or the sample there is null.
func (r Resolver) Resolve(a series.Adapter, m vector.Affine, pixelX float64) (Entry, bool) {
	x, ok := r.DataX(m, pixelX)
	if !ok {
		return Entry{}, false
	}
	i, ok := a.Locate(x)
	if !ok {
		return Entry{}, false
	}
	p := a.Point(i)
	if !p.Valid {
		return Entry{}, false
	}
	v := vector.FloatRound(p.Y, r.Precision)
	e := Entry{
		Series: a.Name(),
		Index:  i,
		X:      p.X,
		Value:  v,
		Text:   r.Format(v),
		Marker: m.Apply(vector.Pt{X: p.X, Y: p.Y}),
	}
	if fa, ok := a.(series.Fielded); ok {
		for _, f := range fa.Fields(i) {
			fv := vector.FloatRound(f.Value, r.Precision)
			e.Fields = append(e.Fields, Field{Name: f.Name, Value: fv, Text: r.Format(fv)})
		}
	}
	return e, true
}

// List resolves every adapter, skipping the ones with nothing under x.
func (r Resolver) List(list []series.Adapter, m vector.Affine, pixelX float64) []Entry {
	var out []Entry
	for _, a := range list {
		if e, ok := r.Resolve(a, m, pixelX); ok {
			out = append(out, e)
		}
	}
	return out
}

// Format renders v with the configured precision.
func (r Resolver) Format(v float64) string {
	p := r.Precision
	if p < 0 {
		p = -1
	}
	return strconv.FormatFloat(v, 'f', p, 64)
}
