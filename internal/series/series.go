/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package series adapts raw series data in any of the four supported shapes to
// one read-only interface. The variant is chosen once in New; nothing
// re-dispatches on the shape tag afterwards.
package series

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"gochartview/internal/domain"
)

var (
	ErrUnknownShape      = errors.New("series: unknown shape")
	ErrMissingValueField = errors.New("series: value field required for keyed records")
	ErrShapeMismatch     = errors.New("series: data layout does not match shape")
)

// Adapter is the uniform view over one series.
type Adapter interface {
	Name() string
	Shape() domain.Shape
	Len() int
	// Bounds is the global extent, computed once at construction.
	// Null values do not contribute to Y.
	Bounds() domain.Bounds
	// Point returns sample i. Valid is false for a null value or an index out of range.
	Point(i int) domain.Point
	// Localize returns the bounds of the records selected by r
	// ([floor(n*Start), ceil(n*End))). Y ignores nulls and is empty when the
	// window holds no values.
	Localize(r domain.Range) domain.Bounds
	// RangeOf converts a data-space x window into the fraction Localize expects.
	RangeOf(lo, hi float64) domain.Range
	// Locate finds the record index for a data-space x.
	Locate(x float64) (int, bool)
}

// Field is one named numeric value of a keyed record.
type Field struct {
	Name  string
	Value float64
}

// Fielded is implemented by the keyed-record shapes.
type Fielded interface {
	// Fields returns the numeric fields of record i besides the value field
	// and the timestamp.
	Fields(i int) []Field
}

// New picks the adapter for raw. An empty shape is detected from the data.
func New(raw domain.RawSeries) (Adapter, error) {
	shape := raw.Shape
	if shape == domain.ShapeUnknown {
		shape = Detect(raw)
	}
	switch shape {
	case domain.ShapePointIndexed, domain.ShapePointTimestamped:
		if len(raw.Records) > 0 {
			return nil, fmt.Errorf("%w: series %q is %s but holds records", ErrShapeMismatch, raw.Name, shape)
		}
	case domain.ShapeObjectIndexed, domain.ShapeObjectTimestamped:
		if len(raw.Pairs) > 0 {
			return nil, fmt.Errorf("%w: series %q is %s but holds pairs", ErrShapeMismatch, raw.Name, shape)
		}
	}
	switch shape {
	case domain.ShapePointIndexed:
		return newPointIndexed(raw.Name, raw.Pairs), nil
	case domain.ShapePointTimestamped:
		return newPointTimestamped(raw.Name, raw.Pairs), nil
	case domain.ShapeObjectIndexed:
		field, err := valueField(raw)
		if err != nil {
			return nil, err
		}
		return newObjectIndexed(raw.Name, field, raw.Records), nil
	case domain.ShapeObjectTimestamped:
		field, err := valueField(raw)
		if err != nil {
			return nil, err
		}
		return newObjectTimestamped(raw.Name, field, raw.Records), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, string(shape))
}

// NewAll builds adapters for every raw series, stopping at the first error.
func NewAll(raws []domain.RawSeries) ([]Adapter, error) {
	out := make([]Adapter, 0, len(raws))
	for _, r := range raws {
		a, err := New(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Detect infers the shape of raw data. Pairs whose x equals their index are
// PointIndexed; records carrying a timestamp field are ObjectTimestamped.
func Detect(raw domain.RawSeries) domain.Shape {
	if len(raw.Records) > 0 {
		for _, r := range raw.Records {
			if _, ok := r.Float(domain.TimestampField); ok {
				return domain.ShapeObjectTimestamped
			}
		}
		return domain.ShapeObjectIndexed
	}
	for i, p := range raw.Pairs {
		if p[0] != nil && *p[0] != float64(i) {
			return domain.ShapePointTimestamped
		}
	}
	return domain.ShapePointIndexed
}

// valueField returns the configured field or, when exactly one numeric
// non-timestamp field exists in the first record, that one.
func valueField(raw domain.RawSeries) (string, error) {
	if raw.ValueField != "" {
		return raw.ValueField, nil
	}
	if len(raw.Records) > 0 {
		var found []string
		for k := range raw.Records[0] {
			if k == domain.TimestampField {
				continue
			}
			if _, ok := raw.Records[0].Float(k); ok {
				found = append(found, k)
			}
		}
		if len(found) == 1 {
			return found[0], nil
		}
	}
	return "", fmt.Errorf("%w: series %q", ErrMissingValueField, raw.Name)
}

// Bounds unions the global bounds of every adapter.
func Bounds(list []Adapter) domain.Bounds {
	b := domain.EmptyBounds()
	for _, a := range list {
		b = b.Union(a.Bounds())
	}
	return b
}

// column is the normalised storage every variant shares: y is NaN where the
// source value is null.
type column struct {
	name   string
	ys     []float64
	bounds domain.Bounds
}

func (c *column) Name() string          { return c.name }
func (c *column) Len() int              { return len(c.ys) }
func (c *column) Bounds() domain.Bounds { return c.bounds }

func (c *column) y(i int) (float64, bool) {
	v := c.ys[i]
	return v, !math.IsNaN(v)
}

func yExtent(ys []float64) domain.Extent {
	return domain.ExtentOf(ys...)
}

func ptr(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func field(r domain.Record, key string) float64 {
	if v, ok := r.Float(key); ok {
		return v
	}
	return math.NaN()
}

// sortByX orders xs ascending, permuting ys and src with it, unless already sorted.
func sortByX(xs, ys []float64, src []int) {
	if sort.Float64sAreSorted(xs) {
		return
	}
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	sx := make([]float64, len(xs))
	sy := make([]float64, len(ys))
	ss := make([]int, len(src))
	for i, j := range idx {
		sx[i], sy[i], ss[i] = xs[j], ys[j], src[j]
	}
	copy(xs, sx)
	copy(ys, sy)
	copy(src, ss)
}

// recordFields lists the numeric fields of r except skip, sorted by name.
func recordFields(r domain.Record, skip ...string) []Field {
	var out []Field
	for k := range r {
		if slices.Contains(skip, k) {
			continue
		}
		if v, ok := r.Float(k); ok {
			out = append(out, Field{Name: k, Value: v})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}
