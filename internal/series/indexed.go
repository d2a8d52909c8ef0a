/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package series

import (
	"math"

	"gochartview/internal/domain"
)

// indexed implements the shared behaviour of the index-keyed shapes: x is
// the slot centre i+0.5 and the x extent is [0, n].
type indexed struct {
	column
	shape domain.Shape
}

func newIndexed(name string, shape domain.Shape, ys []float64) *indexed {
	s := &indexed{column: column{name: name, ys: ys}, shape: shape}
	s.bounds = domain.Bounds{X: domain.Extent{Min: 0, Max: float64(len(ys))}, Y: yExtent(ys)}
	if len(ys) == 0 {
		s.bounds.X = domain.EmptyExtent()
	}
	return s
}

func (s *indexed) Shape() domain.Shape { return s.shape }

func (s *indexed) Point(i int) domain.Point {
	if i < 0 || i >= len(s.ys) {
		return domain.Point{X: math.NaN()}
	}
	y, ok := s.y(i)
	return domain.Point{X: float64(i) + 0.5, Y: y, Valid: ok}
}

func (s *indexed) Localize(r domain.Range) domain.Bounds {
	lo, hi := r.Slice(len(s.ys))
	if lo == hi {
		return domain.EmptyBounds()
	}
	return domain.Bounds{
		X: domain.Extent{Min: float64(lo), Max: float64(hi)},
		Y: yExtent(s.ys[lo:hi]),
	}
}

func (s *indexed) RangeOf(lo, hi float64) domain.Range {
	n := float64(len(s.ys))
	if n == 0 {
		return domain.FullRange
	}
	return domain.Range{Start: math.Floor(lo) / n, End: math.Ceil(hi) / n}.Normalize()
}

func (s *indexed) Locate(x float64) (int, bool) {
	if math.IsNaN(x) {
		return 0, false
	}
	i := math.Floor(x)
	if i < 0 || i >= float64(len(s.ys)) {
		return 0, false
	}
	return int(i), true
}

// PointIndexed holds [x, y] pairs where x is implicit: the pair's index.
type PointIndexed struct{ *indexed }

func newPointIndexed(name string, pairs []domain.Pair) PointIndexed {
	ys := make([]float64, len(pairs))
	for i, p := range pairs {
		ys[i] = ptr(p[1])
	}
	return PointIndexed{newIndexed(name, domain.ShapePointIndexed, ys)}
}

// ObjectIndexed holds keyed records; y is read from Field, x is the index.
type ObjectIndexed struct {
	*indexed
	Field  string
	fields [][]Field
}

func newObjectIndexed(name, valueField string, records []domain.Record) ObjectIndexed {
	ys := make([]float64, len(records))
	fields := make([][]Field, len(records))
	for i, r := range records {
		ys[i] = field(r, valueField)
		fields[i] = recordFields(r, valueField, domain.TimestampField)
	}
	return ObjectIndexed{indexed: newIndexed(name, domain.ShapeObjectIndexed, ys), Field: valueField, fields: fields}
}

func (s ObjectIndexed) Fields(i int) []Field {
	if i < 0 || i >= len(s.fields) {
		return nil
	}
	return s.fields[i]
}
