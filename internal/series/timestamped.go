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
	"sort"

	"gochartview/internal/domain"
)

// timestamped implements the shapes whose x is an explicit timestamp. Records
// without a timestamp are dropped; the rest are kept sorted by x.
type timestamped struct {
	column
	shape domain.Shape
	xs    []float64
	src   []int // record index each sample came from
}

func newTimestamped(name string, shape domain.Shape, xs, ys []float64) *timestamped {
	kx := make([]float64, 0, len(xs))
	ky := make([]float64, 0, len(ys))
	src := make([]int, 0, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		kx = append(kx, x)
		ky = append(ky, ys[i])
		src = append(src, i)
	}
	sortByX(kx, ky, src)
	s := &timestamped{column: column{name: name, ys: ky}, shape: shape, xs: kx, src: src}
	s.bounds = domain.Bounds{X: domain.ExtentOf(kx...), Y: yExtent(ky)}
	return s
}

func (s *timestamped) Shape() domain.Shape { return s.shape }

func (s *timestamped) Point(i int) domain.Point {
	if i < 0 || i >= len(s.xs) {
		return domain.Point{X: math.NaN()}
	}
	y, ok := s.y(i)
	return domain.Point{X: s.xs[i], Y: y, Valid: ok}
}

func (s *timestamped) Localize(r domain.Range) domain.Bounds {
	lo, hi := r.Slice(len(s.xs))
	if lo == hi {
		return domain.EmptyBounds()
	}
	return domain.Bounds{
		X: domain.Extent{Min: s.xs[lo], Max: s.xs[hi-1]},
		Y: yExtent(s.ys[lo:hi]),
	}
}

// RangeOf includes one record on either side of [lo, hi] so a line drawn
// over the window reaches its edges.
func (s *timestamped) RangeOf(lo, hi float64) domain.Range {
	n := len(s.xs)
	if n == 0 {
		return domain.FullRange
	}
	start := sort.SearchFloat64s(s.xs, lo) - 1
	if start < 0 {
		start = 0
	}
	end := sort.Search(n, func(i int) bool { return s.xs[i] > hi }) + 1
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return domain.Range{Start: float64(start) / float64(n), End: float64(end) / float64(n)}
}

// Locate returns the record whose timestamp is nearest to x. Ties go to the
// earlier record. x outside the series' x extent is not found.
func (s *timestamped) Locate(x float64) (int, bool) {
	n := len(s.xs)
	if n == 0 || math.IsNaN(x) || x < s.xs[0] || x > s.xs[n-1] {
		return 0, false
	}
	i := sort.SearchFloat64s(s.xs, x)
	if i == n {
		return n - 1, true
	}
	if i > 0 && x-s.xs[i-1] <= s.xs[i]-x {
		return i - 1, true
	}
	return i, true
}

// PointTimestamped holds [timestamp, y] pairs.
type PointTimestamped struct{ *timestamped }

func newPointTimestamped(name string, pairs []domain.Pair) PointTimestamped {
	xs := make([]float64, len(pairs))
	ys := make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i], ys[i] = ptr(p[0]), ptr(p[1])
	}
	return PointTimestamped{newTimestamped(name, domain.ShapePointTimestamped, xs, ys)}
}

// ObjectTimestamped holds keyed records with a timestamp field; y is read from Field.
type ObjectTimestamped struct {
	*timestamped
	Field  string
	fields [][]Field // by record index
}

func newObjectTimestamped(name, valueField string, records []domain.Record) ObjectTimestamped {
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	fields := make([][]Field, len(records))
	for i, r := range records {
		xs[i] = field(r, domain.TimestampField)
		ys[i] = field(r, valueField)
		fields[i] = recordFields(r, valueField, domain.TimestampField)
	}
	return ObjectTimestamped{
		timestamped: newTimestamped(name, domain.ShapeObjectTimestamped, xs, ys),
		Field:       valueField,
		fields:      fields,
	}
}

func (s ObjectTimestamped) Fields(i int) []Field {
	if i < 0 || i >= len(s.src) {
		return nil
	}
	return s.fields[s.src[i]]
}
