/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package series

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochartview/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestPointIndexedBoundsAndNullPoint(t *testing.T) {
	raw := domain.RawSeries{
		SeriesSpec: domain.SeriesSpec{Name: "loss", Shape: domain.ShapePointIndexed},
		Pairs:      []domain.Pair{domain.P(0, 1), domain.PNull(1), domain.P(2, 5)},
	}
	a, err := New(raw)
	require.NoError(t, err)
	assert.IsType(t, PointIndexed{}, a)
	assert.Equal(t, domain.Bounds{X: domain.Extent{Min: 0, Max: 3}, Y: domain.Extent{Min: 1, Max: 5}}, a.Bounds())

	p := a.Point(1)
	assert.False(t, p.Valid)
	assert.Equal(t, 1.5, p.X)
	assert.Equal(t, domain.Point{X: 2.5, Y: 5, Valid: true}, a.Point(2))
	assert.False(t, a.Point(3).Valid)
	assert.False(t, a.Point(-1).Valid)
}

func TestPointIndexedRoundTrip(t *testing.T) {
	ys := []float64{3, -2, 8, 8, 0.5, 7}
	pairs := make([]domain.Pair, len(ys))
	for i, y := range ys {
		pairs[i] = domain.P(float64(i), y)
	}
	pairs = append(pairs, domain.PNull(float64(len(ys))))
	a, err := New(domain.RawSeries{Pairs: pairs})
	require.NoError(t, err)
	assert.Equal(t, domain.ShapePointIndexed, a.Shape())
	assert.Equal(t, domain.Extent{Min: 0, Max: float64(len(pairs))}, a.Bounds().X)
	assert.Equal(t, domain.Extent{Min: -2, Max: 8}, a.Bounds().Y)
}

func TestLocalizeSlicesAndIgnoresNulls(t *testing.T) {
	pairs := []domain.Pair{domain.P(0, 10), domain.P(1, 1), domain.PNull(2), domain.P(3, 4), domain.P(4, 100)}
	a, err := New(domain.RawSeries{Pairs: pairs})
	require.NoError(t, err)

	b := a.Localize(domain.Range{Start: 0.2, End: 0.8}) // [1, 4)
	assert.Equal(t, domain.Extent{Min: 1, Max: 4}, b.X)
	assert.Equal(t, domain.Extent{Min: 1, Max: 4}, b.Y)

	assert.Equal(t, a.Bounds(), a.Localize(domain.FullRange))

	only := a.Localize(domain.Range{Start: 0.4, End: 0.5}) // just the null
	assert.True(t, only.Y.Empty())
	assert.True(t, a.Localize(domain.Range{Start: 1, End: 1}).X.Empty())
}

func TestIndexedLocateAndRangeOf(t *testing.T) {
	a, err := New(domain.RawSeries{Pairs: []domain.Pair{domain.P(0, 1), domain.P(1, 2), domain.P(2, 3), domain.P(3, 4)}})
	require.NoError(t, err)
	i, ok := a.Locate(2.7)
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = a.Locate(4)
	assert.False(t, ok)
	_, ok = a.Locate(-0.1)
	assert.False(t, ok)
	assert.Equal(t, domain.Range{Start: 0.25, End: 0.75}, a.RangeOf(1.2, 2.5))
}

func TestObjectIndexed(t *testing.T) {
	raw := domain.RawSeries{
		SeriesSpec: domain.SeriesSpec{Name: "acc", ValueField: "acc"},
		Records:    []domain.Record{{"acc": 0.5, "epoch": 1}, {"acc": nil}, {"acc": json.Number("0.9")}},
	}
	a, err := New(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.ShapeObjectIndexed, a.Shape())
	assert.Equal(t, "acc", a.(ObjectIndexed).Field)
	assert.Equal(t, domain.Point{X: 0.5, Y: 0.5, Valid: true}, a.Point(0))
	assert.False(t, a.Point(1).Valid)
	assert.Equal(t, domain.Extent{Min: 0.5, Max: 0.9}, a.Bounds().Y)
}

func TestObjectValueFieldInference(t *testing.T) {
	raw := domain.RawSeries{Records: []domain.Record{{"timestamp": 10, "cpu": 3, "host": "a"}}}
	a, err := New(raw)
	require.NoError(t, err)
	assert.Equal(t, "cpu", a.(ObjectTimestamped).Field)

	_, err = New(domain.RawSeries{Records: []domain.Record{{"a": 1, "b": 2}}})
	assert.ErrorIs(t, err, ErrMissingValueField)
}

func TestTimestampedSortsAndLocatesNearest(t *testing.T) {
	raw := domain.RawSeries{
		SeriesSpec: domain.SeriesSpec{Name: "temp", Shape: domain.ShapePointTimestamped},
		Pairs: []domain.Pair{
			domain.P(300, 3), domain.P(100, 1), {nil, f(9)}, domain.PNull(200), domain.P(400, 4),
		},
	}
	a, err := New(raw)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Len(), "record without timestamp dropped")
	assert.Equal(t, domain.Bounds{X: domain.Extent{Min: 100, Max: 400}, Y: domain.Extent{Min: 1, Max: 4}}, a.Bounds())
	assert.Equal(t, domain.Point{X: 100, Y: 1, Valid: true}, a.Point(0))
	assert.False(t, a.Point(1).Valid)

	cases := []struct {
		x    float64
		want int
		ok   bool
	}{
		{100, 0, true},
		{149, 0, true},
		{150, 0, true}, // tie goes to the earlier record
		{151, 1, true},
		{399, 3, true},
		{400, 3, true},
		{99, 0, false},
		{401, 0, false},
		{math.NaN(), 0, false},
	}
	for _, c := range cases {
		i, ok := a.Locate(c.x)
		assert.Equal(t, c.ok, ok, "x=%v", c.x)
		if c.ok {
			assert.Equal(t, c.want, i, "x=%v", c.x)
		}
	}
}

func TestTimestampedRangeOfCoversWindow(t *testing.T) {
	pairs := []domain.Pair{}
	for i := 0; i < 10; i++ {
		pairs = append(pairs, domain.P(float64(i*10), float64(i)))
	}
	a, err := New(domain.RawSeries{SeriesSpec: domain.SeriesSpec{Shape: domain.ShapePointTimestamped}, Pairs: pairs})
	require.NoError(t, err)
	r := a.RangeOf(25, 52)
	assert.Equal(t, domain.Range{Start: 0.2, End: 0.7}, r)
	b := a.Localize(r)
	assert.Equal(t, domain.Extent{Min: 20, Max: 60}, b.X)
	assert.Equal(t, domain.Extent{Min: 2, Max: 6}, b.Y)
	assert.Equal(t, domain.FullRange, a.RangeOf(-100, 1000))
}

func TestObjectTimestamped(t *testing.T) {
	raw := domain.RawSeries{
		SeriesSpec: domain.SeriesSpec{Name: "mem", Shape: domain.ShapeObjectTimestamped, ValueField: "rss"},
		Records:    []domain.Record{{"timestamp": 5.0, "rss": 10}, {"timestamp": 1.0, "rss": 20}, {"rss": 99}},
	}
	a, err := New(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, domain.Point{X: 1, Y: 20, Valid: true}, a.Point(0))
	assert.Equal(t, domain.Extent{Min: 1, Max: 5}, a.Bounds().X)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, domain.ShapePointIndexed, Detect(domain.RawSeries{}))
	assert.Equal(t, domain.ShapePointIndexed, Detect(domain.RawSeries{Pairs: []domain.Pair{domain.P(0, 1), {nil, nil}, domain.P(2, 1)}}))
	assert.Equal(t, domain.ShapePointTimestamped, Detect(domain.RawSeries{Pairs: []domain.Pair{domain.P(1700000000, 1)}}))
	assert.Equal(t, domain.ShapeObjectTimestamped, Detect(domain.RawSeries{Records: []domain.Record{{"v": 1}, {"timestamp": 3, "v": 2}}}))
	assert.Equal(t, domain.ShapeObjectIndexed, Detect(domain.RawSeries{Records: []domain.Record{{"v": 1}}}))
}

func TestNewErrors(t *testing.T) {
	_, err := New(domain.RawSeries{SeriesSpec: domain.SeriesSpec{Shape: "polar"}})
	assert.ErrorIs(t, err, ErrUnknownShape)
	_, err = New(domain.RawSeries{SeriesSpec: domain.SeriesSpec{Shape: domain.ShapePointIndexed}, Records: []domain.Record{{"v": 1}}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = NewAll([]domain.RawSeries{{Pairs: []domain.Pair{domain.P(0, 1)}}, {SeriesSpec: domain.SeriesSpec{Shape: "x"}}})
	assert.Error(t, err)
}

func TestBoundsUnion(t *testing.T) {
	a, _ := New(domain.RawSeries{Pairs: []domain.Pair{domain.P(0, 1), domain.P(1, 2)}})
	b, _ := New(domain.RawSeries{SeriesSpec: domain.SeriesSpec{Shape: domain.ShapePointTimestamped}, Pairs: []domain.Pair{domain.P(-3, 7)}})
	assert.Equal(t, domain.Bounds{X: domain.Extent{Min: -3, Max: 2}, Y: domain.Extent{Min: 1, Max: 7}}, Bounds([]Adapter{a, b}))
}
