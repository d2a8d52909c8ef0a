/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package axis

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochartview/internal/domain"
)

const eps = 1e-9

func testConfig() Config {
	return Config{PixelSize: 1000, Padding: Padding{Start: 0.05, End: 0.05}, DeltaMin: 5, DeltaMax: 500}
}

func mustInit(t *testing.T, cfg Config, extents ...domain.Extent) Domain {
	t.Helper()
	d, err := Init(extents, cfg)
	require.NoError(t, err)
	return d
}

func assertBounds(t *testing.T, d Domain) {
	t.Helper()
	lo, hi := d.SpanLimits()
	require.LessOrEqual(t, d.Global.Min, d.Local.Min, "local.min below global")
	require.LessOrEqual(t, d.Local.Min, d.Local.Max, "local inverted")
	require.LessOrEqual(t, d.Local.Max, d.Global.Max, "local.max above global")
	span := d.Local.Max - d.Local.Min
	require.GreaterOrEqual(t, span, lo-1e-6, "span below deltaMin")
	require.LessOrEqual(t, span, hi+1e-6, "span above deltaMax")
}

func TestInitShowsLastDeltaMax(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000})
	assert.Equal(t, 500.0, d.Local.Min)
	assert.Equal(t, 1000.0, d.Local.Max)
	assert.InDelta(t, 900.0/1000, d.Base.Scale, eps)
	assert.InDelta(t, 50.0, d.Base.Translate, eps)
	// the window fills the usable pixel interval
	assert.InDelta(t, 50.0, d.ToPixel(500), 1e-6)
	assert.InDelta(t, 950.0, d.ToPixel(1000), 1e-6)
}

func TestInitFitsNarrowDataset(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 10, Max: 20}, domain.Extent{Min: 15, Max: 110})
	assert.Equal(t, domain.Extent{Min: 10, Max: 110}, d.Global)
	assert.Equal(t, d.Global, d.Local)
	assert.Equal(t, Mapping{}, d.Delta)
	assert.InDelta(t, 50.0, d.ToPixel(10), 1e-9)
	assert.InDelta(t, 950.0, d.ToPixel(110), 1e-9)
}

func TestInitDegenerate(t *testing.T) {
	cases := map[string][]domain.Extent{
		"no series":   nil,
		"empty":       {domain.EmptyExtent()},
		"single item": {{Min: 3, Max: 3}, {Min: 3, Max: 3}},
	}
	for name, ext := range cases {
		t.Run(name, func(t *testing.T) {
			d := mustInit(t, testConfig(), ext...)
			assert.True(t, d.Degenerate())
			assert.ErrorIs(t, d.Check(), ErrDegenerate)
			assert.Equal(t, d, d.Rescale(3))
			assert.Equal(t, d, d.Retranslate(-40))
			assert.True(t, math.IsNaN(d.FromPixel(10)))
		})
	}
}

func TestInvalidClampRange(t *testing.T) {
	bad := []Config{
		{PixelSize: 100, DeltaMin: 10, DeltaMax: 5},
		{PixelSize: 100, DeltaMin: 0, DeltaMax: 5},
		{PixelSize: 100, DeltaMin: 1, DeltaMax: -1},
		{PixelSize: 100, DeltaMin: math.NaN(), DeltaMax: 5},
	}
	for _, cfg := range bad {
		_, err := Init([]domain.Extent{{Min: 0, Max: 1}}, cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidClampRange), "got %v", err)
	}
	_, err := Init(nil, Config{PixelSize: 100, DeltaMin: 1, DeltaMax: math.Inf(1)})
	assert.NoError(t, err)
	_, err = Init(nil, Config{PixelSize: 100, Padding: Padding{Start: 0.6, End: 0.4}, DeltaMin: 1, DeltaMax: 2})
	assert.ErrorIs(t, err, ErrInvalidPadding)
}

func TestNoOpDeltasAreIdentity(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000})
	d = d.Rescale(0.3).Retranslate(12)
	assert.Equal(t, d, d.Rescale(0))
	assert.Equal(t, d, d.Retranslate(0))
}

func TestBoundsInvariantUnderRandomGestures(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	configs := []Config{
		testConfig(),
		{PixelSize: 640, Padding: Padding{Start: 0.1}, DeltaMin: 0.5, DeltaMax: math.Inf(1)},
		{PixelSize: 300, DeltaMin: 2, DeltaMax: 2},
	}
	for _, cfg := range configs {
		d := mustInit(t, cfg, domain.Extent{Min: -250, Max: 1750})
		assertBounds(t, d)
		for i := 0; i < 2000; i++ {
			if r.Intn(2) == 0 {
				d = d.Rescale((r.Float64() - 0.5) * d.Scale())
			} else {
				d = d.Retranslate((r.Float64() - 0.5) * 600)
			}
			assertBounds(t, d)
			// the affine mapping and the window agree
			assert.InDelta(t, d.Local.Min, d.FromPixel(cfg.Left()), 1e-5)
		}
	}
}

func TestPanClampsAtStart(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000})
	for i := 0; i < 20 && !d.AtMin(); i++ {
		d = d.Retranslate(100)
	}
	require.Equal(t, 0.0, d.Local.Min)
	span := d.Local.Max - d.Local.Min
	for _, dt := range []float64{1, 50, 1e6} {
		n := d.Retranslate(dt)
		assert.Equal(t, 0.0, n.Local.Min)
		assert.InDelta(t, span, n.Local.Max-n.Local.Min, 1e-6)
	}
}

func TestPanClampsAtEndExactly(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000})
	d = d.Retranslate(200) // move away from the end first
	require.Less(t, d.Local.Max, 1000.0)
	n := d.Retranslate(-1e7)
	assert.Equal(t, 1000.0, n.Local.Max)
	assert.InDelta(t, 500.0, n.Local.Min, 1e-6)
}

func TestPanWithFullWindowDoesNothing(t *testing.T) {
	d := mustInit(t, Config{PixelSize: 500, DeltaMin: 1, DeltaMax: math.Inf(1)}, domain.Extent{Min: 0, Max: 100})
	assert.Equal(t, d.Global, d.Local)
	n := d.Retranslate(30)
	assert.Equal(t, d.Local, n.Local)
}

func TestZoomMonotonic(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000})
	prev := d.Local.Span()
	for i := 0; i < 200; i++ {
		d = d.Rescale(1)
		span := d.Local.Span()
		require.LessOrEqual(t, span, prev+1e-9)
		require.GreaterOrEqual(t, span, 5-1e-6)
		prev = span
	}
	assert.InDelta(t, 5.0, prev, 1e-6)
	assert.Equal(t, d, d.Rescale(1), "zoom past deltaMin is a no-op")
	// right edge stayed anchored while zooming in from the initial window
	assert.Equal(t, 1000.0, d.Local.Max)
}

func TestZoomOutStopsAtDeltaMax(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000})
	d = d.Rescale(2).Rescale(-100)
	assert.InDelta(t, 500.0, d.Local.Span(), 1e-6)
	assertBounds(t, d)
}

func TestFocus(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000})
	n := d.Focus(domain.Extent{Min: 100, Max: 200})
	assert.Equal(t, domain.Extent{Min: 100, Max: 200}, n.Local)
	assert.InDelta(t, 50.0, n.ToPixel(100), 1e-9)
	assert.InDelta(t, 950.0, n.ToPixel(200), 1e-9)

	// too narrow widens around the centre, too wide keeps the upper end
	assert.Equal(t, domain.Extent{Min: 147.5, Max: 152.5}, d.Focus(domain.Extent{Min: 150, Max: 150}).Local)
	assert.Equal(t, domain.Extent{Min: 400, Max: 900}, d.Focus(domain.Extent{Min: 0, Max: 900}).Local)
	assert.Equal(t, domain.Extent{Min: 995, Max: 1000}, d.Focus(domain.Extent{Min: 999, Max: 2000}).Local)

	assert.Equal(t, d, n.Reset())
}

func TestFromPixelInvertsToPixel(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000}).Rescale(0.7).Retranslate(33)
	for _, v := range []float64{d.Local.Min, 712.25, d.Local.Max} {
		assert.InDelta(t, v, d.FromPixel(d.ToPixel(v)), 1e-9)
	}
}

func TestResizeKeepsWindow(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000}).Focus(domain.Extent{Min: 300, Max: 420})
	n := d.Resize(400)
	assert.Equal(t, d.Local, n.Local)
	assert.InDelta(t, 20.0, n.ToPixel(300), 1e-9)
	assert.InDelta(t, 380.0, n.ToPixel(420), 1e-9)
}

func TestFraction(t *testing.T) {
	d := mustInit(t, testConfig(), domain.Extent{Min: 0, Max: 1000})
	assert.Equal(t, domain.Range{Start: 0.5, End: 1}, d.Fraction())
}
