/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"strings"
	"testing"

	"gochartview/internal/chart"
	"gochartview/internal/domain"
	"gochartview/internal/series"
	"gochartview/internal/tooltip"
)

func testChart(t *testing.T, shape domain.Shape, pairs ...domain.Pair) *chart.Chart {
	t.Helper()
	a, err := series.New(domain.RawSeries{SeriesSpec: domain.SeriesSpec{Name: "loss", Shape: shape}, Pairs: pairs})
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	cfg := chart.DefaultConfig()
	cfg.Width, cfg.Height = 400, 300
	c, err := chart.New("test", cfg, []series.Adapter{a})
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	return c
}

func TestStatusText(t *testing.T) {
	c := testChart(t, "", domain.P(0, 1), domain.P(1, 2), domain.P(2, 3))
	got := StatusText(c, []tooltip.Entry{{Series: "loss", Text: "2.00"}})
	if !strings.HasPrefix(got, "x 0 .. 3") || !strings.HasSuffix(got, "loss=2.00") {
		t.Fatalf("status = %q", got)
	}
	if got := StatusText(testChart(t, domain.ShapePointTimestamped, domain.P(5, 1)), nil); got != "no data" {
		t.Fatalf("empty chart status = %q", got)
	}
}
