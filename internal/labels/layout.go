/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package labels

import (
	"math"
	"sort"

	"golang.org/x/image/font"

	"gochartview/internal/domain"
)

// Tick is one positioned axis label.
type Tick struct {
	Value float64
	Pixel float64
	Text  string
	Width float64
}

// Layout computes the ticks for e, maps them to pixels with toPixel and drops
// labels that would overlap their left neighbour by less than gap pixels.
// Labels are measured in face; a nil face keeps every tick.
func Layout(e domain.Extent, max int, f Formatter, face font.Face, gap float64, toPixel func(float64) float64) []Tick {
	values := Ticks(e, max)
	if len(values) == 0 {
		return nil
	}
	step := 0.0
	if len(values) > 1 {
		step = values[1] - values[0]
	}
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		t := Tick{Value: v, Pixel: toPixel(v), Text: f.Format(v, step)}
		if face != nil {
			t.Width, _ = Measure(face, t.Text)
		}
		ticks = append(ticks, t)
	}
	if face == nil {
		return ticks
	}
	sort.SliceStable(ticks, func(i, j int) bool { return ticks[i].Pixel < ticks[j].Pixel })
	out := ticks[:1]
	for _, t := range ticks[1:] {
		prev := out[len(out)-1]
		if math.Abs(t.Pixel-prev.Pixel) >= (t.Width+prev.Width)/2+gap {
			out = append(out, t)
		}
	}
	return out
}
