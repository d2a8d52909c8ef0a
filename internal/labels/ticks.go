/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package labels produces axis ticks and measures their text.
package labels

import (
	"math"

	"gochartview/internal/domain"
)

// Ticks returns "nice" values (1, 2 or 5 times a power of ten) covering e,
// at most about max of them. Degenerate extents yield their single value.
func Ticks(e domain.Extent, max int) []float64 {
	if e.Empty() || math.IsInf(e.Min, 0) || math.IsInf(e.Max, 0) {
		return nil
	}
	if e.Degenerate() {
		return []float64{e.Min}
	}
	if max < 2 {
		max = 2
	}
	step := Step(e.Span(), max)
	first := math.Ceil(e.Min/step) * step
	var out []float64
	for i := 0; ; i++ {
		v := first + float64(i)*step
		if v > e.Max+step*1e-9 {
			break
		}
		// avoid printing -0 and 1e-17 style noise
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		out = append(out, v)
	}
	return out
}

// Step picks the nice tick spacing for a span split into about n intervals.
func Step(span float64, n int) float64 {
	if span <= 0 || n <= 0 {
		return 1
	}
	raw := span / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch r := raw / mag; {
	case r <= 1:
		return mag
	case r <= 2:
		return 2 * mag
	case r <= 5:
		return 5 * mag
	}
	return 10 * mag
}

// Decimals is the number of fraction digits needed to tell ticks step apart.
func Decimals(step float64) int {
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return 0
	}
	d := int(math.Ceil(-math.Log10(step) - 1e-9))
	if d < 0 {
		return 0
	}
	return d
}
