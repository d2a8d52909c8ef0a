/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package labels

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownTimeUnit reports a unit ParseTimeUnit does not accept.
var ErrUnknownTimeUnit = errors.New("labels: unknown time unit")

var timeUnits = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
}

// ParseTimeUnit accepts ns, us, ms, s, m, h or any positive time.ParseDuration
// value. The empty string means x values are plain numbers.
func ParseTimeUnit(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	if d, ok := timeUnits[s]; ok {
		return d, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimeUnit, s)
	}
	return d, nil
}

// Formatter renders tick and tooltip values.
// Precision caps the fraction digits; TimeUnit, when set, prints x values as
// timestamps counted in that unit since the Unix epoch.
type Formatter struct {
	Precision int
	TimeUnit  time.Duration
	Layout    string
}

// Format renders v for ticks spaced step apart.
func (f Formatter) Format(v, step float64) string {
	if f.TimeUnit > 0 {
		t := time.Unix(0, int64(v*float64(f.TimeUnit))).UTC()
		layout := f.Layout
		if layout == "" {
			layout = timeLayout(step * float64(f.TimeUnit))
		}
		return t.Format(layout)
	}
	d := Decimals(step)
	if f.Precision >= 0 && d > f.Precision {
		d = f.Precision
	}
	return strconv.FormatFloat(v, 'f', d, 64)
}

func timeLayout(stepNanos float64) string {
	switch step := time.Duration(stepNanos); {
	case step >= 24*time.Hour:
		return "2006-01-02"
	case step >= time.Minute:
		return "01-02 15:04"
	case step >= time.Second:
		return "15:04:05"
	}
	return "15:04:05.000"
}
