/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ui is the desktop chart viewer. The Fyne implementation is only
// compiled with -tags fyne; other builds get a stub Run.
package ui

import (
	"fmt"
	"strings"

	"gochartview/internal/chart"
	"gochartview/internal/export"
	"gochartview/internal/telemetry"
	"gochartview/internal/tooltip"
)

// Options configure the viewer window.
type Options struct {
	Metrics *telemetry.Metrics
	// Colors overrides series colours by name.
	Colors map[string]string
	// Export styles both the on-screen raster and "Save as" output.
	Export export.Options
}

// StatusText summarises the visible x window and the values under the pointer.
func StatusText(c *chart.Chart, entries []tooltip.Entry) string {
	v := c.View()
	if v.Degenerate() {
		return "no data"
	}
	w := v.X.Window()
	var b strings.Builder
	fmt.Fprintf(&b, "x %.4g .. %.4g", w.Min, w.Max)
	for _, e := range entries {
		fmt.Fprintf(&b, "   %s=%s", e.Series, e.Label())
	}
	return b.String()
}
