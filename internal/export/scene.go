/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"gochartview/internal/chart"
	"gochartview/internal/vector"
)

type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

// surface is the set of primitives a driver provides. Coordinates are screen
// pixels with y growing downward.
type surface interface {
	fillRect(r vector.Rect, c vector.Color)
	strokeRect(r vector.Rect, c vector.Color, width float64)
	stroke(p vector.Path, c vector.Color, width float64)
	dot(center vector.Pt, radius float64, c vector.Color)
	text(s string, at vector.Pt, a anchor, c vector.Color)
	clip(r vector.Rect)
	unclip()
}

var (
	labelColor  = vector.Color{R: 70, G: 70, B: 70, A: 255}
	borderColor = vector.Color{R: 160, G: 160, B: 160, A: 255}
)

func drawScene(s surface, f chart.Frame, opt Options) {
	s.fillRect(vector.R(0, 0, f.Width, f.Height), opt.Background)
	if f.Title != "" {
		s.text(f.Title, vector.Pt{X: f.Plot.X, Y: f.Plot.Y - 0.6*opt.FontSize}, anchorStart, vector.Black)
	}
	if f.Degenerate {
		s.strokeRect(f.Plot, borderColor, 1)
		c := vector.Pt{X: f.Plot.X + f.Plot.W/2, Y: f.Plot.Y + f.Plot.H/2}
		s.text("no data", c, anchorMiddle, labelColor)
		return
	}

	lo, hi := f.Plot.Min(), f.Plot.Max()
	if opt.Grid {
		var grid vector.Path
		for _, t := range f.XTicks {
			grid.MoveTo(t.Pixel, lo.Y)
			grid.LineTo(t.Pixel, hi.Y)
		}
		for _, t := range f.YTicks {
			grid.MoveTo(lo.X, t.Pixel)
			grid.LineTo(hi.X, t.Pixel)
		}
		s.stroke(grid, vector.Grid, 0.5)
	}
	s.strokeRect(f.Plot, borderColor, 1)

	// let strokes on the plot edge keep their full width
	s.clip(f.Plot.Inset(-opt.LineWidth/2, -opt.LineWidth/2))
	for _, g := range f.Series {
		s.stroke(g.Path, g.Color, opt.LineWidth)
		if opt.Markers {
			for _, p := range g.Points {
				s.dot(p, opt.LineWidth+1, g.Color)
			}
		}
	}
	s.unclip()

	below := hi.Y + 1.4*opt.FontSize
	for _, t := range f.XTicks {
		s.text(t.Text, vector.Pt{X: t.Pixel, Y: below}, anchorMiddle, labelColor)
	}
	for _, t := range f.YTicks {
		s.text(t.Text, vector.Pt{X: f.Plot.X - 4, Y: t.Pixel + 0.35*opt.FontSize}, anchorEnd, labelColor)
	}

	for i, e := range f.Tooltip {
		c := tooltipColor(f, e.Series)
		s.dot(e.Marker, 3.5, c)
		at := vector.Pt{X: hi.X - 4, Y: lo.Y + float64(i+1)*1.3*opt.FontSize}
		s.text(e.Series+": "+e.Label(), at, anchorEnd, c)
	}
}

func tooltipColor(f chart.Frame, name string) vector.Color {
	for _, g := range f.Series {
		if g.Name == name {
			return g.Color
		}
	}
	return vector.Black
}
