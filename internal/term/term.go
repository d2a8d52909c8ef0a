/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package term draws chart frames as braille text for terminals.
package term

import (
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/charmbracelet/lipgloss"

	"gochartview/internal/chart"
	"gochartview/internal/vector"
)

// Options sizes the text output in terminal cells.
type Options struct {
	Cols, Rows int
	Color      bool // style series with their colours
}

const minCols, minRows = 16, 6

var axisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// Render draws f into at most opt.Cols x opt.Rows cells: a title line, the
// plot with its y labels, and a line of x labels. Screen pixels of the frame's
// plot rectangle are scaled onto a braille grid (2x4 dots per cell).
func Render(f chart.Frame, opt Options) string {
	cols, rows := max(opt.Cols, minCols), max(opt.Rows, minRows)
	title := header(f)
	if f.Degenerate {
		return lipgloss.JoinVertical(lipgloss.Left, title, "no data")
	}

	ylabels := make([]string, len(f.YTicks))
	margin := 0
	for i, t := range f.YTicks {
		ylabels[i] = t.Text
		margin = max(margin, lipgloss.Width(t.Text))
	}
	plotRows := rows - 3
	plotCols := cols - margin - 1
	if plotCols < 4 {
		plotCols, margin = cols-1, 0
	}

	c := canvas.New(plotCols+1, plotRows+1)
	graph.DrawXYAxis(&c, canvas.Point{X: 0, Y: plotRows}, axisStyle)
	for i, g := range f.Series {
		style := lipgloss.NewStyle()
		if opt.Color {
			style = style.Foreground(lipgloss.Color(g.Color.Hex()))
		}
		grid := graph.NewBrailleGrid(plotCols, plotRows, 0, f.Plot.W, 0, f.Plot.H)
		if plotSeries(grid, f, i) {
			graph.DrawBraillePatterns(&c, canvas.Point{X: 1}, grid.BraillePatterns(), style)
		}
	}

	left := make([]string, plotRows+1)
	if margin > 0 {
		for i, t := range f.YTicks {
			row := cellOf(t.Pixel-f.Plot.Y, f.Plot.H, plotRows)
			if row >= 0 && row < plotRows && left[row] == "" {
				left[row] = ylabels[i]
			}
		}
		for i := range left {
			left[i] = strings.Repeat(" ", margin-lipgloss.Width(left[i])) + left[i]
		}
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, axisStyle.Render(strings.Join(left, "\n")), c.View())
	return lipgloss.JoinVertical(lipgloss.Left, title, body, xLabels(f, margin+1, plotCols))
}

// plotSeries sets the dots of series i, one Bresenham line per segment.
func plotSeries(grid *graph.BrailleGrid, f chart.Frame, i int) bool {
	g := f.Series[i]
	drawn := false
	for _, run := range g.Path.Subpaths() {
		pts := make([]canvas.Point, 0, len(run))
		for _, p := range run {
			pts = append(pts, grid.GridPoint(toPlot(f, p)))
		}
		if len(pts) == 1 {
			grid.Set(pts[0])
			drawn = true
			continue
		}
		for j := 1; j < len(pts); j++ {
			if !segmentVisible(f, run[j-1], run[j]) {
				continue
			}
			for _, q := range graph.GetLinePoints(pts[j-1], pts[j]) {
				grid.Set(q)
			}
			drawn = true
		}
	}
	return drawn
}

// toPlot maps a screen point to plot coordinates with y growing upward,
// clamped to the plot rectangle.
func toPlot(f chart.Frame, p vector.Pt) canvas.Float64Point {
	x := min(max(p.X-f.Plot.X, 0), f.Plot.W)
	y := min(max(f.Plot.Y+f.Plot.H-p.Y, 0), f.Plot.H)
	return canvas.Float64Point{X: x, Y: y}
}

func segmentVisible(f chart.Frame, a, b vector.Pt) bool {
	lo, hi := f.Plot.X, f.Plot.X+f.Plot.W
	return !(a.X < lo && b.X < lo) && !(a.X > hi && b.X > hi)
}

// cellOf maps an offset within a span of n cells to a cell index.
func cellOf(offset, span float64, n int) int {
	if span <= 0 || n <= 0 {
		return -1
	}
	return int(offset/span*float64(n-1) + 0.5)
}

func header(f chart.Frame) string {
	parts := []string{lipgloss.NewStyle().Bold(true).Render(f.Title)}
	for _, e := range f.Tooltip {
		parts = append(parts, e.Series+"="+e.Label())
	}
	return strings.Join(parts, "  ")
}

// xLabels centres each x tick label under its column, dropping labels that
// would touch the previous one.
func xLabels(f chart.Frame, offset, plotCols int) string {
	line := []rune(strings.Repeat(" ", offset+plotCols+8))
	next := 0
	for _, t := range f.XTicks {
		col := offset + cellOf(t.Pixel-f.Plot.X, f.Plot.W, plotCols)
		text := []rune(t.Text)
		start := col - len(text)/2
		if start < next || start < 0 || start+len(text) > len(line) {
			continue
		}
		copy(line[start:], text)
		next = start + len(text) + 1
	}
	return axisStyle.Render(strings.TrimRight(string(line), " "))
}
