/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package chart

import (
	"golang.org/x/image/font"

	"gochartview/internal/domain"
	"gochartview/internal/labels"
	"gochartview/internal/tooltip"
	"gochartview/internal/vector"
)

// SeriesGeom is the drawable geometry of one series in one frame.
type SeriesGeom struct {
	Name   string
	Color  vector.Color
	Path   vector.Path
	Points []vector.Pt // valid samples in screen pixels, for markers
}

// Frame is everything a render driver needs to draw the chart once. It is
// rebuilt from the view for every draw and holds no references into it.
type Frame struct {
	Title      string
	Width      float64
	Height     float64
	Plot       vector.Rect // the padded plot area in screen pixels
	Transform  vector.Affine
	Degenerate bool
	Series     []SeriesGeom
	XTicks     []labels.Tick
	YTicks     []labels.Tick
	Tooltip    []tooltip.Entry
	Window     domain.Bounds // visible data window
}

// FrameOptions tune Frame.
type FrameOptions struct {
	// Colors overrides the palette by series name.
	Colors map[string]string
	// Cursor, when set, adds the tooltip entries for that pointer x.
	Cursor *float64
	// Labels is used to drop overlapping tick labels; nil keeps every tick.
	Labels labels.Provider
	// Font selects the face passed to Labels.
	Font labels.FontSpec
}

// Frame builds the geometry for the current view.
func (c *Chart) Frame(opts FrameOptions) Frame {
	v := c.View()
	xc, yc := v.X.Config, v.Y.Config
	f := Frame{
		Title:      c.name,
		Width:      xc.PixelSize,
		Height:     yc.PixelSize,
		Degenerate: v.Degenerate(),
	}
	f.Plot = v.Plot()
	if f.Degenerate {
		return f
	}
	m := v.Affine()
	f.Transform = m
	f.Window = domain.Bounds{X: v.X.Window(), Y: v.Y.Window()}

	for i, a := range c.series {
		if !c.Visible(a.Name()) {
			continue
		}
		r := a.RangeOf(f.Window.X.Min, f.Window.X.Max)
		lo, hi := r.Slice(a.Len())
		pts := make([]domain.Point, 0, hi-lo)
		for j := lo; j < hi; j++ {
			pts = append(pts, a.Point(j))
		}
		g := SeriesGeom{
			Name:  a.Name(),
			Color: vector.SeriesColor(opts.Colors[a.Name()], i),
			Path:  vector.Polyline(pts, m),
		}
		for _, p := range pts {
			if p.Valid {
				g.Points = append(g.Points, m.Apply(vector.Pt{X: p.X, Y: p.Y}))
			}
		}
		f.Series = append(f.Series, g)
	}

	fmtX := labels.Formatter{Precision: c.cfg.Precision, TimeUnit: c.cfg.XTimeUnit}
	fmtY := labels.Formatter{Precision: c.cfg.Precision}
	var face font.Face
	if opts.Labels != nil {
		face, _ = opts.Labels.Resolve(opts.Font)
	}
	f.XTicks = labels.Layout(f.Window.X, c.cfg.TickCount, fmtX, face, 6, v.X.ToPixel)
	f.YTicks = labels.Layout(f.Window.Y, c.cfg.TickCount, fmtY, nil, 0, func(y float64) float64 {
		return yc.PixelSize - v.Y.ToPixel(y)
	})
	if opts.Cursor != nil {
		f.Tooltip = c.Tooltip(*opts.Cursor)
	}
	return f
}
