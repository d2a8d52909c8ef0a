//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gochartview/internal/chart"
	"gochartview/internal/export"
	applog "gochartview/internal/log"
	"gochartview/internal/tooltip"
)

// ChartCanvas shows a chart and turns pointer input into view changes: drag
// pans, the wheel zooms, hovering shows values. It is focusable so arrow and
// zoom keys work once it has been tapped.
type ChartCanvas struct {
	widget.BaseWidget

	chart  *chart.Chart
	opt    Options
	drag   chart.Drag
	cursor *float64
	log    *slog.Logger

	// OnChange runs after every view or cursor change.
	OnChange func()
}

// NewChartCanvas wraps c.
func NewChartCanvas(c *chart.Chart, opt Options) *ChartCanvas {
	cc := &ChartCanvas{chart: c, opt: opt, log: applog.WithComponent("ui")}
	cc.ExtendBaseWidget(cc)
	return cc
}

// CreateRenderer blits a raster of the current frame.
func (cc *ChartCanvas) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillStretch
	return &chartCanvasRenderer{cc: cc, img: img, objects: []fyne.CanvasObject{img}}
}

// MinSize keeps room for the axes and labels.
func (cc *ChartCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 200) }

// Tooltip lists the values under the pointer, if it is over the widget.
func (cc *ChartCanvas) Tooltip() []tooltip.Entry {
	if cc.cursor == nil {
		return nil
	}
	return cc.chart.Tooltip(*cc.cursor)
}

func (cc *ChartCanvas) changed() {
	cc.Refresh()
	if cc.OnChange != nil {
		cc.OnChange()
	}
}

func (cc *ChartCanvas) step() float64 {
	if w := float64(cc.Size().Width); w > 0 {
		return w / 10
	}
	return float64(cc.chart.Config().Width) / 10
}

// Dragged pans by the pointer movement since the previous event.
func (cc *ChartCanvas) Dragged(e *fyne.DragEvent) {
	x, y := float64(e.Position.X), float64(e.Position.Y)
	if !cc.drag.Active() {
		cc.drag.Start(x-float64(e.Dragged.DX), y-float64(e.Dragged.DY))
	}
	cc.cursor = &x
	if cc.chart.DragTo(&cc.drag, x, y) {
		cc.changed()
	}
}

// DragEnd finishes a pan; nothing is rolled back.
func (cc *ChartCanvas) DragEnd() { cc.drag.End() }

// Scrolled zooms x by one notch per wheel event; a horizontal wheel pans.
func (cc *ChartCanvas) Scrolled(e *fyne.ScrollEvent) {
	moved := false
	switch {
	case e.Scrolled.DY > 0:
		moved = cc.chart.Zoom(1)
	case e.Scrolled.DY < 0:
		moved = cc.chart.Zoom(-1)
	}
	if e.Scrolled.DX != 0 {
		moved = cc.chart.Pan(float64(e.Scrolled.DX), 0) || moved
	}
	if moved {
		cc.changed()
	}
}

// MouseIn implements desktop.Hoverable.
func (cc *ChartCanvas) MouseIn(e *desktop.MouseEvent) { cc.MouseMoved(e) }

// MouseMoved moves the tooltip cursor; outside the plot area it is hidden.
func (cc *ChartCanvas) MouseMoved(e *desktop.MouseEvent) {
	x, y := float64(e.Position.X), float64(e.Position.Y)
	cc.cursor = nil
	if cc.chart.InPlot(x, y) {
		cc.cursor = &x
	}
	cc.changed()
}

// MouseOut hides the tooltip and abandons a drag in progress.
func (cc *ChartCanvas) MouseOut() {
	cc.cursor = nil
	cc.drag.End()
	cc.changed()
}

// Tapped takes keyboard focus.
func (cc *ChartCanvas) Tapped(*fyne.PointEvent) {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(cc); c != nil {
			c.Focus(cc)
		}
	}
}

func (cc *ChartCanvas) FocusGained() {}
func (cc *ChartCanvas) FocusLost()   {}

// TypedKey handles arrows (pan, zoom) and Home (reset).
func (cc *ChartCanvas) TypedKey(e *fyne.KeyEvent) {
	moved := false
	switch e.Name {
	case fyne.KeyLeft:
		moved = cc.chart.Pan(cc.step(), 0)
	case fyne.KeyRight:
		moved = cc.chart.Pan(-cc.step(), 0)
	case fyne.KeyUp:
		moved = cc.chart.Zoom(1)
	case fyne.KeyDown:
		moved = cc.chart.Zoom(-1)
	case fyne.KeyHome:
		moved = cc.chart.Reset()
	}
	if moved {
		cc.changed()
	}
}

// TypedRune mirrors the terminal viewer's letter keys.
func (cc *ChartCanvas) TypedRune(r rune) {
	moved := false
	switch r {
	case '+', '=':
		moved = cc.chart.Zoom(1)
	case '-', '_':
		moved = cc.chart.Zoom(-1)
	case 'u':
		moved = cc.chart.Undo()
	case 'U':
		moved = cc.chart.Redo()
	case 'r':
		moved = cc.chart.Reset()
	}
	if moved {
		cc.changed()
	}
}

type chartCanvasRenderer struct {
	cc      *ChartCanvas
	img     *canvas.Image
	objects []fyne.CanvasObject
	size    fyne.Size
}

func (r *chartCanvasRenderer) Destroy()                     {}
func (r *chartCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *chartCanvasRenderer) MinSize() fyne.Size           { return r.cc.MinSize() }
func (r *chartCanvasRenderer) Refresh()                     { r.draw(); canvas.Refresh(r.img) }

func (r *chartCanvasRenderer) Layout(size fyne.Size) {
	r.img.Resize(size)
	r.img.Move(fyne.NewPos(0, 0))
	if size != r.size {
		r.size = size
		r.cc.chart.Resize(int(size.Width), int(size.Height))
		r.draw()
	}
}

// draw renders a fresh frame; a failed raster keeps the previous image.
func (r *chartCanvasRenderer) draw() {
	start := time.Now()
	f := r.cc.chart.Frame(chart.FrameOptions{Colors: r.cc.opt.Colors, Cursor: r.cc.cursor})
	img, err := export.RenderImage(f, r.cc.opt.Export)
	if err != nil {
		r.cc.log.Warn("render frame failed", slog.Any("err", err))
		return
	}
	r.img.Image = img
	r.cc.opt.Metrics.Frame("fyne", time.Since(start))
}
