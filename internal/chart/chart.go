/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package chart owns the view state of one chart panel: the x and y axis
// domains, the gesture entry points that move them, and the per-draw frame
// geometry handed to render drivers.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"gochartview/internal/axis"
	"gochartview/internal/domain"
	"gochartview/internal/history"
	applog "gochartview/internal/log"
	"gochartview/internal/series"
	"gochartview/internal/telemetry"
	"gochartview/internal/tooltip"
	"gochartview/internal/vector"
)

// View is the complete, immutable view state of a chart.
type View struct {
	X axis.Domain
	Y axis.Domain
}

// Degenerate reports whether either axis has no valid transform.
func (v View) Degenerate() bool { return v.X.Degenerate() || v.Y.Degenerate() }

// Affine maps data to screen pixels. Screen y grows downward, so the y axis
// is flipped around the surface height.
func (v View) Affine() vector.Affine {
	data := vector.Affine{A: v.X.Scale(), E: v.X.Translate(), D: v.Y.Scale(), F: v.Y.Translate()}
	return vector.Translate(0, v.Y.Config.PixelSize).Mul(vector.Scale(1, -1)).Mul(data)
}

// Plot is the padded plot area in screen pixels.
func (v View) Plot() vector.Rect {
	xc, yc := v.X.Config, v.Y.Config
	return vector.R(xc.Left(), yc.PixelSize-yc.Right(), xc.Width(), yc.Width())
}

// Option customises a Chart.
type Option func(*Chart)

// WithMetrics records gestures and frames on m.
func WithMetrics(m *telemetry.Metrics) Option { return func(c *Chart) { c.metrics = m } }

// WithHistory shares an undo manager between charts.
func WithHistory(h *history.Manager[View]) Option { return func(c *Chart) { c.history = h } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(c *Chart) { c.now = now } }

// Chart is one chart panel. Gestures replace the view wholesale; a Chart is
// safe for use from the event goroutine and a render goroutine at once.
type Chart struct {
	name   string
	cfg    Config
	series []series.Adapter
	hidden map[string]bool

	mu   sync.RWMutex
	view View
	home View

	history *history.Manager[View]
	fits    *lru.Cache
	metrics *telemetry.Metrics
	now     func() time.Time
	log     *slog.Logger
}

// New builds a chart over list. Configuration errors, including
// axis.ErrInvalidClampRange, are returned; degenerate data is not an error.
func New(name string, cfg Config, list []series.Adapter, opts ...Option) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fits, err := lru.New(256)
	if err != nil {
		return nil, err
	}
	c := &Chart{
		name:   name,
		cfg:    cfg,
		series: list,
		hidden: map[string]bool{},
		fits:   fits,
		now:    time.Now,
		log:    applog.WithComponent("chart").With(slog.String("panel", name)),
	}
	for _, o := range opts {
		o(c)
	}
	if c.history == nil {
		c.history = history.NewManager[View](history.Config{})
	}

	xs := make([]domain.Extent, 0, len(list))
	ys := make([]domain.Extent, 0, len(list))
	for _, a := range list {
		b := a.Bounds()
		xs = append(xs, b.X)
		ys = append(ys, b.Y)
	}
	x, err := axis.Init(xs, cfg.xAxis())
	if err != nil {
		return nil, fmt.Errorf("x axis: %w", err)
	}
	y, err := axis.Init([]domain.Extent{padExtent(union(ys))}, cfg.yAxis())
	if err != nil {
		return nil, fmt.Errorf("y axis: %w", err)
	}
	c.view = View{X: x, Y: y}
	if cfg.AutoFitY {
		c.view = c.fitY(c.view)
	}
	c.home = c.view
	if c.view.Degenerate() {
		c.log.Debug("degenerate view", slog.Bool("x", x.Degenerate()), slog.Bool("y", y.Degenerate()))
	}
	return c, nil
}

func union(list []domain.Extent) domain.Extent {
	e := domain.EmptyExtent()
	for _, x := range list {
		e = e.Union(x)
	}
	return e
}

// Name is the panel name.
func (c *Chart) Name() string { return c.name }

// Config returns the chart configuration.
func (c *Chart) Config() Config { return c.cfg }

// Series returns the adapters in draw order.
func (c *Chart) Series() []series.Adapter { return c.series }

// View returns the current view.
func (c *Chart) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// SetView installs v, e.g. a view restored from history by a caller.
func (c *Chart) SetView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

// apply runs op on the current view, records the previous view for undo and
// stores the result. It reports whether the view changed.
func (c *Chart) apply(kind string, op func(View) View) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.view
	after := op(before)
	if after == before {
		return false
	}
	c.history.Record(c.name, before, c.now())
	c.view = after
	c.metrics.Gesture(kind)
	return true
}

// Pan moves the view by a pointer delta in pointer pixels. Positive dx drags
// the content right; positive dy drags it down. The y delta is ignored while
// y auto-fit is on.
func (c *Chart) Pan(dx, dy float64) bool {
	d := c.cfg.density()
	return c.apply("pan", func(v View) View {
		n := v
		if dx != 0 {
			n.X = v.X.Retranslate(dx * d)
			c.noteClamp("x", v.X, n.X, dx)
			if c.cfg.AutoFitY && n.X != v.X {
				n = c.fitY(n)
			}
		}
		if dy != 0 && !c.cfg.AutoFitY {
			n.Y = v.Y.Retranslate(-dy * d)
			c.noteClamp("y", v.Y, n.Y, -dy)
		}
		return n
	})
}

// Zoom applies wheel notches to the x axis, positive zooming in.
func (c *Chart) Zoom(notches float64) bool {
	return c.apply("zoom", func(v View) View {
		n := v
		n.X = v.X.Rescale(c.zoomDelta(v.X, notches))
		if n.X == v.X && notches != 0 && !v.X.Degenerate() {
			c.noteLimit("x", notches)
		}
		if c.cfg.AutoFitY && n.X != v.X {
			n = c.fitY(n)
		}
		return n
	})
}

// ZoomY applies wheel notches to the y axis. It does nothing while y auto-fit is on.
func (c *Chart) ZoomY(notches float64) bool {
	if c.cfg.AutoFitY {
		return false
	}
	return c.apply("zoom", func(v View) View {
		n := v
		n.Y = v.Y.Rescale(c.zoomDelta(v.Y, notches))
		if n.Y == v.Y && notches != 0 && !v.Y.Degenerate() {
			c.noteLimit("y", notches)
		}
		return n
	})
}

// zoomDelta converts notches to a Rescale delta: the effective scale is
// multiplied by (1+ZoomStep)^notches.
func (c *Chart) zoomDelta(d axis.Domain, notches float64) float64 {
	if notches == 0 || d.Degenerate() {
		return 0
	}
	return d.Scale() * (math.Pow(1+c.cfg.ZoomStep, notches) - 1)
}

// Focus shows the x window e.
func (c *Chart) Focus(e domain.Extent) bool {
	return c.apply("focus", func(v View) View {
		n := v
		n.X = v.X.Focus(e)
		if c.cfg.AutoFitY && n.X != v.X {
			n = c.fitY(n)
		}
		return n
	})
}

// Reset returns to the view the chart started with.
func (c *Chart) Reset() bool {
	return c.apply("reset", func(View) View { return c.home })
}

// Undo restores the view before the last gesture.
func (c *Chart) Undo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.history.Undo(c.name, c.view)
	if !ok {
		return false
	}
	c.view = c.fitted(prev)
	c.metrics.Gesture("undo")
	return true
}

// Redo reapplies the last undone gesture.
func (c *Chart) Redo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, ok := c.history.Redo(c.name, c.view)
	if !ok {
		return false
	}
	c.view = c.fitted(next)
	c.metrics.Gesture("redo")
	return true
}

// InPlot reports whether a pointer position lies inside the plot area.
func (c *Chart) InPlot(pointerX, pointerY float64) bool {
	d := c.cfg.density()
	return c.View().Plot().Contains(vector.Pt{X: pointerX * d, Y: pointerY * d})
}

// HistoryDepth returns how many steps Undo and Redo can take.
func (c *Chart) HistoryDepth() (undo, redo int) {
	return c.history.Stats(c.name)
}

// fitted moves a view recorded for an earlier surface size onto the current one.
func (c *Chart) fitted(v View) View {
	return View{X: v.X.Resize(float64(c.cfg.Width)), Y: v.Y.Resize(float64(c.cfg.Height))}
}

// Resize changes the drawing surface, keeping the visible windows.
func (c *Chart) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Width, c.cfg.Height = width, height
	c.view = c.fitted(c.view)
	c.home = c.fitted(c.home)
}

// SetVisible shows or hides a series by name and re-fits y.
func (c *Chart) SetVisible(name string, visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if visible {
		delete(c.hidden, name)
	} else {
		c.hidden[name] = true
	}
	if c.cfg.AutoFitY {
		c.view = c.fitY(c.view)
	}
}

// Visible reports whether the named series is drawn.
func (c *Chart) Visible(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.hidden[name]
}

func (c *Chart) visibleSeries() []series.Adapter {
	out := make([]series.Adapter, 0, len(c.series))
	for _, a := range c.series {
		if !c.hidden[a.Name()] {
			out = append(out, a)
		}
	}
	return out
}

// Tooltip lists the values under pointer x (in pointer pixels).
func (c *Chart) Tooltip(pointerX float64) []tooltip.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.view.Degenerate() {
		return nil
	}
	r := tooltip.Resolver{Density: c.cfg.density(), Precision: c.cfg.Precision}
	return r.List(c.visibleSeries(), c.view.Affine(), pointerX)
}

// noteClamp reports a pan stopped at a data boundary.
func (c *Chart) noteClamp(name string, before, after axis.Domain, dt float64) {
	edge := ""
	switch {
	case dt > 0 && after.AtMin():
		edge = "min"
	case dt < 0 && after.AtMax():
		edge = "max"
	default:
		return
	}
	c.metrics.Clamp(name, edge)
	c.log.DebugContext(context.Background(), "pan clamped", slog.String("axis", name), slog.String("edge", edge),
		slog.Float64("local_min", after.Local.Min), slog.Float64("local_max", after.Local.Max),
		slog.Bool("moved", before != after))
}

// noteLimit reports a zoom that could not change the span.
func (c *Chart) noteLimit(name string, notches float64) {
	edge := "zoom_in"
	if notches < 0 {
		edge = "zoom_out"
	}
	c.metrics.Clamp(name, edge)
	c.log.Debug("zoom limit reached", slog.String("axis", name), slog.String("edge", edge))
}
