/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tui is the interactive terminal viewer: keys and mouse drive the
// chart's pan, zoom and history; every update redraws through term.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gochartview/internal/chart"
	applog "gochartview/internal/log"
	"gochartview/internal/telemetry"
	"gochartview/internal/term"
)

// KeyBinding maps keys to a model action.
type KeyBinding struct {
	Keys        []string
	Description string
	Handler     func(*Model) tea.Cmd
}

// Bindings lists the viewer's keys in help order.
func Bindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"left", "h"}, Description: "Pan to earlier data", Handler: (*Model).panEarlier},
		{Keys: []string{"right", "l"}, Description: "Pan to later data", Handler: (*Model).panLater},
		{Keys: []string{"+", "="}, Description: "Zoom in", Handler: func(m *Model) tea.Cmd { m.chart.Zoom(1); return nil }},
		{Keys: []string{"-", "_"}, Description: "Zoom out", Handler: func(m *Model) tea.Cmd { m.chart.Zoom(-1); return nil }},
		{Keys: []string{"u"}, Description: "Undo view change", Handler: func(m *Model) tea.Cmd { m.chart.Undo(); return nil }},
		{Keys: []string{"ctrl+r", "U"}, Description: "Redo view change", Handler: func(m *Model) tea.Cmd { m.chart.Redo(); return nil }},
		{Keys: []string{"r", "home"}, Description: "Reset view", Handler: func(m *Model) tea.Cmd { m.chart.Reset(); return nil }},
		{Keys: []string{"?"}, Description: "Toggle help", Handler: func(m *Model) tea.Cmd { m.help = !m.help; return nil }},
		{Keys: []string{"q", "ctrl+c", "esc"}, Description: "Quit", Handler: func(*Model) tea.Cmd { return tea.Quit }},
	}
}

// Model is the bubbletea model wrapping one chart.
type Model struct {
	chart   *chart.Chart
	metrics *telemetry.Metrics
	keyMap  map[string]func(*Model) tea.Cmd
	log     *slog.Logger

	width, height int
	drag          chart.Drag
	cursor        *float64 // pointer x in chart pixels
	help          bool
	color         bool
}

type Option func(*Model)

func WithMetrics(m *telemetry.Metrics) Option { return func(t *Model) { t.metrics = m } }

// WithColor styles series with their colours.
func WithColor(on bool) Option { return func(t *Model) { t.color = on } }

func New(c *chart.Chart, opts ...Option) *Model {
	m := &Model{
		chart:  c,
		keyMap: map[string]func(*Model) tea.Cmd{},
		log:    applog.WithComponent("tui").With(slog.String("panel", c.Name())),
		width:  80,
		height: 24,
	}
	for _, b := range Bindings() {
		for _, k := range b.Keys {
			m.keyMap[k] = b.Handler
		}
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if h, ok := m.keyMap[msg.String()]; ok {
			return m, h(m)
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := m.toChart(msg.X, msg.Y)
	ev := tea.MouseEvent(msg)
	switch {
	case ev.IsWheel():
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.chart.Zoom(1)
		case tea.MouseButtonWheelDown:
			m.chart.Zoom(-1)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.drag.Start(x, y)
	case msg.Action == tea.MouseActionMotion:
		if m.drag.Active() {
			m.chart.DragTo(&m.drag, x, y)
		}
		m.cursor = nil
		if m.chart.InPlot(x, y) {
			m.cursor = &x
		}
	case msg.Action == tea.MouseActionRelease:
		m.drag.End()
	}
}

// toChart converts a terminal cell to pointer pixels, stretching the terminal
// over the whole chart surface. The chart applies Density itself.
func (m *Model) toChart(col, row int) (float64, float64) {
	pw, ph := m.surface()
	w, h := max(m.width, 1), max(m.height, 1)
	return (float64(col) + 0.5) * pw / float64(w), (float64(row) + 0.5) * ph / float64(h)
}

// surface is the chart size in pointer pixels.
func (m *Model) surface() (float64, float64) {
	cfg := m.chart.Config()
	d := cfg.Density
	if d <= 0 {
		d = 1
	}
	return float64(cfg.Width) / d, float64(cfg.Height) / d
}

func (m *Model) step() float64 {
	w, _ := m.surface()
	return w / 10
}

func (m *Model) panEarlier() tea.Cmd {
	m.chart.Pan(m.step(), 0)
	return nil
}

func (m *Model) panLater() tea.Cmd {
	m.chart.Pan(-m.step(), 0)
	return nil
}

func (m *Model) View() string {
	if m.help {
		return m.helpView()
	}
	start := time.Now()
	f := m.chart.Frame(chart.FrameOptions{Cursor: m.cursor})
	out := term.Render(f, term.Options{Cols: m.width, Rows: m.height - 1, Color: m.color})
	m.metrics.Frame("term", time.Since(start))
	undo, redo := m.chart.HistoryDepth()
	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("x %s .. %s  undo %d  redo %d  ? help  q quit",
		format(f.Window.X.Min), format(f.Window.X.Max), undo, redo))
	return lipgloss.JoinVertical(lipgloss.Left, out, status)
}

func (m *Model) helpView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Keys") + "\n")
	for _, k := range Bindings() {
		fmt.Fprintf(&b, "  %-16s %s\n", strings.Join(k.Keys, ", "), k.Description)
	}
	b.WriteString("  drag             Pan\n  wheel            Zoom\n")
	return b.String()
}

func format(v float64) string { return fmt.Sprintf("%.4g", v) }

// Run starts the viewer in the alternate screen with mouse tracking and
// blocks until the user quits or ctx is done.
func Run(ctx context.Context, c *chart.Chart, opts ...Option) error {
	m := New(c, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	m.log.Info("viewer started")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
