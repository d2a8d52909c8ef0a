//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gochartview/internal/chart"
	"gochartview/internal/export"
	applog "gochartview/internal/log"
)

// Run opens a window on c and blocks until it is closed.
func Run(c *chart.Chart, opt Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("chart", c.Name()))

	fyneApp := app.NewWithID("dev.gochartview")
	w := fyneApp.NewWindow("gochartview - " + c.Name())
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1000)
	winH := prefs.IntWithFallback("window.height", 640)
	if winW < 480 {
		winW = 480
	}
	if winH < 320 {
		winH = 320
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	cc := NewChartCanvas(c, opt)
	status := widget.NewLabel("")
	update := func() { status.SetText(StatusText(c, cc.Tooltip())) }
	cc.OnChange = update

	var checks []fyne.CanvasObject
	for _, a := range c.Series() {
		name := a.Name()
		check := widget.NewCheck(name, nil)
		check.Checked = c.Visible(name)
		check.OnChanged = func(on bool) {
			c.SetVisible(name, on)
			cc.changed()
		}
		checks = append(checks, check)
	}

	act := func(f func() bool) func() {
		return func() {
			if f() {
				cc.changed()
			}
		}
	}
	saveAs := func() {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if wc == nil {
				return
			}
			defer func() { _ = wc.Close() }()
			format, err := export.FormatOf(wc.URI().Path())
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			f := c.Frame(chart.FrameOptions{Colors: opt.Colors})
			if err := export.Render(wc, format, f, opt.Export); err != nil {
				l.Error("export failed", slog.Any("err", err))
				dialog.ShowError(fmt.Errorf("export %s: %w", format, err), w)
				return
			}
			status.SetText("saved " + wc.URI().Name())
		}, w)
	}
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), act(c.Undo)),
		widget.NewToolbarAction(theme.ContentRedoIcon(), act(c.Redo)),
		widget.NewToolbarAction(theme.ZoomInIcon(), act(func() bool { return c.Zoom(1) })),
		widget.NewToolbarAction(theme.ZoomOutIcon(), act(func() bool { return c.Zoom(-1) })),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), act(c.Reset)),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), saveAs),
	)
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { saveAs() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { act(c.Undo)() })

	side := container.NewVBox(append([]fyne.CanvasObject{widget.NewLabel("Series"), widget.NewSeparator()}, checks...)...)
	w.SetContent(container.NewBorder(toolbar, status, nil, side, cc))
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})
	w.Canvas().Focus(cc)
	update()
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}
