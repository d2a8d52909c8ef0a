/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders chart frames to files. Every driver draws the same
// scene: background, grid, plot border, series lines, tick labels, title and
// the tooltip overlay when the frame carries one.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gochartview/internal/chart"
	"gochartview/internal/vector"
)

// Format names a render driver.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Options controls the look of a rendered frame; zero values get defaults.
type Options struct {
	Background vector.Color
	LineWidth  float64
	Markers    bool // dot every visible sample
	Grid       bool
	FontSize   float64
}

func (o Options) withDefaults() Options {
	if o.Background == (vector.Color{}) {
		o.Background = vector.White
	}
	if o.LineWidth <= 0 {
		o.LineWidth = 1.5
	}
	if o.FontSize <= 0 {
		o.FontSize = 10
	}
	return o
}

// Render writes f in the given format to w.
func Render(w io.Writer, format Format, f chart.Frame, opt Options) error {
	opt = opt.withDefaults()
	switch format {
	case FormatSVG:
		return renderSVG(w, f, opt)
	case FormatPNG:
		return renderPNG(w, f, opt)
	case FormatPDF:
		return renderPDF(w, f, opt)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}
