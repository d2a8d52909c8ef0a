/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gochartview/internal/chart"
	"gochartview/internal/vector"
)

// svgSurface writes SVG elements into a buffer; the first write error sticks.
type svgSurface struct {
	buf      bytes.Buffer
	err      error
	fontSize float64
	clipped  bool
}

func (s *svgSurface) wf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(&s.buf, format, args...)
}

func renderSVG(w io.Writer, f chart.Frame, opt Options) error {
	s := &svgSurface{fontSize: opt.FontSize}
	s.wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	s.wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", f.Width, f.Height, f.Width, f.Height)
	s.wf("  <title>%s</title>\n", escText(f.Title))
	s.wf("  <defs><clipPath id=\"plot\"><rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"/></clipPath></defs>\n", f.Plot.X, f.Plot.Y, f.Plot.W, f.Plot.H)
	drawScene(s, f, opt)
	s.wf("</svg>\n")
	if s.err != nil {
		return fmt.Errorf("build svg: %w", s.err)
	}
	if _, err := w.Write(s.buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func (s *svgSurface) fillRect(r vector.Rect, c vector.Color) {
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", r.X, r.Y, r.W, r.H, svgColor(c))
}

func (s *svgSurface) strokeRect(r vector.Rect, c vector.Color, width float64) {
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n", r.X, r.Y, r.W, r.H, svgColor(c), width)
}

func (s *svgSurface) stroke(p vector.Path, c vector.Color, width float64) {
	if p.Empty() {
		return
	}
	s.wf("  <path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\" stroke-linejoin=\"round\"/>\n", pathData(p), svgColor(c), width)
}

func (s *svgSurface) dot(center vector.Pt, radius float64, c vector.Color) {
	s.wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\"/>\n", center.X, center.Y, radius, svgColor(c))
}

func (s *svgSurface) text(str string, at vector.Pt, a anchor, c vector.Color) {
	s.wf("  <text x=\"%g\" y=\"%g\" font-family=\"%s\" font-size=\"%g\" text-anchor=\"%s\" fill=\"%s\">%s</text>\n",
		at.X, at.Y, escAttr("Helvetica, Arial, sans-serif"), s.fontSize, svgAnchor(a), svgColor(c), escText(str))
}

func (s *svgSurface) clip(vector.Rect) {
	s.wf("  <g clip-path=\"url(#plot)\">\n")
	s.clipped = true
}

func (s *svgSurface) unclip() {
	if s.clipped {
		s.wf("  </g>\n")
		s.clipped = false
	}
}

// pathData encodes p as an SVG path; a MoveTo starts every gap-separated run.
func pathData(p vector.Path) string {
	var b strings.Builder
	for i, c := range p.Cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch c.Op {
		case vector.MoveTo:
			fmt.Fprintf(&b, "M%.2f %.2f", c.P.X, c.P.Y)
		case vector.LineTo:
			fmt.Fprintf(&b, "L%.2f %.2f", c.P.X, c.P.Y)
		case vector.Close:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func svgAnchor(a anchor) string {
	switch a {
	case anchorMiddle:
		return "middle"
	case anchorEnd:
		return "end"
	}
	return "start"
}

func svgColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
