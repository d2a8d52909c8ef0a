/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"gochartview/internal/chart"
	"gochartview/internal/vector"
	"gochartview/internal/version"
)

// pdfSurface draws on a single page sized to the frame; one pixel is one point.
type pdfSurface struct {
	pdf *gofpdf.Fpdf
}

func renderPDF(w io.Writer, f chart.Frame, opt Options) error {
	// Use points for 1:1 mapping from frame pixels to PDF
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: f.Width, Ht: f.Height},
	})
	pdf.SetTitle(f.Title, true)
	pdf.SetCreator("gochartview "+version.String(), true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: f.Width, Ht: f.Height})
	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", opt.FontSize)

	drawScene(&pdfSurface{pdf: pdf}, f, opt)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (s *pdfSurface) fillRect(r vector.Rect, c vector.Color) {
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
}

func (s *pdfSurface) strokeRect(r vector.Rect, c vector.Color, width float64) {
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetLineWidth(width)
	s.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
}

func (s *pdfSurface) stroke(p vector.Path, c vector.Color, width float64) {
	if p.Empty() {
		return
	}
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetLineWidth(width)
	s.pdf.SetLineJoinStyle("round")
	for _, cmd := range p.Cmds {
		switch cmd.Op {
		case vector.MoveTo:
			s.pdf.MoveTo(cmd.P.X, cmd.P.Y)
		case vector.LineTo:
			s.pdf.LineTo(cmd.P.X, cmd.P.Y)
		case vector.Close:
			s.pdf.ClosePath()
		}
	}
	s.pdf.DrawPath("D")
}

func (s *pdfSurface) dot(center vector.Pt, radius float64, c vector.Color) {
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.Circle(center.X, center.Y, radius, "F")
}

func (s *pdfSurface) text(str string, at vector.Pt, a anchor, c vector.Color) {
	s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	x := at.X
	switch a {
	case anchorMiddle:
		x -= s.pdf.GetStringWidth(str) / 2
	case anchorEnd:
		x -= s.pdf.GetStringWidth(str)
	}
	s.pdf.Text(x, at.Y, str)
}

func (s *pdfSurface) clip(r vector.Rect) { s.pdf.ClipRect(r.X, r.Y, r.W, r.H, false) }

func (s *pdfSurface) unclip() { s.pdf.ClipEnd() }
