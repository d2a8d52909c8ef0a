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
	"image"
	"image/draw"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"gochartview/internal/chart"
	applog "gochartview/internal/log"
	"gochartview/internal/vector"
)

var fontSource = sync.OnceValues(func() (*text.FontSource, error) {
	gg.SetLogger(applog.WithComponent("gg"))
	return text.NewFontSource(goregular.TTF)
})

// pngSurface rasterises the scene on a gg context. Stroke and fill errors are
// kept and the first one is returned.
type pngSurface struct {
	dc  *gg.Context
	err error
}

func renderPNG(w io.Writer, f chart.Frame, opt Options) error {
	dc, err := rasterize(f, opt)
	if err != nil {
		return err
	}
	defer func() { _ = dc.Close() }()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// RenderImage rasterises f into a fresh RGBA image, for widgets that blit
// frames instead of writing files.
func RenderImage(f chart.Frame, opt Options) (*image.RGBA, error) {
	dc, err := rasterize(f, opt.withDefaults())
	if err != nil {
		return nil, err
	}
	defer func() { _ = dc.Close() }()
	src := dc.Image()
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img, nil
}

func rasterize(f chart.Frame, opt Options) (*gg.Context, error) {
	wpx, hpx := int(math.Ceil(f.Width)), int(math.Ceil(f.Height))
	if wpx <= 0 || hpx <= 0 {
		return nil, fmt.Errorf("png: empty surface %dx%d", wpx, hpx)
	}
	src, err := fontSource()
	if err != nil {
		return nil, fmt.Errorf("png: load font: %w", err)
	}
	dc := gg.NewContext(wpx, hpx)
	dc.SetFont(src.Face(opt.FontSize))

	s := &pngSurface{dc: dc}
	drawScene(s, f, opt)
	if s.err != nil {
		_ = dc.Close()
		return nil, fmt.Errorf("png: draw: %w", s.err)
	}
	return dc, nil
}

func (s *pngSurface) setColor(c vector.Color) {
	s.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func (s *pngSurface) keep(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *pngSurface) fillRect(r vector.Rect, c vector.Color) {
	s.setColor(c)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.keep(s.dc.Fill())
}

func (s *pngSurface) strokeRect(r vector.Rect, c vector.Color, width float64) {
	s.setColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.keep(s.dc.Stroke())
}

func (s *pngSurface) stroke(p vector.Path, c vector.Color, width float64) {
	if p.Empty() {
		return
	}
	s.setColor(c)
	s.dc.SetLineWidth(width)
	for _, cmd := range p.Cmds {
		switch cmd.Op {
		case vector.MoveTo:
			s.dc.MoveTo(cmd.P.X, cmd.P.Y)
		case vector.LineTo:
			s.dc.LineTo(cmd.P.X, cmd.P.Y)
		case vector.Close:
			s.dc.ClosePath()
		}
	}
	s.keep(s.dc.Stroke())
}

func (s *pngSurface) dot(center vector.Pt, radius float64, c vector.Color) {
	s.setColor(c)
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.keep(s.dc.Fill())
}

func (s *pngSurface) text(str string, at vector.Pt, a anchor, c vector.Color) {
	s.setColor(c)
	x := at.X
	if a != anchorStart {
		w, _ := s.dc.MeasureString(str)
		if a == anchorMiddle {
			w /= 2
		}
		x -= w
	}
	s.dc.DrawString(str, x, at.Y)
}

func (s *pngSurface) clip(r vector.Rect) {
	s.dc.Push()
	s.dc.ClipRect(r.X, r.Y, r.W, r.H)
}

func (s *pngSurface) unclip() { s.dc.Pop() }
