/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package labels

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested label font.
type FontSpec struct {
	Path   string // optional TTF/OTF file; empty selects the built-in face
	SizePt float64
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent float64
}

// Provider maps a FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic output.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{Ascent: float64(m.Ascent.Round()), Descent: float64(m.Descent.Round())}
}

// OTProvider loads an OpenType face from disk and falls back to another
// Provider when the file is missing or cannot be parsed.
type OTProvider struct {
	DPI      float64 // default 72 if zero
	Fallback Provider
	cache    map[string]*opentype.Font
}

// NewOTProvider returns a provider with an empty font cache.
func NewOTProvider() *OTProvider { return &OTProvider{cache: map[string]*opentype.Font{}} }

func (p *OTProvider) load(path string) (*opentype.Font, error) {
	if f, ok := p.cache[path]; ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	if p.cache == nil {
		p.cache = map[string]*opentype.Font{}
	}
	p.cache[path] = f
	return f, nil
}

func (p *OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 11
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if spec.Path != "" {
		if f, err := p.load(spec.Path); err == nil {
			face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.SizePt, DPI: dpi, Hinting: font.HintingFull})
			if err == nil {
				m := face.Metrics()
				return face, Metrics{Ascent: float64(m.Ascent.Round()), Descent: float64(m.Descent.Round())}
			}
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

// Measure returns the advance width and line height of text in face.
func Measure(face font.Face, text string) (w, h float64) {
	adv := font.MeasureString(face, text)
	m := face.Metrics()
	return fixedToFloat(adv), fixedToFloat(m.Ascent + m.Descent)
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
