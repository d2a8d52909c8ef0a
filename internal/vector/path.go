/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"

	"gochartview/internal/domain"
)

// Path commands.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	Close
)

type PathCmd struct {
	Op PathOp
	P  Pt
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) { p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, P: Pt{x, y}}) }
func (p *Path) LineTo(x, y float64) { p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, P: Pt{x, y}}) }
func (p *Path) Close()              { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Empty reports whether the path draws nothing.
func (p *Path) Empty() bool {
	for _, c := range p.Cmds {
		if c.Op == LineTo {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned bounding box of every vertex.
func (p *Path) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range p.Cmds {
		if c.Op == Close {
			continue
		}
		minX, maxX = math.Min(minX, c.P.X), math.Max(maxX, c.P.X)
		minY, maxY = math.Min(minY, c.P.Y), math.Max(maxY, c.P.Y)
	}
	if minX > maxX || minY > maxY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Subpaths splits the path at each MoveTo.
func (p *Path) Subpaths() [][]Pt {
	var out [][]Pt
	var cur []Pt
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = []Pt{c.P}
		case LineTo:
			cur = append(cur, c.P)
		case Close:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Polyline builds a path through pts mapped by m. A point without a value
// ends the current segment; the next valid point starts a new one with MoveTo.
func Polyline(pts []domain.Point, m Affine) Path {
	var p Path
	pen := false
	for _, pt := range pts {
		if !pt.Valid {
			pen = false
			continue
		}
		q := m.Apply(Pt{pt.X, pt.Y})
		if pen {
			p.LineTo(q.X, q.Y)
		} else {
			p.MoveTo(q.X, q.Y)
			pen = true
		}
	}
	return p
}
