/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package chart

// Drag tracks one pointer drag. Start records the reference position, each
// Move reports the delta since the previous event, and End or a pointer
// leaving the surface abandons the gesture. Nothing needs rolling back: the
// deltas already applied stay applied.
type Drag struct {
	active bool
	x, y   float64
}

// Start begins a drag at pointer position (x, y).
func (d *Drag) Start(x, y float64) {
	d.active = true
	d.x, d.y = x, y
}

// Move returns the pointer delta since the last event. ok is false when no
// drag is in progress.
func (d *Drag) Move(x, y float64) (dx, dy float64, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	dx, dy = x-d.x, y-d.y
	d.x, d.y = x, y
	return dx, dy, true
}

// End stops the drag.
func (d *Drag) End() { d.active = false }

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// DragTo feeds a pointer move into c as a pan. It returns whether the view changed.
func (c *Chart) DragTo(d *Drag, x, y float64) bool {
	dx, dy, ok := d.Move(x, y)
	if !ok || (dx == 0 && dy == 0) {
		return false
	}
	return c.Pan(dx, dy)
}
