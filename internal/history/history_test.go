/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

import (
	"testing"
	"time"
)

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager[string](Config{MaxDepth: 10, MinInterval: 10 * time.Millisecond})
	t0 := time.Now()
	m.Record("p", "a", t0)
	m.Record("p", "b", t0.Add(20*time.Millisecond))
	if u, r := m.Stats("p"); u != 2 || r != 0 {
		t.Fatalf("expected 2 undo entries, got undo=%d redo=%d", u, r)
	}
	s, ok := m.Undo("p", "c")
	if !ok || s != "b" {
		t.Fatalf("undo expected 'b', got ok=%v state=%q", ok, s)
	}
	s, ok = m.Redo("p", "b")
	if !ok || s != "c" {
		t.Fatalf("redo expected 'c', got ok=%v state=%q", ok, s)
	}
	if _, ok := m.Redo("p", "c"); ok {
		t.Fatalf("redo stack should be empty")
	}
}

func TestCoalesceKeepsStateBeforeBurst(t *testing.T) {
	m := NewManager[int](Config{MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	for i := 0; i < 5; i++ {
		m.Record("p", i, t0.Add(time.Duration(i)*30*time.Millisecond))
	}
	if u, _ := m.Stats("p"); u != 1 {
		t.Fatalf("expected one coalesced entry, got %d", u)
	}
	s, ok := m.Undo("p", 99)
	if !ok || s != 0 {
		t.Fatalf("expected state from before the burst, got ok=%v state=%d", ok, s)
	}
}

func TestRecordClearsRedo(t *testing.T) {
	m := NewManager[int](Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.Record("p", 1, t0)
	m.Undo("p", 2)
	m.Record("p", 1, t0.Add(time.Second))
	if _, r := m.Stats("p"); r != 0 {
		t.Fatalf("redo should be cleared, got %d", r)
	}
}

func TestDepthCapAndPanels(t *testing.T) {
	m := NewManager[int](Config{MaxDepth: 2, MinInterval: time.Millisecond})
	t0 := time.Now()
	for i := 0; i < 10; i++ {
		m.Record("a", i, t0.Add(time.Duration(i)*time.Second))
	}
	m.Record("b", 42, t0)
	if u, _ := m.Stats("a"); u != 2 {
		t.Fatalf("expected cap of 2, got %d", u)
	}
	if s, _ := m.Undo("a", -1); s != 9 {
		t.Fatalf("expected newest kept, got %d", s)
	}
	if u, r := m.Stats("a"); u != 1 || r != 1 {
		t.Fatalf("after undo: undo=%d redo=%d", u, r)
	}
	if u, _ := m.Stats("b"); u != 1 {
		t.Fatalf("panel b affected by panel a")
	}
}
