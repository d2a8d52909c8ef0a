/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history keeps undo/redo stacks of chart view states.
package history

import (
	"sync"
	"time"
)

// Snapshot is a view state captured before a change. TS is when the change happened.
type Snapshot[T any] struct {
	Panel string
	State T
	TS    time.Time
}

// Config controls depth caps and coalescing behavior.
type Config struct {
	// MaxDepth limits the number of snapshots kept per panel (0 means 100).
	MaxDepth int
	// MinInterval merges changes closer together than this into one undo step,
	// so a wheel burst undoes in one go.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per chart panel.
// It is safe for concurrent use.
type Manager[T any] struct {
	cfg  Config
	mu   sync.Mutex
	undo map[string][]Snapshot[T]
	redo map[string][]Snapshot[T]
}

func NewManager[T any](cfg Config) *Manager[T] {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 100
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager[T]{cfg: cfg, undo: make(map[string][]Snapshot[T]), redo: make(map[string][]Snapshot[T])}
}

// Record stores the state a panel had before a change at ts. Within
// MinInterval of the previous change only the timestamp is refreshed, keeping
// the state from before the burst. Any record clears the panel's redo stack.
func (m *Manager[T]) Record(panel string, before T, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo[panel] = nil
	stack := m.undo[panel]
	if n := len(stack); n > 0 && ts.Sub(stack[n-1].TS) < m.cfg.MinInterval {
		stack[n-1].TS = ts
		return
	}
	stack = append(stack, Snapshot[T]{Panel: panel, State: before, TS: ts})
	if extra := len(stack) - m.cfg.MaxDepth; extra > 0 {
		stack = append([]Snapshot[T]{}, stack[extra:]...)
	}
	m.undo[panel] = stack
}

// Undo returns the previous state and remembers current for Redo.
func (m *Manager[T]) Undo(panel string, current T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[panel]
	if len(stack) == 0 {
		var zero T
		return zero, false
	}
	s := stack[len(stack)-1]
	m.undo[panel] = stack[:len(stack)-1]
	m.redo[panel] = append(m.redo[panel], Snapshot[T]{Panel: panel, State: current, TS: s.TS})
	return s.State, true
}

// Redo reapplies the last undone state and remembers current for Undo.
func (m *Manager[T]) Redo(panel string, current T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[panel]
	if len(r) == 0 {
		var zero T
		return zero, false
	}
	s := r[len(r)-1]
	m.redo[panel] = r[:len(r)-1]
	// zero TS so the next Record never coalesces into a redone step
	m.undo[panel] = append(m.undo[panel], Snapshot[T]{Panel: panel, State: current})
	return s.State, true
}

// Stats returns the undo and redo stack depths of a panel.
func (m *Manager[T]) Stats(panel string) (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[panel]), len(m.redo[panel])
}
