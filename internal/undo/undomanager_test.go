/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
)

func snap(s string) Snapshot { return Snapshot{Label: "cmd " + s, Script: []byte(s)} }

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxDepth: 10})
	m.Push(snap("a"))
	m.Push(snap("b"))
	if _, depth, _ := m.Stats(); depth != 2 {
		t.Fatalf("expected 2 snapshots, got %d", depth)
	}
	s, ok := m.Undo(snap("c"))
	if !ok || string(s.Script) != "b" {
		t.Fatalf("undo expected 'b', got ok=%v script=%q", ok, string(s.Script))
	}
	s, ok = m.Redo(snap("b"))
	if !ok || string(s.Script) != "c" {
		t.Fatalf("redo expected 'c', got ok=%v script=%q", ok, string(s.Script))
	}
	if _, depth, redo := m.Stats(); depth != 2 || redo != 0 {
		t.Fatalf("after redo depth=%d redo=%d, want 2 and 0", depth, redo)
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{})
	m.Push(snap("a"))
	_, _ = m.Undo(snap("b"))
	m.Push(snap("x"))
	if _, ok := m.Redo(snap("y")); ok {
		t.Fatal("redo available after a new push")
	}
}

func TestEmptyStacks(t *testing.T) {
	m := NewManager(Config{})
	if _, ok := m.Undo(snap("a")); ok {
		t.Fatal("undo on empty manager")
	}
	if _, ok := m.Redo(snap("a")); ok {
		t.Fatal("redo on empty manager")
	}
}

func TestCaps(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MaxDepth: 2})
	for i := 0; i < 10; i++ {
		m.Push(snap("xxxxx"))
	}
	if _, depth, _ := m.Stats(); depth != 2 {
		t.Fatalf("expected MaxDepth cap to limit to 2, got %d", depth)
	}

	m = NewManager(Config{MaxBytes: 12})
	for i := 0; i < 10; i++ {
		m.Push(snap("xxxxx"))
	}
	total, depth, _ := m.Stats()
	if total > 12 || depth != 2 {
		t.Fatalf("byte cap: total=%d depth=%d", total, depth)
	}
	m.Clear()
	if total, depth, _ := m.Stats(); total != 0 || depth != 0 {
		t.Fatalf("after Clear total=%d depth=%d", total, depth)
	}
}
