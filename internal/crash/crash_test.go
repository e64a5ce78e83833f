/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path, err := writeReport(dir, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report written to %s, want dir %s", path, dir)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "cmdgraph crash report") || !strings.Contains(s, "Panic: boom") {
		t.Fatalf("report content: %s", s)
	}
}

func TestTargetDirDefaultsToTemp(t *testing.T) {
	if got := (Target{}).dir(); got != os.TempDir() {
		t.Fatalf("dir = %q, want %q", got, os.TempDir())
	}
}

func TestRecoverWritesReportAndAutosave(t *testing.T) {
	var out bytes.Buffer
	oldStderr, oldExit := stderr, exitFn
	code := 0
	stderr = &out
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { stderr, exitFn = oldStderr, oldExit })

	dir := t.TempDir()
	session := []byte("---cmdGraph---\nmode graph\nadat a.dat\n")
	func() {
		defer Recover(Target{Dir: dir, Session: func() []byte { return session }})
		panic("boom")
	}()

	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	var report, autosave string
	ents, _ := os.ReadDir(dir)
	for _, e := range ents {
		switch {
		case strings.HasPrefix(e.Name(), "cmdgraph-crash-"):
			report = filepath.Join(dir, e.Name())
		case strings.HasPrefix(e.Name(), "cmdgraph-autosave-"):
			autosave = filepath.Join(dir, e.Name())
		}
	}
	if report == "" || autosave == "" {
		t.Fatalf("missing files in %s: %v", dir, ents)
	}
	b, _ := os.ReadFile(autosave)
	if !bytes.Equal(b, session) {
		t.Fatalf("autosave = %q, want %q", b, session)
	}
	if !strings.Contains(out.String(), "load "+autosave) {
		t.Fatalf("notice does not mention the autosave: %q", out.String())
	}
}

func TestRecoverSurvivesBrokenSession(t *testing.T) {
	oldStderr, oldExit := stderr, exitFn
	stderr = &bytes.Buffer{}
	exitFn = func(int) {}
	t.Cleanup(func() { stderr, exitFn = oldStderr, oldExit })

	dir := t.TempDir()
	func() {
		defer Recover(Target{Dir: dir, Session: func() []byte { panic("second") }})
		panic("first")
	}()
	ents, _ := os.ReadDir(dir)
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), "cmdgraph-autosave-") {
			t.Fatalf("autosave written for a broken session")
		}
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	oldExit := exitFn
	called := false
	exitFn = func(int) { called = true }
	t.Cleanup(func() { exitFn = oldExit })
	func() {
		defer Recover(Target{Dir: t.TempDir()})
	}()
	if called {
		t.Fatalf("exit called without a panic")
	}
}
