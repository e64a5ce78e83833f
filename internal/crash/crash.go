/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic in the shell process into a crash report and
// an autosaved session file, so the plot can be rebuilt with "load".
package crash

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "cmdgraph/internal/log"
	"cmdgraph/internal/sessionfile"
	"cmdgraph/internal/telemetry"
	"cmdgraph/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// stderr receives the user-facing crash notice.
var stderr io.Writer = os.Stderr

// Target tells Recover where to write and what to autosave.
type Target struct {
	// Dir holds the report and the autosave; os.TempDir() when empty.
	Dir string
	// Session returns the encoded session file; nil skips the autosave.
	Session func() []byte
}

// Recover captures a panic, logs it with its stack, writes a crash report
// and autosaves the session, then exits with status 2.
//
// Usage: defer crash.Recover(target)
func Recover(t Target) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(t.dir(), r, stack)
	if err != nil {
		l.Error("crash report failed", slog.Any("err", err))
	}
	autosave := ""
	if t.Session != nil {
		if path, err := t.autosave(); err != nil {
			l.Error("session autosave failed", slog.Any("err", err))
		} else {
			autosave = path
			l.Info("session autosaved", slog.String("path", path))
		}
	}

	_, _ = fmt.Fprintf(stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	if autosave != "" {
		_, _ = fmt.Fprintf(stderr, "Your session was saved to %s; restore it with: load %s\n", autosave, autosave)
	}
	_, _ = fmt.Fprintf(stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func (t Target) dir() string {
	if t.Dir != "" {
		return t.Dir
	}
	return os.TempDir()
}

// autosave recovers from a second panic while encoding the session.
func (t Target) autosave() (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode session: %v", r)
		}
	}()
	content := t.Session()
	if len(content) == 0 {
		return "", fmt.Errorf("empty session")
	}
	path = filepath.Join(t.dir(), fmt.Sprintf("cmdgraph-autosave-%s.cmg", time.Now().Format("20060102-150405")))
	return path, sessionfile.WriteBytes(path, content, sessionfile.WriteOptions{})
}

func writeReport(dir string, panicVal any, stack []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("cmdgraph-crash-%s.log", time.Now().Format("20060102-150405")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "cmdgraph crash report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	telemetry.Default().UploadCrash(buf.Bytes())
	return path, nil
}
