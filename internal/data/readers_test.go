/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cmdgraph/internal/errs"
)

func TestReadXY(t *testing.T) {
	src := "# header\n1 2\n2,4\n\n3\t-1 # trailing\n"
	d, err := Read(strings.NewReader(src), "a.dat", FormatXY)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}
	if d.YBounds != (Bounds{Min: -1, Max: 4}) {
		t.Fatalf("YBounds = %+v", d.YBounds)
	}
	if d.XBounds != (Bounds{Min: 1, Max: 3}) {
		t.Fatalf("XBounds = %+v", d.XBounds)
	}
}

func TestReadStickSeedsZero(t *testing.T) {
	d, err := Read(strings.NewReader("100 5\n200 7\n"), "a.stk", FormatStick)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if d.YBounds.Min != 0 || d.YBounds.Max != 7 {
		t.Fatalf("YBounds = %+v, want {0 7}", d.YBounds)
	}
	if !d.Sticks() {
		t.Fatal("stick dataset not drawn as sticks")
	}
}

func TestReadLinelist(t *testing.T) {
	src := "J=1 J=0 1000.5 0.25 P(1) strong\nJ=2 J=1 1010.0 -0.1\n"
	d, err := Read(strings.NewReader(src), "a.trans", FormatLinelist)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(d.Transitions) != 2 {
		t.Fatalf("Transitions = %d, want 2", len(d.Transitions))
	}
	tr := d.Transitions[0]
	if tr.Upper != "J=1" || tr.Lower != "J=0" || tr.Wavenumber != 1000.5 {
		t.Fatalf("transition = %+v", tr)
	}
	if got := strings.Join(tr.Labels, " "); got != "P(1) strong" {
		t.Fatalf("Labels = %q, want %q", got, "P(1) strong")
	}
	if d.YBounds.Min != -0.1 {
		t.Fatalf("YBounds.Min = %g, want -0.1", d.YBounds.Min)
	}
}

func TestReadErrorsCarryLineNumber(t *testing.T) {
	_, err := Read(strings.NewReader("1 2\n3 abc\n"), "bad.dat", FormatXY)
	if !errs.Is(err, errs.KindFormat) {
		t.Fatalf("err = %v, want format error", err)
	}
	e, _ := errs.As(err)
	if e.Detail("line") != "2" {
		t.Fatalf("line = %q, want %q", e.Detail("line"), "2")
	}
	if _, err := Read(strings.NewReader("# only comments\n"), "empty.dat", FormatXY); !errs.Is(err, errs.KindFormat) {
		t.Fatalf("empty file err = %v", err)
	}
	if _, err := Read(strings.NewReader("1\n"), "short.dat", FormatXY); err == nil {
		t.Fatal("expected error for single column")
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		def  Format
		want Format
	}{
		{"a.stk", FormatXY, FormatStick},
		{"a.STICK", FormatXY, FormatStick},
		{"a.trans", FormatStick, FormatLinelist},
		{"a.lines", FormatXY, FormatLinelist},
		{"a.csv", FormatStick, FormatStick},
		{"a.csv", "", FormatXY},
	}
	for _, c := range cases {
		if got := DetectFormat(c.path, c.def); got != c.want {
			t.Fatalf("DetectFormat(%q, %q) = %q, want %q", c.path, c.def, got, c.want)
		}
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "spec.stk")
	if err := os.WriteFile(p, []byte("1 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := FileLoader{}.Load(p, FormatXY)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Format != FormatStick || d.Path != p {
		t.Fatalf("dataset = %+v", d)
	}
	if _, err := (FileLoader{}).Load(filepath.Join(dir, "missing.dat"), FormatXY); !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("missing file err = %v, want not found", err)
	}
}
