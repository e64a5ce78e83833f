/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func sample() Series {
	return Series{Name: "a", X: []float64{1, 2, 3}, Y: []float64{2, 4, 3}}
}

func TestAddRemoveSeries(t *testing.T) {
	f := New(Options{})
	h1, err := f.AddSeries(sample())
	if err != nil {
		t.Fatalf("AddSeries: %v", err)
	}
	h2, _ := f.AddSeries(sample())
	if h1 == h2 {
		t.Fatalf("handles not unique: %d", h1)
	}
	if !f.RemoveSeries(h1) {
		t.Fatalf("RemoveSeries(%d) = false", h1)
	}
	if f.RemoveSeries(h1) {
		t.Fatalf("second RemoveSeries(%d) = true", h1)
	}
	if got := f.Handles(); len(got) != 1 || got[0] != h2 {
		t.Fatalf("Handles = %v, want [%d]", got, h2)
	}
}

func TestAddSeriesRejectsMismatchedColumns(t *testing.T) {
	f := New(Options{})
	if _, err := f.AddSeries(Series{X: []float64{1}, Y: nil}); err == nil {
		t.Fatal("expected error for mismatched columns")
	}
}

func TestClosedFigureRejectsSeries(t *testing.T) {
	f := New(Options{})
	f.CloseFigure()
	if _, err := f.AddSeries(sample()); err == nil {
		t.Fatal("expected error on closed figure")
	}
	f.NewFigure()
	if _, err := f.AddSeries(sample()); err != nil {
		t.Fatalf("AddSeries after NewFigure: %v", err)
	}
}

func TestApplyLineStyle(t *testing.T) {
	f := New(Options{})
	h, _ := f.AddSeries(sample())
	if err := f.ApplyLineStyle(h, WithColour("r"), WithLineWidth(2.5), WithLabel("none")); err != nil {
		t.Fatalf("ApplyLineStyle: %v", err)
	}
	st, _ := f.StyleOf(h)
	if st.Colour != "r" || st.LineWidth != 2.5 || !st.HideLegend {
		t.Fatalf("style = %+v", st)
	}
	if err := f.ApplyLineStyle(h+100, WithColour("r")); err == nil {
		t.Fatal("expected error for unknown handle")
	}
}

func TestSetAxisRange(t *testing.T) {
	f := New(Options{})
	if err := f.SetAxisRange(AxisX, Fixed(5), Fixed(1)); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if err := f.SetAxisRange(Axis("z"), AutoBound(), AutoBound()); err == nil {
		t.Fatal("expected error for unknown axis")
	}
	if err := f.SetAxisRange(AxisY, AutoBound(), Fixed(10)); err != nil {
		t.Fatalf("SetAxisRange: %v", err)
	}
	lo, hi := f.AxisRange(AxisY)
	if !lo.Auto || hi.Auto || hi.Value != 10 {
		t.Fatalf("AxisRange = %+v %+v", lo, hi)
	}
}

func TestLimitsAutoscale(t *testing.T) {
	f := New(Options{})
	_, _ = f.AddSeries(sample())
	lo, hi := f.Limits(AxisY)
	if lo != 2 || hi != 4 {
		t.Fatalf("Limits(y) = %g,%g want 2,4", lo, hi)
	}
	_ = f.SetAxisRange(AxisY, Fixed(0), AutoBound())
	lo, hi = f.Limits(AxisY)
	if lo != 0 || hi != 4 {
		t.Fatalf("Limits(y) = %g,%g want 0,4", lo, hi)
	}
	_ = f.SetAxisRange(AxisY, Fixed(10), AutoBound())
	lo, hi = f.Limits(AxisY)
	if lo != 10 || hi != 11 {
		t.Fatalf("Limits(y) = %g,%g want 10,11", lo, hi)
	}
}

func TestSticksStartFromBaseline(t *testing.T) {
	f := New(Options{})
	_, _ = f.AddSeries(Series{Kind: SeriesSticks, X: []float64{1, 2}, Y: []float64{5, 7}})
	lo, hi := f.Limits(AxisY)
	if lo != 0 || hi != 7 {
		t.Fatalf("Limits(y) = %g,%g want 0,7", lo, hi)
	}
}

func TestLogScaleLimits(t *testing.T) {
	f := New(Options{})
	_, _ = f.AddSeries(Series{Kind: SeriesSticks, X: []float64{1, 2, 3}, Y: []float64{5, 70, -2}})
	if err := f.SetAxisScale(AxisY, ScaleLog); err != nil {
		t.Fatalf("SetAxisScale: %v", err)
	}
	if f.AxisScale(AxisY) != ScaleLog || f.AxisScale(AxisX) != ScaleLinear {
		t.Fatalf("scales = %s/%s, want linear/log", f.AxisScale(AxisX), f.AxisScale(AxisY))
	}
	lo, hi := f.Limits(AxisY)
	if lo != 1 || hi != 100 {
		t.Fatalf("Limits(y) = %g,%g want 1,100", lo, hi)
	}
	_ = f.SetAxisRange(AxisY, Fixed(0), Fixed(50))
	lo, hi = f.Limits(AxisY)
	if lo != 1 || hi != 50 {
		t.Fatalf("Limits(y) = %g,%g want 1,50", lo, hi)
	}
	_ = f.SetAxisRange(AxisY, AutoBound(), Fixed(-1))
	lo, hi = f.Limits(AxisY)
	if lo != 1 || hi != 100 {
		t.Fatalf("Limits(y) = %g,%g want 1,100", lo, hi)
	}
	_ = f.SetAxisRange(AxisY, Fixed(200), AutoBound())
	lo, hi = f.Limits(AxisY)
	if lo != 200 || hi != 2000 {
		t.Fatalf("Limits(y) = %g,%g want 200,2000", lo, hi)
	}
}

func TestSetAxisScaleRejectsUnknown(t *testing.T) {
	f := New(Options{})
	if err := f.SetAxisScale(AxisY, "symlog"); err == nil {
		t.Fatal("expected error for unknown scale")
	}
	if err := f.SetAxisScale("z", ScaleLog); err == nil {
		t.Fatal("expected error for unknown axis")
	}
	if !ValidScale("log") || !ValidScale("linear") || ValidScale("") {
		t.Fatal("ValidScale mismatch")
	}
}

func TestExportLogAxis(t *testing.T) {
	f := New(Options{Width: 320, Height: 240})
	_, _ = f.AddSeries(Series{Kind: SeriesSticks, X: []float64{1, 2, 3}, Y: []float64{0.5, 40, 0}})
	_, _ = f.AddSeries(sample())
	_ = f.SetAxisScale(AxisY, ScaleLog)
	path := filepath.Join(t.TempDir(), "log.png")
	if err := f.Export(path); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("Export wrote nothing: %v", err)
	}
}

func TestFloorAt(t *testing.T) {
	got := floorAt([]float64{-1, 0, 0.5, 3}, 0.1)
	want := []float64{0.1, 0.1, 0.5, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("floorAt = %v, want %v", got, want)
		}
	}
}

func TestExportFormats(t *testing.T) {
	dir := t.TempDir()
	f := New(Options{Width: 320, Height: 240, Title: "test"})
	h, _ := f.AddSeries(sample())
	_ = f.ApplyLineStyle(h, WithLabel("data"), WithLineStyle("--"), WithMarker("o"))
	_, _ = f.AddSeries(Series{Kind: SeriesSticks, X: []float64{1.5}, Y: []float64{3}})
	for _, ext := range Formats() {
		path := filepath.Join(dir, "out"+ext)
		if err := f.Export(path); err != nil {
			t.Fatalf("Export(%s): %v", ext, err)
		}
		fi, err := os.Stat(path)
		if err != nil || fi.Size() == 0 {
			t.Fatalf("Export(%s) wrote nothing: %v", ext, err)
		}
	}
	b, _ := os.ReadFile(filepath.Join(dir, "out.png"))
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if img.Bounds().Dx() != 320 {
		t.Fatalf("png width = %d, want 320", img.Bounds().Dx())
	}
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()
	f := New(Options{})
	if err := f.Export(filepath.Join(dir, "empty.png")); err == nil {
		t.Fatal("expected error for empty figure")
	}
	_, _ = f.AddSeries(sample())
	if err := f.Export(filepath.Join(dir, "out.xyz")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if err := f.Export(filepath.Join(dir, "noext")); err == nil {
		t.Fatal("expected error for missing extension")
	}
}

func TestParseColour(t *testing.T) {
	cases := map[string][4]uint8{
		"r":         {255, 0, 0, 255},
		"Black":     {0, 0, 0, 255},
		"#0f0":      {0, 255, 0, 255},
		"#11223344": {0x11, 0x22, 0x33, 0x44},
		"C1":        {0xff, 0x7f, 0x0e, 255},
		"none":      {255, 255, 255, 0},
	}
	for in, want := range cases {
		c, err := ParseColour(in)
		if err != nil {
			t.Fatalf("ParseColour(%q): %v", in, err)
		}
		if got := [4]uint8{c.R, c.G, c.B, c.A}; got != want {
			t.Fatalf("ParseColour(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "chartreuse-ish", "#12345", "#gggggg"} {
		if _, err := ParseColour(bad); err == nil {
			t.Fatalf("ParseColour(%q) accepted", bad)
		}
	}
}

func TestStyleValidators(t *testing.T) {
	if !ValidLineStyle("--") || !ValidLineStyle("dotted") || ValidLineStyle("~~") {
		t.Fatal("ValidLineStyle mismatch")
	}
	if !ValidMarker("o") || !ValidMarker("none") || ValidMarker("Q") {
		t.Fatal("ValidMarker mismatch")
	}
}
