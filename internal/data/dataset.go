/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package data loads the datasets that make up a plotting session: plain x/y
// columns, stick spectra and transition linelists.
package data

import (
	"math"
	"path/filepath"
	"strings"
)

// Format names a dataset file layout.
type Format string

const (
	FormatXY       Format = "xy"
	FormatStick    Format = "stick"
	FormatLinelist Format = "linelist"
)

// Bounds is a closed value interval.
type Bounds struct {
	Min float64
	Max float64
}

func (b *Bounds) include(v float64) {
	b.Min = math.Min(b.Min, v)
	b.Max = math.Max(b.Max, v)
}

// Transition is one row of a linelist.
type Transition struct {
	Upper      string
	Lower      string
	Wavenumber float64
	Intensity  float64
	Labels     []string
}

// Dataset is an immutable, loaded data file. Path is the key under which the
// session refers to it and is kept exactly as the user typed it.
type Dataset struct {
	Path        string
	Format      Format
	X           []float64
	Y           []float64
	Transitions []Transition
	XBounds     Bounds
	YBounds     Bounds
}

// Len returns the number of points.
func (d *Dataset) Len() int { return len(d.X) }

// Sticks reports whether the dataset is drawn as vertical segments.
func (d *Dataset) Sticks() bool { return d.Format != FormatXY }

// DetectFormat picks the format from the file extension, falling back to def.
func DetectFormat(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stk", ".stick":
		return FormatStick
	case ".trans", ".lines", ".linelist":
		return FormatLinelist
	}
	if def == "" {
		return FormatXY
	}
	return def
}
