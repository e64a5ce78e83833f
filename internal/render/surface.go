/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render is the drawing surface the session core talks to. The core
// only ever adds and removes series, styles them, frames the axes and asks
// for an export; how a figure turns into pixels (go-chart for raster and SVG
// output, gofpdf for PDF) stays behind the Surface interface.
package render

// Handle identifies a plotted series on a surface.
type Handle int

// Axis names a figure axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Scale maps data values onto an axis.
type Scale string

const (
	ScaleLinear Scale = "linear"
	ScaleLog    Scale = "log"
)

// ValidScale reports whether s names a known scale.
func ValidScale(s string) bool { return Scale(s) == ScaleLinear || Scale(s) == ScaleLog }

// Bound is one end of an axis range. Auto bounds follow the data.
type Bound struct {
	Auto  bool
	Value float64
}

// AutoBound returns a bound that autoscales.
func AutoBound() Bound { return Bound{Auto: true} }

// Fixed returns a bound pinned to v.
func Fixed(v float64) Bound { return Bound{Value: v} }

// SeriesKind selects how a series' points are drawn.
type SeriesKind int

const (
	// SeriesLine joins consecutive points.
	SeriesLine SeriesKind = iota
	// SeriesSticks draws a vertical segment from the baseline to each point.
	SeriesSticks
)

// Series is the payload handed to a surface for one plot entry.
type Series struct {
	Kind SeriesKind
	Name string
	X    []float64
	Y    []float64
}

// Style holds the line attributes of a plotted series. Zero values mean
// "surface default".
type Style struct {
	LineWidth  float64
	Colour     string
	LineStyle  string
	Marker     string
	MarkerSize float64
	Label      string
	HideLegend bool
}

// StyleAttr changes one attribute of a Style.
type StyleAttr func(*Style)

func WithLineWidth(w float64) StyleAttr { return func(s *Style) { s.LineWidth = w } }

func WithColour(c string) StyleAttr { return func(s *Style) { s.Colour = c } }

func WithLineStyle(ls string) StyleAttr { return func(s *Style) { s.LineStyle = ls } }

func WithMarker(m string) StyleAttr { return func(s *Style) { s.Marker = m } }

func WithMarkerSize(size float64) StyleAttr { return func(s *Style) { s.MarkerSize = size } }

// WithLabel sets the legend label; the label "none" removes the series from
// the legend.
func WithLabel(label string) StyleAttr {
	return func(s *Style) {
		if label == "none" {
			s.Label = ""
			s.HideLegend = true
			return
		}
		s.Label = label
		s.HideLegend = false
	}
}

// Surface is what a session view draws on.
type Surface interface {
	NewFigure()
	CloseFigure()
	AddSeries(s Series) (Handle, error)
	RemoveSeries(h Handle) bool
	ApplyLineStyle(h Handle, attrs ...StyleAttr) error
	SetAxisRange(axis Axis, lo, hi Bound) error
	SetAxisScale(axis Axis, scale Scale) error
	Export(path string) error
}
