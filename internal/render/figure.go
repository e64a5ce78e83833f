/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"errors"
	"fmt"
	"math"
)

// Options controls the export size of a figure.
type Options struct {
	Title  string
	Width  int     // pixels
	Height int     // pixels
	DPI    float64 // used for PDF page size and chart text scaling
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 768
	}
	if o.DPI <= 0 {
		o.DPI = 96
	}
	return o
}

// Figure is an in-memory Surface: it keeps series, styles and axis ranges
// and only rasterizes on Export.
type Figure struct {
	opts   Options
	open   bool
	next   Handle
	order  []Handle
	series map[Handle]*plotted
	ranges map[Axis][2]Bound
	scales map[Axis]Scale
	added  int
}

type plotted struct {
	Series
	style Style
	cycle int
}

// New returns an open, empty figure.
func New(opts Options) *Figure {
	f := &Figure{opts: opts.withDefaults()}
	f.NewFigure()
	return f
}

// NewFigure clears the figure and opens it for drawing.
func (f *Figure) NewFigure() {
	f.open = true
	f.next = 1
	f.order = nil
	f.added = 0
	f.series = make(map[Handle]*plotted)
	f.ranges = map[Axis][2]Bound{
		AxisX: {AutoBound(), AutoBound()},
		AxisY: {AutoBound(), AutoBound()},
	}
	f.scales = map[Axis]Scale{AxisX: ScaleLinear, AxisY: ScaleLinear}
}

// CloseFigure drops all series. A closed figure rejects drawing calls until
// NewFigure is called again.
func (f *Figure) CloseFigure() {
	f.open = false
	f.order = nil
	f.series = make(map[Handle]*plotted)
}

func (f *Figure) AddSeries(s Series) (Handle, error) {
	if !f.open {
		return 0, errors.New("figure is closed")
	}
	if len(s.X) != len(s.Y) {
		return 0, fmt.Errorf("series %q: %d x values but %d y values", s.Name, len(s.X), len(s.Y))
	}
	h := f.next
	f.next++
	f.series[h] = &plotted{Series: s, cycle: f.added}
	f.added++
	f.order = append(f.order, h)
	return h, nil
}

func (f *Figure) RemoveSeries(h Handle) bool {
	if _, ok := f.series[h]; !ok {
		return false
	}
	delete(f.series, h)
	for i, o := range f.order {
		if o == h {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true
}

func (f *Figure) ApplyLineStyle(h Handle, attrs ...StyleAttr) error {
	p, ok := f.series[h]
	if !ok {
		return fmt.Errorf("no series with handle %d", h)
	}
	for _, a := range attrs {
		a(&p.style)
	}
	return nil
}

func (f *Figure) SetAxisRange(axis Axis, lo, hi Bound) error {
	if axis != AxisX && axis != AxisY {
		return fmt.Errorf("unknown axis %q", axis)
	}
	for _, b := range []Bound{lo, hi} {
		if !b.Auto && (math.IsNaN(b.Value) || math.IsInf(b.Value, 0)) {
			return fmt.Errorf("%s axis bound must be finite", axis)
		}
	}
	if !lo.Auto && !hi.Auto && lo.Value >= hi.Value {
		return fmt.Errorf("%s axis lower bound %g must be below upper bound %g", axis, lo.Value, hi.Value)
	}
	f.ranges[axis] = [2]Bound{lo, hi}
	return nil
}

// SetAxisScale switches axis between linear and logarithmic mapping.
func (f *Figure) SetAxisScale(axis Axis, scale Scale) error {
	if axis != AxisX && axis != AxisY {
		return fmt.Errorf("unknown axis %q", axis)
	}
	if !ValidScale(string(scale)) {
		return fmt.Errorf("unknown %s axis scale %q", axis, scale)
	}
	f.scales[axis] = scale
	return nil
}

// AxisScale returns the scale of axis.
func (f *Figure) AxisScale(axis Axis) Scale { return f.scales[axis] }

// AxisRange returns the bounds last set for axis.
func (f *Figure) AxisRange(axis Axis) (lo, hi Bound) {
	r := f.ranges[axis]
	return r[0], r[1]
}

// Len returns the number of series on the figure.
func (f *Figure) Len() int { return len(f.order) }

// Handles returns the series handles in drawing order.
func (f *Figure) Handles() []Handle { return append([]Handle(nil), f.order...) }

// StyleOf returns the current style of a series.
func (f *Figure) StyleOf(h Handle) (Style, bool) {
	p, ok := f.series[h]
	if !ok {
		return Style{}, false
	}
	return p.style, true
}

// SeriesOf returns the payload of a series.
func (f *Figure) SeriesOf(h Handle) (Series, bool) {
	p, ok := f.series[h]
	if !ok {
		return Series{}, false
	}
	return p.Series, true
}

// Limits resolves the axis range that an export would use: fixed bounds as
// set, auto bounds from the data extent. On a log axis the range is kept
// positive and auto bounds snap to whole decades.
func (f *Figure) Limits(axis Axis) (float64, float64) {
	if f.scales[axis] == ScaleLog {
		return f.logLimits(axis)
	}
	r := f.ranges[axis]
	dmin, dmax, ok := f.extent(axis)
	if !ok {
		dmin, dmax = 0, 1
	}
	lo, hi := r[0].Value, r[1].Value
	if r[0].Auto {
		lo = dmin
	}
	if r[1].Auto {
		hi = dmax
	}
	if hi <= lo {
		switch {
		case r[1].Auto:
			hi = lo + 1
		case r[0].Auto:
			lo = hi - 1
		}
	}
	return lo, hi
}

func (f *Figure) logLimits(axis Axis) (float64, float64) {
	r := f.ranges[axis]
	pmin, pmax, ok := f.positiveExtent(axis)
	if !ok {
		pmin, pmax = 1, 10
	}
	lo, hi := r[0].Value, r[1].Value
	autoLo, autoHi := r[0].Auto || lo <= 0, r[1].Auto || hi <= 0
	if autoLo {
		lo = math.Pow(10, math.Ceil(math.Log10(pmin))-1)
	}
	if autoHi {
		hi = math.Pow(10, math.Floor(math.Log10(pmax))+1)
	}
	if hi <= lo {
		if autoHi {
			hi = lo * 10
		} else {
			lo = hi / 10
		}
	}
	return lo, hi
}

// positiveExtent is the range of the strictly positive data values; stick
// baselines do not count.
func (f *Figure) positiveExtent(axis Axis) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, h := range f.order {
		p := f.series[h]
		vals := p.X
		if axis == AxisY {
			vals = p.Y
		}
		for _, v := range vals {
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return lo, hi, true
}

func (f *Figure) extent(axis Axis) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, h := range f.order {
		p := f.series[h]
		xs, ys := p.points(0)
		vals := xs
		if axis == AxisY {
			vals = ys
		}
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return lo, hi, true
}

// points expands a series into the polyline that is drawn. Sticks rise
// from base.
func (p *plotted) points(base float64) ([]float64, []float64) {
	if p.Kind != SeriesSticks {
		return p.X, p.Y
	}
	xs := make([]float64, 0, 3*len(p.X))
	ys := make([]float64, 0, 3*len(p.Y))
	for i := range p.X {
		xs = append(xs, p.X[i], p.X[i], p.X[i])
		ys = append(ys, base, p.Y[i], base)
	}
	return xs, ys
}

// floorAt replaces values below floor, which a log axis cannot place.
func floorAt(vals []float64, floor float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Max(v, floor)
	}
	return out
}
