/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cmdgraph/internal/data"
	"cmdgraph/internal/param"
	"cmdgraph/internal/render"
)

const (
	ModeGraph = "graph"
	ModeStick = "stick"
)

// Modes lists the view modes in a stable order.
func Modes() []string { return []string{ModeGraph, ModeStick} }

// ValidMode reports whether m names a view mode.
func ValidMode(m string) bool {
	_, ok := modeDefs[m]
	return ok
}

type modeDef struct {
	format   data.Format
	register func(v *View, r *param.Registry) error
}

var modeDefs = map[string]modeDef{
	ModeGraph: {format: data.FormatXY, register: registerGraph},
	ModeStick: {format: data.FormatStick, register: registerStick},
}

func registerGraph(v *View, r *param.Registry) error {
	for _, d := range []param.Descriptor{
		lineWidth(v),
		lineColour(v),
		lineStyle(v),
		marker(v),
		markerSize(v),
		label(v),
		axisRange(v, render.AxisX, "xrange", "xr", autoLow),
		axisRange(v, render.AxisY, "yrange", "yr", autoLow),
	} {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func registerStick(v *View, r *param.Registry) error {
	for _, d := range []param.Descriptor{
		lineWidth(v),
		lineColour(v),
		label(v),
		axisScale(v, render.AxisY, "yscale", "ys"),
		axisRange(v, render.AxisX, "xrange", "xr", autoLow),
		axisRange(v, render.AxisY, "yrange", "yr", v.stickBaseline),
	} {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func entryStyle(v *View, name, alias, metavar, help string, typ param.ValueType, check func(string) error, attr func(string) render.StyleAttr) param.Descriptor {
	return param.Descriptor{
		Name:    name,
		Alias:   alias,
		Help:    help,
		Metavar: metavar,
		Arity:   param.PerEntry,
		Type:    typ,
		Scope:   param.ScopeEntry,
		Check:   check,
		ApplyEntry: func(h render.Handle, raw string) error {
			return v.surface.ApplyLineStyle(h, attr(raw))
		},
	}
}

func nonNegative(raw string) error {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func floatAttr(with func(float64) render.StyleAttr) func(string) render.StyleAttr {
	return func(raw string) render.StyleAttr {
		f, _ := strconv.ParseFloat(raw, 64)
		return with(f)
	}
}

func lineWidth(v *View) param.Descriptor {
	return entryStyle(v, "linewidth", "lw", "float", "width of plot lines", param.TypeFloat,
		nonNegative, floatAttr(render.WithLineWidth))
}

func lineColour(v *View) param.Descriptor {
	return entryStyle(v, "linecolour", "lc", "str", "line colours (name, single letter, C0-C9 or #rrggbb)", param.TypeString,
		func(raw string) error {
			_, err := render.ParseColour(raw)
			return err
		}, render.WithColour)
}

func lineStyle(v *View) param.Descriptor {
	return entryStyle(v, "linestyle", "ls", "str", "line styles (-, --, :, -., none)", param.TypeString,
		func(raw string) error {
			if !render.ValidLineStyle(raw) {
				return fmt.Errorf("unknown line style")
			}
			return nil
		}, render.WithLineStyle)
}

func marker(v *View) param.Descriptor {
	return entryStyle(v, "marker", "m", "str", "marker styles (o, x, +, ., none, ...)", param.TypeString,
		func(raw string) error {
			if !render.ValidMarker(raw) {
				return fmt.Errorf("unknown marker")
			}
			return nil
		}, render.WithMarker)
}

func markerSize(v *View) param.Descriptor {
	return entryStyle(v, "markersize", "ms", "float", "marker sizes", param.TypeFloat,
		nonNegative, floatAttr(render.WithMarkerSize))
}

// label values use '#' for spaces; "none" keeps the entry out of the legend.
func label(v *View) param.Descriptor {
	return entryStyle(v, "label", "l", "str", "legend labels, '#' for spaces, 'none' to hide", param.TypeString,
		nil, func(raw string) render.StyleAttr {
			if raw == "none" {
				return render.WithLabel(raw)
			}
			return render.WithLabel(strings.ReplaceAll(raw, "#", " "))
		})
}

// lowBound resolves an automatic lower bound against the upper bound hi.
// ok=false leaves it to autoscale.
type lowBound func(hi render.Bound) (float64, bool)

func autoLow(render.Bound) (float64, bool) { return 0, false }

// stickBaseline keeps the 0 baseline visible on a linear axis: the lowest y
// of any entry, or 0 when nothing goes below it. A fixed upper bound at or
// below that baseline, or a log axis, leaves the low end to autoscale.
func (v *View) stickBaseline(hi render.Bound) (float64, bool) {
	if scale, ok := v.session.get("yscale"); ok && render.Scale(scale) == render.ScaleLog {
		return 0, false
	}
	low := 0.0
	for _, e := range v.entries {
		low = math.Min(low, e.Dataset.YBounds.Min)
	}
	if !hi.Auto && hi.Value <= low {
		return 0, false
	}
	return low, true
}

// axisScale switches an axis between linear and log mapping.
func axisScale(v *View, axis render.Axis, name, alias string) param.Descriptor {
	return param.Descriptor{
		Name:    name,
		Alias:   alias,
		Help:    fmt.Sprintf("scale of the %s axis (%s or %s)", axis, render.ScaleLinear, render.ScaleLog),
		Metavar: "str",
		Arity:   1,
		Type:    param.TypeString,
		Scope:   param.ScopeSession,
		Check: func(raw string) error {
			if !render.ValidScale(raw) {
				return fmt.Errorf("must be %s or %s", render.ScaleLinear, render.ScaleLog)
			}
			return nil
		},
		ApplySession: func(raw []string) error {
			return v.surface.SetAxisScale(axis, render.Scale(raw[0]))
		},
	}
}

func axisRange(v *View, axis render.Axis, name, alias string, low lowBound) param.Descriptor {
	return param.Descriptor{
		Name:    name,
		Alias:   alias,
		Help:    fmt.Sprintf("min and max of the %s axis, %s for automatic", axis, param.AutoToken),
		Metavar: "float",
		Arity:   2,
		Type:    param.TypeBound,
		Scope:   param.ScopeSession,
		Reframe: true,
		Default: []string{param.AutoToken, param.AutoToken},
		ApplySession: func(raw []string) error {
			lo, hi, err := param.ParseRange(raw[0], raw[1])
			if err != nil {
				return err
			}
			if lo.Auto {
				if f, ok := low(hi); ok {
					lo = render.Fixed(f)
				}
			}
			return v.surface.SetAxisRange(axis, lo, hi)
		},
	}
}
