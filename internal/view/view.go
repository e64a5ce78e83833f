/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package view is the session state of a plotting shell: the loaded entries
// in insertion order, the subset currently being edited and every parameter
// value the user has set, at session or entry level.
package view

import (
	"errors"
	"slices"
	"strings"

	"cmdgraph/internal/data"
	"cmdgraph/internal/errs"
	"cmdgraph/internal/param"
	"cmdgraph/internal/render"
)

type setting struct {
	name string
	raw  string
}

// settings is an insertion-ordered name -> raw value map. Re-setting a name
// keeps its original position.
type settings []setting

func (s *settings) set(name, raw string) {
	for i := range *s {
		if (*s)[i].name == name {
			(*s)[i].raw = raw
			return
		}
	}
	*s = append(*s, setting{name: name, raw: raw})
}

func (s settings) get(name string) (string, bool) {
	for _, kv := range s {
		if kv.name == name {
			return kv.raw, true
		}
	}
	return "", false
}

// Entry is one dataset on the figure.
type Entry struct {
	Dataset  *data.Dataset
	Handle   render.Handle
	settings settings
}

// Path is the key the session uses for the entry.
func (e *Entry) Path() string { return e.Dataset.Path }

// Setting returns the raw value last applied for an entry parameter.
func (e *Entry) Setting(name string) (string, bool) { return e.settings.get(name) }

// Setting is one explicitly set parameter, as reported by Describe.
type Setting struct {
	Scope param.Scope
	Name  string
	Path  string // entry scope only
	Index int    // 1-based occurrence of Path among entries, entry scope only
	Raw   string
}

// View is a session in one mode.
type View struct {
	mode    string
	def     modeDef
	surface render.Surface
	reg     *param.Registry
	entries []*Entry
	live    []*Entry
	session settings
	dirty   bool
}

// New opens a fresh figure on surface and builds the view for mode.
func New(mode string, surface render.Surface) (*View, error) {
	def, ok := modeDefs[mode]
	if !ok {
		return nil, errs.InvalidMode(mode, Modes())
	}
	v := &View{mode: mode, def: def, surface: surface, reg: param.NewRegistry(mode)}
	if err := def.register(v, v.reg); err != nil {
		return nil, err
	}
	surface.NewFigure()
	return v, nil
}

// Close releases the figure.
func (v *View) Close() { v.surface.CloseFigure() }

func (v *View) Mode() string              { return v.mode }
func (v *View) Registry() *param.Registry { return v.reg }
func (v *View) Surface() render.Surface   { return v.surface }

// DefaultFormat is the dataset format assumed when the extension says nothing.
func (v *View) DefaultFormat() data.Format { return v.def.format }

// Entries returns the entries in insertion order.
func (v *View) Entries() []*Entry { return slices.Clone(v.entries) }

// Live returns the entries entry-scoped parameters currently apply to.
func (v *View) Live() []*Entry { return slices.Clone(v.live) }

// Paths returns the entry paths in insertion order, duplicates included.
func (v *View) Paths() []string {
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.Path()
	}
	return out
}

// Dirty reports whether the session changed since the last MarkClean.
func (v *View) Dirty() bool { return v.dirty }
func (v *View) MarkClean()  { v.dirty = false }

// SessionValue returns the raw value last applied for a session parameter.
func (v *View) SessionValue(name string) (string, bool) { return v.session.get(name) }

// AddEntry draws ds, makes every entry live again and reframes the axes.
// When the axes cannot be reframed the entry is not added.
func (v *View) AddEntry(ds *data.Dataset) (*Entry, error) {
	kind := render.SeriesLine
	if ds.Sticks() {
		kind = render.SeriesSticks
	}
	h, err := v.surface.AddSeries(render.Series{Kind: kind, Name: ds.Path, X: ds.X, Y: ds.Y})
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "cannot draw "+ds.Path)
	}
	e := &Entry{Dataset: ds, Handle: h}
	live, dirty := v.live, v.dirty
	v.entries = append(v.entries, e)
	v.ResetLive()
	v.dirty = true
	if err := v.reframe(); err != nil {
		v.surface.RemoveSeries(h)
		v.entries = v.entries[:len(v.entries)-1]
		v.live, v.dirty = live, dirty
		// the remaining entries were framed by these values before
		if rerr := v.reframe(); rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		return nil, err
	}
	return e, nil
}

// reframe re-applies the axis parameters: the recorded value when set,
// otherwise the default without recording it.
func (v *View) reframe() error {
	for _, d := range v.reg.Descriptors() {
		if !d.Reframe {
			continue
		}
		raw := d.Default
		if rec, ok := v.session.get(d.Name); ok {
			raw = strings.Fields(rec)
		}
		if len(raw) == 0 {
			continue
		}
		if err := d.ApplySession(raw); err != nil {
			return errs.Wrap(err, errs.KindInternal, "cannot reframe --"+d.Name)
		}
	}
	return nil
}

// RemoveEntry removes the first entry with path. It reports false when no
// entry matches.
func (v *View) RemoveEntry(path string) bool {
	return len(v.RemoveEntries(path)) == 0
}

// RemoveEntries removes, for each path, the first entry with that path not
// already claimed by an earlier path in the call. All targets are collected
// before anything is removed. It returns the paths that matched nothing.
func (v *View) RemoveEntries(paths ...string) []string {
	claimed := make(map[int]bool)
	var missing []string
	for _, p := range paths {
		idx := -1
		for i, e := range v.entries {
			if e.Path() == p && !claimed[i] {
				idx = i
				break
			}
		}
		if idx < 0 {
			missing = append(missing, p)
			continue
		}
		claimed[idx] = true
	}
	if len(claimed) == 0 {
		return missing
	}

	kept := v.entries[:0:0]
	removed := make(map[*Entry]bool, len(claimed))
	for i, e := range v.entries {
		if claimed[i] {
			removed[e] = true
			v.surface.RemoveSeries(e.Handle)
			continue
		}
		kept = append(kept, e)
	}
	v.entries = kept
	v.live = slices.DeleteFunc(v.live, func(e *Entry) bool { return removed[e] })
	if len(v.live) == 0 {
		v.ResetLive()
	}
	v.dirty = true
	return missing
}

// SetLive restricts entry parameters to entries, which must belong to the
// view and must not be empty.
func (v *View) SetLive(entries []*Entry) error {
	if len(entries) == 0 {
		return errs.New(errs.KindValidation, "live set must not be empty")
	}
	for _, e := range entries {
		if !slices.Contains(v.entries, e) {
			return errs.Newf(errs.KindValidation, "%s is not part of this session", e.Path())
		}
	}
	v.live = slices.Clone(entries)
	return nil
}

// ResetLive makes every entry live.
func (v *View) ResetLive() { v.live = slices.Clone(v.entries) }

// Find returns the n-th (1-based) entry with path.
func (v *View) Find(path string, n int) (*Entry, bool) {
	if n < 1 {
		return nil, false
	}
	seen := 0
	for _, e := range v.entries {
		if e.Path() == path {
			seen++
			if seen == n {
				return e, true
			}
		}
	}
	return nil, false
}

// Occurrence returns which occurrence of its path e is, 1-based, or 0 when e
// is not in the view.
func (v *View) Occurrence(e *Entry) int {
	n := 0
	for _, o := range v.entries {
		if o.Path() == e.Path() {
			n++
		}
		if o == e {
			return n
		}
	}
	return 0
}

// ApplyParameter validates raw for the named parameter and, only if every
// value is acceptable, applies it. Session parameters take the tokens as a
// whole; entry parameters take one token per live entry, in order.
func (v *View) ApplyParameter(name string, raw []string) error {
	d, ok := v.reg.Resolve(name)
	if !ok {
		return errs.UnknownParameter(name)
	}
	if err := d.Validate(raw, len(v.live)); err != nil {
		return err
	}
	switch d.Scope {
	case param.ScopeSession:
		if err := d.ApplySession(raw); err != nil {
			return err
		}
		v.session.set(d.Name, strings.Join(raw, " "))
	case param.ScopeEntry:
		for i, e := range v.live {
			if err := d.ApplyEntry(e.Handle, raw[i]); err != nil {
				return errs.Wrap(err, errs.KindInternal, "cannot apply --"+d.Name+" to "+e.Path())
			}
			e.settings.set(d.Name, raw[i])
		}
	}
	v.dirty = true
	return nil
}

// Describe lists every explicitly set parameter: session settings first,
// then each entry's settings, all in insertion order.
func (v *View) Describe() []Setting {
	var out []Setting
	for _, kv := range v.session {
		out = append(out, Setting{Scope: param.ScopeSession, Name: kv.name, Raw: kv.raw})
	}
	counts := make(map[string]int)
	for _, e := range v.entries {
		counts[e.Path()]++
		for _, kv := range e.settings {
			out = append(out, Setting{
				Scope: param.ScopeEntry,
				Name:  kv.name,
				Path:  e.Path(),
				Index: counts[e.Path()],
				Raw:   kv.raw,
			})
		}
	}
	return out
}
