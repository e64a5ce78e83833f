/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package param

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"cmdgraph/internal/errs"
)

// Registry maps parameter names and aliases to descriptors for one mode.
type Registry struct {
	mode    string
	order   []string
	primary map[string]Descriptor
	lookup  map[string]string
}

func NewRegistry(mode string) *Registry {
	return &Registry{
		mode:    mode,
		primary: make(map[string]Descriptor),
		lookup:  make(map[string]string),
	}
}

// Mode returns the mode the registry was built for.
func (r *Registry) Mode() string { return r.mode }

func (r *Registry) Register(d Descriptor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Alias = strings.TrimSpace(d.Alias)
	if d.Name == "" {
		return errs.Newf(errs.KindConfig, "%s registry: empty parameter name", r.mode)
	}
	if d.Arity == 0 || d.Arity < PerEntry {
		return errs.Newf(errs.KindConfig, "%s registry: %q has invalid arity %d", r.mode, d.Name, d.Arity)
	}
	switch d.Scope {
	case ScopeSession:
		if d.ApplySession == nil || d.ApplyEntry != nil {
			return errs.Newf(errs.KindConfig, "%s registry: session parameter %q needs exactly a session effect", r.mode, d.Name)
		}
		if d.Arity == PerEntry {
			return errs.Newf(errs.KindConfig, "%s registry: session parameter %q cannot take one value per entry", r.mode, d.Name)
		}
	case ScopeEntry:
		if d.ApplyEntry == nil || d.ApplySession != nil {
			return errs.Newf(errs.KindConfig, "%s registry: entry parameter %q needs exactly an entry effect", r.mode, d.Name)
		}
		if d.Reframe {
			return errs.Newf(errs.KindConfig, "%s registry: entry parameter %q cannot reframe", r.mode, d.Name)
		}
	default:
		return errs.Newf(errs.KindConfig, "%s registry: %q has unknown scope", r.mode, d.Name)
	}
	if _, ok := r.lookup[d.Name]; ok {
		return errs.DuplicateParameter(r.mode, d.Name)
	}
	if d.Alias != "" {
		if _, ok := r.lookup[d.Alias]; ok || d.Alias == d.Name {
			return errs.DuplicateParameter(r.mode, d.Alias)
		}
	}

	r.primary[d.Name] = d
	r.order = append(r.order, d.Name)
	r.lookup[d.Name] = d.Name
	if d.Alias != "" {
		r.lookup[d.Alias] = d.Name
	}
	return nil
}

// Resolve looks a parameter up by long name or alias.
func (r *Registry) Resolve(name string) (Descriptor, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Descriptor{}, false
	}
	if primary, ok := r.lookup[name]; ok {
		d, ok := r.primary[primary]
		return d, ok
	}
	return Descriptor{}, false
}

// Names returns the long names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Descriptors returns the descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.primary[n])
	}
	return out
}

// Matches returns the long names starting with prefix.
func (r *Registry) Matches(prefix string) []string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}
	var out []string
	for _, name := range r.order {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

// Suggest returns the flag form of the closest name or alias, or "".
func (r *Registry) Suggest(name string) string {
	name = strings.TrimLeft(name, "-")
	candidates := make([]string, 0, len(r.lookup))
	for _, n := range r.order {
		candidates = append(candidates, n)
		if a := r.primary[n].Alias; a != "" {
			candidates = append(candidates, a)
		}
	}
	best := Suggest(name, candidates)
	if best == "" {
		return ""
	}
	if _, ok := r.primary[best]; ok {
		return "--" + best
	}
	return "-" + best
}

// WriteHelp prints the parameter table for the mode.
func (r *Registry) WriteHelp(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Figure commands in %s mode (prefix with '-' or '--'):\n", r.mode)
	for _, d := range r.Descriptors() {
		fmt.Fprintf(tw, "  %s\t%s\t[%s]\n", d.Usage(), d.Help, d.Scope)
	}
	return tw.Flush()
}
