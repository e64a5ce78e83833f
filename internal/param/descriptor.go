/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package param holds the per-mode table of layout parameters: what each
// "--name values..." line is called, how many values it takes, what the
// values must look like and which closure applies them.
package param

import (
	"fmt"
	"strconv"
	"strings"

	"cmdgraph/internal/errs"
	"cmdgraph/internal/render"
)

// Scope says whether a parameter acts on the whole figure or on entries.
type Scope int

const (
	ScopeSession Scope = iota
	ScopeEntry
)

func (s Scope) String() string {
	if s == ScopeEntry {
		return "entry"
	}
	return "session"
}

// ValueType is the type every value of a parameter must parse as.
type ValueType int

const (
	TypeString ValueType = iota
	TypeFloat
	TypeBound // float or "*"
)

// PerEntry is the arity of parameters that take one value per live entry.
const PerEntry = -1

// Descriptor describes one layout parameter.
type Descriptor struct {
	Name    string
	Alias   string
	Help    string
	Metavar string
	Arity   int
	Type    ValueType
	Scope   Scope
	// Check, when set, runs on every value after the type check.
	Check func(value string) error
	// Reframe marks session parameters that are re-applied whenever an
	// entry is added, so the axes follow the new data.
	Reframe bool
	// Default is the raw value re-applied on reframe when none was set.
	Default []string

	ApplySession func(raw []string) error
	ApplyEntry   func(h render.Handle, raw string) error
}

// Validate checks values against the arity and value type. live is the
// number of entries an entry-scoped parameter would be applied to.
func (d Descriptor) Validate(values []string, live int) error {
	switch {
	case d.Arity == PerEntry:
		if live == 0 {
			return errs.Newf(errs.KindValidation, "--%s: no plots to apply it to", d.Name).WithDetail("param", d.Name)
		}
		if len(values) != live {
			return errs.ArityMismatch(d.Name, len(values), live)
		}
	case len(values) != d.Arity:
		return errs.ArityMismatch(d.Name, len(values), d.Arity)
	}
	for _, v := range values {
		if err := d.checkValue(v); err != nil {
			return err
		}
	}
	return nil
}

func (d Descriptor) checkValue(v string) error {
	switch d.Type {
	case TypeFloat:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return errs.InvalidValue(d.Name, v, "not a number")
		}
	case TypeBound:
		if _, err := ParseBound(v); err != nil {
			return errs.InvalidValue(d.Name, v, "expected a number or "+AutoToken)
		}
	}
	if d.Check != nil {
		if err := d.Check(v); err != nil {
			return errs.InvalidValue(d.Name, v, err.Error())
		}
	}
	return nil
}

// Usage renders the flag form, e.g. "-lw, --linewidth float [float ...]".
func (d Descriptor) Usage() string {
	var b strings.Builder
	if d.Alias != "" {
		fmt.Fprintf(&b, "-%s, ", d.Alias)
	}
	fmt.Fprintf(&b, "--%s", d.Name)
	mv := d.Metavar
	if mv == "" {
		mv = "value"
	}
	if d.Arity == PerEntry {
		fmt.Fprintf(&b, " %s [%s ...]", mv, mv)
		return b.String()
	}
	for i := 0; i < d.Arity; i++ {
		b.WriteString(" " + mv)
	}
	return b.String()
}
