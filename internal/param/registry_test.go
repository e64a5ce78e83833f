/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package param

import (
	"bytes"
	"strings"
	"testing"

	"cmdgraph/internal/errs"
	"cmdgraph/internal/render"
)

func entryParam(name, alias string, typ ValueType) Descriptor {
	return Descriptor{
		Name: name, Alias: alias, Arity: PerEntry, Type: typ, Scope: ScopeEntry,
		ApplyEntry: func(render.Handle, string) error { return nil },
	}
}

func rangeParam(name, alias string) Descriptor {
	return Descriptor{
		Name: name, Alias: alias, Arity: 2, Type: TypeBound, Scope: ScopeSession, Reframe: true,
		ApplySession: func([]string) error { return nil },
	}
}

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry("graph")
	for _, d := range []Descriptor{entryParam("linewidth", "lw", TypeFloat), rangeParam("xrange", "xr")} {
		if err := r.Register(d); err != nil {
			t.Fatalf("Register(%s): %v", d.Name, err)
		}
	}
	d, ok := r.Resolve("lw")
	if !ok || d.Name != "linewidth" {
		t.Fatalf("Resolve(lw) = %q,%v", d.Name, ok)
	}
	if _, ok := r.Resolve("nope"); ok {
		t.Fatal("Resolve(nope) found something")
	}
	if got := strings.Join(r.Names(), ","); got != "linewidth,xrange" {
		t.Fatalf("Names = %q, want %q", got, "linewidth,xrange")
	}
	if got := r.Matches("x"); len(got) != 1 || got[0] != "xrange" {
		t.Fatalf("Matches(x) = %v", got)
	}
}

func TestRegisterRejects(t *testing.T) {
	r := NewRegistry("graph")
	_ = r.Register(entryParam("linewidth", "lw", TypeFloat))

	bad := []Descriptor{
		entryParam("", "", TypeFloat),
		entryParam("linewidth", "", TypeFloat),
		entryParam("other", "lw", TypeFloat),
		{Name: "noeffect", Arity: 1, Scope: ScopeSession},
		{Name: "mismatch", Arity: 1, Scope: ScopeEntry, ApplySession: func([]string) error { return nil }},
		{Name: "zero", Arity: 0, Scope: ScopeSession, ApplySession: func([]string) error { return nil }},
		{Name: "perentry", Arity: PerEntry, Scope: ScopeSession, ApplySession: func([]string) error { return nil }},
	}
	for _, d := range bad {
		err := r.Register(d)
		if !errs.Is(err, errs.KindConfig) {
			t.Fatalf("Register(%q) err = %v, want config error", d.Name, err)
		}
	}
	if len(r.Names()) != 1 {
		t.Fatalf("Names = %v after rejected registrations", r.Names())
	}
}

func TestValidateArity(t *testing.T) {
	d := entryParam("linewidth", "lw", TypeFloat)
	if err := d.Validate([]string{"1", "2"}, 2); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	err := d.Validate([]string{"1"}, 2)
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("short arity err = %v", err)
	}
	if e, _ := errs.As(err); e.Detail("want") != "2" {
		t.Fatalf("want detail = %q", e.Detail("want"))
	}
	if err := d.Validate([]string{"1"}, 0); err == nil {
		t.Fatal("expected error with no live entries")
	}
	if err := d.Validate([]string{"x"}, 1); !errs.Is(err, errs.KindValidation) {
		t.Fatalf("type err = %v", err)
	}

	r := rangeParam("xrange", "xr")
	if err := r.Validate([]string{"*", "10"}, 0); err != nil {
		t.Fatalf("Validate(* 10): %v", err)
	}
	if err := r.Validate([]string{"1"}, 0); err == nil {
		t.Fatal("expected arity error")
	}
	if err := r.Validate([]string{"a", "1"}, 0); err == nil {
		t.Fatal("expected bound error")
	}
}

func TestValidateRunsCheck(t *testing.T) {
	d := entryParam("linestyle", "ls", TypeString)
	d.Check = func(v string) error {
		if !render.ValidLineStyle(v) {
			return errs.New(errs.KindValidation, "unknown line style")
		}
		return nil
	}
	if err := d.Validate([]string{"--"}, 1); err != nil {
		t.Fatalf("Validate(--): %v", err)
	}
	if err := d.Validate([]string{"~"}, 1); err == nil {
		t.Fatal("expected check failure")
	}
}

func TestParseRange(t *testing.T) {
	lo, hi, err := ParseRange("*", "10")
	if err != nil || !lo.Auto || hi.Auto || hi.Value != 10 {
		t.Fatalf("ParseRange(*, 10) = %+v %+v %v", lo, hi, err)
	}
	lo, hi, err = ParseRange("0", "*")
	if err != nil || lo.Auto || lo.Value != 0 || !hi.Auto {
		t.Fatalf("ParseRange(0, *) = %+v %+v %v", lo, hi, err)
	}
	if _, _, err := ParseRange("5", "1"); err == nil {
		t.Fatal("expected error for decreasing range")
	}
	if _, err := ParseBound("NaN"); err == nil {
		t.Fatal("ParseBound accepted NaN")
	}
}

func TestSuggest(t *testing.T) {
	r := NewRegistry("graph")
	_ = r.Register(entryParam("linewidth", "lw", TypeFloat))
	_ = r.Register(rangeParam("xrange", "xr"))
	if got := r.Suggest("--linewdith"); got != "--linewidth" {
		t.Fatalf("Suggest(linewdith) = %q, want %q", got, "--linewidth")
	}
	if got := r.Suggest("-xx"); got != "-xr" {
		t.Fatalf("Suggest(xx) = %q, want %q", got, "-xr")
	}
	if got := r.Suggest("--completelyunrelated"); got != "" {
		t.Fatalf("Suggest(unrelated) = %q, want empty", got)
	}
}

func TestWriteHelp(t *testing.T) {
	r := NewRegistry("stick")
	d := entryParam("linewidth", "lw", TypeFloat)
	d.Metavar = "float"
	d.Help = "Width of plot line."
	_ = r.Register(d)
	var buf bytes.Buffer
	if err := r.WriteHelp(&buf); err != nil {
		t.Fatalf("WriteHelp: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "-lw, --linewidth float [float ...]") || !strings.Contains(out, "stick mode") {
		t.Fatalf("help output:\n%s", out)
	}
}
