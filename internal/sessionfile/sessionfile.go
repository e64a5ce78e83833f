/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sessionfile reads and writes saved sessions. A session file is a
// replay script: a header line followed by the shell commands that rebuild
// the session from its data files.
package sessionfile

import (
	"fmt"
	"strings"

	"cmdgraph/internal/param"
	"cmdgraph/internal/view"
)

// Header is the first non-blank line of every session file.
const Header = "---cmdGraph---"

// Session is what a script is built from.
type Session interface {
	Mode() string
	Paths() []string
	Describe() []view.Setting
}

// Build returns the replay commands for s, without the header.
func Build(s Session) []string {
	out := []string{"mode " + s.Mode()}
	if paths := s.Paths(); len(paths) > 0 {
		out = append(out, "adat "+strings.Join(paths, " "))
	}
	settings := s.Describe()
	for _, st := range settings {
		if st.Scope == param.ScopeSession {
			out = append(out, fmt.Sprintf("--%s %s", st.Name, st.Raw))
		}
	}
	type target struct {
		path  string
		index int
	}
	var current *target
	for _, st := range settings {
		if st.Scope != param.ScopeEntry {
			continue
		}
		if current == nil || current.path != st.Path || current.index != st.Index {
			current = &target{path: st.Path, index: st.Index}
			out = append(out, singleLine(st.Path, st.Index))
		}
		out = append(out, fmt.Sprintf("--%s %s", st.Name, st.Raw))
	}
	return out
}

func singleLine(path string, index int) string {
	if index > 1 {
		return fmt.Sprintf("single %s %d", path, index)
	}
	return "single " + path
}

// Encode renders s as the full file content.
func Encode(s Session) []byte {
	var b strings.Builder
	b.WriteString(Header + "\n")
	for _, l := range Build(s) {
		b.WriteString(l + "\n")
	}
	return []byte(b.String())
}
