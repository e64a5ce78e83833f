/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shell

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cmdgraph/internal/view"
)

// Complete returns the candidates for the last word of head, the input
// before the cursor.
func (s *Shell) Complete(head string) []string {
	fields := strings.Fields(head)
	word := ""
	if len(fields) > 0 && !strings.HasSuffix(head, " ") {
		word = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 0 {
		return s.completeFirst(word)
	}
	switch fields[0] {
	case "mode":
		return withPrefix(view.Modes(), word)
	case "ddat", "single":
		return withPrefix(uniq(s.view.Paths()), word)
	case "help", "?":
		return s.verbs.matches(word)
	case "adat", "load", "save", "print":
		return completeFiles(word)
	}
	return nil
}

func (s *Shell) completeFirst(word string) []string {
	if !strings.HasPrefix(word, "-") {
		if word == "" {
			return s.verbs.names()
		}
		return s.verbs.matches(word)
	}
	key := strings.TrimLeft(word, "-")
	if key == "" {
		return prefixed(s.view.Registry().Names())
	}
	return prefixed(s.view.Registry().Matches(key))
}

func prefixed(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "--" + n
	}
	return out
}

func withPrefix(cands []string, word string) []string {
	var out []string
	for _, c := range cands {
		if strings.HasPrefix(c, word) {
			out = append(out, c)
		}
	}
	return out
}

func uniq(ss []string) []string {
	out := slices.Clone(ss)
	slices.Sort(out)
	return slices.Compact(out)
}

func completeFiles(word string) []string {
	matches, err := filepath.Glob(word + "*")
	if err != nil {
		return nil
	}
	for i, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.IsDir() {
			matches[i] = m + string(filepath.Separator)
		}
	}
	return matches
}
