/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shell

import (
	"fmt"
	"strings"
)

type verbFunc func(s *Shell, args []string) error

// verb is one session command.
type verb struct {
	Name    string
	Aliases []string
	Usage   string
	Desc    string
	// Mutates marks verbs whose effect is recorded in the undo history.
	Mutates bool
	Run     verbFunc
}

type registry struct {
	order   []string
	primary map[string]verb
	lookup  map[string]string
}

func newRegistry() *registry {
	return &registry{
		primary: make(map[string]verb),
		lookup:  make(map[string]string),
	}
}

func (r *registry) register(v verb) error {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return fmt.Errorf("shell registry: empty command name")
	}
	if v.Run == nil {
		return fmt.Errorf("shell registry: %q has no handler", v.Name)
	}
	if _, ok := r.lookup[v.Name]; ok {
		return fmt.Errorf("shell registry: duplicate command %q", v.Name)
	}
	r.primary[v.Name] = v
	r.lookup[v.Name] = v.Name
	r.order = append(r.order, v.Name)
	for _, alias := range v.Aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		if _, ok := r.lookup[alias]; ok {
			return fmt.Errorf("shell registry: duplicate alias %q", alias)
		}
		r.lookup[alias] = v.Name
	}
	return nil
}

func (r *registry) resolve(name string) (verb, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return verb{}, false
	}
	if primary, ok := r.lookup[name]; ok {
		v, ok := r.primary[primary]
		return v, ok
	}
	return verb{}, false
}

// names returns the primary names in registration order.
func (r *registry) names() []string {
	return append([]string(nil), r.order...)
}

func (r *registry) matches(prefix string) []string {
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
