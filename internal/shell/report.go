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
	"io"

	"github.com/charmbracelet/lipgloss"

	"cmdgraph/internal/errs"
)

type styles struct {
	notice lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	hint   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		notice: r.NewStyle().Foreground(lipgloss.Color("6")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		hint:   r.NewStyle().Faint(true),
	}
}

func kindLabel(k errs.Kind) string {
	switch k {
	case errs.KindValidation:
		return "Invalid"
	case errs.KindNotFound:
		return "Not found"
	case errs.KindUnrecognized:
		return "Unrecognised"
	case errs.KindFormat:
		return "Bad file"
	case errs.KindConfig:
		return "Configuration"
	case errs.KindIO:
		return "I/O error"
	default:
		return "Error"
	}
}

// notice prints an informational line.
func (s *Shell) notice(format string, args ...any) {
	if s.quiet {
		return
	}
	_, _ = fmt.Fprintln(s.out, s.styles.notice.Render(fmt.Sprintf(format, args...)))
}

// caution prints a warning line.
func (s *Shell) caution(format string, args ...any) {
	if s.quiet {
		return
	}
	_, _ = fmt.Fprintln(s.out, s.styles.warn.Render(fmt.Sprintf(format, args...)))
}

// report prints err with the wording of its kind.
func (s *Shell) report(err error) {
	if err == nil {
		return
	}
	s.failures++
	kind := errs.KindOf(err)
	line := s.styles.fail.Render(kindLabel(kind)+":") + " " + err.Error()
	if e, ok := errs.As(err); ok {
		if hint := e.Detail("hint"); hint != "" {
			line += " " + s.styles.hint.Render(fmt.Sprintf("(did you mean %s?)", hint))
		}
	}
	_, _ = fmt.Fprintln(s.out, line)
}
