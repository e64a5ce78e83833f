/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shell

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/term"
)

// Prompter is the line source of a shell.
type Prompter interface {
	// ReadLine returns the next line without its newline, or io.EOF.
	ReadLine() (string, error)
	SetPrompt(prompt string)
}

// LinePrompter reads lines from a plain reader, printing the prompt to Out
// when Out is set.
type LinePrompter struct {
	sc     *bufio.Scanner
	out    io.Writer
	prompt string
}

// NewLinePrompter reads from r; out may be nil for batch input.
func NewLinePrompter(r io.Reader, out io.Writer) *LinePrompter {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1024*1024)
	return &LinePrompter{sc: sc, out: out}
}

func (p *LinePrompter) SetPrompt(prompt string) { p.prompt = prompt }

func (p *LinePrompter) ReadLine() (string, error) {
	if p.out != nil && p.prompt != "" {
		_, _ = io.WriteString(p.out, p.prompt)
	}
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.sc.Text(), "\r"), nil
}

// TermPrompter is a line editor with history and tab completion on a raw
// mode terminal.
type TermPrompter struct {
	t       *term.Terminal
	fd      int
	restore *term.State
}

// NewTermPrompter puts fd into raw mode and edits lines on rw. Close must be
// called to restore the terminal.
func NewTermPrompter(fd int, rw io.ReadWriter) (*TermPrompter, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	t := term.NewTerminal(rw, "")
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}
	return &TermPrompter{t: t, fd: fd, restore: state}, nil
}

// Writer returns the writer output must go through while the terminal is
// in raw mode.
func (p *TermPrompter) Writer() io.Writer { return p.t }

func (p *TermPrompter) SetPrompt(prompt string) { p.t.SetPrompt(prompt) }

func (p *TermPrompter) ReadLine() (string, error) { return p.t.ReadLine() }

// SetCompleter installs tab completion; complete returns the candidates for
// the text before the cursor.
func (p *TermPrompter) SetCompleter(complete func(prefix string) []string) {
	p.t.AutoCompleteCallback = func(line string, pos int, key rune) (string, int, bool) {
		if key != '\t' {
			return "", 0, false
		}
		head := line[:pos]
		cands := complete(head)
		if len(cands) == 0 {
			return "", 0, false
		}
		repl := commonPrefix(cands)
		start := strings.LastIndexAny(head, " \t") + 1
		if len(repl) <= pos-start {
			if len(cands) > 1 {
				_, _ = io.WriteString(p.t, strings.Join(cands, "  ")+"\n")
			}
			return "", 0, false
		}
		if len(cands) == 1 {
			repl += " "
		}
		newLine := line[:start] + repl + line[pos:]
		return newLine, start + len(repl), true
	}
}

// Close restores the terminal state.
func (p *TermPrompter) Close() error { return term.Restore(p.fd, p.restore) }

func commonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	prefix := ss[0]
	for _, s := range ss[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
