/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shell is the interactive command loop of cmdgraph. It routes each
// input line either to a session verb or, for lines starting with '-', to the
// layout parameters of the current mode.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cmdgraph/internal/data"
	"cmdgraph/internal/errs"
	applog "cmdgraph/internal/log"
	"cmdgraph/internal/param"
	"cmdgraph/internal/render"
	"cmdgraph/internal/sessionfile"
	"cmdgraph/internal/telemetry"
	"cmdgraph/internal/undo"
	"cmdgraph/internal/view"
)

const (
	defaultPrompt = "> "
	exitPrompt    = "Exit the program? [y/n] "
	maxLoadDepth  = 8
)

// Config wires a Shell to its input, output and collaborators. Zero values
// select the defaults.
type Config struct {
	// In is read line by line when Prompter is nil.
	In       io.Reader
	Out      io.Writer
	Prompter Prompter
	Loader   data.Loader
	// NewSurface returns a fresh figure for each view.
	NewSurface func() render.Surface
	Mode       string
	Prompt     string
	// SkipExitConfirm makes exit leave without the y/n question.
	SkipExitConfirm bool
	Backups         bool
	HistoryDepth    int
	Telemetry       *telemetry.Client
}

// Shell holds one session and dispatches commands against it.
type Shell struct {
	cfg     Config
	in      Prompter
	out     io.Writer
	styles  styles
	verbs   *registry
	view    *view.View
	single  *view.Entry
	history *undo.Manager
	log     *slog.Logger

	depth     int
	replaying bool
	quiet     bool
	done      bool
	failures  int
}

// New builds a shell with an empty session in cfg.Mode.
func New(cfg Config) (*Shell, error) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Loader == nil {
		cfg.Loader = data.FileLoader{}
	}
	if cfg.NewSurface == nil {
		cfg.NewSurface = func() render.Surface { return render.New(render.Options{}) }
	}
	if cfg.Mode == "" {
		cfg.Mode = view.ModeGraph
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = telemetry.Default()
	}
	in := cfg.Prompter
	if in == nil {
		r := cfg.In
		if r == nil {
			r = strings.NewReader("")
		}
		in = NewLinePrompter(r, cfg.Out)
	}
	v, err := view.New(cfg.Mode, cfg.NewSurface())
	if err != nil {
		return nil, err
	}
	s := &Shell{
		cfg:     cfg,
		in:      in,
		out:     cfg.Out,
		styles:  newStyles(cfg.Out),
		verbs:   newRegistry(),
		view:    v,
		history: undo.NewManager(undo.Config{MaxDepth: cfg.HistoryDepth}),
		log:     applog.WithComponent("shell"),
	}
	for _, vb := range builtinVerbs() {
		if err := s.verbs.register(vb); err != nil {
			return nil, errs.Wrap(err, errs.KindInternal, "shell setup")
		}
	}
	return s, nil
}

// Run reads and executes lines until a confirmed exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	for !s.done {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.in.SetPrompt(s.prompt())
		line, err := s.in.ReadLine()
		if errors.Is(err, io.EOF) {
			s.finish()
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		s.Execute(line)
	}
	return nil
}

// Execute runs one input line and reports whether the shell is done.
func (s *Shell) Execute(line string) bool {
	if err := s.dispatch(line); err != nil {
		s.log.Warn("command rejected", "line", line, "kind", string(errs.KindOf(err)), "err", err)
		s.report(err)
	}
	return s.done
}

// View returns the current session view.
func (s *Shell) View() *view.View { return s.view }

// Single returns the single-edit target, or nil in normal state.
func (s *Shell) Single() *view.Entry { return s.single }

// Failures counts the errors reported so far.
func (s *Shell) Failures() int { return s.failures }

// Done reports whether exit was confirmed or input ended.
func (s *Shell) Done() bool { return s.done }

// Script returns the current session as session file content.
func (s *Shell) Script() []byte { return sessionfile.Encode(s.view) }

func (s *Shell) prompt() string {
	if s.single != nil {
		return "[" + s.single.Path() + "] " + s.cfg.Prompt
	}
	return s.cfg.Prompt
}

func (s *Shell) dispatch(line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("command panicked", "line", line, "panic", r)
			err = errs.Newf(errs.KindInternal, "command failed: %v", r)
		}
	}()
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	s.log.Debug("dispatch", "cmd", name, "args", len(args), "replay", s.replaying)

	if strings.HasPrefix(name, "-") {
		err = s.record(line, true, func() error { return s.layout(name, args) })
		s.tally("layout", err)
		return err
	}
	vb, ok := s.verbs.resolve(name)
	if !ok {
		e := errs.UnknownCommand(name)
		if hint := param.Suggest(name, s.verbs.names()); hint != "" {
			e.WithDetail("hint", hint)
		}
		s.tally("unknown", e)
		return e
	}
	err = s.record(line, vb.Mutates, func() error { return vb.Run(s, args) })
	s.tally(vb.Name, err)
	return err
}

// record pushes the pre-command script onto the history when run changed
// the session.
func (s *Shell) record(label string, mutates bool, run func() error) error {
	if !mutates || s.replaying {
		return run()
	}
	before := s.Script()
	err := run()
	if !bytes.Equal(before, s.Script()) {
		s.history.Push(undo.Snapshot{Label: label, Script: before})
	}
	return err
}

func (s *Shell) tally(verb string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(errs.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	s.cfg.Telemetry.Command(verb, outcome)
}

func (s *Shell) layout(name string, args []string) error {
	reg := s.view.Registry()
	if name == "-h" || name == "--help" {
		return reg.WriteHelp(s.out)
	}
	key := strings.TrimLeft(name, "-")
	if _, ok := reg.Resolve(key); !ok {
		e := errs.UnknownParameter(key)
		if hint := reg.Suggest(key); hint != "" {
			e.WithDetail("hint", hint)
		}
		return e
	}
	return s.view.ApplyParameter(key, args)
}

// replay runs every line of sc with history recording suspended and returns
// how many lines failed.
func (s *Shell) replay(sc sessionfile.Script) int {
	prev := s.replaying
	s.replaying = true
	defer func() { s.replaying = prev }()
	failed := 0
	for _, l := range sc.Lines {
		if err := s.dispatch(l.Text); err != nil {
			failed++
			kind := errs.KindOf(err)
			if kind == "" {
				kind = errs.KindInternal
			}
			s.log.Warn("replay line rejected", "path", sc.Path, "line", l.No, "err", err)
			s.report(errs.Wrap(err, kind, fmt.Sprintf("%s:%d", sc.Path, l.No)))
		}
	}
	return failed
}

// restore rebuilds the session from a history snapshot.
func (s *Shell) restore(script []byte) error {
	sc, err := sessionfile.Parse(bytes.NewReader(script), "history")
	if err != nil {
		return errs.Wrap(err, errs.KindInternal, "corrupt history snapshot")
	}
	quiet := s.quiet
	s.quiet = true
	s.replay(sc)
	s.quiet = quiet
	s.single = nil
	s.view.ResetLive()
	return nil
}

func (s *Shell) leaveSingle() {
	s.single = nil
	s.view.ResetLive()
	s.notice("Leaving single plot mode...")
}

func (s *Shell) finish() {
	s.done = true
	s.notice("Exiting cmdGraph...")
}
