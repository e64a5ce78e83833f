/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"cmdgraph/internal/errs"
	applog "cmdgraph/internal/log"
	"cmdgraph/internal/param"
	"cmdgraph/internal/render"
	"cmdgraph/internal/sessionfile"
	"cmdgraph/internal/undo"
	"cmdgraph/internal/view"
)

func builtinVerbs() []verb {
	return []verb{
		{Name: "adat", Usage: "adat <path> [path ...]", Desc: "add data files to the plot", Mutates: true, Run: runAdat},
		{Name: "ddat", Usage: "ddat <path> [path ...]", Desc: "remove data files from the plot", Mutates: true, Run: runDdat},
		{Name: "single", Usage: "single <path> [n]", Desc: "edit one data file (the n-th with that path)", Run: runSingle},
		{Name: "exit", Aliases: []string{"quit"}, Usage: "exit", Desc: "leave single plot mode, or the program", Run: runExit},
		{Name: "mode", Usage: "mode <" + strings.Join(view.Modes(), "|") + ">", Desc: "start a new empty plot in another mode", Mutates: true, Run: runMode},
		{Name: "save", Usage: "save <path>", Desc: "write the session to a file", Run: runSave},
		{Name: "load", Usage: "load <path>", Desc: "replay a saved session", Mutates: true, Run: runLoad},
		{Name: "print", Usage: "print <path>", Desc: "export the figure (" + strings.Join(render.Formats(), " ") + ")", Run: runPrint},
		{Name: "undo", Usage: "undo", Desc: "revert the last change", Run: runUndo},
		{Name: "redo", Usage: "redo", Desc: "reapply the last undone change", Run: runRedo},
		{Name: "help", Aliases: []string{"?"}, Usage: "help [command]", Desc: "list commands or show one", Run: runHelp},
	}
}

func runAdat(s *Shell, args []string) error {
	if len(args) == 0 {
		return errs.Usage("adat <path> [path ...]")
	}
	for _, p := range args {
		ds, err := s.cfg.Loader.Load(p, s.view.DefaultFormat())
		if err != nil {
			s.log.Warn("data file rejected", "path", p, "err", err)
			s.report(err)
			continue
		}
		if _, err := s.view.AddEntry(ds); err != nil {
			s.report(err)
		}
	}
	if s.single != nil {
		if err := s.view.SetLive([]*view.Entry{s.single}); err != nil {
			return errs.Wrap(err, errs.KindInternal, "cannot keep single plot target")
		}
	}
	return nil
}

func runDdat(s *Shell, args []string) error {
	if len(args) == 0 {
		return errs.Usage("ddat <path> [path ...]")
	}
	missing := s.view.RemoveEntries(args...)
	if s.single != nil && s.view.Occurrence(s.single) == 0 {
		s.leaveSingle()
	}
	for _, p := range missing {
		s.report(errs.EntryNotFound(p))
	}
	return nil
}

func runSingle(s *Shell, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errs.Usage("single <path> [n]")
	}
	n := 1
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 1 {
			return errs.Newf(errs.KindValidation, "single: occurrence must be a positive integer, got %q", args[1])
		}
		n = v
	}
	e, ok := s.view.Find(args[0], n)
	if !ok {
		return errs.EntryNotFound(args[0])
	}
	if err := s.view.SetLive([]*view.Entry{e}); err != nil {
		return err
	}
	s.single = e
	s.notice("Entering single plot mode for '%s'", e.Path())
	return nil
}

func runExit(s *Shell, args []string) error {
	if len(args) > 0 {
		return errs.Usage("exit")
	}
	if s.single != nil {
		s.leaveSingle()
		return nil
	}
	if s.replaying {
		s.caution("exit ignored while replaying a session")
		return nil
	}
	if s.cfg.SkipExitConfirm {
		s.finish()
		return nil
	}
	if s.view.Dirty() {
		s.caution("The session has unsaved changes.")
	}
	defer s.in.SetPrompt(s.prompt())
	for {
		s.in.SetPrompt(exitPrompt)
		answer, err := s.in.ReadLine()
		if err != nil {
			// end of input answers yes
			s.finish()
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			s.finish()
			return nil
		case "n", "no":
			s.notice("Exit cancelled.")
			return nil
		}
	}
}

func runMode(s *Shell, args []string) error {
	if len(args) != 1 {
		return errs.Usage("mode <" + strings.Join(view.Modes(), "|") + ">")
	}
	if !view.ValidMode(args[0]) {
		return errs.InvalidMode(args[0], view.Modes())
	}
	nv, err := view.New(args[0], s.cfg.NewSurface())
	if err != nil {
		return err
	}
	s.view.Close()
	s.view = nv
	s.single = nil
	s.log.Debug("mode switched", "mode", nv.Mode())
	return nil
}

func runSave(s *Shell, args []string) error {
	if len(args) != 1 {
		return errs.Usage("save <path>")
	}
	if err := sessionfile.Write(args[0], s.view, sessionfile.WriteOptions{Backup: s.cfg.Backups}); err != nil {
		return ioError(err, "save "+args[0])
	}
	s.view.MarkClean()
	s.notice("Session saved to %s", args[0])
	return nil
}

func runLoad(s *Shell, args []string) error {
	if len(args) != 1 {
		return errs.Usage("load <path>")
	}
	path := args[0]
	if s.depth >= maxLoadDepth {
		return errs.Newf(errs.KindValidation, "load: sessions nested deeper than %d levels", maxLoadDepth).
			WithDetail("path", path)
	}
	sc, err := sessionfile.Read(path)
	if err != nil {
		return err
	}
	ctx := applog.ContextWithSession(context.Background(), path)
	s.log.DebugContext(ctx, "replaying session", "lines", len(sc.Lines), "depth", s.depth+1)

	s.depth++
	failed := s.replay(sc)
	s.depth--
	if s.single != nil {
		s.leaveSingle()
	}
	if failed > 0 {
		s.log.WarnContext(ctx, "session replayed with errors", "failed", failed)
		s.caution("Loaded %s with %d failing line(s)", path, failed)
		return nil
	}
	if s.depth == 0 {
		s.view.MarkClean()
	}
	s.log.InfoContext(ctx, "session loaded", "entries", len(s.view.Entries()))
	return nil
}

func runPrint(s *Shell, args []string) error {
	if len(args) != 1 {
		return errs.Usage("print <path>")
	}
	path := args[0]
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(render.Formats(), ext) {
		return errs.Newf(errs.KindValidation, "print: unsupported format %q (use %s)", ext, strings.Join(render.Formats(), " ")).
			WithDetail("path", path)
	}
	if len(s.view.Entries()) == 0 {
		return errs.New(errs.KindValidation, "print: nothing to plot")
	}
	if err := s.view.Surface().Export(path); err != nil {
		return ioError(err, "print "+path)
	}
	s.notice("Figure written to %s", path)
	return nil
}

func runUndo(s *Shell, args []string) error {
	if len(args) > 0 {
		return errs.Usage("undo")
	}
	snap, ok := s.history.Undo(undo.Snapshot{Script: s.Script()})
	if !ok {
		return errs.New(errs.KindValidation, "nothing to undo")
	}
	if err := s.restore(snap.Script); err != nil {
		return err
	}
	s.notice("Undid: %s", snap.Label)
	return nil
}

func runRedo(s *Shell, args []string) error {
	if len(args) > 0 {
		return errs.Usage("redo")
	}
	snap, ok := s.history.Redo(undo.Snapshot{Script: s.Script()})
	if !ok {
		return errs.New(errs.KindValidation, "nothing to redo")
	}
	if err := s.restore(snap.Script); err != nil {
		return err
	}
	s.notice("Redid: %s", snap.Label)
	return nil
}

func runHelp(s *Shell, args []string) error {
	if len(args) > 1 {
		return errs.Usage("help [command]")
	}
	if len(args) == 1 {
		vb, ok := s.verbs.resolve(args[0])
		if !ok {
			e := errs.UnknownCommand(args[0])
			if hint := param.Suggest(args[0], s.verbs.names()); hint != "" {
				e.WithDetail("hint", hint)
			}
			return e
		}
		fmt.Fprintf(s.out, "%s\n    %s\n", vb.Usage, vb.Desc)
		if len(vb.Aliases) > 0 {
			fmt.Fprintf(s.out, "    aliases: %s\n", strings.Join(vb.Aliases, ", "))
		}
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Commands:")
	for _, name := range s.verbs.names() {
		vb, _ := s.verbs.resolve(name)
		fmt.Fprintf(tw, "  %s\t%s\n", vb.Usage, vb.Desc)
	}
	fmt.Fprintf(tw, "Type -h for the figure commands of %s mode.\n", s.view.Mode())
	return tw.Flush()
}

// ioError keeps coded errors as they are and classifies the rest as I/O.
func ioError(err error, msg string) error {
	if _, ok := errs.As(err); ok {
		return err
	}
	return errs.Wrap(err, errs.KindIO, msg)
}
