/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"cmdgraph/internal/config"
	"cmdgraph/internal/crash"
	applog "cmdgraph/internal/log"
	"cmdgraph/internal/render"
	"cmdgraph/internal/shell"
	"cmdgraph/internal/telemetry"
	"cmdgraph/internal/version"
)

// errFailures ends a batch run whose commands did not all succeed.
var errFailures = errors.New("some commands failed")

type options struct {
	mode       string
	configPath string
	exec       []string
	batch      bool
	noBanner   bool
	verbose    bool
}

func bindFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVar(&o.mode, "mode", "", "start in this mode (graph or stick)")
	fs.StringVarP(&o.configPath, "config", "c", "", "configuration file (.yaml or .toml)")
	fs.StringArrayVarP(&o.exec, "exec", "e", nil, "run a command line before the prompt (repeatable)")
	fs.BoolVar(&o.batch, "batch", false, "do not read commands from stdin; exit after the session file and -e lines")
	fs.BoolVar(&o.noBanner, "no-banner", false, "do not print the start banner")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log at debug level")
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "cmdgraph [session-file]",
		Short:         "Interactive command line plotting of spectra and x/y data",
		Args:          cobra.MaximumNArgs(1),
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, o, args)
		},
	}
	bindFlags(root.Flags(), o)
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of cmdgraph",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cmdgraph %s\n", version.String())
		},
	})
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailures) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func loadConfig(path string) (config.AppConfig, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

type stdio struct {
	io.Reader
	io.Writer
}

func runShell(cmd *cobra.Command, o *options, args []string) error {
	applog.Init(applog.FromEnv())
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	if o.verbose {
		applog.SetLevel("debug")
	}
	l := applog.WithComponent("cli")

	mode := cfg.General.DefaultMode
	if cmd.Flags().Changed("mode") {
		mode = o.mode
	}

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	tc := telemetry.New(tcfg)
	telemetry.SetDefault(tc)
	defer func() {
		tc.Summary()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		tc.Flush(ctx)
		cancel()
		tc.Close()
	}()

	var sh *shell.Shell
	defer crash.Recover(crash.Target{Session: func() []byte {
		if sh == nil {
			return nil
		}
		return sh.Script()
	}})

	out := io.Writer(os.Stdout)
	var prompter shell.Prompter
	var tp *shell.TermPrompter
	fd := int(os.Stdin.Fd())
	if !o.batch && term.IsTerminal(fd) {
		tp, err = shell.NewTermPrompter(fd, stdio{os.Stdin, os.Stdout})
		if err != nil {
			l.Warn("line editing unavailable", slog.Any("err", err))
		} else {
			defer func() { _ = tp.Close() }()
			prompter = tp
			out = tp.Writer()
		}
	}
	if prompter == nil && !o.batch {
		prompter = shell.NewLinePrompter(os.Stdin, out)
	}

	sh, err = shell.New(shell.Config{
		Out:      out,
		Prompter: prompter,
		NewSurface: func() render.Surface {
			return render.New(render.Options{
				Title:  cfg.Print.Title,
				Width:  cfg.Print.Width,
				Height: cfg.Print.Height,
				DPI:    cfg.Print.DPI,
			})
		},
		Mode:            mode,
		Prompt:          cfg.General.Prompt,
		SkipExitConfirm: o.batch || !cfg.General.ConfirmExit,
		Backups:         cfg.Session.Backups,
		HistoryDepth:    cfg.Session.HistoryDepth,
		Telemetry:       tc,
	})
	if err != nil {
		return err
	}
	if tp != nil {
		tp.SetCompleter(sh.Complete)
	}
	l.Debug("start", slog.String("mode", mode), slog.Bool("batch", o.batch), slog.Int("exec", len(o.exec)))

	if cfg.General.Banner && !o.noBanner && !o.batch {
		fmt.Fprintln(out, banner(out))
	}
	if len(args) == 1 {
		sh.Execute("load " + args[0])
	}
	for _, line := range o.exec {
		if sh.Execute(line) {
			break
		}
	}
	if !o.batch && !sh.Done() {
		if err := sh.Run(context.Background()); err != nil {
			return err
		}
	}
	if o.batch && sh.Failures() > 0 {
		l.Info("batch finished with failures", slog.Int("failures", sh.Failures()))
		return errFailures
	}
	return nil
}

func banner(out io.Writer) string {
	r := lipgloss.NewRenderer(out)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Render("cmdGraph " + version.String())
	body := r.NewStyle().Faint(true).Render("Type 'help' for commands, -h for figure options.")
	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(title + "\n" + body)
}
