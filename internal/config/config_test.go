/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"cmdgraph/internal/errs"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFromMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DefaultMode != "graph" || !cfg.General.ConfirmExit || cfg.Print.Width != 1024 {
		t.Fatalf("defaults not applied: %#v", cfg)
	}
}

func TestLoadFromYAMLKeepsUnsetDefaults(t *testing.T) {
	p := writeFile(t, "config.yaml", "general:\n  default_mode: stick\nprint:\n  dpi: 150\n")
	cfg, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DefaultMode != "stick" || cfg.Print.DPI != 150 {
		t.Fatalf("file values not merged: %#v", cfg)
	}
	if !cfg.General.ConfirmExit || !cfg.Session.Backups || cfg.Print.Height != 768 {
		t.Fatalf("omitted fields lost their defaults: %#v", cfg)
	}
}

func TestLoadFromTOML(t *testing.T) {
	p := writeFile(t, "config.toml", "[general]\nprompt = \"plot> \"\nconfirm_exit = false\n\n[session]\nhistory_depth = 5\n")
	cfg, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.Prompt != "plot> " || cfg.General.ConfirmExit || cfg.Session.HistoryDepth != 5 {
		t.Fatalf("toml values not merged: %#v", cfg)
	}
}

func TestSchemaRejectsBadValues(t *testing.T) {
	for name, content := range map[string]string{
		"mode.yaml":    "general:\n  default_mode: polar\n",
		"unknown.yaml": "general:\n  colour: red\n",
		"width.toml":   "[print]\nwidth = 2\n",
		"syntax.yaml":  "general: [\n",
	} {
		_, err := LoadFrom(writeFile(t, name, content))
		if !errs.Is(err, errs.KindConfig) {
			t.Fatalf("%s: err = %v, want config error", name, err)
		}
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		p := filepath.Join(t.TempDir(), name)
		want := Defaults()
		want.General.DefaultMode = "stick"
		want.Print.DPI = 200.5
		want.Logging.File = "/tmp/cmdgraph.log"
		if err := SaveTo(p, want); err != nil {
			t.Fatalf("SaveTo(%s): %v", name, err)
		}
		got, err := LoadFrom(p)
		if err != nil {
			t.Fatalf("LoadFrom(%s): %v", name, err)
		}
		if got != want {
			t.Fatalf("%s round trip:\n got %#v\nwant %#v", name, got, want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvMode, "STICK")
	t.Setenv(EnvPrompt, ">> ")
	t.Setenv(EnvConfirmExit, "off")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/cmdgraph.log")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DefaultMode != "stick" || cfg.General.Prompt != ">> " || cfg.General.ConfirmExit {
		t.Fatalf("general overrides not applied: %#v", cfg.General)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/cmdgraph.log" {
		t.Fatalf("logging overrides not applied: %#v", cfg.Logging)
	}
	if env, ok := EnvOverrideFor("logging.level"); !ok || env != EnvLogLevel {
		t.Fatalf("EnvOverrideFor(logging.level) = %q,%v", env, ok)
	}
	if _, ok := EnvOverrideFor("print.width"); ok {
		t.Fatalf("EnvOverrideFor(print.width) reported an override")
	}
}

func TestConfigPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvConfigFile, "/etc/cmdgraph.toml")
	p, err := ConfigPath()
	if err != nil || p != "/etc/cmdgraph.toml" {
		t.Fatalf("ConfigPath = %q,%v", p, err)
	}
}

func TestMergeIntoLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = " DEBUG "
	src.Logging.Format = "json"
	src.Logging.Source = true
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}
