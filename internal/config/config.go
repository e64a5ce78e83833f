/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the per-user cmdgraph configuration. The file may be
// YAML or TOML; either way it is checked against an embedded JSON schema
// before use. Environment variables override file values at runtime.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"cmdgraph/internal/errs"
)

//go:embed schema.json
var schemaJSON string

type GeneralConfig struct {
	DefaultMode    string `yaml:"default_mode" toml:"default_mode"`
	Prompt         string `yaml:"prompt" toml:"prompt"`
	Banner         bool   `yaml:"banner" toml:"banner"`
	ConfirmExit    bool   `yaml:"confirm_exit" toml:"confirm_exit"`
	TelemetryOptIn bool   `yaml:"telemetry_opt_in" toml:"telemetry_opt_in"`
}

type SessionConfig struct {
	Backups      bool `yaml:"backups" toml:"backups"`
	HistoryDepth int  `yaml:"history_depth" toml:"history_depth"`
}

type PrintConfig struct {
	Width  int     `yaml:"width" toml:"width"`
	Height int     `yaml:"height" toml:"height"`
	DPI    float64 `yaml:"dpi" toml:"dpi"`
	Title  string  `yaml:"title,omitempty" toml:"title,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	Source bool   `yaml:"source" toml:"source"`
	File   string `yaml:"file" toml:"file"`
}

// AppConfig is the user-editable configuration.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version" toml:"config_version"`
	General       GeneralConfig `yaml:"general" toml:"general"`
	Session       SessionConfig `yaml:"session" toml:"session"`
	Print         PrintConfig   `yaml:"print" toml:"print"`
	Logging       LoggingConfig `yaml:"logging" toml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{DefaultMode: "graph", Prompt: "> ", Banner: true, ConfirmExit: true},
		Session:       SessionConfig{Backups: true, HistoryDepth: 100},
		Print:         PrintConfig{Width: 1024, Height: 768, DPI: 96},
		Logging:       LoggingConfig{Level: "warn", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile     = "CMG_CONFIG"
	EnvMode           = "CMG_MODE"
	EnvPrompt         = "CMG_PROMPT"
	EnvConfirmExit    = "CMG_CONFIRM_EXIT"
	EnvTelemetryOptIn = "CMG_TELEMETRY_OPT_IN"
	EnvLogLevel       = "CMG_LOG_LEVEL"
	EnvLogFormat      = "CMG_LOG_FORMAT"
	EnvLogSource      = "CMG_LOG_SOURCE"
	EnvLogFile        = "CMG_LOG_FILE"
)

// ConfigPath returns the per-user config file path. An existing config.toml
// wins over config.yaml; CMG_CONFIG overrides both.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "cmdgraph")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "cmdgraph")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "cmdgraph")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "cmdgraph")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	if _, err := os.Stat(filepath.Join(base, "config.toml")); err == nil {
		return filepath.Join(base, "config.toml"), nil
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file if present, applies defaults and merges
// environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit file. A missing file yields the defaults.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, errs.Wrap(err, errs.KindConfig, "read config "+path)
	default:
		fileCfg, err := decode(path, data)
		if err != nil {
			return cfg, err
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func isTOML(path string) bool { return strings.EqualFold(filepath.Ext(path), ".toml") }

// decode validates the raw document against the schema, then decodes it on
// top of the defaults so omitted fields keep their default values.
func decode(path string, data []byte) (AppConfig, error) {
	raw := map[string]any{}
	var err error
	if isTOML(path) {
		err = toml.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return AppConfig{}, errs.Wrap(err, errs.KindConfig, "parse config "+path)
	}
	if err := validate(raw); err != nil {
		return AppConfig{}, errs.Wrap(err, errs.KindConfig, "invalid config "+path)
	}
	cfg := Defaults()
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return AppConfig{}, errs.Wrap(err, errs.KindConfig, "decode config "+path)
	}
	return cfg, nil
}

func validate(doc map[string]any) error {
	res, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Save writes cfg to the per-user config path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML, or TOML for a .toml path.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.ToLower(strings.TrimSpace(src.General.DefaultMode)); v != "" {
		dst.General.DefaultMode = v
	}
	if src.General.Prompt != "" {
		dst.General.Prompt = src.General.Prompt
	}
	// booleans: src was decoded on top of the defaults, so copy them directly
	dst.General.Banner = src.General.Banner
	dst.General.ConfirmExit = src.General.ConfirmExit
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.Session.Backups = src.Session.Backups
	if src.Session.HistoryDepth >= 0 {
		dst.Session.HistoryDepth = src.Session.HistoryDepth
	}
	if src.Print.Width > 0 {
		dst.Print.Width = src.Print.Width
	}
	if src.Print.Height > 0 {
		dst.Print.Height = src.Print.Height
	}
	if src.Print.DPI > 0 {
		dst.Print.DPI = src.Print.DPI
	}
	dst.Print.Title = src.Print.Title
	if v := strings.ToLower(strings.TrimSpace(src.Logging.Level)); v != "" {
		dst.Logging.Level = v
	}
	if v := strings.ToLower(strings.TrimSpace(src.Logging.Format)); v != "" {
		dst.Logging.Format = v
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func envBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err == nil {
		return b
	}
	lv := strings.ToLower(v)
	return lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvMode)); v != "" {
		cfg.General.DefaultMode = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrompt); v != "" {
		cfg.General.Prompt = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConfirmExit)); v != "" {
		cfg.General.ConfirmExit = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"general.default_mode":     EnvMode,
		"general.prompt":           EnvPrompt,
		"general.confirm_exit":     EnvConfirmExit,
		"general.telemetry_opt_in": EnvTelemetryOptIn,
		"logging.level":            EnvLogLevel,
		"logging.format":           EnvLogFormat,
		"logging.source":           EnvLogSource,
		"logging.file":             EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
