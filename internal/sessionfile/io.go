/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sessionfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"cmdgraph/internal/errs"
)

// Line is one replay command with its position in the file.
type Line struct {
	No   int
	Text string
}

// Script is a parsed session file.
type Script struct {
	Path  string
	Lines []Line
}

// WriteOptions controls Write.
type WriteOptions struct {
	// Backup keeps the previous file as <path>.bak.
	Backup bool
}

// Write saves s to path: temp file in the same directory, then rename.
func Write(path string, s Session, opts WriteOptions) error {
	return WriteBytes(path, Encode(s), opts)
}

// WriteBytes stores already encoded content with the same guarantees as Write.
func WriteBytes(path string, content []byte, opts WriteOptions) error {
	if path == "" {
		return errs.New(errs.KindValidation, "empty session file name")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, errs.KindIO, "create session directory")
	}
	if opts.Backup {
		if _, err := os.Stat(path); err == nil {
			if err := copyFile(path, path+".bak"); err != nil {
				return errs.Wrap(err, errs.KindIO, "backup "+path)
			}
		}
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, content); err != nil {
		_ = os.Remove(temp)
		return errs.Wrap(err, errs.KindIO, "write "+path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return errs.Wrap(err, errs.KindIO, "replace "+path)
	}
	return nil
}

// Read opens and parses a session file.
func Read(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Script{}, errs.Newf(errs.KindNotFound, "session file not found: %s", path).WithDetail("path", path)
		}
		return Script{}, errs.Wrap(err, errs.KindIO, "cannot read "+path)
	}
	defer func() { _ = f.Close() }()
	sc, err := Parse(f, path)
	if err != nil {
		return Script{}, err
	}
	return sc, nil
}

// Parse reads a session script. The first non-blank line must be the
// header; every later non-blank line is a command.
func Parse(r io.Reader, path string) (Script, error) {
	s := bufio.NewScanner(r)
	lineNo := 0
	started := false
	out := Script{Path: path}
	for s.Scan() {
		lineNo++
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}
		if !started {
			if text != Header {
				return Script{}, errs.BadHeader(path).WithDetail("line", lineNo)
			}
			started = true
			continue
		}
		out.Lines = append(out.Lines, Line{No: lineNo, Text: text})
	}
	if err := s.Err(); err != nil {
		return Script{}, errs.Wrap(err, errs.KindIO, "cannot read "+path)
	}
	if !started {
		return Script{}, errs.BadHeader(path)
	}
	return out, nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies src over dst.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sf.Close() }()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
