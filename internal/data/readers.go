/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"cmdgraph/internal/errs"
)

// Loader turns a path into a Dataset. def is the format used when the
// extension does not decide it.
type Loader interface {
	Load(path string, def Format) (*Dataset, error)
}

// FileLoader reads datasets from the local file system.
type FileLoader struct{}

func (FileLoader) Load(path string, def Format) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Newf(errs.KindNotFound, "data file not found: %s", path).WithDetail("path", path)
		}
		return nil, errs.Wrap(err, errs.KindIO, "cannot read "+path)
	}
	defer func() { _ = f.Close() }()
	return Read(f, path, DetectFormat(path, def))
}

// Read parses r as a dataset of the given format.
func Read(r io.Reader, path string, format Format) (*Dataset, error) {
	d := &Dataset{Path: path, Format: format}
	switch format {
	case FormatXY:
		d.XBounds = Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
		d.YBounds = d.XBounds
	case FormatStick, FormatLinelist:
		d.XBounds = Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
		// sticks rise from 0, so 0 is always inside the y bounds
		d.YBounds = Bounds{}
	default:
		return nil, errs.Newf(errs.KindValidation, "unknown data format %q", format)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := splitFields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		if format == FormatLinelist {
			err = d.addTransition(fields)
		} else {
			err = d.addPoint(fields)
		}
		if err != nil {
			return nil, errs.Wrap(err, errs.KindFormat, fmt.Sprintf("%s:%d", path, lineNo)).
				WithDetail("path", path).
				WithDetail("line", lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(err, errs.KindIO, "cannot read "+path)
	}
	if d.Len() == 0 {
		return nil, errs.Newf(errs.KindFormat, "%s: no data rows", path).WithDetail("path", path)
	}
	return d, nil
}

// splitFields drops a trailing # comment and splits on whitespace or commas.
func splitFields(line string) []string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\r'
	})
}

func (d *Dataset) addPoint(fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("expected x and y columns, got %d column(s)", len(fields))
	}
	x, err := parseFloat(fields[0])
	if err != nil {
		return err
	}
	y, err := parseFloat(fields[1])
	if err != nil {
		return err
	}
	d.X = append(d.X, x)
	d.Y = append(d.Y, y)
	d.XBounds.include(x)
	d.YBounds.include(y)
	return nil
}

func (d *Dataset) addTransition(fields []string) error {
	if len(fields) < 4 {
		return fmt.Errorf("expected upper, lower, wavenumber and intensity columns, got %d column(s)", len(fields))
	}
	wn, err := parseFloat(fields[2])
	if err != nil {
		return err
	}
	in, err := parseFloat(fields[3])
	if err != nil {
		return err
	}
	t := Transition{Upper: fields[0], Lower: fields[1], Wavenumber: wn, Intensity: in}
	if len(fields) > 4 {
		t.Labels = append([]string(nil), fields[4:]...)
	}
	d.Transitions = append(d.Transitions, t)
	d.X = append(d.X, wn)
	d.Y = append(d.Y, in)
	d.XBounds.include(wn)
	d.YBounds.include(in)
	return nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
