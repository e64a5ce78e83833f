/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// defaultCycle is the colour sequence given to series without an explicit
// colour, in the order they were added.
var defaultCycle = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var namedColours = map[string]string{
	"b": "#0000ff", "blue": "#0000ff",
	"g": "#008000", "green": "#008000",
	"r": "#ff0000", "red": "#ff0000",
	"c": "#00bfbf", "cyan": "#00ffff",
	"m": "#bf00bf", "magenta": "#ff00ff",
	"y": "#bfbf00", "yellow": "#ffff00",
	"k": "#000000", "black": "#000000",
	"w": "#ffffff", "white": "#ffffff",
	"orange": "#ffa500", "purple": "#800080",
	"brown": "#a52a2a", "pink": "#ffc0cb",
	"grey": "#808080", "gray": "#808080",
	"olive": "#808000", "navy": "#000080",
	"teal": "#008080",
}

func init() {
	for i, hex := range defaultCycle {
		namedColours[fmt.Sprintf("c%d", i)] = hex
	}
}

// ParseColour accepts a colour name, a single-letter shorthand, a cycle
// reference (C0..C9) or a #rgb, #rrggbb or #rrggbbaa hex string.
func ParseColour(s string) (drawing.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "none" {
		return drawing.Color{R: 255, G: 255, B: 255, A: 0}, nil
	}
	if hex, ok := namedColours[key]; ok {
		key = hex
	}
	if !strings.HasPrefix(key, "#") {
		return drawing.Color{}, fmt.Errorf("unknown colour %q", s)
	}
	hex := key[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return drawing.Color{}, fmt.Errorf("malformed hex colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return drawing.Color{}, fmt.Errorf("malformed hex colour %q", s)
	}
	return drawing.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

var lineStyles = map[string][]float64{
	"-": nil, "solid": nil,
	"--": {6, 4}, "dashed": {6, 4},
	":": {1.5, 3}, "dotted": {1.5, 3},
	"-.": {6, 3, 1.5, 3}, "dashdot": {6, 3, 1.5, 3},
	"none": nil, "None": nil, "": nil,
}

// ValidLineStyle reports whether ls names a known line style.
func ValidLineStyle(ls string) bool {
	_, ok := lineStyles[ls]
	return ok
}

func hiddenLine(ls string) bool { return ls == "none" || ls == "None" }

var markers = map[string]bool{
	".": true, ",": true, "o": true, "v": true, "^": true, "<": true, ">": true,
	"s": true, "p": true, "*": true, "h": true, "H": true, "+": true, "x": true,
	"D": true, "d": true, "|": true, "_": true, "none": true, "None": true,
}

// ValidMarker reports whether m names a known marker. Every visible marker
// is drawn as a dot of the marker size.
func ValidMarker(m string) bool { return markers[m] }

func hiddenMarker(m string) bool { return m == "" || m == "none" || m == "None" }
