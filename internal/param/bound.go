/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package param

import (
	"fmt"
	"math"
	"strconv"

	"cmdgraph/internal/errs"
	"cmdgraph/internal/render"
)

// AutoToken stands for an autoscaled range bound.
const AutoToken = "*"

// ParseBound parses a range bound token.
func ParseBound(tok string) (render.Bound, error) {
	if tok == AutoToken {
		return render.AutoBound(), nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return render.Bound{}, errs.Newf(errs.KindValidation, "invalid bound %q", tok).WithDetail("value", tok)
	}
	return render.Fixed(v), nil
}

// ParseRange parses a lo/hi pair; two fixed bounds must be increasing.
func ParseRange(lo, hi string) (render.Bound, render.Bound, error) {
	l, err := ParseBound(lo)
	if err != nil {
		return l, l, err
	}
	h, err := ParseBound(hi)
	if err != nil {
		return l, h, err
	}
	if !l.Auto && !h.Auto && l.Value >= h.Value {
		return l, h, errs.New(errs.KindValidation, fmt.Sprintf("range %s %s: lower bound must be below upper bound", lo, hi))
	}
	return l, h, nil
}
