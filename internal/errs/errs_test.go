/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfThroughWrapping(t *testing.T) {
	base := ArityMismatch("linewidth", 1, 2)
	wrapped := fmt.Errorf("apply: %w", base)

	if got := KindOf(wrapped); got != KindValidation {
		t.Fatalf("KindOf = %q, want %q", got, KindValidation)
	}
	if !Is(wrapped, KindValidation) {
		t.Fatalf("Is should match validation kind")
	}
	if Is(wrapped, KindNotFound) {
		t.Fatalf("Is should not match not-found kind")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors carry no kind")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, KindIO, "write session")
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error should unwrap to cause")
	}
	if got, want := err.Error(), "write session: disk full"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestConstructorDetails(t *testing.T) {
	err := EntryNotFound("a.dat")
	if err.Kind != KindNotFound {
		t.Fatalf("kind = %q, want %q", err.Kind, KindNotFound)
	}
	if got := err.Detail("path"); got != "a.dat" {
		t.Fatalf("path detail = %q, want %q", got, "a.dat")
	}
	if got := ArityMismatch("label", 3, 2).Detail("want"); got != "2" {
		t.Fatalf("want detail = %q, want %q", got, "2")
	}
	if got := UnknownParameter("lw2").Kind; got != KindUnrecognized {
		t.Fatalf("kind = %q, want %q", got, KindUnrecognized)
	}
}
