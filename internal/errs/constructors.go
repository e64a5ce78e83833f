/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package errs

import (
	"fmt"
	"strings"
)

// ArityMismatch reports a parameter given the wrong number of values.
func ArityMismatch(name string, got, want int) *Error {
	return Newf(KindValidation, "--%s expects %d value(s), got %d", name, want, got).
		WithDetail("param", name).
		WithDetail("got", got).
		WithDetail("want", want)
}

// InvalidValue reports a value that does not parse or is not allowed.
func InvalidValue(name, value, reason string) *Error {
	return Newf(KindValidation, "--%s: invalid value %q: %s", name, value, reason).
		WithDetail("param", name).
		WithDetail("value", value)
}

// InvalidMode reports a mode outside the closed set.
func InvalidMode(mode string, modes []string) *Error {
	return Newf(KindValidation, "mode %q not defined (available: %s)", mode, strings.Join(modes, ", ")).
		WithDetail("mode", mode)
}

// UnknownParameter reports a layout token that no registry entry matches.
func UnknownParameter(name string) *Error {
	return Newf(KindUnrecognized, "unrecognised argument %q", name).
		WithDetail("param", name)
}

// UnknownCommand reports a verb that is neither a command nor a layout token.
func UnknownCommand(verb string) *Error {
	return Newf(KindUnrecognized, "unknown command %q", verb).
		WithDetail("command", verb)
}

// EntryNotFound reports a dataset path missing from the session.
func EntryNotFound(path string) *Error {
	return Newf(KindNotFound, "plot file not found: %s", path).
		WithDetail("path", path)
}

// BadHeader reports a session file that lacks the header line.
func BadHeader(path string) *Error {
	return Newf(KindFormat, "%s: not recognised as a cmdGraph file", path).
		WithDetail("path", path)
}

// DuplicateParameter reports a second registration of a name or alias.
func DuplicateParameter(mode, name string) *Error {
	return Newf(KindConfig, "%s registry: duplicate parameter %q", mode, name).
		WithDetail("mode", mode).
		WithDetail("param", name)
}

// Usage reports a command called with the wrong arguments.
func Usage(usage string) *Error {
	return New(KindValidation, fmt.Sprintf("usage: %s", usage))
}
