/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package wire implements the line-delimited VERB|NAME|DEPS protocol:
// framing, parsing and the three fixed reply encodings.
package wire

import "strings"

// Verb identifies the requested graph operation.
type Verb string

const (
	Index  Verb = "INDEX"
	Remove Verb = "REMOVE"
	Query  Verb = "QUERY"
)

// Frame is one decoded inbound request.
type Frame struct {
	Verb Verb
	Name string
	Deps []string
}

// Reply is one of the three fixed outbound byte sequences.
type Reply string

const (
	OK    Reply = "OK"
	Fail  Reply = "FAIL"
	Error Reply = "ERROR"
)

// Bytes returns the newline-terminated wire encoding of the reply.
func (r Reply) Bytes() []byte {
	return []byte(string(r) + "\n")
}

// Decode parses one newline-terminated line (without its trailing \n) into
// a Frame. It returns ok=false for any malformed input: wrong separator
// count, unknown verb, empty name, or leading/trailing whitespace in verb
// or name.
func Decode(line string) (Frame, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return Frame{}, false
	}

	rawVerb, rawName, rawDeps := parts[0], parts[1], parts[2]

	if rawVerb != strings.TrimSpace(rawVerb) || rawName != strings.TrimSpace(rawName) {
		return Frame{}, false
	}

	verb := Verb(rawVerb)
	switch verb {
	case Index, Remove, Query:
	default:
		return Frame{}, false
	}

	if rawName == "" {
		return Frame{}, false
	}

	return Frame{Verb: verb, Name: rawName, Deps: parseDeps(rawDeps)}, true
}

// parseDeps splits a comma-separated dependency list, discarding empty
// items and collapsing duplicates to a single occurrence while preserving
// first-seen order.
func parseDeps(raw string) []string {
	if raw == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string

	for _, d := range strings.Split(raw, ",") {
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	return out
}
