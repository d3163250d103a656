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

// Package xerrors provides a small coded-error type for internal diagnostics.
// Wire-visible behavior (OK/FAIL/ERROR) never depends on these codes; they
// exist so logs can classify why a graph or codec operation failed without
// parsing message strings. Metrics are not labeled by them.
package xerrors

// CodeError is a numeric classification of an internal failure, in the same
// spirit as an HTTP status code: stable, small, and safe to use as a metric
// label.
type CodeError uint16

const (
	// CodeUnknown is used when no more specific code applies.
	CodeUnknown CodeError = iota
	// CodeMalformedFrame marks a wire-level parse failure (ERROR reply).
	CodeMalformedFrame
	// CodeMissingDependency marks an INDEX rejected because a dependency
	// is not yet present in the graph.
	CodeMissingDependency
	// CodeCycleDetected marks an INDEX rejected because it would close a
	// cycle in the dependency graph.
	CodeCycleDetected
	// CodeSelfDependency marks an INDEX rejected because a package lists
	// itself as a dependency.
	CodeSelfDependency
	// CodeHasDependees marks a REMOVE rejected because the package still
	// has at least one dependee.
	CodeHasDependees
	// CodeSessionEnded marks a session teardown (budget exhausted, error
	// tolerance exceeded, or transport error) for logging purposes only.
	CodeSessionEnded
)

// String returns a short, stable label suitable for a log field or a
// Prometheus label value.
func (c CodeError) String() string {
	switch c {
	case CodeMalformedFrame:
		return "malformed_frame"
	case CodeMissingDependency:
		return "missing_dependency"
	case CodeCycleDetected:
		return "cycle_detected"
	case CodeSelfDependency:
		return "self_dependency"
	case CodeHasDependees:
		return "has_dependees"
	case CodeSessionEnded:
		return "session_ended"
	default:
		return "unknown"
	}
}
