// Package lexerr implements the error taxonomy and reporter from
// SPEC_FULL.md §7: numbered error codes grouped by range (100s lexical,
// 200s syntax, 300s semantic, 900s internal), a severity, a source
// position, an optional hint, and plain-text rendering only — no ANSI
// color, per spec.md's explicit non-goal.
//
// Error and FormatPlain are adapted from the teacher's
// pkg/validator.ValidationError / FormatPlain, generalized from a single
// JSONPath-oriented validation error to the lexer/parser's numeric code
// taxonomy and multi-error Reporter.
package lexerr

import (
	"fmt"
	"strings"

	"github.com/shapestone/lexengine/pkg/position"
)

// Severity classifies how serious an Error is.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityFatal:
		return "fatal"
	default:
		return "error"
	}
}

// Code ranges, per SPEC_FULL.md §7: 100-199 lexical, 200-299 syntax,
// 300-399 semantic, 900-999 internal.
const (
	CodeUnrecognizedByte  Code = 101
	CodeUnterminatedToken Code = 102

	CodeUnexpectedToken      Code = 201
	CodeUnexpectedEndOfInput Code = 202
	CodeTooManyErrors        Code = 203

	CodeSemanticReserved Code = 301

	CodeInternal Code = 901
)

// DefaultMaxErrors is the default error-count limit past which pkg/parser
// raises TooManyErrors, per SPEC_FULL.md §7. Reporter itself enforces no
// limit.
const DefaultMaxErrors = 10

// Code is a numeric error code within one of the taxonomy's ranges.
type Code int

// Category names the range a Code falls into.
func (c Code) Category() string {
	switch {
	case c >= 100 && c < 200:
		return "lexical"
	case c >= 200 && c < 300:
		return "syntax"
	case c >= 300 && c < 400:
		return "semantic"
	case c >= 900:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is one diagnostic: a code, severity, source position, message, and
// an optional hint.
type Error struct {
	Code     Code
	Severity Severity
	Pos      position.Position
	Message  string
	Hint     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := []string{e.Pos.String(), fmt.Sprintf("[%d]", e.Code), e.Message}
	if e.Hint != "" {
		parts = append(parts, fmt.Sprintf("hint: %s", e.Hint))
	}
	return strings.Join(parts, ": ")
}

// FormatPlain renders the error as plain text, suitable for log files or
// any non-interactive output. There is no colored variant: spec.md
// explicitly excludes ANSI rendering from scope.
func (e *Error) FormatPlain() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s [%d] (%s): %s\n", e.Severity, e.Pos, e.Code, e.Code.Category(), e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&buf, "  hint: %s\n", e.Hint)
	}
	return buf.String()
}

// Reporter accumulates Errors in insertion order. Unlike a typical linter
// diagnostic sink, it never deduplicates: SPEC_FULL.md §7 requires that a
// parse mode which chooses to continue past an error (lenient/validation)
// preserve every diagnostic it produced, including repeats of the same
// code at different positions.
type Reporter struct {
	errors []*Error
}

// NewReporter constructs an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report appends err to the reporter.
func (r *Reporter) Report(err *Error) {
	r.errors = append(r.errors, err)
}

// Errors returns every diagnostic of SeverityError or SeverityFatal, in
// insertion order.
func (r *Reporter) Errors() []*Error {
	var out []*Error
	for _, e := range r.errors {
		if e.Severity != SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns every diagnostic of SeverityWarning, in insertion
// order.
func (r *Reporter) Warnings() []*Error {
	var out []*Error
	for _, e := range r.errors {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// All returns every diagnostic reported, in insertion order.
func (r *Reporter) All() []*Error {
	return r.errors
}

// HasErrors reports whether any non-warning diagnostic was reported.
func (r *Reporter) HasErrors() bool {
	for _, e := range r.errors {
		if e.Severity != SeverityWarning {
			return true
		}
	}
	return false
}

// PrintErrors writes FormatPlain of every reported diagnostic, in
// insertion order, to buf.
func (r *Reporter) PrintErrors(buf *strings.Builder) {
	for _, e := range r.errors {
		buf.WriteString(e.FormatPlain())
	}
}
