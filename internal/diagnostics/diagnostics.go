// Package diagnostics implements the structured diagnostic model described
// in spec §7 ("Error Handling Design"). It reimplements the call shape
// referenced throughout funxy's internal/analyzer tests
// (diagnostics.NewError(code, token, args...), a *DiagnosticError with a
// stable Code) — that package's body was not present in the retrieval
// pack, but its contract is load-bearing enough (tests all over the
// analyzer package assert against it) to reproduce faithfully.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/mattn/go-isatty"

	"github.com/RealOrko/sindarin-sub010/internal/token"
)

// Code is a stable diagnostic kind (spec §7 "Error kinds").
type Code string

const (
	CodeParseError             Code = "ParseError"
	CodeRedeclaration          Code = "Redeclaration"
	CodeUndefinedName          Code = "UndefinedName"
	CodeTypeMismatch           Code = "TypeMismatch"
	CodeInvalidOperand         Code = "InvalidOperand"
	CodeInvalidMemoryQualifier Code = "InvalidMemoryQualifier"
	CodeInvalidReturnType      Code = "InvalidReturnType"
	CodeArityMismatch          Code = "ArityMismatch"
	CodeBreakOutsideLoop       Code = "BreakOutsideLoop"
	CodeInternalConsistency    Code = "InternalConsistency"
	CodeIOError                Code = "IOError"
	CodeRuntimeObjectMissing   Code = "RuntimeObjectMissing"
	CodeCCompilerMissing       Code = "CCompilerMissing"
)

// Diagnostic is a single user-visible compiler message (spec §7:
// "filename:line: kind: message" plus an optional remedial hint).
type Diagnostic struct {
	Code    Code
	File    string
	Line    int
	Message string
	Hint    string
}

// New builds a Diagnostic located at tok.
func New(code Code, tok token.Token, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		File:    tok.Filename,
		Line:    tok.Line,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithHint attaches a remedial hint and returns d for chaining.
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hint = hint
	return d
}

func (d *Diagnostic) Error() string {
	if d.Hint == "" {
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Code, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s (hint: %s)", d.File, d.Line, d.Code, d.Message, d.Hint)
}

// Sink accumulates diagnostics across a compilation (spec §7: "The type
// checker accumulates diagnostics and continues across sibling
// statements").
type Sink struct {
	diags []*Diagnostic
}

// Add records a diagnostic.
func (s *Sink) Add(d *Diagnostic) {
	s.diags = append(s.diags, d)
}

// Errors returns every diagnostic recorded so far, in emission order.
func (s *Sink) Errors() []*Diagnostic {
	return s.diags
}

// HasErrors reports whether any diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	return len(s.diags) > 0
}

// Writer renders a Sink to an io.Writer, one diagnostic per line. When the
// file descriptor given to NewWriter is a real terminal (per go-isatty), the
// Code field is colorized; this is
// the diagnostics package's own in-core use of go-isatty, distinct from
// funxy's evaluator-level terminal builtins (SPEC_FULL.md §2.1).
type Writer struct {
	out   io.Writer
	color bool
}

// NewWriter wraps out. If fd refers to a terminal, diagnostics are
// colorized; fd is checked on its own and is not derived from out.
func NewWriter(out io.Writer, fd uintptr) *Writer {
	return &Writer{out: out, color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

// WriteAll renders every diagnostic in s to the writer's destination.
func (w *Writer) WriteAll(s *Sink) {
	for _, d := range s.Errors() {
		if w.color {
			fmt.Fprintf(w.out, "%s:%d: \x1b[31m%s\x1b[0m: %s", d.File, d.Line, d.Code, d.Message)
		} else {
			fmt.Fprintf(w.out, "%s:%d: %s: %s", d.File, d.Line, d.Code, d.Message)
		}
		if d.Hint != "" {
			fmt.Fprintf(w.out, " (hint: %s)", d.Hint)
		}
		fmt.Fprintln(w.out)
	}
}
