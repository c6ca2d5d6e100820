// Package rberrors is Rainbow's error taxonomy for compilation and
// evaluation: parse/shape errors (abort compilation, carry a source span
// and render a caret view of it), internal tree-stage errors (invariant
// violations), and runtime errors (abort the current run/eval_block). Type
// errors are not defined here; package check collects them as
// check.TypeError. Foreign causes are wrapped with github.com/pkg/errors.
package rberrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Span is a half-open byte range into source text.
type Span struct {
	Start, End int
}

// ParseError reports a failure to produce a syntax tree: unexpected
// grammar, trailing unconsumed input, or empty input.
type ParseError struct {
	Span     Span
	Message  string
	Expected []string
	Source   string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error: %s", e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s)", strings.Join(e.Expected, " | "))
	}
	if e.Source != "" {
		b.WriteString("\n")
		b.WriteString(caretView(e.Source, e.Span))
	}
	return b.String()
}

// Stage names a compilation pipeline stage, for InternalTreeError.
type Stage int

const (
	StageParse Stage = iota
	StageTypeCheck
	StageEmit
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageTypeCheck:
		return "typecheck"
	case StageEmit:
		return "emit"
	default:
		return "unknown"
	}
}

// InternalTreeError reports an invariant violation: a node referenced by id
// that the producing stage guaranteed would exist, or a node visited that a
// later stage swears is unreachable.
type InternalTreeError struct {
	Stage Stage
	Info  string
}

func (e *InternalTreeError) Error() string {
	return fmt.Sprintf("internal compiler error at stage %s: %s", e.Stage, e.Info)
}

// CompileError is the union CompileError type Script.Compile returns: it is
// either a *ParseError or an *InternalTreeError.
type CompileError struct {
	cause error
}

func NewCompileError(cause error) *CompileError {
	return &CompileError{cause: errors.WithStack(cause)}
}

func (e *CompileError) Error() string {
	return e.cause.Error()
}

func (e *CompileError) Unwrap() error {
	return e.cause
}

// AsParseError reports whether this CompileError wraps a *ParseError.
func (e *CompileError) AsParseError() (*ParseError, bool) {
	var pe *ParseError
	if errors.As(e.cause, &pe) {
		return pe, true
	}
	return nil, false
}

// AsInternalTreeError reports whether this CompileError wraps an
// *InternalTreeError.
func (e *CompileError) AsInternalTreeError() (*InternalTreeError, bool) {
	var ite *InternalTreeError
	if errors.As(e.cause, &ite) {
		return ite, true
	}
	return nil, false
}

// RuntimeError categories. Callback is not a stack/lookup failure; it tags
// an error a host function's own Callback returned, which the vm package
// propagates rather than produces.
const (
	ValueStackEmpty   = "value stack empty"
	KeywordStackEmpty = "keyword stack empty"
	Undefined         = "undefined"
	Callback          = "callback"
)

// RuntimeError is what Machine.Run/EvalBlock return on failure: an opaque,
// displayable error tagged with one of the categories above, plus the
// Callback case for an arbitrary host function failure.
type RuntimeError struct {
	Category string
	Message  string
	cause    error
}

// NewRuntimeError builds a RuntimeError in one of the fixed categories.
func NewRuntimeError(category, message string) *RuntimeError {
	return &RuntimeError{Category: category, Message: message}
}

// WrapRuntimeError tags a host Callback's own error as a RuntimeError so it
// propagates through Run/EvalBlock like any other runtime failure: a
// runtime error aborts the current run/eval_block and propagates up.
func WrapRuntimeError(cause error) *RuntimeError {
	return &RuntimeError{Category: Callback, Message: cause.Error(), cause: errors.WithStack(cause)}
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.cause
}

func caretView(source string, span Span) string {
	line, col, lineText := locate(source, span.Start)
	var b strings.Builder
	fmt.Fprintf(&b, "  line %d: %s\n", line, lineText)
	b.WriteString("  ")
	for i := 0; i < col; i++ {
		b.WriteString(" ")
	}
	b.WriteString("^")
	return b.String()
}

func locate(source string, pos int) (line, col int, lineText string) {
	line = 1
	lineStart := 0
	for i := 0; i < pos && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := len(source)
	if idx := strings.IndexByte(source[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	if lineStart > len(source) {
		lineStart = len(source)
	}
	if lineEnd > len(source) {
		lineEnd = len(source)
	}
	return line, pos - lineStart, source[lineStart:lineEnd]
}
