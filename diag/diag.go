// Package diag defines the diagnostic record produced by every stage of the
// compiler: lexer, parser, group collector, compiler and emitter all report
// failures and warnings through this single shape rather than ad hoc errors.
package diag

import (
	"fmt"

	"github.com/patterncomp/patterncomp/span"
)

// Severity distinguishes a hard failure from an informational warning.
// Warnings never abort compilation; the first Error does.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Kind categorises a diagnostic for programmatic filtering (the caller can
// suppress Compat and Deprecated) and for the stable `kind` field of the
// external JSON result shape.
type Kind int

const (
	Syntax Kind = iota
	Resolve
	Compat
	Unsupported
	Deprecated
	Limits
	Invalid
	Test
	Other
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Resolve:
		return "resolve"
	case Compat:
		return "compat"
	case Unsupported:
		return "unsupported"
	case Deprecated:
		return "deprecated"
	case Limits:
		return "limits"
	case Invalid:
		return "invalid"
	case Test:
		return "test"
	default:
		return "other"
	}
}

// Suppressible reports whether a caller is allowed to opt this kind of
// diagnostic out of the result (§7: only compat and deprecated warnings may
// be suppressed).
func (k Kind) Suppressible() bool {
	return k == Compat || k == Deprecated
}

// Diagnostic is a single error or warning with a stable code, a primary
// source span, and optional migration help. It is a value, never an
// exception: callers accumulate and format these, they don't unwind a stack.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Code     string // stable identifier, e.g. "P0308"
	Span     span.Span
	Message  string
	Help     string
}

func (d Diagnostic) Error() string {
	if d.Help != "" {
		return fmt.Sprintf("%s[%s] %s (%s): %s; %s", d.Severity, d.Code, d.Kind, d.Span, d.Message, d.Help)
	}
	return fmt.Sprintf("%s[%s] %s (%s): %s", d.Severity, d.Code, d.Kind, d.Span, d.Message)
}

// Carrier is implemented by every internal error type that wraps exactly one
// Diagnostic (the parser's parseError, the group collector's groupError, the
// compiler's compileError, the range compiler's limitError, the char-class
// engine's diagError): it lets a caller recover the structured diagnostic
// from the plain error a stage returns.
type Carrier interface {
	error
	AsDiagnostic() Diagnostic
}

// New builds an error-severity diagnostic.
func New(kind Kind, code string, sp span.Span, message string) Diagnostic {
	return Diagnostic{Severity: Error, Kind: kind, Code: code, Span: sp, Message: message}
}

// Warn builds a warning-severity diagnostic.
func Warn(kind Kind, code string, sp span.Span, message string) Diagnostic {
	return Diagnostic{Severity: Warning, Kind: kind, Code: code, Span: sp, Message: message}
}

// WithHelp attaches a migration/suggestion paragraph and returns the updated
// value (Diagnostic is small and copied by value throughout this module).
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// List accumulates diagnostics produced during a single compilation. It has
// no behaviour beyond the accumulation itself: warnings ride alongside the
// pipeline as a side channel while the first error aborts it.
type List struct {
	items []Diagnostic
}

func (l *List) Add(d Diagnostic) { l.items = append(l.items, d) }

func (l *List) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range l.items {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

func (l *List) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range l.items {
		if d.Severity == Warning {
			out = append(out, d)
		}
	}
	return out
}

func (l *List) All() []Diagnostic { return l.items }

func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
