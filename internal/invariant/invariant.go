// Package invariant provides contract assertions for the compiler's internal
// passes. These are Tiger-Style checks: a force multiplier for catching bugs
// in the lexer, parser, group collector and compiler during development.
//
// Every function here panics on violation: these guard programming errors
// in this module (a pass that fails to make progress, a group index that
// goes backwards), never malformed user input. User-facing failures are
// always reported as diag.Diagnostic values, never as panics.
package invariant

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks an input contract at function entry.
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution, e.g.
// "the next capturing-group index only increases" or "the lexer's read
// position always advances".
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil.
func NotNil(value any, name string) {
	if value == nil {
		fail("PRECONDITION", "%s must not be nil", name)
		return
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if v.IsNil() {
			fail("PRECONDITION", "%s must not be nil", name)
		}
	}
}

// Unreachable panics unconditionally; use it in a default branch of a type
// switch over a closed set (AST node kinds, IR node kinds) that must never
// be hit for well-formed input.
func Unreachable(format string, args ...any) {
	fail("UNREACHABLE", format, args...)
}

// CheckContext panics if ctx has already been cancelled. Unused by the core
// compiler today (compilation is synchronous and uncancellable) but kept
// for callers that wrap compilation in a context-aware pipeline.
func CheckContext(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		fail("PRECONDITION", "context already done: %v", err)
	}
}

func fail(kind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, file, line, ok := runtime.Caller(2)
	if ok {
		panic(fmt.Sprintf("%s VIOLATION at %s:%d: %s", kind, file, line, msg))
	}
	panic(fmt.Sprintf("%s VIOLATION: %s", kind, msg))
}
