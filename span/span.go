// Package span gives every diagnostic and AST node a stable, byte-offset
// location into the original source buffer.
package span

import "fmt"

// Span is a half-open byte range [Start, End) into the source that produced
// it. The zero value Span{0, 0} is the sentinel "empty/absent" span used by
// nodes synthesised during lowering (they carry no source location of their
// own).
type Span struct {
	Start int
	End   int
}

// Empty reports whether s is the absent-span sentinel.
func (s Span) Empty() bool {
	return s.Start == 0 && s.End == 0
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// New builds a Span, asserting the half-open invariant start <= end.
func New(start, end int) Span {
	if start > end {
		panic(fmt.Sprintf("span: invalid range %d..%d", start, end))
	}
	return Span{Start: start, End: end}
}

// Join returns the smallest span covering both a and b. An empty operand is
// ignored; if both are empty the result is empty.
func Join(a, b Span) Span {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Slice returns the text the span covers in source, or "" if the span falls
// outside the buffer (defensive: callers format diagnostics from spans whose
// provenance they don't always control).
func (s Span) Slice(source string) string {
	if s.Start < 0 || s.End > len(source) || s.Start > s.End {
		return ""
	}
	return source[s.Start:s.End]
}
