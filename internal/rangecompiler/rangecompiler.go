// Package rangecompiler turns a numeric range (two digit-arrays sharing a
// radix) into the smallest alternation of fixed-width digit
// patterns that matches exactly the decimal (or other-radix) strings in
// that range: no more, no fewer. The algorithm is the standard prefix-lock
// recursion used by numeric-range-to-regex generators: split on differing
// digit lengths first, then within one length peel off the shared prefix
// and recurse on the three remaining pieces (low tail, free middle, high
// tail).
package rangecompiler

import (
	"github.com/patterncomp/patterncomp/diag"
	"github.com/patterncomp/patterncomp/ir"
	"github.com/patterncomp/patterncomp/span"
)

// DefaultMaxRangeSize bounds how many branches Compile will produce before
// giving up with a diag.Limits error, the guard against pathological
// expansions (and the one caller-tunable resource cap in this module).
const DefaultMaxRangeSize = 4096

// Compile lowers [start, end] (each a most-significant-digit-first digit
// array in the given radix) into an ir.Node, or a diag.Limits error if the
// result would need more than maxSize branches. maxSize <= 0 selects
// DefaultMaxRangeSize.
func Compile(start, end []byte, radix int, maxSize int, sp span.Span) (ir.Node, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxRangeSize
	}
	c := &compiler{radix: radix, maxSize: maxSize, sp: sp}
	node, err := c.byLength(start, end)
	if err != nil {
		return nil, err
	}
	return node, nil
}

type compiler struct {
	radix   int
	maxSize int
	sp      span.Span
	count   int
}

type limitError struct{ diag.Diagnostic }

func (e *limitError) Error() string { return e.Diagnostic.Error() }

// AsDiagnostic implements diag.Carrier so package patterncomp can recover
// the structured diagnostic from the plain error Compile returns.
func (e *limitError) AsDiagnostic() diag.Diagnostic { return e.Diagnostic }

func (c *compiler) charge() error {
	c.count++
	if c.count > c.maxSize {
		return &limitError{diag.New(diag.Limits, "R0001", c.sp,
			"numeric range expansion exceeds the configured branch limit").WithHelp(
			"narrow the range or raise max_range_size")}
	}
	return nil
}

// byLength splits a range whose bounds may have different lengths into a
// list of same-length sub-ranges, then compiles and alternates them. Every
// width above the start bound's begins at r^(L-1), not at zero: a numeral
// never carries a leading zero unless the caller wrote one into the bound
// itself.
func (c *compiler) byLength(start, end []byte) (ir.Node, error) {
	if len(start) == len(end) {
		return c.sameLength(start, end)
	}

	var branches []ir.Node

	// [start, allMax(len(start))]
	node, err := c.sameLength(start, allDigit(len(start), byte(c.radix-1)))
	if err != nil {
		return nil, err
	}
	branches = append(branches, node)

	// every full width strictly between
	for l := len(start) + 1; l < len(end); l++ {
		node, err := c.sameLength(minWidth(l), allDigit(l, byte(c.radix-1)))
		if err != nil {
			return nil, err
		}
		branches = append(branches, node)
	}

	// [r^(len(end)-1), end]
	node, err = c.sameLength(minWidth(len(end)), end)
	if err != nil {
		return nil, err
	}
	branches = append(branches, node)

	return ir.Alt{Branches: branches}, nil
}

// sameLength compiles a range whose bounds share a digit count: peel off the
// common prefix, then split on the first differing digit position into a
// low-boundary branch, a free middle span, and a high-boundary branch. A
// boundary branch whose tail is already saturated (all zeros on the low
// side, all max digits on the high side) folds into the middle span instead
// of standing alone, which is what keeps the output near-minimal.
func (c *compiler) sameLength(low, high []byte) (ir.Node, error) {
	if err := c.charge(); err != nil {
		return nil, err
	}

	n := len(low)
	p := 0
	for p < n && low[p] == high[p] {
		p++
	}
	if p == n {
		return digitLiteral(low), nil
	}

	a, b := low[p], high[p]
	rest := n - p - 1
	prefix := low[:p]

	if rest == 0 {
		return prefixed(prefix, c.digitSpan(a, b)), nil
	}

	var branches []ir.Node
	midLo, midHi := a, b

	lowTail := low[p+1:]
	if !allIs(lowTail, 0) {
		tail, err := c.sameLength(lowTail, allDigit(rest, byte(c.radix-1)))
		if err != nil {
			return nil, err
		}
		branches = append(branches, concat2(c.digitSpan(a, a), tail))
		midLo = a + 1
	}

	highTail := high[p+1:]
	highSaturated := allIs(highTail, byte(c.radix-1))
	if !highSaturated {
		midHi = b - 1
	}

	if midLo <= midHi {
		mid, err := c.freeRun(rest)
		if err != nil {
			return nil, err
		}
		branches = append(branches, concat2(c.digitSpan(midLo, midHi), mid))
	}

	if !highSaturated {
		tail, err := c.sameLength(allDigit(rest, 0), highTail)
		if err != nil {
			return nil, err
		}
		branches = append(branches, concat2(c.digitSpan(b, b), tail))
	}

	node := branches[0]
	if len(branches) > 1 {
		node = ir.Alt{Branches: branches}
	}
	return prefixed(prefix, node), nil
}

// digitSpan renders the digit interval [a, b] at one position: a literal for
// a single digit, a character class otherwise.
func (c *compiler) digitSpan(a, b byte) ir.Node {
	if a == b {
		return ir.Literal{Text: []rune{digitRune(a)}}
	}
	return ir.Class{Intervals: digitIntervals(a, b)}
}

// freeRun builds a fixed-width run of n positions each matching any digit.
func (c *compiler) freeRun(n int) (ir.Node, error) {
	if n == 0 {
		return nil, nil
	}
	if err := c.charge(); err != nil {
		return nil, err
	}
	cls := ir.Class{Intervals: digitIntervals(0, byte(c.radix-1))}
	count := uint32(n)
	return ir.Repeat{Child: cls, Lower: count, Upper: &count}, nil
}

// digitIntervals spells the digit interval [a, b] as code point intervals.
// Above radix 10 the digit alphabet is not contiguous ('9' and 'a' have
// other characters between them), so a span crossing that boundary splits
// in two: a single [1-f] interval would also match ':' or '@'.
func digitIntervals(a, b byte) []ir.Interval {
	if b < 10 || a >= 10 {
		return []ir.Interval{{Lo: digitRune(a), Hi: digitRune(b)}}
	}
	return []ir.Interval{
		{Lo: digitRune(a), Hi: '9'},
		{Lo: 'a', Hi: digitRune(b)},
	}
}

func digitRune(d byte) rune {
	if d < 10 {
		return rune('0' + d)
	}
	return rune('a' + (d - 10))
}

func digitLiteral(digits []byte) ir.Node {
	text := make([]rune, len(digits))
	for i, d := range digits {
		text[i] = digitRune(d)
	}
	return ir.Literal{Text: text}
}

func allDigit(n int, d byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = d
	}
	return out
}

// minWidth is the smallest l-digit numeral without a leading zero: r^(l-1),
// i.e. 1 followed by zeros (or the lone digit 0 when l == 1).
func minWidth(l int) []byte {
	if l == 1 {
		return []byte{0}
	}
	out := make([]byte, l)
	out[0] = 1
	return out
}

func allIs(digits []byte, d byte) bool {
	for _, x := range digits {
		if x != d {
			return false
		}
	}
	return true
}

// concat2 joins a digit node with its tail, which may be nil (no suffix).
func concat2(head, tail ir.Node) ir.Node {
	if tail == nil {
		return head
	}
	return ir.Concat{Children: []ir.Node{head, tail}}
}

// prefixed prepends the shared digit prefix to node.
func prefixed(prefix []byte, node ir.Node) ir.Node {
	if len(prefix) == 0 {
		return node
	}
	return ir.Concat{Children: []ir.Node{digitLiteral(prefix), node}}
}
