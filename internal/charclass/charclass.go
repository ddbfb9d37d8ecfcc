// Package charclass resolves ast.ClassItem and ast.CharClass/ast.Intersection
// trees into an ir.Class: a sorted, coalesced set of code point intervals
// plus any symbolic tokens better left to the emitter's own escape spelling.
// Expanding a stdlib *unicode.RangeTable (category, script, property) into
// intervals goes through golang.org/x/text/unicode/rangetable.Visit. The
// core set algebra (union, intersect, negate) operates on a plain
// sorted-interval slice this package owns outright, since rangetable itself
// has no mutable builder and re-enumerating every code point of a wide
// property table on every operation would be wasteful.
package charclass

import (
	"sort"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/diag"
	"github.com/patterncomp/patterncomp/ir"
	"github.com/patterncomp/patterncomp/unicodetables"
)

// maxRune is the top of the Unicode code point space; complement never
// produces an interval past it.
const maxRune = 0x10FFFF

// Set is a character class under construction.
type Set struct {
	intervals []ir.Interval // sorted, coalesced, non-overlapping
	tokens    []ir.ClassToken
	negated   bool
}

// NewSet returns an empty Set.
func NewSet() *Set { return &Set{} }

// AddChar adds a single code point.
func (s *Set) AddChar(r rune) { s.AddRange(r, r) }

// AddRange adds an inclusive code point range.
func (s *Set) AddRange(lo, hi rune) {
	s.intervals = coalesce(append(s.intervals, ir.Interval{Lo: lo, Hi: hi}))
}

// AddTable merges every code point of a stdlib range table (a category,
// script, or property lookup) into s, via rangetable.Visit.
func (s *Set) AddTable(rt *unicode.RangeTable) {
	var lo, hi rune = -1, -1
	flush := func() {
		if lo >= 0 {
			s.intervals = append(s.intervals, ir.Interval{Lo: lo, Hi: hi})
		}
	}
	rangetable.Visit(rt, func(r rune) {
		if lo >= 0 && r == hi+1 {
			hi = r
			return
		}
		flush()
		lo, hi = r, r
	})
	flush()
	s.intervals = coalesce(s.intervals)
}

// AddToken keeps a symbolic member (a shorthand, POSIX class, or Unicode
// category/script/block/property) unexpanded so the emitter can spell it
// using each flavor's own escape syntax instead of a long interval run.
func (s *Set) AddToken(kind, name string) {
	s.tokens = append(s.tokens, ir.ClassToken{Kind: kind, Name: name})
}

// Union merges other into s in place.
func (s *Set) Union(other *Set) {
	s.intervals = coalesce(append(s.intervals, other.intervals...))
	s.tokens = append(s.tokens, other.tokens...)
}

// Intersect replaces s with the intersection of s and other. Symbolic
// tokens are expanded to intervals first on both sides, since a token only
// has a stable meaning in isolation or under union, not under intersection.
// A pending negation on either side (an operand that was itself written
// `!...`) is materialized into its complement before the interval
// intersection runs, since the negated form only has a fixed meaning once
// its token set is fully known.
func (s *Set) Intersect(other *Set) {
	s.expandTokens()
	s.materializeNegation()
	other2 := *other
	other2.expandTokens()
	other2.materializeNegation()
	s.intervals = intersectIntervals(s.intervals, other2.intervals)
	s.tokens = nil
}

// materializeNegation resolves a pending negation bit into an actual
// complement of the interval set, leaving s un-negated. Call after
// expandTokens so the complement is taken against the full member set.
func (s *Set) materializeNegation() {
	if s.negated {
		s.intervals = complement(s.intervals)
		s.negated = false
	}
}

// Negate complements s against the full code point space. Applied twice it
// restores the original set exactly, since the interval complement is
// computed directly from the sorted interval list with no lossy step.
func (s *Set) Negate() { s.negated = !s.negated }

// ToIR produces the ir.Class this Set represents.
func (s *Set) ToIR() ir.Class {
	intervals := s.intervals
	negated := s.negated
	if negated && len(s.tokens) == 0 {
		intervals = complement(s.intervals)
		negated = false
	}
	return ir.Class{Intervals: intervals, Tokens: s.tokens, Negated: negated}
}

func (s *Set) expandTokens() {
	for _, t := range s.tokens {
		if rt := tokenRangeTable(t); rt != nil {
			s.AddTable(rt)
		}
	}
	s.tokens = nil
}

func tokenRangeTable(t ir.ClassToken) *unicode.RangeTable {
	switch t.Kind {
	case "shorthand":
		return shorthandTables[t.Name]
	case "posix":
		return posixTables[t.Name]
	case "category":
		rt, _ := unicodetables.LookupCategory(t.Name)
		return rt
	case "script", "scriptext":
		rt, _ := unicodetables.LookupScript(t.Name)
		return rt
	case "block":
		rt, _ := unicodetables.LookupBlock(t.Name)
		return rt
	case "property":
		rt, _ := unicodetables.LookupProperty(t.Name)
		return rt
	default:
		return nil
	}
}

func coalesce(intervals []ir.Interval) []ir.Interval {
	if len(intervals) == 0 {
		return intervals
	}
	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Lo != intervals[j].Lo {
			return intervals[i].Lo < intervals[j].Lo
		}
		return intervals[i].Hi < intervals[j].Hi
	})
	out := intervals[:1]
	for _, iv := range intervals[1:] {
		last := &out[len(out)-1]
		if iv.Lo <= last.Hi+1 {
			if iv.Hi > last.Hi {
				last.Hi = iv.Hi
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

func complement(intervals []ir.Interval) []ir.Interval {
	var out []ir.Interval
	next := rune(0)
	for _, iv := range intervals {
		if iv.Lo > next {
			out = append(out, ir.Interval{Lo: next, Hi: iv.Lo - 1})
		}
		if iv.Hi+1 > next {
			next = iv.Hi + 1
		}
	}
	if next <= maxRune {
		out = append(out, ir.Interval{Lo: next, Hi: maxRune})
	}
	return out
}

func intersectIntervals(a, b []ir.Interval) []ir.Interval {
	var out []ir.Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := maxRuneOf(a[i].Lo, b[j].Lo)
		hi := minRuneOf(a[i].Hi, b[j].Hi)
		if lo <= hi {
			out = append(out, ir.Interval{Lo: lo, Hi: hi})
		}
		if a[i].Hi < b[j].Hi {
			i++
		} else {
			j++
		}
	}
	return out
}

func maxRuneOf(a, b rune) rune {
	if a > b {
		return a
	}
	return b
}

func minRuneOf(a, b rune) rune {
	if a < b {
		return a
	}
	return b
}

// shorthandTables gives the ASCII meaning of each named shorthand, used when
// a shorthand participates in intersection or negation algebra (emission of
// a shorthand used on its own uses the emitter's own escape spelling, not
// this table).
var shorthandTables = map[string]*unicode.RangeTable{
	"digit": {R16: []unicode.Range16{{Lo: '0', Hi: '9', Stride: 1}}},
	"word": {R16: []unicode.Range16{
		{Lo: '0', Hi: '9', Stride: 1},
		{Lo: 'A', Hi: 'Z', Stride: 1},
		{Lo: '_', Hi: '_', Stride: 1},
		{Lo: 'a', Hi: 'z', Stride: 1},
	}},
	"space": {R16: []unicode.Range16{
		{Lo: '\t', Hi: '\r', Stride: 1},
		{Lo: ' ', Hi: ' ', Stride: 1},
	}},
	"hspace": {R16: []unicode.Range16{
		{Lo: '\t', Hi: '\t', Stride: 1},
		{Lo: ' ', Hi: ' ', Stride: 1},
	}},
	"vspace": {R16: []unicode.Range16{
		{Lo: '\n', Hi: '\r', Stride: 1},
	}},
}

// posixTables gives each ASCII POSIX class's meaning.
var posixTables = map[string]*unicode.RangeTable{
	"alpha":  {R16: []unicode.Range16{{Lo: 'A', Hi: 'Z', Stride: 1}, {Lo: 'a', Hi: 'z', Stride: 1}}},
	"digit":  {R16: []unicode.Range16{{Lo: '0', Hi: '9', Stride: 1}}},
	"alnum":  {R16: []unicode.Range16{{Lo: '0', Hi: '9', Stride: 1}, {Lo: 'A', Hi: 'Z', Stride: 1}, {Lo: 'a', Hi: 'z', Stride: 1}}},
	"upper":  {R16: []unicode.Range16{{Lo: 'A', Hi: 'Z', Stride: 1}}},
	"lower":  {R16: []unicode.Range16{{Lo: 'a', Hi: 'z', Stride: 1}}},
	"punct":  {R16: []unicode.Range16{{Lo: '!', Hi: '/', Stride: 1}, {Lo: ':', Hi: '@', Stride: 1}, {Lo: '[', Hi: '`', Stride: 1}, {Lo: '{', Hi: '~', Stride: 1}}},
	"space":  {R16: []unicode.Range16{{Lo: '\t', Hi: '\r', Stride: 1}, {Lo: ' ', Hi: ' ', Stride: 1}}},
	"cntrl":  {R16: []unicode.Range16{{Lo: 0x00, Hi: 0x1F, Stride: 1}, {Lo: 0x7F, Hi: 0x7F, Stride: 1}}},
	"graph":  {R16: []unicode.Range16{{Lo: '!', Hi: '~', Stride: 1}}},
	"print":  {R16: []unicode.Range16{{Lo: ' ', Hi: '~', Stride: 1}}},
	"blank":  {R16: []unicode.Range16{{Lo: '\t', Hi: '\t', Stride: 1}, {Lo: ' ', Hi: ' ', Stride: 1}}},
	"xdigit": {R16: []unicode.Range16{{Lo: '0', Hi: '9', Stride: 1}, {Lo: 'A', Hi: 'F', Stride: 1}, {Lo: 'a', Hi: 'f', Stride: 1}}},
}

// asciiTables gives each named ASCII group's meaning: unlike posixTables
// (reached through the explicit `posix:name` prefix), these are matched as a
// bare identifier directly inside `[...]` (`[ascii_alpha]`), always expand to
// literal ranges at resolve time, and never carry a flavor-native escape.
var asciiTables = map[string]*unicode.RangeTable{
	"ascii":        {R16: []unicode.Range16{{Lo: 0x00, Hi: 0x7F, Stride: 1}}},
	"ascii_alpha":  {R16: []unicode.Range16{{Lo: 'A', Hi: 'Z', Stride: 1}, {Lo: 'a', Hi: 'z', Stride: 1}}},
	"ascii_alnum":  {R16: []unicode.Range16{{Lo: '0', Hi: '9', Stride: 1}, {Lo: 'A', Hi: 'Z', Stride: 1}, {Lo: 'a', Hi: 'z', Stride: 1}}},
	"ascii_blank":  {R16: []unicode.Range16{{Lo: '\t', Hi: '\t', Stride: 1}, {Lo: ' ', Hi: ' ', Stride: 1}}},
	"ascii_cntrl":  {R16: []unicode.Range16{{Lo: 0x00, Hi: 0x1F, Stride: 1}, {Lo: 0x7F, Hi: 0x7F, Stride: 1}}},
	"ascii_digit":  {R16: []unicode.Range16{{Lo: '0', Hi: '9', Stride: 1}}},
	"ascii_graph":  {R16: []unicode.Range16{{Lo: '!', Hi: '~', Stride: 1}}},
	"ascii_lower":  {R16: []unicode.Range16{{Lo: 'a', Hi: 'z', Stride: 1}}},
	"ascii_print":  {R16: []unicode.Range16{{Lo: ' ', Hi: '~', Stride: 1}}},
	"ascii_punct":  {R16: []unicode.Range16{{Lo: '!', Hi: '/', Stride: 1}, {Lo: ':', Hi: '@', Stride: 1}, {Lo: '[', Hi: '`', Stride: 1}, {Lo: '{', Hi: '~', Stride: 1}}},
	"ascii_space":  {R16: []unicode.Range16{{Lo: '\t', Hi: '\r', Stride: 1}, {Lo: ' ', Hi: ' ', Stride: 1}}},
	"ascii_upper":  {R16: []unicode.Range16{{Lo: 'A', Hi: 'Z', Stride: 1}}},
	"ascii_word":   {R16: []unicode.Range16{{Lo: '0', Hi: '9', Stride: 1}, {Lo: 'A', Hi: 'Z', Stride: 1}, {Lo: '_', Hi: '_', Stride: 1}, {Lo: 'a', Hi: 'z', Stride: 1}}},
	"ascii_xdigit": {R16: []unicode.Range16{{Lo: '0', Hi: '9', Stride: 1}, {Lo: 'A', Hi: 'F', Stride: 1}, {Lo: 'a', Hi: 'f', Stride: 1}}},
}

// AsciiGroupNames lists the named ASCII groups, for "did you mean" help and
// documentation.
func AsciiGroupNames() []string {
	names := make([]string, 0, len(asciiTables))
	for name := range asciiTables {
		names = append(names, name)
	}
	return names
}

// ShorthandRangeTable exposes a named shorthand's ASCII meaning so the
// emitter can expand it inline for a flavor that lacks a native escape for
// it (hspace/vspace have no single-letter form outside PCRE and Ruby).
func ShorthandRangeTable(name string) (*unicode.RangeTable, bool) {
	rt, ok := shorthandTables[name]
	return rt, ok
}

// PosixRangeTable exposes a POSIX class's ASCII meaning so the emitter can
// expand it inline for a flavor with no native `[:name:]` syntax.
func PosixRangeTable(name string) (*unicode.RangeTable, bool) {
	rt, ok := posixTables[name]
	return rt, ok
}

// Resolve builds a Set from a parsed character class's items, following
// ast.CharClass.Negated (the prefix-`!` form is folded in before this runs).
func Resolve(cc *ast.CharClass) (*Set, []diag.Diagnostic, error) {
	set := NewSet()
	var warnings []diag.Diagnostic
	for _, item := range cc.Items {
		w, err := addItem(set, item)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
	}
	if cc.Negated {
		set.Negate()
	}
	return set, warnings, nil
}

// ResolveOperandFunc resolves one Intersection operand (itself possibly a
// CharClass or nested Intersection) to a Set.
type ResolveOperandFunc func(ast.Node) (*Set, []diag.Diagnostic, error)

// ResolveIntersection builds a Set from an ast.Intersection by resolving
// each operand and intersecting them in order.
func ResolveIntersection(isect *ast.Intersection, resolveOperand ResolveOperandFunc) (*Set, []diag.Diagnostic, error) {
	var result *Set
	var warnings []diag.Diagnostic
	for i, operand := range isect.Operands {
		s, w, err := resolveOperand(operand)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
		if i == 0 {
			result = s
			continue
		}
		result.Intersect(s)
	}
	if isect.Negated {
		result.Negate()
	}
	return result, warnings, nil
}

func addItem(set *Set, item ast.ClassItem) ([]diag.Diagnostic, error) {
	switch item.Kind {
	case ast.ClassChar:
		set.AddChar(item.Char)
		return nil, nil

	case ast.ClassRange:
		set.AddRange(item.First, item.Last)
		return nil, nil

	case ast.ClassShorthand:
		set.AddToken("shorthand", item.Name)
		return nil, nil

	case ast.ClassPosix:
		if _, ok := posixTables[item.Name]; !ok {
			return nil, &diagError{diag.New(diag.Resolve, "C0001", item.Pos,
				"unknown POSIX class "+item.Name).WithHelp(diag.DidYouMean(item.Name, unicodetables.Posix))}
		}
		set.AddToken("posix", item.Name)
		return nil, nil

	case ast.ClassUnicode:
		return addUnicodeItem(set, item)

	case ast.ClassAscii:
		rt, ok := asciiTables[item.Name]
		if !ok {
			return nil, &diagError{diag.New(diag.Resolve, "C0006", item.Pos,
				"unknown ASCII group "+item.Name).WithHelp(diag.DidYouMean(item.Name, AsciiGroupNames()))}
		}
		for _, r := range rt.R16 {
			set.AddRange(rune(r.Lo), rune(r.Hi))
		}
		return nil, nil

	default:
		return nil, nil
	}
}

func addUnicodeItem(set *Set, item ast.ClassItem) ([]diag.Diagnostic, error) {
	switch item.UnicodeKind {
	case ast.UnicodeCategory:
		if _, ok := unicodetables.LookupCategory(item.Name); !ok {
			return nil, &diagError{diag.New(diag.Resolve, "C0002", item.Pos,
				"unknown Unicode category "+item.Name).WithHelp(diag.DidYouMean(item.Name, unicodetables.Candidates(unicodetables.GroupCategory)))}
		}
		set.AddToken("category", item.Name)
	case ast.UnicodeScript:
		if _, ok := unicodetables.LookupScript(item.Name); !ok {
			return nil, &diagError{diag.New(diag.Resolve, "C0003", item.Pos,
				"unknown Unicode script "+item.Name).WithHelp(diag.DidYouMean(item.Name, unicodetables.Candidates(unicodetables.GroupScript)))}
		}
		kind := "script"
		if item.ScriptExtensions {
			kind = "scriptext"
		}
		set.AddToken(kind, item.Name)
	case ast.UnicodeBlock:
		if _, ok := unicodetables.LookupBlock(item.Name); !ok {
			return nil, &diagError{diag.New(diag.Resolve, "C0004", item.Pos,
				"unknown Unicode block "+item.Name).WithHelp(diag.DidYouMean(item.Name, unicodetables.Candidates(unicodetables.GroupBlock)))}
		}
		set.AddToken("block", item.Name)
	case ast.UnicodeOtherProperty:
		if _, ok := unicodetables.LookupProperty(item.Name); !ok {
			return nil, &diagError{diag.New(diag.Resolve, "C0005", item.Pos,
				"unknown Unicode property "+item.Name).WithHelp(diag.DidYouMean(item.Name, unicodetables.Candidates(unicodetables.GroupProperty)))}
		}
		set.AddToken("property", item.Name)
	}
	return nil, nil
}

type diagError struct{ diag.Diagnostic }

func (e *diagError) Error() string { return e.Diagnostic.Error() }

// AsDiagnostic implements diag.Carrier so package patterncomp can recover
// the structured diagnostic from the plain error Resolve/ResolveIntersection
// return.
func (e *diagError) AsDiagnostic() diag.Diagnostic { return e.Diagnostic }
