// Package ast defines the abstract syntax tree produced by the parser: one
// tagged struct per surface construct, every node carrying a span.Span.
//
// The tree is a value tree owned by its root: children are never shared and
// references between nodes (a backreference pointing at a capturing group)
// are resolved through index/name maps during compilation, not pointers.
// That keeps the tree acyclic and trivially walkable by a plain type switch.
package ast

import "github.com/patterncomp/patterncomp/span"

// Node is any AST construct. Implementations are value or pointer structs;
// callers type-switch on the concrete type rather than calling virtual
// methods, matching how this tree is consumed throughout the compiler.
type Node interface {
	Span() span.Span
}

// Literal is a verbatim sequence of code points.
type Literal struct {
	Text []rune
	Pos  span.Span
}

func (n *Literal) Span() span.Span { return n.Pos }

// Codepoint is a single `U+XXXX` literal, distinct from Literal because it
// names exactly one code point rather than a run of text.
type Codepoint struct {
	Value rune
	Pos   span.Span
}

func (n *Codepoint) Span() span.Span { return n.Pos }

// ClassItemKind tags the variant held by a ClassItem.
type ClassItemKind int

const (
	ClassChar ClassItemKind = iota
	ClassRange
	ClassShorthand
	ClassUnicode
	ClassPosix
	ClassAscii
)

// UnicodeKind distinguishes the four Unicode lookup families a ClassItem can
// name (resolved against the static tables in package unicodetables).
type UnicodeKind int

const (
	UnicodeCategory UnicodeKind = iota
	UnicodeScript
	UnicodeBlock
	UnicodeOtherProperty
)

// ClassItem is one member of a CharClass union: a single code point, an
// ordered range, a named shorthand, a Unicode category/script/block/property,
// an ASCII POSIX class, or a named ASCII group (`ascii_alpha`, `ascii_digit`,
// ...).
type ClassItem struct {
	Kind ClassItemKind

	Char rune // ClassChar

	First, Last rune // ClassRange; First <= Last

	Name string // ClassShorthand ("digit","word","space","hspace","vspace","grapheme"), ClassPosix ("alpha", ...), or ClassAscii ("ascii_alpha", ...)

	UnicodeKind      UnicodeKind // ClassUnicode
	ScriptExtensions bool        // ClassUnicode + UnicodeKind == UnicodeScript

	Pos span.Span
}

// CharClass is a union of ClassItems, optionally negated.
type CharClass struct {
	Items   []ClassItem
	Negated bool
	Pos     span.Span
}

func (n *CharClass) Span() span.Span { return n.Pos }

// GroupKind tags what kind of parenthesised group a Group node is.
type GroupKind int

const (
	GroupNormal    GroupKind = iota // (…), non-capturing
	GroupImplicit                   // no parentheses emitted at all
	GroupAtomic                     // atomic(…)
	GroupCapturing                  // :(…) or :name(…)
)

// Group is an ordered sequence of children under one grouping construct.
type Group struct {
	Children []Node
	Kind     GroupKind
	Name     string // only meaningful when Kind == GroupCapturing and named
	Pos      span.Span
}

func (n *Group) Span() span.Span { return n.Pos }

// Alternation is a non-empty list of alternatives joined by `|`.
type Alternation struct {
	Alternatives []Node
	Pos          span.Span
}

func (n *Alternation) Span() span.Span { return n.Pos }

// Intersection is a non-empty list of char-class-like operands combined by
// set intersection (the `&` form inside `[...]`). Negated mirrors
// CharClass.Negated: it negates the intersection as a whole, for `![a & b]`.
type Intersection struct {
	Operands []Node
	Negated  bool
	Pos      span.Span
}

func (n *Intersection) Span() span.Span { return n.Pos }

// Quantifier selects greedy/lazy repetition, or defers to the enclosing
// `enable/disable lazy;` scope.
type Quantifier int

const (
	DefaultGreedy Quantifier = iota
	DefaultLazy
	Greedy
	Lazy
)

// Repetition repeats Child between Lower and Upper times (Upper == nil means
// unbounded).
type Repetition struct {
	Child      Node
	Lower      uint32
	Upper      *uint32
	Quantifier Quantifier
	Pos        span.Span
}

func (n *Repetition) Span() span.Span { return n.Pos }

// BoundaryKind is the four zero-width position assertions.
type BoundaryKind int

const (
	BoundaryStart BoundaryKind = iota
	BoundaryEnd
	BoundaryWord
	BoundaryNotWord
)

type Boundary struct {
	Kind BoundaryKind
	Pos  span.Span
}

func (n *Boundary) Span() span.Span { return n.Pos }

// LookDirection/LookPolarity describe a Lookaround's four combinations.
type LookDirection int

const (
	Ahead LookDirection = iota
	Behind
)

type LookPolarity int

const (
	Positive LookPolarity = iota
	Negative
)

type Lookaround struct {
	Child     Node
	Direction LookDirection
	Polarity  LookPolarity
	Pos       span.Span
}

func (n *Lookaround) Span() span.Span { return n.Pos }

// RefTargetKind tags a Reference's target variant.
type RefTargetKind int

const (
	RefNamed RefTargetKind = iota
	RefNumber
	RefRelative
)

// RefTarget is a backreference target: a name, an absolute number, or a
// signed offset relative to the next capturing group index.
type RefTarget struct {
	Kind     RefTargetKind
	Name     string // RefNamed
	Number   uint32 // RefNumber
	Relative int32  // RefRelative, non-zero
}

type Reference struct {
	Target RefTarget
	Pos    span.Span
}

func (n *Reference) Span() span.Span { return n.Pos }

// Range is a numeric interval [Start..End] over digits in Radix, each bound
// given as a most-significant-digit-first array of digit values
// (len(Start) <= len(End); if equal length, Start <= End lexicographically).
type Range struct {
	Start []byte
	End   []byte
	Radix int
	Pos   span.Span
}

func (n *Range) Span() span.Span { return n.Pos }

// Regex is the verbatim-passthrough escape hatch: its Text is emitted
// unescaped into the target flavor's output.
type Regex struct {
	Text string
	Pos  span.Span
}

func (n *Regex) Span() span.Span { return n.Pos }

// Setting is a boolean compiler mode toggled by enable/disable statements.
type Setting int

const (
	SettingLazy Setting = iota
	SettingUnicode
)

// Statement is the tagged union of the three statement forms that scope a
// following expression.
type StatementKind int

const (
	StmtEnableDisable StatementKind = iota
	StmtLet
	StmtTest
)

type Statement struct {
	Kind StatementKind

	Setting Setting // StmtEnableDisable
	Enable  bool    // StmtEnableDisable

	Name string // StmtLet
	Body Node   // StmtLet

	Matches []string // StmtTest
	Rejects []string // StmtTest
}

// StmtExpr is a statement scoping an inner rule: `let x = …; <inner>`,
// `enable lazy; <inner>`, `test { … } <inner>`.
type StmtExpr struct {
	Stmt  Statement
	Inner Node
	Pos   span.Span
}

func (n *StmtExpr) Span() span.Span { return n.Pos }

// Grapheme matches `\X`, an extended grapheme cluster.
type Grapheme struct {
	Pos span.Span
}

func (n *Grapheme) Span() span.Span { return n.Pos }

// Dot matches any character (subject to per-flavor dot-matches-newline
// semantics, which this compiler does not model; that's an engine runtime
// flag, not a syntax choice).
type Dot struct {
	Pos span.Span
}

func (n *Dot) Span() span.Span { return n.Pos }

// Recursion matches `(?R)`, recursing the whole pattern at the current
// position.
type Recursion struct {
	Pos span.Span
}

func (n *Recursion) Span() span.Span { return n.Pos }

// Variable is a reference to an enclosing `let` binding, resolved against
// the compiler's variable stack (see internal/compiler).
type Variable struct {
	Name string
	Pos  span.Span
}

func (n *Variable) Span() span.Span { return n.Pos }
