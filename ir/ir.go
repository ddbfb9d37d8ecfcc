// Package ir defines the intermediate representation the compiler lowers
// the AST into and the emitter walks to produce flavor-specific regex text.
// It is deliberately a smaller, flatter tree than ast.Node: variables are
// already inlined, capturing groups are already numbered, negation has
// already been pushed down onto the construct it applies to, and character
// classes are already resolved to sorted, coalesced code point intervals.
// Every node exposes NodeType for introspection and JSON round-tripping.
package ir

// Node is any intermediate-representation construct.
type Node interface {
	NodeType() string
}

// Literal is a verbatim run of code points to be escaped and emitted as-is.
type Literal struct {
	Text []rune `json:"text"`
}

func (Literal) NodeType() string { return "Literal" }

// Interval is an inclusive code point range; Lo == Hi for a single code
// point.
type Interval struct {
	Lo rune `json:"lo"`
	Hi rune `json:"hi"`
}

// ClassToken is a symbolic class member the emitter renders using each
// flavor's own escape spelling rather than expanding to intervals: a
// shorthand (\d, \w, \s), a POSIX class, or a Unicode category/script/
// block/property reference.
type ClassToken struct {
	Kind string `json:"kind"` // "shorthand" | "posix" | "category" | "script" | "scriptext" | "block" | "property"
	Name string `json:"name"`
}

// Class is a resolved character class: a sorted, coalesced set of intervals
// plus any symbolic tokens that could not (or should not) be expanded to
// intervals, optionally negated.
type Class struct {
	Intervals []Interval   `json:"intervals,omitempty"`
	Tokens    []ClassToken `json:"tokens,omitempty"`
	Negated   bool         `json:"negated"`
}

func (Class) NodeType() string { return "Class" }

// Concat is an ordered sequence with no grouping semantics of its own; the
// emitter decides whether any child needs a non-capturing wrapper to bind
// correctly inside a quantifier or alternation.
type Concat struct {
	Children []Node `json:"children"`
}

func (Concat) NodeType() string { return "Concat" }

// Alt is a non-empty list of alternatives joined by `|`.
type Alt struct {
	Branches []Node `json:"branches"`
}

func (Alt) NodeType() string { return "Alt" }

// GroupKind tags how a Group is wrapped in the target syntax.
type GroupKind int

const (
	GroupNonCapturing GroupKind = iota
	GroupAtomic
	GroupCapturing
)

// Group wraps exactly one child in a parenthesised construct. Number is
// meaningful only for GroupCapturing (1-based, absolute).
type Group struct {
	Child  Node      `json:"child"`
	Kind   GroupKind `json:"kind"`
	Number int       `json:"number,omitempty"`
	Name   string    `json:"name,omitempty"`
}

func (Group) NodeType() string { return "Group" }

// Repeat repeats Child between Lower and Upper times (Upper == nil means
// unbounded), with a resolved (non-default) greediness.
type Repeat struct {
	Child Node    `json:"child"`
	Lower uint32  `json:"lower"`
	Upper *uint32 `json:"upper,omitempty"`
	Lazy  bool    `json:"lazy"`
}

func (Repeat) NodeType() string { return "Repeat" }

// BoundaryKind is the four zero-width position assertions, post-negation.
type BoundaryKind int

const (
	BoundaryStart BoundaryKind = iota
	BoundaryEnd
	BoundaryWord
	BoundaryNotWord
)

type Boundary struct {
	Kind BoundaryKind `json:"kind"`
}

func (Boundary) NodeType() string { return "Boundary" }

// Lookaround is a zero-width assertion on Child, post-negation.
type Lookaround struct {
	Child    Node `json:"child"`
	Behind   bool `json:"behind"`
	Negative bool `json:"negative"`
}

func (Lookaround) NodeType() string { return "Lookaround" }

// BackrefKind tags a Backref's target variant, already resolved to either a
// number or a name (relative offsets are resolved to an absolute number
// during lowering, since they depend on the group table).
type BackrefKind int

const (
	BackrefNumber BackrefKind = iota
	BackrefName
)

type Backref struct {
	Kind   BackrefKind `json:"kind"`
	Number int         `json:"number,omitempty"`
	Name   string      `json:"name,omitempty"`
}

func (Backref) NodeType() string { return "Backref" }

// Dot matches any character.
type Dot struct{}

func (Dot) NodeType() string { return "Dot" }

// Grapheme matches an extended grapheme cluster.
type Grapheme struct{}

func (Grapheme) NodeType() string { return "Grapheme" }

// Recursion matches the whole pattern, recursively, at the current position.
type Recursion struct{}

func (Recursion) NodeType() string { return "Recursion" }

// Verbatim is the escape-hatch passthrough: Text is emitted unescaped.
type Verbatim struct {
	Text string `json:"text"`
}

func (Verbatim) NodeType() string { return "Verbatim" }

// Pattern is a complete compiled pattern: its root node plus the capturing
// group table the emitter and callers both need (to report named-group
// numbers, for instance).
type Pattern struct {
	Root   Node        `json:"root"`
	Groups []GroupInfo `json:"groups"`
}

// GroupInfo mirrors groups.Group without importing internal/groups from a
// public package.
type GroupInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name,omitempty"`
}
