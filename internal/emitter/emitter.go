// Package emitter walks an ir.Pattern in pre-order and renders it as
// flavor-specific regex text: escaping tables, grouping decisions and a
// small size-optimisation pass all live here, behind the single entry point
// Emit. Its switch-on-node-type walk mirrors internal/compiler's AST-to-IR
// pass, one level further down: instead of building a child IR node, each
// case appends text to a buffer.
package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/patterncomp/patterncomp/flavor"
	"github.com/patterncomp/patterncomp/ir"
)

// Emitter renders one ir.Pattern for one target flavor. It carries no state
// across calls to Emit besides the flavor and a running capturing-group
// counter, incremented at every capturing group. Backreferences are spelled
// from the group numbers already stored in the IR, not from this counter.
type Emitter struct {
	flavor   flavor.Flavor
	groupNum int
}

// New returns an Emitter targeting fl.
func New(fl flavor.Flavor) *Emitter {
	return &Emitter{flavor: fl}
}

// Emit renders pattern.Root as a complete regex string in the Emitter's
// flavor.
func (e *Emitter) Emit(pattern *ir.Pattern) (string, error) {
	e.groupNum = 0
	var buf strings.Builder
	if err := e.emitNode(&buf, pattern.Root, ctxTop); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// emitCtx tells a node what syntactic position it is being emitted into, so
// it knows whether it must wrap itself in a non-capturing group to bind
// correctly once the surrounding operator (repetition or alternation) is
// applied. Rather than a needs-parens predicate method on every IR node,
// the two call sites below ask the child to render itself under a context
// that already knows the answer.
type emitCtx int

const (
	ctxTop    emitCtx = iota // the whole pattern, or inside an explicit group: no wrapping needed
	ctxRepeat                // about to be repeated: multi-node sequences/alternations need (?:...)
	ctxAlt                   // one branch of an alternation: concatenation is fine, nested alternation needs (?:...)
)

func (e *Emitter) emitNode(buf *strings.Builder, n ir.Node, ctx emitCtx) error {
	switch node := n.(type) {
	case ir.Literal:
		if ctx == ctxRepeat && len(node.Text) > 1 {
			buf.WriteString("(?:")
			e.emitLiteral(buf, node.Text)
			buf.WriteString(")")
			return nil
		}
		e.emitLiteral(buf, node.Text)
		return nil

	case ir.Class:
		spelled, err := e.emitClass(node)
		if err != nil {
			return err
		}
		buf.WriteString(spelled)
		return nil

	case ir.Concat:
		return e.emitConcat(buf, node, ctx)

	case ir.Alt:
		return e.emitAlt(buf, node, ctx)

	case ir.Group:
		return e.emitGroup(buf, node)

	case ir.Repeat:
		return e.emitRepeat(buf, node, ctx)

	case ir.Boundary:
		buf.WriteString(e.boundaryText(node.Kind))
		return nil

	case ir.Lookaround:
		return e.emitLookaround(buf, node)

	case ir.Backref:
		return e.emitBackref(buf, node)

	case ir.Dot:
		buf.WriteString(".")
		return nil

	case ir.Grapheme:
		buf.WriteString(`\X`)
		return nil

	case ir.Recursion:
		buf.WriteString("(?R)")
		return nil

	case ir.Verbatim:
		buf.WriteString(node.Text)
		return nil

	default:
		return fmt.Errorf("emitter: unknown IR node %T", n)
	}
}

// emitConcat carries part of the local optimiser pass: an
// empty sequence vanishes, and a singleton sequence is emitted as its one
// child directly instead of wrapped. A multi-child sequence wraps itself in
// (?:...) only when ctx says the caller is about to apply a repetition,
// where bare concatenation would bind wrong; as an alternation branch it
// stays bare, since concatenation already binds tighter than `|`.
func (e *Emitter) emitConcat(buf *strings.Builder, node ir.Concat, ctx emitCtx) error {
	children := nonEmptyChildren(node.Children)
	if len(children) == 0 {
		return nil
	}
	if len(children) == 1 {
		return e.emitNode(buf, children[0], ctx)
	}
	wrap := ctx == ctxRepeat
	if wrap {
		buf.WriteString("(?:")
	}
	// Children render under ctxAlt, not ctxTop: a nested alternation must
	// wrap itself so its `|` binds inside this sequence, while everything
	// else (literals, classes, repeats, groups) concatenates bare.
	for _, c := range children {
		if err := e.emitNode(buf, c, ctxAlt); err != nil {
			return err
		}
	}
	if wrap {
		buf.WriteString(")")
	}
	return nil
}

// nonEmptyChildren drops Literal{Text: nil} children, the residue of a
// Repetition over an empty literal that the compiler elides to nothing.
func nonEmptyChildren(in []ir.Node) []ir.Node {
	var out []ir.Node
	for _, c := range in {
		if lit, ok := c.(ir.Literal); ok && len(lit.Text) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *Emitter) emitAlt(buf *strings.Builder, node ir.Alt, ctx emitCtx) error {
	wrap := ctx == ctxRepeat || ctx == ctxAlt
	if wrap {
		buf.WriteString("(?:")
	}
	for i, branch := range node.Branches {
		if i > 0 {
			buf.WriteString("|")
		}
		if err := e.emitNode(buf, branch, ctxAlt); err != nil {
			return err
		}
	}
	if wrap {
		buf.WriteString(")")
	}
	return nil
}

func (e *Emitter) emitGroup(buf *strings.Builder, node ir.Group) error {
	switch node.Kind {
	case ir.GroupCapturing:
		e.groupNum++
		if node.Name != "" {
			buf.WriteString(spellingFor(e.flavor).namedGroupOpen(node.Name))
		} else {
			buf.WriteString("(")
		}
	case ir.GroupAtomic:
		buf.WriteString("(?>")
	default:
		buf.WriteString("(?:")
	}
	if err := e.emitNode(buf, node.Child, ctxTop); err != nil {
		return err
	}
	buf.WriteString(")")
	return nil
}

// emitRepeat applies the remaining two local optimisations:
// a {1,1} quantifier contributes nothing (the child already matches
// exactly once), and a {n,n} quantifier suppresses a trailing lazy `?`
// (there is no backtracking choice left to make greedy or lazy). A repeat
// that is itself about to be repeated wraps in (?:...), since two adjacent
// bare quantifiers read as a possessive quantifier on engines
// that have them.
func (e *Emitter) emitRepeat(buf *strings.Builder, node ir.Repeat, ctx emitCtx) error {
	if node.Upper != nil && *node.Upper == node.Lower && node.Lower == 1 {
		return e.emitNode(buf, node.Child, ctx)
	}
	wrap := ctx == ctxRepeat
	if wrap {
		buf.WriteString("(?:")
	}
	if err := e.emitNode(buf, node.Child, ctxRepeat); err != nil {
		return err
	}
	buf.WriteString(quantifierText(node.Lower, node.Upper))
	if node.Lazy && !(node.Upper != nil && *node.Upper == node.Lower) {
		buf.WriteString("?")
	}
	if wrap {
		buf.WriteString(")")
	}
	return nil
}

func quantifierText(lower uint32, upper *uint32) string {
	switch {
	case upper == nil:
		if lower == 0 {
			return "*"
		}
		if lower == 1 {
			return "+"
		}
		return "{" + strconv.FormatUint(uint64(lower), 10) + ",}"
	case lower == 0 && *upper == 1:
		return "?"
	case lower == *upper:
		return "{" + strconv.FormatUint(uint64(lower), 10) + "}"
	default:
		return "{" + strconv.FormatUint(uint64(lower), 10) + "," + strconv.FormatUint(uint64(*upper), 10) + "}"
	}
}

func (e *Emitter) boundaryText(kind ir.BoundaryKind) string {
	sp := spellingFor(e.flavor)
	switch kind {
	case ir.BoundaryStart:
		return sp.boundaryStart
	case ir.BoundaryEnd:
		return sp.boundaryEnd
	case ir.BoundaryWord:
		return `\b`
	case ir.BoundaryNotWord:
		return `\B`
	default:
		return ""
	}
}

func (e *Emitter) emitLookaround(buf *strings.Builder, node ir.Lookaround) error {
	switch {
	case !node.Behind && !node.Negative:
		buf.WriteString("(?=")
	case !node.Behind && node.Negative:
		buf.WriteString("(?!")
	case node.Behind && !node.Negative:
		buf.WriteString("(?<=")
	default:
		buf.WriteString("(?<!")
	}
	if err := e.emitNode(buf, node.Child, ctxTop); err != nil {
		return err
	}
	buf.WriteString(")")
	return nil
}

func (e *Emitter) emitBackref(buf *strings.Builder, node ir.Backref) error {
	if node.Kind == ir.BackrefName {
		buf.WriteString(spellingFor(e.flavor).namedBackref(node.Name))
		return nil
	}
	buf.WriteString(`\` + strconv.Itoa(node.Number))
	return nil
}

// emitLiteral escapes and appends a run of code points. A single code point
// reduces to the same escaping logic a one-member character class would use
// for consistency (the class-of-cardinality-1-to-literal optimisation is
// the mirror image of this: both paths meet on the same escapeOutsideClass
// table).
func (e *Emitter) emitLiteral(buf *strings.Builder, text []rune) {
	for _, r := range text {
		buf.WriteString(e.escapeOutsideClass(r))
	}
}

// metacharacters that must be escaped when they appear as literal text
// outside a character class, across every supported flavor.
const metachars = `\.+*?()|[]{}^$`

func (e *Emitter) escapeOutsideClass(r rune) string {
	if strings.ContainsRune(metachars, r) {
		return `\` + string(r)
	}
	return e.escapeControl(r)
}

// escapeControl renders any non-printable or non-ASCII code point using the
// narrowest form the flavor supports: \n \r \t for the common controls, \xHH
// for other bytes in the Latin-1 range, and \x{HHHH}/\uHHHH for the rest,
// per flavor.
func (e *Emitter) escapeControl(r rune) string {
	switch r {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	}
	if r >= 0x20 && r < 0x7f {
		return string(r)
	}
	if r <= 0xff {
		return fmt.Sprintf(`\x%02x`, r)
	}
	switch e.flavor {
	case flavor.JavaScript, flavor.DotNet:
		if r <= 0xffff {
			return fmt.Sprintf(`\u%04x`, r)
		}
		// Outside the BMP, JS/ .NET require a surrogate pair written as two
		// \u escapes; DotNet additionally accepts \u{...} under RegexOptions
		// but the pair form works everywhere, so prefer it for portability.
		r1, r2 := utf16Pair(r)
		return fmt.Sprintf(`\u%04x\u%04x`, r1, r2)
	default:
		return fmt.Sprintf(`\x{%x}`, r)
	}
}

// utf16Pair splits a code point above the BMP into its UTF-16 surrogate
// pair, the form engines without a \u{...} escape require.
func utf16Pair(r rune) (rune, rune) {
	r -= 0x10000
	hi := 0xd800 + (r >> 10)
	lo := 0xdc00 + (r & 0x3ff)
	return hi, lo
}
