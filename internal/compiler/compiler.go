// Package compiler lowers a parsed ast.Node tree into an ir.Pattern for one
// target flavor: it inlines `let` bindings, resolves backreference targets
// to absolute group numbers, folds the lazy/unicode mode scope into each
// repetition and character class, runs every construct through the
// flavor/feature compatibility matrix, and hands numeric ranges off to
// internal/rangecompiler and character classes off to internal/charclass.
// Each node kind lowers through its own helper, dispatched by a single
// type switch.
package compiler

import (
	"fmt"
	"log/slog"

	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/diag"
	"github.com/patterncomp/patterncomp/flavor"
	"github.com/patterncomp/patterncomp/internal/charclass"
	"github.com/patterncomp/patterncomp/internal/groups"
	"github.com/patterncomp/patterncomp/internal/invariant"
	"github.com/patterncomp/patterncomp/internal/rangecompiler"
	"github.com/patterncomp/patterncomp/ir"
	"github.com/patterncomp/patterncomp/span"
)

// maxReferenceNumber is the hard cap on a numbered reference regardless of
// how many groups the pattern actually has; no target engine reads `\100`
// as a backreference.
const maxReferenceNumber = 99

// Options configures a single compilation.
type Options struct {
	Flavor flavor.Flavor

	// MaxRangeSize bounds a `range` statement's branch count before it is
	// rejected instead of silently producing an enormous alternation.
	// 0 selects rangecompiler.DefaultMaxRangeSize.
	MaxRangeSize int

	// AllowedFeatures overrides the flavor's own feature matrix entry for
	// a given feature when present; a feature absent from this map falls
	// back to flavor.Supports. Most callers leave this nil.
	AllowedFeatures map[flavor.Feature]flavor.Support

	// Suppress mutes specific diagnostic kinds from the result's warning
	// list. Only kinds where diag.Kind.Suppressible() is true take effect:
	// Compat and Deprecated.
	Suppress map[diag.Kind]bool

	// Logger receives optional debug-level tracing of lowering decisions.
	// A nil Logger disables all internal logging.
	Logger *slog.Logger
}

func (o Options) maxRangeSize() int {
	if o.MaxRangeSize <= 0 {
		return rangecompiler.DefaultMaxRangeSize
	}
	return o.MaxRangeSize
}

func (o Options) supports(f flavor.Feature) flavor.Support {
	if o.AllowedFeatures != nil {
		if s, ok := o.AllowedFeatures[f]; ok {
			return s
		}
	}
	return flavor.Supports(f, o.Flavor)
}

// Result is a successful compilation: the lowered pattern plus any warnings
// accumulated along the way (after suppression).
type Result struct {
	Pattern     *ir.Pattern
	Diagnostics []diag.Diagnostic
}

// compileError is a diag.Diagnostic that also satisfies error, used the same
// way internal/parser.parseError is: the first one returned aborts
// compilation immediately.
type compileError struct{ diag.Diagnostic }

func (e *compileError) Error() string { return e.Diagnostic.Error() }

// AsDiagnostic implements diag.Carrier so package patterncomp can recover
// the structured diagnostic from the plain error Compile returns.
func (e *compileError) AsDiagnostic() diag.Diagnostic { return e.Diagnostic }

// Compile lowers root (the parser's output) into a Result for the flavor
// named in opts, or the first fatal diag.Diagnostic wrapped as an error.
func Compile(root ast.Node, opts Options) (*Result, error) {
	info, err := groups.Collect(root)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		opts:    opts,
		groups:  info,
		nextIdx: 1,
	}

	node, err := c.lower(root, scope{lazy: false, unicode: true}, false)
	if err != nil {
		return nil, err
	}
	invariant.Postcondition(c.nextIdx-1 == len(info.Groups),
		"compiler assigned %d capturing groups but groups.Collect counted %d", c.nextIdx-1, len(info.Groups))

	var groupInfos []ir.GroupInfo
	for _, g := range info.Groups {
		groupInfos = append(groupInfos, ir.GroupInfo{Number: g.Number, Name: g.Name})
	}

	diags := c.diagnostics
	if opts.Suppress != nil {
		diags = filterSuppressed(diags, opts.Suppress)
	}

	return &Result{
		Pattern:     &ir.Pattern{Root: node, Groups: groupInfos},
		Diagnostics: diags,
	}, nil
}

func filterSuppressed(in []diag.Diagnostic, suppress map[diag.Kind]bool) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range in {
		if d.Kind.Suppressible() && suppress[d.Kind] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// scope is the lazy/unicode mode state threaded down through lowering,
// updated by nested enable/disable statements. unicode starts true (full
// Unicode semantics are the default); `disable unicode;` sets it false for
// its scope, putting char-class lowering into ASCII-only mode.
type scope struct {
	lazy    bool
	unicode bool
}

type compiler struct {
	opts        Options
	groups      *groups.Info
	diagnostics []diag.Diagnostic

	// nextIdx is the absolute number the next capturing group encountered
	// during lowering will receive. It drives Reference resolution
	// (relative offsets and forward-reference classification are defined
	// against it, not against the pre-pass's final total) and must increase
	// by exactly one each time lowerGroup assigns a capturing group's
	// number.
	nextIdx int

	// variables is the stack of (name, body) `let` bindings currently in
	// scope, outermost first; lookup is last-match-wins, so a later binding
	// shadows an earlier one of the same name.
	// expanding[i] is true while variables[i]'s body is being lowered, so a
	// reference that re-enters it (rather than an outer binding shadowed by
	// the same name) is caught as a cycle instead of recursing forever.
	variables []varBinding
	expanding []bool

	// allVariableNames accumulates every `let` name ever pushed, for
	// "did you mean" suggestions on an unresolvable reference; unlike
	// variables/expanding it is never popped.
	allVariableNames []string
}

type varBinding struct {
	name string
	body ast.Node
}

func (c *compiler) warn(kind diag.Kind, code string, sp span.Span, message string) {
	c.diagnostics = append(c.diagnostics, diag.Warn(kind, code, sp, message))
}

// requireFeature gates a construct behind the flavor feature matrix,
// producing either nothing (Supported), a warning (SupportedWithWarning),
// or a fatal error (Unsupported).
func (c *compiler) requireFeature(f flavor.Feature, sp span.Span, construct string) error {
	switch c.opts.supports(f) {
	case flavor.Unsupported:
		return &compileError{diag.New(diag.Unsupported, "X0001", sp,
			fmt.Sprintf("%s is not supported by %s", construct, c.opts.Flavor))}
	case flavor.SupportedWithWarning:
		c.warn(diag.Compat, "X0002", sp, fmt.Sprintf("%s has different semantics on %s", construct, c.opts.Flavor))
	}
	return nil
}

// lower converts one AST node to IR under sc, inlining a `let` reference
// when inLetBody is true would make a capture/reference illegal (already
// caught by groups.Collect, so lower never needs to re-check that here).
func (c *compiler) lower(n ast.Node, sc scope, inLetBody bool) (ir.Node, error) {
	switch node := n.(type) {
	case *ast.Literal:
		return ir.Literal{Text: node.Text}, nil

	case *ast.Codepoint:
		return ir.Literal{Text: []rune{node.Value}}, nil

	case *ast.CharClass:
		return c.lowerCharClass(node, sc)

	case *ast.Intersection:
		return c.lowerIntersection(node, sc)

	case *ast.Group:
		return c.lowerGroup(node, sc, inLetBody)

	case *ast.Alternation:
		var branches []ir.Node
		for _, alt := range node.Alternatives {
			b, err := c.lower(alt, sc, inLetBody)
			if err != nil {
				return nil, err
			}
			branches = append(branches, b)
		}
		return ir.Alt{Branches: branches}, nil

	case *ast.Repetition:
		return c.lowerRepetition(node, sc, inLetBody)

	case *ast.Boundary:
		return c.lowerBoundary(node)

	case *ast.Lookaround:
		return c.lowerLookaround(node, sc, inLetBody)

	case *ast.Reference:
		return c.lowerReference(node)

	case *ast.Range:
		if err := c.requireFeature(flavor.FeatureRanges, node.Pos, "numeric ranges"); err != nil {
			return nil, err
		}
		rn, err := rangecompiler.Compile(node.Start, node.End, node.Radix, c.opts.maxRangeSize(), node.Pos)
		if err != nil {
			return nil, err
		}
		return rn, nil

	case *ast.Regex:
		if err := c.requireFeature(flavor.FeatureRegexEscapeHatch, node.Pos, "the `regex` escape hatch"); err != nil {
			return nil, err
		}
		return ir.Verbatim{Text: node.Text}, nil

	case *ast.Dot:
		if err := c.requireFeature(flavor.FeatureDot, node.Pos, "`.`"); err != nil {
			return nil, err
		}
		return ir.Dot{}, nil

	case *ast.Grapheme:
		if err := c.requireFeature(flavor.FeatureGrapheme, node.Pos, "`grapheme`"); err != nil {
			return nil, err
		}
		if !sc.unicode {
			return nil, &compileError{diag.New(diag.Unsupported, "X0010", node.Pos,
				"`grapheme` matches an extended grapheme cluster and requires Unicode mode; remove the enclosing `disable unicode;` or add `enable unicode;`")}
		}
		return ir.Grapheme{}, nil

	case *ast.Recursion:
		if err := c.requireFeature(flavor.FeatureRecursion, node.Pos, "`recursion`"); err != nil {
			return nil, err
		}
		return ir.Recursion{}, nil

	case *ast.Variable:
		return c.lowerVariable(node, sc)

	case *ast.StmtExpr:
		return c.lowerStmtExpr(node, sc, inLetBody)

	default:
		return nil, &compileError{diag.New(diag.Other, "X0099", n.Span(),
			fmt.Sprintf("internal error: cannot lower %T", n))}
	}
}

func (c *compiler) lowerCharClass(node *ast.CharClass, sc scope) (ir.Node, error) {
	// `grapheme` (or its letter form `X`) has no bracket-expression spelling
	// in any flavor: a class consisting of exactly that shorthand lowers to
	// the standalone grapheme construct, and any other use of it inside
	// `[...]` has no set meaning.
	if idx := graphemeItemIndex(node.Items); idx >= 0 {
		if len(node.Items) > 1 || node.Negated {
			return nil, &compileError{diag.New(diag.Invalid, "X0013", node.Items[idx].Pos,
				"`grapheme` cannot be negated or combined with other items in a character class")}
		}
		if err := c.requireFeature(flavor.FeatureGrapheme, node.Pos, "`grapheme`"); err != nil {
			return nil, err
		}
		if !sc.unicode {
			return nil, &compileError{diag.New(diag.Unsupported, "X0010", node.Pos,
				"`grapheme` matches an extended grapheme cluster and requires Unicode mode; remove the enclosing `disable unicode;` or add `enable unicode;`")}
		}
		return ir.Grapheme{}, nil
	}

	set, warnings, err := charclass.Resolve(node)
	if err != nil {
		return nil, asCompileError(err)
	}
	c.diagnostics = append(c.diagnostics, warnings...)
	cls := set.ToIR()
	if err := c.gateClassTokens(cls, node.Pos); err != nil {
		return nil, err
	}
	if !sc.unicode {
		cls, err = c.applyAsciiOnly(cls, node.Pos)
		if err != nil {
			return nil, err
		}
	}
	if classIsEmpty(cls) {
		return nil, &compileError{diag.New(diag.Invalid, "X0014", node.Pos,
			"negating this character class leaves nothing to match")}
	}
	return cls, nil
}

func graphemeItemIndex(items []ast.ClassItem) int {
	for i, item := range items {
		if item.Kind == ast.ClassShorthand && item.Name == "grapheme" {
			return i
		}
	}
	return -1
}

// classIsEmpty reports a class that matches no code point at all: no
// intervals, no symbolic tokens, and no pending negation to complement them
// into existence. The parser rejects a literally-empty `[]`, so this only
// arises from set algebra (a negated full-coverage class, or an
// intersection of disjoint operands).
func classIsEmpty(cls ir.Class) bool {
	return len(cls.Intervals) == 0 && len(cls.Tokens) == 0 && !cls.Negated
}

// applyAsciiOnly enforces ASCII-only mode on a resolved
// character class (`disable unicode;` sets scope.unicode false for its
// body): Unicode category/script/block/property tokens have no ASCII
// meaning and are rejected outright, a negated shorthand is rejected
// because its engine-native negation (\D, \W, \S) matches every non-ASCII
// code point too, defeating the ASCII restriction, and every other
// shorthand is expanded to its literal ASCII range so the emitted pattern
// stays ASCII-only regardless of what the target flavor's own \d/\w/\s
// means by default.
func (c *compiler) applyAsciiOnly(cls ir.Class, sp span.Span) (ir.Class, error) {
	var usedAscii bool
	var remaining []ir.ClassToken
	for _, t := range cls.Tokens {
		switch t.Kind {
		case "category", "script", "scriptext", "block", "property":
			return ir.Class{}, &compileError{diag.New(diag.Unsupported, "X0011", sp,
				"Unicode "+t.Kind+" classes require Unicode mode; remove the enclosing `disable unicode;` or add `enable unicode;`")}
		case "shorthand":
			if cls.Negated {
				return ir.Class{}, &compileError{diag.New(diag.Unsupported, "X0012", sp,
					"negated shorthand classes are not allowed in ASCII mode, since the flavor's own negated escape would still match non-ASCII characters")}
			}
			rt, ok := charclass.ShorthandRangeTable(t.Name)
			if !ok {
				remaining = append(remaining, t)
				continue
			}
			usedAscii = true
			set := charclass.NewSet()
			set.AddTable(rt)
			cls.Intervals = append(cls.Intervals, set.ToIR().Intervals...)
		default:
			remaining = append(remaining, t)
		}
	}
	cls.Tokens = remaining
	if usedAscii {
		if err := c.requireFeature(flavor.FeatureAsciiMode, sp, "ASCII-only mode"); err != nil {
			return ir.Class{}, err
		}
	}
	return cls, nil
}

func (c *compiler) lowerIntersection(node *ast.Intersection, sc scope) (ir.Node, error) {
	if err := c.requireFeature(flavor.FeatureCharClassIntersection, node.Pos, "character class intersection `&`"); err != nil {
		return nil, err
	}
	set, warnings, err := charclass.ResolveIntersection(node, resolveOperandAdapter)
	if err != nil {
		return nil, asCompileError(err)
	}
	c.diagnostics = append(c.diagnostics, warnings...)
	cls := set.ToIR()
	if !sc.unicode {
		cls, err = c.applyAsciiOnly(cls, node.Pos)
		if err != nil {
			return nil, err
		}
	}
	if classIsEmpty(cls) {
		return nil, &compileError{diag.New(diag.Invalid, "X0015", node.Pos,
			"these classes have no characters in common")}
	}
	return cls, nil
}

// resolveOperandAdapter lets charclass.ResolveIntersection recurse into a
// nested Intersection without depending on *compiler. A single-code-point
// literal operand is lifted to a singleton set; a longer literal denotes a
// string, not a character set, and has no meaning under intersection.
func resolveOperandAdapter(n ast.Node) (*charclass.Set, []diag.Diagnostic, error) {
	switch op := n.(type) {
	case *ast.CharClass:
		if idx := graphemeItemIndex(op.Items); idx >= 0 {
			return nil, nil, &compileError{diag.New(diag.Invalid, "X0013", op.Items[idx].Pos,
				"`grapheme` cannot be used in an intersection")}
		}
		return charclass.Resolve(op)
	case *ast.Intersection:
		return charclass.ResolveIntersection(op, resolveOperandAdapter)
	case *ast.Literal:
		if len(op.Text) != 1 {
			return nil, nil, &compileError{diag.New(diag.Invalid, "X0016", op.Pos,
				"a multi-character literal cannot be used in an intersection")}
		}
		set := charclass.NewSet()
		set.AddChar(op.Text[0])
		return set, nil, nil
	case *ast.Codepoint:
		set := charclass.NewSet()
		set.AddChar(op.Value)
		return set, nil, nil
	default:
		return nil, nil, &compileError{diag.New(diag.Resolve, "X0003", n.Span(),
			"operands of `&` must be character classes")}
	}
}

func (c *compiler) gateClassTokens(cls ir.Class, sp span.Span) error {
	for _, t := range cls.Tokens {
		switch t.Kind {
		case "category", "script", "scriptext":
			if err := c.requireFeature(flavor.FeatureUnicodeProperties, sp, "Unicode "+t.Kind+" classes"); err != nil {
				return err
			}
		case "block":
			if err := c.requireFeature(flavor.FeatureUnicodeBlocks, sp, "Unicode block classes"); err != nil {
				return err
			}
		case "property":
			if err := c.requireFeature(flavor.FeatureUnicodeProperties, sp, "Unicode property classes"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compiler) lowerGroup(node *ast.Group, sc scope, inLetBody bool) (ir.Node, error) {
	switch node.Kind {
	case ast.GroupImplicit:
		var children []ir.Node
		for _, child := range node.Children {
			lowered, err := c.lower(child, sc, inLetBody)
			if err != nil {
				return nil, err
			}
			children = append(children, lowered)
		}
		return ir.Concat{Children: children}, nil

	case ast.GroupNormal:
		// Plain parentheses are syntactic grouping only; the emitter inserts
		// (?:...) wherever the surrounding operator requires it, so carrying
		// a wrapper node here would only produce redundant groups in the
		// output.
		return c.lowerSingleChild(node, sc, inLetBody)

	case ast.GroupAtomic:
		if err := c.requireFeature(flavor.FeatureAtomicGroups, node.Pos, "atomic groups"); err != nil {
			return nil, err
		}
		child, err := c.lowerSingleChild(node, sc, inLetBody)
		if err != nil {
			return nil, err
		}
		return ir.Group{Child: child, Kind: ir.GroupAtomic}, nil

	case ast.GroupCapturing:
		if node.Name != "" {
			if err := c.requireFeature(flavor.FeatureNamedGroups, node.Pos, "named capturing groups"); err != nil {
				return nil, err
			}
		} else {
			if err := c.requireFeature(flavor.FeatureNumberedGroups, node.Pos, "capturing groups"); err != nil {
				return nil, err
			}
		}
		// Assign this group's number before descending into its child, the
		// same order a regex engine assigns numbers at the opening paren:
		// any nested capturing group or reference inside the child must see
		// nextIdx already advanced past this group.
		number := c.nextIdx
		c.nextIdx++
		child, err := c.lowerSingleChild(node, sc, inLetBody)
		if err != nil {
			return nil, err
		}
		return ir.Group{Child: child, Kind: ir.GroupCapturing, Number: number, Name: node.Name}, nil

	default:
		return nil, &compileError{diag.New(diag.Other, "X0098", node.Pos, "internal error: unknown group kind")}
	}
}

func (c *compiler) lowerSingleChild(node *ast.Group, sc scope, inLetBody bool) (ir.Node, error) {
	if len(node.Children) != 1 {
		return nil, &compileError{diag.New(diag.Other, "X0097", node.Pos, "internal error: group must have exactly one child")}
	}
	return c.lower(node.Children[0], sc, inLetBody)
}

func (c *compiler) lowerRepetition(node *ast.Repetition, sc scope, inLetBody bool) (ir.Node, error) {
	child, err := c.lower(node.Child, sc, inLetBody)
	if err != nil {
		return nil, err
	}
	// Repeating an empty literal matches the same (empty) language no matter
	// the bounds; the whole node vanishes.
	if lit, ok := child.(ir.Literal); ok && len(lit.Text) == 0 {
		return ir.Literal{}, nil
	}
	lazy := resolveLazy(node.Quantifier, sc.lazy)
	if lazy {
		if err := c.requireFeature(flavor.FeatureLazyMode, node.Pos, "lazy quantifiers"); err != nil {
			return nil, err
		}
	}
	upper := node.Upper
	return ir.Repeat{Child: child, Lower: node.Lower, Upper: upper, Lazy: lazy}, nil
}

func resolveLazy(q ast.Quantifier, scopeLazy bool) bool {
	switch q {
	case ast.Greedy:
		return false
	case ast.Lazy:
		return true
	default: // DefaultGreedy, DefaultLazy: both mean "inherit the scope"
		return scopeLazy
	}
}

func (c *compiler) lowerBoundary(node *ast.Boundary) (ir.Node, error) {
	if err := c.requireFeature(flavor.FeatureBoundaries, node.Pos, "boundary assertions"); err != nil {
		return nil, err
	}
	if node.Kind == ast.BoundaryNotWord {
		if err := c.requireFeature(flavor.FeatureNegativeShorthand, node.Pos, "`!%` (not-word-boundary)"); err != nil {
			return nil, err
		}
	}
	var kind ir.BoundaryKind
	switch node.Kind {
	case ast.BoundaryStart:
		kind = ir.BoundaryStart
	case ast.BoundaryEnd:
		kind = ir.BoundaryEnd
	case ast.BoundaryWord:
		kind = ir.BoundaryWord
	case ast.BoundaryNotWord:
		kind = ir.BoundaryNotWord
	}
	return ir.Boundary{Kind: kind}, nil
}

func (c *compiler) lowerLookaround(node *ast.Lookaround, sc scope, inLetBody bool) (ir.Node, error) {
	feature := flavor.FeatureLookahead
	if node.Direction == ast.Behind {
		feature = flavor.FeatureLookbehind
	}
	if err := c.requireFeature(feature, node.Pos, "lookaround"); err != nil {
		return nil, err
	}
	child, err := c.lower(node.Child, sc, inLetBody)
	if err != nil {
		return nil, err
	}
	if node.Direction == ast.Behind && !isFixedWidth(child) {
		if err := c.requireFeature(flavor.FeatureLookbehindVariableWidth, node.Pos, "variable-width lookbehind"); err != nil {
			return nil, err
		}
	}
	return ir.Lookaround{
		Child:    child,
		Behind:   node.Direction == ast.Behind,
		Negative: node.Polarity == ast.Negative,
	}, nil
}

// isFixedWidth recognises a literal, a single class, a fixed {n}
// repetition, a concatenation of such, and an alternation whose branches
// are each such a shape, and treats anything else as possibly
// variable-width. Alternation branches are not compared with each other:
// `'a' | 'bc'` counts as fixed-width although its branches differ in length.
func isFixedWidth(n ir.Node) bool {
	switch node := n.(type) {
	case ir.Literal, ir.Class:
		return true
	case ir.Concat:
		for _, child := range node.Children {
			if !isFixedWidth(child) {
				return false
			}
		}
		return true
	case ir.Repeat:
		return node.Upper != nil && *node.Upper == node.Lower && isFixedWidth(node.Child)
	case ir.Alt:
		for _, branch := range node.Branches {
			if !isFixedWidth(branch) {
				return false
			}
		}
		return len(node.Branches) > 0
	default:
		return false
	}
}

func (c *compiler) lowerReference(node *ast.Reference) (ir.Node, error) {
	if err := c.requireFeature(flavor.FeatureReferences, node.Pos, "backreferences"); err != nil {
		return nil, err
	}
	switch node.Target.Kind {
	case ast.RefNamed:
		if _, ok := c.groups.Names[node.Target.Name]; !ok {
			return nil, &compileError{diag.New(diag.Resolve, "X0004", node.Pos,
				"reference to unknown group name "+node.Target.Name).WithHelp(
				diag.DidYouMean(node.Target.Name, groupNames(c.groups)))}
		}
		if err := c.requireFeature(flavor.FeatureBackreferences, node.Pos, "named backreferences"); err != nil {
			return nil, err
		}
		return ir.Backref{Kind: ir.BackrefName, Name: node.Target.Name}, nil

	case ast.RefNumber:
		n := int(node.Target.Number)
		if n > maxReferenceNumber {
			return nil, &compileError{diag.New(diag.Limits, "X0009", node.Pos,
				fmt.Sprintf("group number %d exceeds the maximum reference number of %d", n, maxReferenceNumber))}
		}
		if n == 0 || n > len(c.groups.Groups) {
			return nil, &compileError{diag.New(diag.Resolve, "X0005", node.Pos,
				fmt.Sprintf("reference to undefined group %d", n))}
		}
		if err := c.requireFeature(flavor.FeatureBackreferences, node.Pos, "backreferences"); err != nil {
			return nil, err
		}
		// Forward is relative to *this position* (n not yet assigned by
		// nextIdx), not to the pre-pass's final total: n can be <= the
		// total group count and still be a forward reference if it hasn't
		// been opened yet when this reference is encountered.
		if n >= c.nextIdx {
			if err := c.requireFeature(flavor.FeatureForwardReferences, node.Pos, "forward references"); err != nil {
				return nil, err
			}
		}
		return ir.Backref{Kind: ir.BackrefNumber, Number: n}, nil

	case ast.RefRelative:
		if err := c.requireFeature(flavor.FeatureBackreferences, node.Pos, "relative references"); err != nil {
			return nil, err
		}
		delta := int(node.Target.Relative)
		var target int
		if delta > 0 {
			if err := c.requireFeature(flavor.FeatureRelativeForwardReferences, node.Pos, "non-negative relative references"); err != nil {
				return nil, err
			}
			target = c.nextIdx + delta - 1
		} else {
			target = c.nextIdx + delta
		}
		if target < 1 || target > len(c.groups.Groups) {
			return nil, &compileError{diag.New(diag.Resolve, "X0006", node.Pos,
				"relative reference resolves to a non-existent group")}
		}
		return ir.Backref{Kind: ir.BackrefNumber, Number: target}, nil

	default:
		return nil, &compileError{diag.New(diag.Other, "X0096", node.Pos, "internal error: unknown reference kind")}
	}
}

func groupNames(info *groups.Info) []string {
	out := make([]string, 0, len(info.Names))
	for name := range info.Names {
		out = append(out, name)
	}
	return out
}

// lowerVariable resolves node against c.variables top-down (last-match-wins
// shadowing), skipping any binding currently expanding so a
// shadowed outer binding of the same name remains reachable from within the
// inner one's body. Finding only an expanding match means the reference
// re-enters its own expansion, a cycle; finding no match at all (expanding
// or not) means the name was never bound.
func (c *compiler) lowerVariable(node *ast.Variable, sc scope) (ir.Node, error) {
	if err := c.requireFeature(flavor.FeatureVariables, node.Pos, "`let` variables"); err != nil {
		return nil, err
	}
	sawExpandingMatch := false
	for i := len(c.variables) - 1; i >= 0; i-- {
		if c.variables[i].name != node.Name {
			continue
		}
		if c.expanding[i] {
			sawExpandingMatch = true
			continue
		}
		if c.opts.Logger != nil {
			c.opts.Logger.Debug("expanding variable", "name", node.Name, "slot", i)
		}
		c.expanding[i] = true
		result, err := c.lower(c.variables[i].body, sc, true)
		c.expanding[i] = false
		return result, err
	}
	if sawExpandingMatch {
		return nil, &compileError{diag.New(diag.Resolve, "X0008", node.Pos,
			"variable "+node.Name+" is recursive: its own expansion references itself")}
	}
	return nil, &compileError{diag.New(diag.Resolve, "X0007", node.Pos,
		"unknown variable "+node.Name).WithHelp(
		diag.DidYouMean(node.Name, c.allVariableNames))}
}

func (c *compiler) lowerStmtExpr(node *ast.StmtExpr, sc scope, inLetBody bool) (ir.Node, error) {
	switch node.Stmt.Kind {
	case ast.StmtEnableDisable:
		next := sc
		switch node.Stmt.Setting {
		case ast.SettingLazy:
			next.lazy = node.Stmt.Enable
		case ast.SettingUnicode:
			next.unicode = node.Stmt.Enable
		}
		return c.lower(node.Inner, next, inLetBody)

	case ast.StmtLet:
		c.variables = append(c.variables, varBinding{name: node.Stmt.Name, body: node.Stmt.Body})
		c.expanding = append(c.expanding, false)
		c.allVariableNames = append(c.allVariableNames, node.Stmt.Name)
		result, err := c.lower(node.Inner, sc, inLetBody)
		c.variables = c.variables[:len(c.variables)-1]
		c.expanding = c.expanding[:len(c.expanding)-1]
		return result, err

	case ast.StmtTest:
		// Test assertions are compiler-time-only documentation; they do
		// not affect the emitted pattern.
		return c.lower(node.Inner, sc, inLetBody)

	default:
		return nil, &compileError{diag.New(diag.Other, "X0095", node.Pos, "internal error: unknown statement kind")}
	}
}

// asCompileError passes through an error from internal/charclass (already a
// diag.Diagnostic-backed error in its own right) unchanged; it exists so the
// call sites read the same way as every other lowering step that produces a
// *compileError directly.
func asCompileError(err error) error {
	return err
}
