// Package groups walks a parsed ast.Node tree once before lowering to number
// capturing groups, collect named groups, and catch the handful of
// structural errors that depend on seeing the whole tree rather than one
// local construct: duplicate group names, a capture inside a let binding,
// and a reference inside a let binding. Variable resolution itself
// (including cycle detection under shadowing) happens later, in
// internal/compiler, against the actual enclosing-binding stack at each
// reference site: a flat name->binding table here cannot distinguish a
// `let x = …; let x = x …` shadow (legal) from a genuine self-reference
// (a cycle), since both look identical under the last-writer-wins name.
package groups

import (
	"fmt"

	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/diag"
	"github.com/patterncomp/patterncomp/internal/invariant"
	"github.com/patterncomp/patterncomp/span"
)

// Info is the result of collecting a tree: every capturing group in the
// order it appears (giving absolute numbers 1..N), and a name->number index.
type Info struct {
	Groups      []Group
	Names       map[string]int
	Diagnostics []diag.Diagnostic
}

// Group is one capturing group, numbered in the order it textually appears.
type Group struct {
	Number int
	Name   string // "" if unnamed
	Pos    span.Span
}

// Collect walks root and returns its Info, or a fatal error if a structural
// violation makes further compilation meaningless (duplicate group name, a
// capture inside a `let` body, or a reference inside a `let` body).
func Collect(root ast.Node) (*Info, error) {
	c := &collector{
		names: make(map[string]int),
	}
	if err := c.visit(root, false); err != nil {
		return nil, err
	}
	return &Info{
		Groups:      c.groups,
		Names:       c.names,
		Diagnostics: c.diagnostics,
	}, nil
}

type collector struct {
	groups []Group
	names  map[string]int

	diagnostics []diag.Diagnostic
}

func (c *collector) visit(n ast.Node, inLet bool) error {
	if n == nil {
		return nil
	}
	switch node := n.(type) {
	case *ast.Literal, *ast.Codepoint, *ast.CharClass, *ast.Boundary,
		*ast.Dot, *ast.Grapheme, *ast.Recursion, *ast.Range, *ast.Regex, *ast.Variable:
		return nil

	case *ast.Group:
		if node.Kind == ast.GroupCapturing {
			if inLet {
				return &groupError{diag.New(diag.Resolve, "G0001", node.Pos,
					"a `let` binding body must not contain a capturing group")}
			}
			num := len(c.groups) + 1
			if prev := len(c.groups); prev > 0 {
				invariant.Invariant(num == c.groups[prev-1].Number+1,
					"group numbering must stay contiguous: got %d after %d", num, c.groups[prev-1].Number)
			}
			c.groups = append(c.groups, Group{Number: num, Name: node.Name, Pos: node.Pos})
			if node.Name != "" {
				if prev, exists := c.names[node.Name]; exists {
					return &groupError{diag.New(diag.Resolve, "G0002", node.Pos,
						fmt.Sprintf("group name %q is already used by group %d", node.Name, prev))}
				}
				c.names[node.Name] = num
			}
		}
		for _, child := range node.Children {
			if err := c.visit(child, inLet); err != nil {
				return err
			}
		}
		return nil

	case *ast.Alternation:
		for _, alt := range node.Alternatives {
			if err := c.visit(alt, inLet); err != nil {
				return err
			}
		}
		return nil

	case *ast.Intersection:
		for _, op := range node.Operands {
			if err := c.visit(op, inLet); err != nil {
				return err
			}
		}
		return nil

	case *ast.Repetition:
		return c.visit(node.Child, inLet)

	case *ast.Lookaround:
		return c.visit(node.Child, inLet)

	case *ast.Reference:
		if inLet {
			return &groupError{diag.New(diag.Resolve, "G0003", node.Pos,
				"a `let` binding body must not reference a capturing group")}
		}
		return nil

	case *ast.StmtExpr:
		switch node.Stmt.Kind {
		case ast.StmtLet:
			if err := c.visit(node.Stmt.Body, true); err != nil {
				return err
			}
		case ast.StmtEnableDisable, ast.StmtTest:
			// no structural effect on groups
		}
		return c.visit(node.Inner, inLet)

	default:
		return nil
	}
}

type groupError struct{ diag.Diagnostic }

func (e *groupError) Error() string { return e.Diagnostic.Error() }

// AsDiagnostic implements diag.Carrier so package patterncomp can recover
// the structured diagnostic from the plain error Collect returns.
func (e *groupError) AsDiagnostic() diag.Diagnostic { return e.Diagnostic }
