// Package parser turns a lexer.Token stream into an ast.Node tree by
// hand-written recursive descent with explicit operator precedence levels:
// alternation loosest, then intersection, implicit concatenation, negation,
// postfix repetition, and atoms tightest.
package parser

import (
	"fmt"

	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/diag"
	"github.com/patterncomp/patterncomp/internal/invariant"
	"github.com/patterncomp/patterncomp/internal/lexer"
	"github.com/patterncomp/patterncomp/span"
)

// DefaultRecursionLimit bounds nested group/lookaround/statement depth so
// adversarial input fails deterministically instead of exhausting the
// stack.
const DefaultRecursionLimit = 256

type parser struct {
	source string
	toks   []lexer.Token
	pos    int

	maxDepth int
	depth    int

	warnings []diag.Diagnostic
}

// Parse lexes and parses source, returning the AST and any accumulated
// warnings, or the first fatal parse error. recursionLimit <= 0 selects
// DefaultRecursionLimit.
func Parse(source string, recursionLimit int) (ast.Node, []diag.Diagnostic, error) {
	if recursionLimit <= 0 {
		recursionLimit = DefaultRecursionLimit
	}

	lx := lexer.New(source, nil)
	var toks []lexer.Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Type == lexer.EOF {
			break
		}
	}

	p := &parser{source: source, toks: toks, maxDepth: recursionLimit}

	node, err := p.parseStatementOrExpr()
	if err != nil {
		return nil, nil, err
	}
	if p.peek().Type != lexer.EOF {
		return nil, nil, p.errorAt(p.peek().Pos, "P0001", "unexpected trailing input after expression")
	}
	return node, p.warnings, nil
}

func (p *parser) peek() lexer.Token { return p.toks[p.pos] }
func (p *parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}
func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if t.Type != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorAt(p.peek().Pos, "P0002", "recursion limit exceeded (max depth %d)", p.maxDepth).withKind(diag.Limits)
	}
	return nil
}

func (p *parser) leave() {
	invariant.Invariant(p.depth > 0, "parser depth must not underflow")
	p.depth--
}

// parseError is a diag.Diagnostic that also satisfies error, returned by
// every parse function as the second value so the first fatal error aborts
// compilation immediately.
type parseError struct {
	diag.Diagnostic
}

func (e *parseError) Error() string { return e.Diagnostic.Error() }

// AsDiagnostic implements diag.Carrier so package patterncomp can recover
// the structured diagnostic from the plain error Parse returns.
func (e *parseError) AsDiagnostic() diag.Diagnostic { return e.Diagnostic }

func (p *parser) errorAt(sp span.Span, code, format string, args ...any) *parseError {
	return &parseError{diag.New(diag.Syntax, code, sp, fmt.Sprintf(format, args...))}
}

func (e *parseError) withKind(k diag.Kind) *parseError {
	e.Kind = k
	return e
}

func (e *parseError) withHelp(help string) *parseError {
	e.Help = help
	return e
}

// diagNotNegatable builds the diagnostic for a `!` prefix applied to a
// construct with no negated form.
func diagNotNegatable(sp span.Span, what string) diag.Diagnostic {
	return diag.New(diag.Syntax, "P0022", sp, fmt.Sprintf("%s cannot be negated with `!`", what))
}
