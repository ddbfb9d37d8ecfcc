package parser

import (
	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/internal/invariant"
	"github.com/patterncomp/patterncomp/internal/lexer"
	"github.com/patterncomp/patterncomp/span"
)

// parseAlternation implements precedence level 6.
func (p *parser) parseAlternation() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	first, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	alts := []ast.Node{first}
	for p.peek().Type == lexer.PIPE {
		p.advance()
		next, err := p.parseIntersection()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return &ast.Alternation{
		Alternatives: alts,
		Pos:          span.Join(alts[0].Span(), alts[len(alts)-1].Span()),
	}, nil
}

// parseIntersection implements the `&` set-intersection operator, one
// precedence level below alternation and above implicit concatenation:
// `['a'-'z'] & !['aeiou']` matches a consonant.
func (p *parser) parseIntersection() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != lexer.AMP {
		return first, nil
	}
	operands := []ast.Node{first}
	for p.peek().Type == lexer.AMP {
		p.advance()
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	last := operands[len(operands)-1]
	return &ast.Intersection{
		Operands: operands,
		Pos:      span.Join(operands[0].Span(), last.Span()),
	}, nil
}

func (p *parser) atConcatBoundary() bool {
	switch p.peek().Type {
	case lexer.EOF, lexer.PIPE, lexer.RPAREN, lexer.SEMI, lexer.RBRACKET, lexer.AMP, lexer.RBRACE:
		return true
	}
	return false
}

// parseConcat implements precedence level 4: implicit juxtaposition.
func (p *parser) parseConcat() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var terms []ast.Node
	for !p.atConcatBoundary() {
		prevPos := p.pos
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
		invariant.Invariant(p.pos > prevPos, "parseTerm must consume at least one token")
	}
	if len(terms) == 0 {
		return nil, p.errorAt(p.peek().Pos, "P0020", "expected an expression")
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &ast.Group{
		Children: terms,
		Kind:     ast.GroupImplicit,
		Pos:      span.Join(terms[0].Span(), terms[len(terms)-1].Span()),
	}, nil
}

// parseTerm implements precedence level 5 (negation) wrapping level 3
// (postfix repetition): `!` binds to exactly one repeatable atom.
func (p *parser) parseTerm() (ast.Node, error) {
	if p.peek().Type == lexer.BANG {
		p.advance()
		if p.peek().Type == lexer.BANG {
			return nil, p.errorAt(p.peek().Pos, "P0021", "double negation `!!` is not allowed")
		}
		atom, err := p.parseRepeatable()
		if err != nil {
			return nil, err
		}
		return applyNegation(atom)
	}
	return p.parseRepeatable()
}

// applyNegation flips the negatable core of node: a CharClass/Intersection's
// Negated bit, a Boundary's Word<->NotWord, a Lookaround's polarity, or (by
// recursing into Child) a Repetition whose child is itself negatable.
func applyNegation(node ast.Node) (ast.Node, error) {
	switch n := node.(type) {
	case *ast.CharClass:
		n.Negated = !n.Negated
		return n, nil
	case *ast.Intersection:
		n.Negated = !n.Negated
		return n, nil
	case *ast.Boundary:
		switch n.Kind {
		case ast.BoundaryWord:
			n.Kind = ast.BoundaryNotWord
		case ast.BoundaryNotWord:
			n.Kind = ast.BoundaryWord
		default:
			return nil, &parseError{diagNotNegatable(n.Pos, "boundary Start/End")}
		}
		return n, nil
	case *ast.Lookaround:
		if n.Polarity == ast.Positive {
			n.Polarity = ast.Negative
		} else {
			n.Polarity = ast.Positive
		}
		return n, nil
	case *ast.Repetition:
		child, err := applyNegation(n.Child)
		if err != nil {
			return nil, err
		}
		n.Child = child
		return n, nil
	default:
		return nil, &parseError{diagNotNegatable(node.Span(), "this construct")}
	}
}
