package parser

import (
	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/internal/lexer"
	"github.com/patterncomp/patterncomp/span"
)

// parseStatementOrExpr implements precedence level 7: statements are
// left-introduced and scope everything that follows them.
func (p *parser) parseStatementOrExpr() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.peek().Type {
	case lexer.ENABLE, lexer.DISABLE:
		return p.parseEnableDisable()
	case lexer.LET:
		return p.parseLet()
	case lexer.TEST:
		return p.parseTest()
	default:
		return p.parseAlternation()
	}
}

func (p *parser) parseEnableDisable() (ast.Node, error) {
	start := p.peek().Pos
	enable := p.advance().Type == lexer.ENABLE

	var setting ast.Setting
	switch p.peek().Type {
	case lexer.LAZY:
		setting = ast.SettingLazy
		p.advance()
	case lexer.UNICODE:
		setting = ast.SettingUnicode
		p.advance()
	default:
		return nil, p.errorAt(p.peek().Pos, "P0010", "expected `lazy` or `unicode` after enable/disable")
	}

	if p.peek().Type != lexer.SEMI {
		return nil, p.errorAt(p.peek().Pos, "P0011", "expected `;` after enable/disable statement")
	}
	p.advance()

	inner, err := p.parseStatementOrExpr()
	if err != nil {
		return nil, err
	}
	return &ast.StmtExpr{
		Stmt:  ast.Statement{Kind: ast.StmtEnableDisable, Setting: setting, Enable: enable},
		Inner: inner,
		Pos:   span.Join(start, inner.Span()),
	}, nil
}

func (p *parser) parseLet() (ast.Node, error) {
	start := p.peek().Pos
	p.advance() // let

	if p.peek().Type != lexer.IDENT {
		return nil, p.errorAt(p.peek().Pos, "P0012", "expected variable name after `let`")
	}
	name := p.advance().Value

	if p.peek().Type != lexer.EQUALS {
		return nil, p.errorAt(p.peek().Pos, "P0013", "expected `=` after `let %s`", name)
	}
	p.advance()

	body, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}

	if p.peek().Type != lexer.SEMI {
		return nil, p.errorAt(p.peek().Pos, "P0014", "expected `;` after `let %s = ...`", name)
	}
	p.advance()

	inner, err := p.parseStatementOrExpr()
	if err != nil {
		return nil, err
	}
	return &ast.StmtExpr{
		Stmt:  ast.Statement{Kind: ast.StmtLet, Name: name, Body: body},
		Inner: inner,
		Pos:   span.Join(start, inner.Span()),
	}, nil
}

func (p *parser) parseTest() (ast.Node, error) {
	start := p.peek().Pos
	p.advance() // test

	if p.peek().Type != lexer.LBRACE {
		return nil, p.errorAt(p.peek().Pos, "P0015", "expected `{` after `test`")
	}
	p.advance()

	var matches, rejects []string
	for p.peek().Type != lexer.RBRACE {
		switch p.peek().Type {
		case lexer.MATCH:
			p.advance()
			s, err := p.expectString()
			if err != nil {
				return nil, err
			}
			matches = append(matches, s)
		case lexer.REJECT:
			p.advance()
			s, err := p.expectString()
			if err != nil {
				return nil, err
			}
			rejects = append(rejects, s)
		case lexer.EOF:
			return nil, p.errorAt(p.peek().Pos, "P0016", "unterminated `test` block")
		default:
			return nil, p.errorAt(p.peek().Pos, "P0017", "expected `match` or `reject` inside `test` block")
		}
		if p.peek().Type != lexer.SEMI {
			return nil, p.errorAt(p.peek().Pos, "P0018", "expected `;` after test clause")
		}
		p.advance()
	}
	p.advance() // }

	inner, err := p.parseStatementOrExpr()
	if err != nil {
		return nil, err
	}
	return &ast.StmtExpr{
		Stmt:  ast.Statement{Kind: ast.StmtTest, Matches: matches, Rejects: rejects},
		Inner: inner,
		Pos:   span.Join(start, inner.Span()),
	}, nil
}

func (p *parser) expectString() (string, error) {
	tok := p.peek()
	if tok.Type != lexer.STRING_S && tok.Type != lexer.STRING_D {
		return "", p.errorAt(tok.Pos, "P0019", "expected a quoted string")
	}
	p.advance()
	return tok.Value, nil
}
