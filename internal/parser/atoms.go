package parser

import (
	"strconv"

	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/diag"
	"github.com/patterncomp/patterncomp/internal/lexer"
	"github.com/patterncomp/patterncomp/span"
)

// parseRepeatable implements precedence level 3: an atom followed by zero or
// more postfix quantifiers, each of which may itself carry a trailing
// `greedy`/`lazy` keyword overriding the enclosing enable/disable scope.
func (p *parser) parseRepeatable() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		start := atom.Span()
		switch p.peek().Type {
		case lexer.STAR:
			opPos := p.advance().Pos
			atom = p.finishRepetition(atom, 0, nil, span.Join(start, opPos))
		case lexer.PLUS:
			opPos := p.advance().Pos
			atom = p.finishRepetition(atom, 1, nil, span.Join(start, opPos))
		case lexer.QUESTION:
			opPos := p.advance().Pos
			one := uint32(1)
			atom = p.finishRepetition(atom, 0, &one, span.Join(start, opPos))
		case lexer.LBRACE:
			rep, err := p.parseBraceBounds(atom)
			if err != nil {
				return nil, err
			}
			atom = rep
		default:
			return atom, nil
		}
	}
}

func (p *parser) finishRepetition(child ast.Node, lower uint32, upper *uint32, pos span.Span) ast.Node {
	q := ast.DefaultGreedy
	switch p.peek().Type {
	case lexer.GREEDY:
		q = ast.Greedy
		pos = span.Join(pos, p.advance().Pos)
	case lexer.LAZY:
		q = ast.Lazy
		pos = span.Join(pos, p.advance().Pos)
	}
	return &ast.Repetition{Child: child, Lower: lower, Upper: upper, Quantifier: q, Pos: pos}
}

func (p *parser) parseBraceBounds(child ast.Node) (ast.Node, error) {
	start := child.Span()
	p.advance() // {

	if p.peek().Type != lexer.NUMBER {
		return nil, p.errorAt(p.peek().Pos, "P0023", "expected a number after `{`")
	}
	lowerTok := p.advance()
	lower, err := parseUint32(lowerTok.Value)
	if err != nil {
		return nil, p.errorAt(lowerTok.Pos, "P0024", "repetition bound %q is too large", lowerTok.Value)
	}

	var upper *uint32
	switch p.peek().Type {
	case lexer.RBRACE:
		u := lower
		upper = &u
	case lexer.COMMA:
		p.advance()
		switch p.peek().Type {
		case lexer.RBRACE:
			upper = nil
		case lexer.NUMBER:
			upperTok := p.advance()
			u, err := parseUint32(upperTok.Value)
			if err != nil {
				return nil, p.errorAt(upperTok.Pos, "P0024", "repetition bound %q is too large", upperTok.Value)
			}
			if u < lower {
				return nil, p.errorAt(upperTok.Pos, "P0025", "repetition upper bound %d is less than lower bound %d", u, lower)
			}
			upper = &u
		default:
			return nil, p.errorAt(p.peek().Pos, "P0026", "expected a number or `}` after `,`")
		}
	default:
		return nil, p.errorAt(p.peek().Pos, "P0027", "expected `,` or `}` in repetition bound")
	}

	if p.peek().Type != lexer.RBRACE {
		return nil, p.errorAt(p.peek().Pos, "P0028", "expected `}` to close repetition bound")
	}
	rbrace := p.advance()
	return p.finishRepetition(child, lower, upper, span.Join(start, rbrace.Pos)), nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func decodeHexRune(s string) (rune, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return rune(v), nil
}

// parseAtom implements precedence level 0-2: every construct that can be
// followed directly by a postfix quantifier.
func (p *parser) parseAtom() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Type {
	case lexer.STRING_S, lexer.STRING_D:
		p.advance()
		return &ast.Literal{Text: []rune(tok.Value), Pos: tok.Pos}, nil

	case lexer.CODEPOINT:
		p.advance()
		v, err := decodeHexRune(tok.Value)
		if err != nil || v > 0x10FFFF {
			return nil, p.errorAt(tok.Pos, "P0036", "%q is not a valid code point", tok.Value)
		}
		return &ast.Codepoint{Value: v, Pos: tok.Pos}, nil

	case lexer.LBRACKET:
		return p.parseCharClass()

	case lexer.LPAREN:
		start := p.advance().Pos
		// Group bodies re-enter the statement level, so `let`/`enable`/
		// `disable`/`test` can scope a parenthesised subexpression.
		content, err := p.parseStatementOrExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expectClose(lexer.RPAREN, "P0037", "expected `)` to close group")
		if err != nil {
			return nil, err
		}
		return &ast.Group{Children: []ast.Node{content}, Kind: ast.GroupNormal, Pos: span.Join(start, end)}, nil

	case lexer.ATOMIC:
		start := p.advance().Pos
		if _, err := p.expectOpen(lexer.LPAREN, "P0038", "expected `(` after `atomic`"); err != nil {
			return nil, err
		}
		content, err := p.parseStatementOrExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expectClose(lexer.RPAREN, "P0039", "expected `)` to close atomic group")
		if err != nil {
			return nil, err
		}
		return &ast.Group{Children: []ast.Node{content}, Kind: ast.GroupAtomic, Pos: span.Join(start, end)}, nil

	case lexer.COLON:
		start := p.advance().Pos
		name := ""
		if p.peek().Type == lexer.IDENT {
			name = p.advance().Value
		}
		if _, err := p.expectOpen(lexer.LPAREN, "P0040", "expected `(` to open capturing group"); err != nil {
			return nil, err
		}
		content, err := p.parseStatementOrExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expectClose(lexer.RPAREN, "P0041", "expected `)` to close capturing group")
		if err != nil {
			return nil, err
		}
		return &ast.Group{Children: []ast.Node{content}, Kind: ast.GroupCapturing, Name: name, Pos: span.Join(start, end)}, nil

	case lexer.LOOKAHEAD:
		return p.parseLookaround(ast.Ahead)
	case lexer.LOOKBEHIND:
		return p.parseLookaround(ast.Behind)

	case lexer.START:
		p.advance()
		return &ast.Boundary{Kind: ast.BoundaryStart, Pos: tok.Pos}, nil
	case lexer.END:
		p.advance()
		return &ast.Boundary{Kind: ast.BoundaryEnd, Pos: tok.Pos}, nil
	case lexer.CARET:
		p.advance()
		p.warnDeprecated(tok.Pos, "D0001", "`^` is deprecated; use `Start`")
		return &ast.Boundary{Kind: ast.BoundaryStart, Pos: tok.Pos}, nil
	case lexer.DOLLAR:
		p.advance()
		p.warnDeprecated(tok.Pos, "D0002", "`$` is deprecated; use `End`")
		return &ast.Boundary{Kind: ast.BoundaryEnd, Pos: tok.Pos}, nil
	case lexer.DEP_START:
		p.advance()
		p.warnDeprecated(tok.Pos, "D0003", "`<%` is deprecated; use `Start`")
		return &ast.Boundary{Kind: ast.BoundaryStart, Pos: tok.Pos}, nil
	case lexer.DEP_END:
		p.advance()
		p.warnDeprecated(tok.Pos, "D0004", "`%>` is deprecated; use `End`")
		return &ast.Boundary{Kind: ast.BoundaryEnd, Pos: tok.Pos}, nil
	case lexer.PERCENT:
		p.advance()
		return &ast.Boundary{Kind: ast.BoundaryWord, Pos: tok.Pos}, nil

	case lexer.DOT:
		p.advance()
		return &ast.Dot{Pos: tok.Pos}, nil
	case lexer.GRAPHEME:
		p.advance()
		return &ast.Grapheme{Pos: tok.Pos}, nil
	case lexer.RECURSION:
		p.advance()
		return &ast.Recursion{Pos: tok.Pos}, nil

	case lexer.IDENT:
		p.advance()
		return &ast.Variable{Name: tok.Value, Pos: tok.Pos}, nil

	case lexer.DCOLON:
		return p.parseReference()

	case lexer.RANGE:
		return p.parseRange()

	case lexer.REGEX:
		start := p.advance().Pos
		strTok := p.peek()
		if strTok.Type != lexer.STRING_S && strTok.Type != lexer.STRING_D {
			return nil, p.errorAt(strTok.Pos, "P0035", "expected a quoted string after `regex`")
		}
		p.advance()
		return &ast.Regex{Text: strTok.Value, Pos: span.Join(start, strTok.Pos)}, nil

	case lexer.ILLEGAL_REGEX_SYNTAX:
		return nil, p.illegalRegexDiagnostic(tok)

	case lexer.ILLEGAL:
		return nil, p.errorAt(tok.Pos, "P0003", "unrecognised character %q", tok.Value)

	default:
		return nil, p.errorAt(tok.Pos, "P0004", "expected an expression, found %q", tok.Value)
	}
}

func (p *parser) expectOpen(t lexer.TokenType, code, msg string) (span.Span, error) {
	if p.peek().Type != t {
		return span.Span{}, p.errorAt(p.peek().Pos, code, "%s", msg)
	}
	return p.advance().Pos, nil
}

func (p *parser) expectClose(t lexer.TokenType, code, msg string) (span.Span, error) {
	if p.peek().Type != t {
		return span.Span{}, p.errorAt(p.peek().Pos, code, "%s", msg)
	}
	return p.advance().Pos, nil
}

func (p *parser) parseLookaround(dir ast.LookDirection) (ast.Node, error) {
	start := p.advance().Pos
	child, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	return &ast.Lookaround{
		Child:     child,
		Direction: dir,
		Polarity:  ast.Positive,
		Pos:       span.Join(start, child.Span()),
	}, nil
}

func (p *parser) parseReference() (ast.Node, error) {
	start := p.advance().Pos // ::

	switch p.peek().Type {
	case lexer.IDENT:
		tok := p.advance()
		return &ast.Reference{
			Target: ast.RefTarget{Kind: ast.RefNamed, Name: tok.Value},
			Pos:    span.Join(start, tok.Pos),
		}, nil
	case lexer.NUMBER:
		tok := p.advance()
		n, err := parseUint32(tok.Value)
		if err != nil {
			return nil, p.errorAt(tok.Pos, "P0042", "group number %q is too large", tok.Value)
		}
		return &ast.Reference{
			Target: ast.RefTarget{Kind: ast.RefNumber, Number: n},
			Pos:    span.Join(start, tok.Pos),
		}, nil
	case lexer.PLUS, lexer.DASH:
		signTok := p.advance()
		if p.peek().Type != lexer.NUMBER {
			return nil, p.errorAt(p.peek().Pos, "P0043", "expected a number after `%s` in relative reference", signTok.Value)
		}
		numTok := p.advance()
		n, err := parseUint32(numTok.Value)
		if err != nil {
			return nil, p.errorAt(numTok.Pos, "P0042", "group number %q is too large", numTok.Value)
		}
		rel := int32(n)
		if signTok.Type == lexer.DASH {
			rel = -rel
		}
		if rel == 0 {
			return nil, p.errorAt(numTok.Pos, "P0044", "relative reference offset must not be zero")
		}
		return &ast.Reference{
			Target: ast.RefTarget{Kind: ast.RefRelative, Relative: rel},
			Pos:    span.Join(start, numTok.Pos),
		}, nil
	default:
		return nil, p.errorAt(p.peek().Pos, "P0045", "expected a name, number, or `+`/`-` offset after `::`")
	}
}

func (p *parser) warnDeprecated(sp span.Span, code, message string) {
	p.warnings = append(p.warnings, diag.Warn(diag.Deprecated, code, sp, message))
}

func (p *parser) illegalRegexDiagnostic(tok lexer.Token) error {
	var code, help string
	switch tok.Illegal {
	case lexer.IllegalNonCapturingGroup:
		code, help = "P0050", "use `(...)` for a non-capturing group"
	case lexer.IllegalLookaroundGroup:
		code, help = "P0051", "use `>>`, `<<`, `!>>`, or `!<<` for lookaround"
	case lexer.IllegalNumericBackref:
		code, help = "P0052", "use `::1` or `::name` to reference a capturing group"
	case lexer.IllegalPropertyEscape:
		code, help = "P0053", "use `[category:Lu]`, `[script:Greek]`, or `[property:White_Space]` inside a character class"
	case lexer.IllegalConditional:
		code, help = "P0054", "conditional patterns are not supported"
	default:
		code, help = "P0055", "use this language's own escape forms instead of backslash escapes"
	}
	return p.errorAt(tok.Pos, code, "%q is traditional regex syntax, which this language does not use", tok.Value).withHelp(help)
}
