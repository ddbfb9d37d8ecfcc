package parser

import (
	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/internal/lexer"
	"github.com/patterncomp/patterncomp/span"
)

// parseRange parses `range START - END [base N]`, where START and END are
// quoted digit strings in the given radix (default 10). Quoting preserves
// leading zeros, which the rangecompiler needs to pick a fixed-width versus
// variable-width expansion. The bounds are held as raw tokens until the
// optional trailing `base` clause is read, since the digit alphabet depends
// on the radix.
func (p *parser) parseRange() (ast.Node, error) {
	start := p.advance().Pos // range

	lowTok, err := p.expectDigitString()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != lexer.DASH {
		return nil, p.errorAt(p.peek().Pos, "P0072", "expected `-` between range bounds")
	}
	p.advance()
	highTok, err := p.expectDigitString()
	if err != nil {
		return nil, err
	}

	radix := 10
	end := highTok.Pos
	if p.peek().Type == lexer.BASE {
		p.advance()
		if p.peek().Type != lexer.NUMBER {
			return nil, p.errorAt(p.peek().Pos, "P0070", "expected a number after `base`")
		}
		tok := p.advance()
		n, err := parseUint32(tok.Value)
		if err != nil || n < 2 || n > 36 {
			return nil, p.errorAt(tok.Pos, "P0071", "range base must be between 2 and 36")
		}
		radix = int(n)
		end = tok.Pos
	}

	lowDigits, err := p.decodeDigitString(lowTok, radix)
	if err != nil {
		return nil, err
	}
	highDigits, err := p.decodeDigitString(highTok, radix)
	if err != nil {
		return nil, err
	}

	if err := validateRangeOrder(lowDigits, highDigits); err != nil {
		return nil, p.errorAt(span.Join(lowTok.Pos, highTok.Pos), "P0073", "%s", err.Error())
	}

	return &ast.Range{Start: lowDigits, End: highDigits, Radix: radix, Pos: span.Join(start, end)}, nil
}

func (p *parser) expectDigitString() (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != lexer.STRING_S && tok.Type != lexer.STRING_D {
		return lexer.Token{}, p.errorAt(tok.Pos, "P0074", "expected a quoted digit string")
	}
	p.advance()
	return tok, nil
}

func (p *parser) decodeDigitString(tok lexer.Token, radix int) ([]byte, error) {
	digits := make([]byte, 0, len(tok.Value))
	for _, r := range tok.Value {
		d, ok := digitValue(r)
		if !ok || int(d) >= radix {
			return nil, p.errorAt(tok.Pos, "P0075", "%q is not a valid base-%d digit string", tok.Value, radix)
		}
		digits = append(digits, d)
	}
	if len(digits) == 0 {
		return nil, p.errorAt(tok.Pos, "P0076", "range bound must not be empty")
	}
	return digits, nil
}

func digitValue(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 10, true
	}
	return 0, false
}

type rangeOrderError struct{ msg string }

func (e *rangeOrderError) Error() string { return e.msg }

// validateRangeOrder enforces ast.Range's documented invariant: shorter bound
// first, or equal length and lexicographically non-decreasing.
func validateRangeOrder(low, high []byte) error {
	if len(low) > len(high) {
		return &rangeOrderError{"range start has more digits than range end"}
	}
	if len(low) < len(high) {
		return nil
	}
	for i := range low {
		if low[i] < high[i] {
			return nil
		}
		if low[i] > high[i] {
			return &rangeOrderError{"range start is greater than range end"}
		}
	}
	return nil
}
