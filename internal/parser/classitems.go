package parser

import (
	"strings"

	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/internal/lexer"
	"github.com/patterncomp/patterncomp/span"
	"github.com/patterncomp/patterncomp/unicodetables"
)

// namedClassPrefixes maps a bracket-content prefix keyword to the
// ast.UnicodeKind it introduces: `category:Lu`, `script:Greek`,
// `scriptext:Greek`, `block:Greek_and_Coptic`, `property:White_Space`.
// `posix:alpha` disambiguates a POSIX class name from a shorthand spelled
// the same way.
var namedClassPrefixes = map[string]ast.UnicodeKind{
	"category":  ast.UnicodeCategory,
	"script":    ast.UnicodeScript,
	"scriptext": ast.UnicodeScript,
	"block":     ast.UnicodeBlock,
	"property":  ast.UnicodeOtherProperty,
}

// parseCharClass parses a `[...]` character class: a run of items, each a
// quoted single character, a quoted-char range (`'a'-'z'`), a quoted string
// expanded into one item per rune, or a named identifier (shorthand letter,
// posix:name, category:Xx, script:Name, scriptext:Name, block:Name,
// property:Name).
func (p *parser) parseCharClass() (ast.Node, error) {
	start := p.advance().Pos // [

	var items []ast.ClassItem
	for p.peek().Type != lexer.RBRACKET {
		if p.peek().Type == lexer.EOF {
			return nil, p.errorAt(p.peek().Pos, "P0060", "unterminated character class")
		}
		next, err := p.parseClassTerm()
		if err != nil {
			return nil, err
		}
		items = append(items, next...)
	}
	if len(items) == 0 {
		return nil, p.errorAt(p.peek().Pos, "P0061", "character class must not be empty")
	}
	end := p.advance().Pos // ]
	return &ast.CharClass{Items: items, Pos: span.Join(start, end)}, nil
}

// parseClassTerm parses one item (or, for a multi-rune string literal, a run
// of items) from inside `[...]`.
func (p *parser) parseClassTerm() ([]ast.ClassItem, error) {
	tok := p.peek()

	switch tok.Type {
	case lexer.STRING_S, lexer.STRING_D:
		p.advance()
		runes := []rune(tok.Value)
		if len(runes) == 1 && p.peek().Type == lexer.DASH {
			return p.parseClassRange(runes[0], tok.Pos)
		}
		if len(runes) == 0 {
			return nil, p.errorAt(tok.Pos, "P0062", "character class string literal must not be empty")
		}
		items := make([]ast.ClassItem, 0, len(runes))
		for _, r := range runes {
			items = append(items, ast.ClassItem{Kind: ast.ClassChar, Char: r, Pos: tok.Pos})
		}
		return items, nil

	case lexer.CODEPOINT:
		p.advance()
		r, err := p.decodeCodepointToken(tok)
		if err != nil {
			return nil, err
		}
		if p.peek().Type == lexer.DASH {
			return p.parseClassRange(r, tok.Pos)
		}
		return []ast.ClassItem{{Kind: ast.ClassChar, Char: r, Pos: tok.Pos}}, nil

	case lexer.IDENT:
		p.advance()
		return p.parseClassIdentifier(tok)

	default:
		return nil, p.errorAt(tok.Pos, "P0063", "expected a character, string, range, or named class inside `[...]`, found %q", tok.Value)
	}
}

func (p *parser) parseClassRange(first rune, firstPos span.Span) ([]ast.ClassItem, error) {
	p.advance() // -
	tok := p.peek()
	var last rune
	switch tok.Type {
	case lexer.STRING_S, lexer.STRING_D:
		runes := []rune(tok.Value)
		if len(runes) != 1 {
			return nil, p.errorAt(tok.Pos, "P0064", "range endpoint must be exactly one character")
		}
		last = runes[0]
		p.advance()
	case lexer.CODEPOINT:
		var err error
		last, err = p.decodeCodepointToken(tok)
		if err != nil {
			return nil, err
		}
		p.advance()
	default:
		return nil, p.errorAt(tok.Pos, "P0065", "expected a character or code point after `-` in a range")
	}
	if last < first {
		return nil, p.errorAt(span.Join(firstPos, tok.Pos), "P0066", "character range %q-%q is backwards", string(first), string(last))
	}
	return []ast.ClassItem{{Kind: ast.ClassRange, First: first, Last: last, Pos: span.Join(firstPos, tok.Pos)}}, nil
}

func (p *parser) decodeCodepointToken(tok lexer.Token) (rune, error) {
	v, err := decodeHexRune(tok.Value)
	if err != nil {
		return 0, p.errorAt(tok.Pos, "P0036", "%q is not a valid code point", tok.Value)
	}
	return v, nil
}

// parseClassIdentifier resolves a bare identifier inside `[...]` to a
// shorthand, POSIX class, or one of the Unicode property families.
func (p *parser) parseClassIdentifier(tok lexer.Token) ([]ast.ClassItem, error) {
	name := tok.Value

	if prefix, rest, ok := strings.Cut(name, ":"); ok {
		if kind, known := namedClassPrefixes[prefix]; known {
			if rest == "" {
				return nil, p.errorAt(tok.Pos, "P0067", "expected a name after `%s:`", prefix)
			}
			item := ast.ClassItem{
				Kind:             ast.ClassUnicode,
				UnicodeKind:      kind,
				Name:             rest,
				ScriptExtensions: prefix == "scriptext",
				Pos:              tok.Pos,
			}
			return []ast.ClassItem{item}, nil
		}
		if prefix == "posix" {
			if rest == "" {
				return nil, p.errorAt(tok.Pos, "P0067", "expected a name after `posix:`")
			}
			return []ast.ClassItem{{Kind: ast.ClassPosix, Name: rest, Pos: tok.Pos}}, nil
		}
		return nil, p.errorAt(tok.Pos, "P0068", "unknown character class prefix %q", prefix)
	}

	if full, ok := unicodetables.ResolveShorthand(name); ok {
		return []ast.ClassItem{{Kind: ast.ClassShorthand, Name: full, Pos: tok.Pos}}, nil
	}

	if name == "ascii" || strings.HasPrefix(name, "ascii_") {
		return []ast.ClassItem{{Kind: ast.ClassAscii, Name: name, Pos: tok.Pos}}, nil
	}

	return nil, p.errorAt(tok.Pos, "P0069", "unknown identifier %q inside character class", name).withHelp(
		"expected a shorthand letter (d, w, s, h, v, X), `posix:name`, `category:Xx`, `script:Name`, `scriptext:Name`, `block:Name`, `property:Name`, or a named ASCII group (ascii, ascii_alpha, ...)")
}
