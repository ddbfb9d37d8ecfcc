package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/patterncomp/patterncomp/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, source string) []lexer.Token {
	t.Helper()
	lx := lexer.New(source, nil)
	var toks []lexer.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return toks
}

func typesOf(toks []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

// assertTokenTypes compares the lexed token-type sequence against want,
// reporting a structural diff on mismatch rather than a single expected-vs-got
// pair.
func assertTokenTypes(t *testing.T, source string, want []lexer.TokenType) {
	t.Helper()
	got := typesOf(lexAll(t, source))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%q: token type mismatch (-want +got):\n%s", source, diff)
	}
}

func TestLexIdentifierVersusKeyword(t *testing.T) {
	toks := lexAll(t, "atomic foo")
	require.Len(t, toks, 3)
	assert.Equal(t, lexer.ATOMIC, toks[0].Type)
	assert.Equal(t, lexer.IDENT, toks[1].Type)
	assert.Equal(t, "foo", toks[1].Value)
}

func TestLexCodepointLiteral(t *testing.T) {
	toks := lexAll(t, "U+1F600")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.CODEPOINT, toks[0].Type)
	assert.Equal(t, "1F600", toks[0].Value)
}

func TestLexBareUIdentifierIsNotCodepoint(t *testing.T) {
	toks := lexAll(t, "U")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.IDENT, toks[0].Type)
	assert.Equal(t, "U", toks[0].Value)
}

func TestLexUPlusWithNoHexDigitsIsIllegal(t *testing.T) {
	toks := lexAll(t, "U+")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.ILLEGAL, toks[0].Type)
}

func TestLexSingleQuotedStringHasNoEscapes(t *testing.T) {
	toks := lexAll(t, `'a\b'`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.STRING_S, toks[0].Type)
	assert.Equal(t, `a\b`, toks[0].Value)
}

func TestLexDoubleQuotedStringDecodesEscapes(t *testing.T) {
	toks := lexAll(t, `"a\"b\\c"`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.STRING_D, toks[0].Type)
	assert.Equal(t, `a"b\c`, toks[0].Value)
}

func TestLexUnterminatedStringIsIllegal(t *testing.T) {
	toks := lexAll(t, `'abc`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.ILLEGAL, toks[0].Type)
}

func TestLexDoubleColonVersusColon(t *testing.T) {
	assertTokenTypes(t, ":: :", []lexer.TokenType{lexer.DCOLON, lexer.COLON, lexer.EOF})
}

func TestLexLookaroundOperators(t *testing.T) {
	assertTokenTypes(t, ">> <<", []lexer.TokenType{lexer.LOOKAHEAD, lexer.LOOKBEHIND, lexer.EOF})
}

func TestLexDeprecatedAnchors(t *testing.T) {
	assertTokenTypes(t, "^ $ <% %>", []lexer.TokenType{
		lexer.CARET, lexer.DOLLAR, lexer.DEP_START, lexer.DEP_END, lexer.EOF,
	})
}

func TestLexCommentIsSkipped(t *testing.T) {
	assertTokenTypes(t, "'a' # a comment\n'b'", []lexer.TokenType{lexer.STRING_S, lexer.STRING_S, lexer.EOF})
}

func TestLexPlainParenIsNotIllegal(t *testing.T) {
	toks := lexAll(t, "(")
	assert.Equal(t, lexer.LPAREN, toks[0].Type)
}

// TestLexLegacyGroupFormsClassifyByKind guards the fix to
// classifyLegacyRegexGroup: every "(?..." form previously collapsed to
// IllegalNonCapturingGroup regardless of what followed the "?", so a
// traditional lookahead or conditional got the wrong "use (...) instead"
// help message.
func TestLexLegacyGroupFormsClassifyByKind(t *testing.T) {
	cases := []struct {
		source string
		want   lexer.IllegalKind
	}{
		{"(?:a)", lexer.IllegalNonCapturingGroup},
		{"(?=a)", lexer.IllegalLookaroundGroup},
		{"(?!a)", lexer.IllegalLookaroundGroup},
		{"(?<=a)", lexer.IllegalLookaroundGroup},
		{"(?<!a)", lexer.IllegalLookaroundGroup},
		{"(?<name>a)", lexer.IllegalNonCapturingGroup},
		{"(?(1)a)", lexer.IllegalConditional},
	}
	for _, c := range cases {
		toks := lexAll(t, c.source)
		require.Equal(t, lexer.ILLEGAL_REGEX_SYNTAX, toks[0].Type, "source %q", c.source)
		assert.Equal(t, c.want, toks[0].Illegal, "source %q", c.source)
	}
}

func TestLexBackslashEscapeKinds(t *testing.T) {
	cases := []struct {
		source string
		want   lexer.IllegalKind
	}{
		{`\d`, lexer.IllegalBackslashEscape},
		{`\1`, lexer.IllegalNumericBackref},
		{`\p{L}`, lexer.IllegalPropertyEscape},
	}
	for _, c := range cases {
		toks := lexAll(t, c.source)
		require.Equal(t, lexer.ILLEGAL_REGEX_SYNTAX, toks[0].Type, "source %q", c.source)
		assert.Equal(t, c.want, toks[0].Illegal, "source %q", c.source)
	}
}

// TestLexNamedClassPrefixIsOneIdentToken guards a fix where `category:Lu`
// lexed as three tokens (IDENT "category", COLON, IDENT "Lu") because `:`
// is not an identifier-part byte, leaving the parser with no way to
// recombine them into the single "prefix:name" string parseClassIdentifier
// expects.
func TestLexNamedClassPrefixIsOneIdentToken(t *testing.T) {
	cases := []string{"category:Lu", "posix:alpha", "script:Greek", "scriptext:Greek", "block:Greek_and_Coptic", "property:White_Space"}
	for _, src := range cases {
		toks := lexAll(t, src)
		require.Len(t, toks, 2, "source %q", src)
		assert.Equal(t, lexer.IDENT, toks[0].Type, "source %q", src)
		assert.Equal(t, src, toks[0].Value, "source %q", src)
	}
}

func TestLexNamedClassPrefixWithNoNameKeepsTrailingColon(t *testing.T) {
	toks := lexAll(t, "category:]")
	require.Equal(t, lexer.IDENT, toks[0].Type)
	assert.Equal(t, "category:", toks[0].Value)
	assert.Equal(t, lexer.RBRACKET, toks[1].Type)
}

func TestLexUnrecognisedCharacterIsIllegal(t *testing.T) {
	toks := lexAll(t, "@")
	assert.Equal(t, lexer.ILLEGAL, toks[0].Type)
}
