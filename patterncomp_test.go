package patterncomp_test

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/patterncomp/patterncomp"
	"github.com/patterncomp/patterncomp/diag"
	"github.com/patterncomp/patterncomp/flavor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGoldenScenarios pins the end-to-end output (or failure mode) of a
// handful of small but representative source expressions.
func TestGoldenScenarios(t *testing.T) {
	t.Run("alternation with optional literal", func(t *testing.T) {
		got, err := patterncomp.ParseAndCompile(`'foo' | 'bar'?`, patterncomp.Options{Flavor: flavor.PCRE})
		require.NoError(t, err)
		assert.Equal(t, "foo|(?:bar)?", got.Output)
	})

	t.Run("negative lookahead", func(t *testing.T) {
		got, err := patterncomp.ParseAndCompile(`'foo' (!>> 'bar')`, patterncomp.Options{Flavor: flavor.PCRE})
		require.NoError(t, err)
		assert.Equal(t, "foo(?!bar)", got.Output)
	})

	t.Run("start and end boundaries", func(t *testing.T) {
		got, err := patterncomp.ParseAndCompile(`Start 'Test' End`, patterncomp.Options{Flavor: flavor.PCRE})
		require.NoError(t, err)
		assert.Equal(t, "^Test$", got.Output)
	})

	t.Run("variables expanded at each reference site", func(t *testing.T) {
		src := `let number = '-'? [d]+; let op = ["+-*/"]; number (op number)*`
		got, err := patterncomp.ParseAndCompile(src, patterncomp.Options{Flavor: flavor.Rust})
		require.NoError(t, err)
		assert.Equal(t, `-?\d+(?:[*+\-/]-?\d+)*`, got.Output)
	})

	t.Run("numeric range enumerates exactly 0..255", func(t *testing.T) {
		got, err := patterncomp.ParseAndCompile(`range '0'-'255'`, patterncomp.Options{Flavor: flavor.PCRE})
		require.NoError(t, err)
		assertRangeMatchesExactly(t, got.Output, 0, 255)
	})

	t.Run("numeric range in base 16", func(t *testing.T) {
		got, err := patterncomp.ParseAndCompile(`range '10'-'ff' base 16`, patterncomp.Options{Flavor: flavor.PCRE})
		require.NoError(t, err)
		re, err := regexp.Compile("^(?:" + got.Output + ")$")
		require.NoError(t, err)
		for n := 0; n <= 0x110; n++ {
			want := n >= 0x10 && n <= 0xff
			assert.Equal(t, want, re.MatchString(strconv.FormatInt(int64(n), 16)), "n=%x", n)
		}
	})

	t.Run("backreference unsupported on rust is a compile error", func(t *testing.T) {
		_, err := patterncomp.ParseAndCompile(`:name('a') ::name`, patterncomp.Options{Flavor: flavor.Rust})
		require.Error(t, err)
		var compileErr *patterncomp.CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.Equal(t, diag.Unsupported, compileErr.Diagnostic.Kind)
	})
}

// assertRangeMatchesExactly verifies, by enumeration, that the generated
// regex (anchored for a full match) accepts exactly the decimal string
// forms of lo..hi and nothing outside that window on either side.
func assertRangeMatchesExactly(t *testing.T, pattern string, lo, hi int) {
	t.Helper()
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	require.NoError(t, err)
	for n := lo - 2; n <= hi+2; n++ {
		if n < 0 {
			continue
		}
		s := strconv.Itoa(n)
		want := n >= lo && n <= hi
		assert.Equal(t, want, re.MatchString(s), "n=%d (%s)", n, s)
	}
}

func TestParseReturnsWarningsForDeprecatedBoundary(t *testing.T) {
	res, err := patterncomp.Parse(`'a' ^`, 0)
	require.NoError(t, err)
	found := false
	for _, w := range res.Warnings {
		if w.Kind == diag.Deprecated {
			found = true
		}
	}
	assert.True(t, found, "expected a deprecated-construct warning for `^`")
}

func TestParseErrorWrapsDiagnostic(t *testing.T) {
	_, err := patterncomp.Parse(`'unterminated`, 0)
	require.Error(t, err)
	var parseErr *patterncomp.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, diag.Syntax, parseErr.Diagnostic.Kind)
}

func TestCompileRejectsUnsuppressibleKind(t *testing.T) {
	root, err := patterncomp.Parse(`'a'`, 0)
	require.NoError(t, err)
	_, err = patterncomp.Compile(root.AST, patterncomp.Options{
		Flavor:   flavor.PCRE,
		Suppress: map[diag.Kind]bool{diag.Syntax: true},
	})
	require.Error(t, err)
	var inputErr *patterncomp.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestListShorthandsNonEmpty(t *testing.T) {
	got := patterncomp.ListShorthands()
	assert.NotEmpty(t, got)
}
