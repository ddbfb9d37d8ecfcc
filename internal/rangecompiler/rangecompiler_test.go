package rangecompiler_test

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/patterncomp/patterncomp/flavor"
	"github.com/patterncomp/patterncomp/internal/emitter"
	"github.com/patterncomp/patterncomp/internal/rangecompiler"
	"github.com/patterncomp/patterncomp/ir"
	"github.com/patterncomp/patterncomp/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// digits converts a base-10 non-negative integer to the digit array
// rangecompiler.Compile expects (most significant digit first, each byte a
// digit value, not an ASCII character).
func digits(n int) []byte {
	s := strconv.Itoa(n)
	out := make([]byte, len(s))
	for i, c := range s {
		out[i] = byte(c - '0')
	}
	return out
}

func compileAndEmit(t *testing.T, lo, hi int) string {
	t.Helper()
	node, err := rangecompiler.Compile(digits(lo), digits(hi), 10, 0, span.Span{})
	require.NoError(t, err)
	out, err := emitter.New(flavor.PCRE).Emit(&ir.Pattern{Root: node})
	require.NoError(t, err)
	return out
}

func TestCompileEnumeratesExactRangeSmall(t *testing.T) {
	tests := []struct{ lo, hi int }{
		{0, 9},
		{5, 5},
		{0, 255},
		{10, 99},
		{1, 31},
	}
	for _, tt := range tests {
		pattern := compileAndEmit(t, tt.lo, tt.hi)
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		require.NoError(t, err)
		for n := tt.lo - 2; n <= tt.hi+2; n++ {
			if n < 0 {
				continue
			}
			want := n >= tt.lo && n <= tt.hi
			assert.Equal(t, want, re.MatchString(strconv.Itoa(n)), "lo=%d hi=%d n=%d pattern=%s", tt.lo, tt.hi, n, pattern)
		}
	}
}

// TestCompileRadix16SplitsDigitAlphabetAtNine: above base 10 the digit
// alphabet is not a contiguous code point range, so a digit span crossing
// the '9'/'a' boundary must emit two intervals; `[1-f]` would also match
// the punctuation between them.
func TestCompileRadix16SplitsDigitAlphabetAtNine(t *testing.T) {
	node, err := rangecompiler.Compile([]byte{1, 0}, []byte{15, 15}, 16, 0, span.Span{})
	require.NoError(t, err)
	out, err := emitter.New(flavor.PCRE).Emit(&ir.Pattern{Root: node})
	require.NoError(t, err)
	re, err := regexp.Compile("^(?:" + out + ")$")
	require.NoError(t, err)
	for n := 0; n <= 0x110; n++ {
		want := n >= 0x10 && n <= 0xff
		assert.Equal(t, want, re.MatchString(strconv.FormatInt(int64(n), 16)), "n=%x pattern=%s", n, out)
	}
	assert.False(t, re.MatchString("::"), "characters between '9' and 'a' must not match")
}

func TestCompileRejectsOversizedRange(t *testing.T) {
	_, err := rangecompiler.Compile(digits(0), digits(99999999), 10, 4, span.Span{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R0001")
}

func TestCompileDefaultMaxSizeAppliesWhenZero(t *testing.T) {
	_, err := rangecompiler.Compile(digits(0), digits(9), 10, 0, span.Span{})
	assert.NoError(t, err)
}
