package emitter_test

import (
	"testing"

	"github.com/patterncomp/patterncomp/flavor"
	"github.com/patterncomp/patterncomp/internal/emitter"
	"github.com/patterncomp/patterncomp/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emit(t *testing.T, fl flavor.Flavor, root ir.Node) string {
	t.Helper()
	out, err := emitter.New(fl).Emit(&ir.Pattern{Root: root})
	require.NoError(t, err)
	return out
}

func TestMultiRuneLiteralWrapsUnderRepetition(t *testing.T) {
	one := uint32(1)
	node := ir.Repeat{
		Child: ir.Literal{Text: []rune("bar")},
		Lower: 0, Upper: &one,
	}
	assert.Equal(t, "(?:bar)?", emit(t, flavor.PCRE, node))
}

func TestSingleRuneLiteralDoesNotWrapUnderRepetition(t *testing.T) {
	node := ir.Repeat{Child: ir.Literal{Text: []rune("a")}, Lower: 0, Upper: nil}
	assert.Equal(t, "a*", emit(t, flavor.PCRE, node))
}

func TestClassDoesNotWrapUnderRepetition(t *testing.T) {
	node := ir.Repeat{
		Child: ir.Class{Intervals: []ir.Interval{{Lo: 'a', Hi: 'z'}}},
		Lower: 1, Upper: nil,
	}
	assert.Equal(t, "[a-z]+", emit(t, flavor.PCRE, node))
}

func TestQuantifierTextForms(t *testing.T) {
	one := uint32(1)
	three := uint32(3)
	five := uint32(5)
	tests := []struct {
		name  string
		lower uint32
		upper *uint32
		want  string
	}{
		{"star", 0, nil, "a*"},
		{"plus", 1, nil, "a+"},
		{"open lower bound", 3, nil, "a{3,}"},
		{"optional", 0, &one, "a?"},
		{"exact", 3, &three, "a{3}"},
		{"range", 3, &five, "a{3,5}"},
		{"exactly one collapses", 1, &one, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := ir.Repeat{Child: ir.Literal{Text: []rune("a")}, Lower: tt.lower, Upper: tt.upper}
			assert.Equal(t, tt.want, emit(t, flavor.PCRE, node))
		})
	}
}

func TestLazyQuantifierSuppressedWhenBoundsEqual(t *testing.T) {
	three := uint32(3)
	node := ir.Repeat{Child: ir.Literal{Text: []rune("a")}, Lower: 3, Upper: &three, Lazy: true}
	assert.Equal(t, "a{3}", emit(t, flavor.PCRE, node))
}

func TestLazyQuantifierAppendsQuestionMark(t *testing.T) {
	node := ir.Repeat{Child: ir.Literal{Text: []rune("a")}, Lower: 0, Upper: nil, Lazy: true}
	assert.Equal(t, "a*?", emit(t, flavor.PCRE, node))
}

func TestBoundaryStartEndSpellingUniformAcrossFlavors(t *testing.T) {
	for _, fl := range flavor.All() {
		assert.Equal(t, "^", emit(t, fl, ir.Boundary{Kind: ir.BoundaryStart}), fl.String())
		assert.Equal(t, "$", emit(t, fl, ir.Boundary{Kind: ir.BoundaryEnd}), fl.String())
	}
}

func TestWordBoundarySpelling(t *testing.T) {
	assert.Equal(t, `\b`, emit(t, flavor.PCRE, ir.Boundary{Kind: ir.BoundaryWord}))
	assert.Equal(t, `\B`, emit(t, flavor.PCRE, ir.Boundary{Kind: ir.BoundaryNotWord}))
}

func TestAlternationWrapsOnlyWhenNested(t *testing.T) {
	top := ir.Alt{Branches: []ir.Node{ir.Literal{Text: []rune("a")}, ir.Literal{Text: []rune("b")}}}
	assert.Equal(t, "a|b", emit(t, flavor.PCRE, top))

	one := uint32(1)
	underRepeat := ir.Repeat{Child: top, Lower: 0, Upper: &one}
	assert.Equal(t, "(?:a|b)?", emit(t, flavor.PCRE, underRepeat))
}

func TestLiteralEscapesMetacharacters(t *testing.T) {
	assert.Equal(t, `\.\+\*`, emit(t, flavor.PCRE, ir.Literal{Text: []rune(".+*")}))
}

func TestLiteralEscapesControlBytes(t *testing.T) {
	assert.Equal(t, `\n\t`, emit(t, flavor.PCRE, ir.Literal{Text: []rune("\n\t")}))
}

func TestLiteralEscapesNonASCIIWithNarrowestPCREForm(t *testing.T) {
	assert.Equal(t, `\x{1f600}`, emit(t, flavor.PCRE, ir.Literal{Text: []rune{0x1F600}}))
}

func TestLiteralEscapesLatin1RangeAsHexByte(t *testing.T) {
	assert.Equal(t, `\xe9`, emit(t, flavor.PCRE, ir.Literal{Text: []rune{0xE9}}))
}

func TestLiteralEscapesBMPWithUnicodeEscapeOnJavaScript(t *testing.T) {
	want := "\\u1234"
	assert.Equal(t, want, emit(t, flavor.JavaScript, ir.Literal{Text: []rune{0x1234}}))
}

func TestLiteralEscapesBMPWithBraceFormOnPCRE(t *testing.T) {
	assert.Equal(t, `\x{1234}`, emit(t, flavor.PCRE, ir.Literal{Text: []rune{0x1234}}))
}

func TestGroupNumberingIncrementsAcrossCapturingGroups(t *testing.T) {
	root := ir.Concat{Children: []ir.Node{
		ir.Group{Child: ir.Literal{Text: []rune("a")}, Kind: ir.GroupCapturing, Number: 1},
		ir.Group{Child: ir.Literal{Text: []rune("b")}, Kind: ir.GroupCapturing, Number: 2, Name: "second"},
	}}
	assert.Equal(t, "(a)(?P<second>b)", emit(t, flavor.PCRE, root))
}

func TestNamedBackrefSpellingPerFlavor(t *testing.T) {
	node := ir.Backref{Kind: ir.BackrefName, Name: "foo"}
	assert.Equal(t, `\k<foo>`, emit(t, flavor.PCRE, node))
	assert.Equal(t, `(?P=foo)`, emit(t, flavor.Python, node))
}

func TestNumberedBackref(t *testing.T) {
	node := ir.Backref{Kind: ir.BackrefNumber, Number: 2}
	assert.Equal(t, `\2`, emit(t, flavor.PCRE, node))
}

func TestSinglePropertyTokenEmitsBareEscape(t *testing.T) {
	node := ir.Class{Tokens: []ir.ClassToken{{Kind: "category", Name: "Lu"}}}
	assert.Equal(t, `\p{Lu}`, emit(t, flavor.PCRE, node))

	neg := ir.Class{Tokens: []ir.ClassToken{{Kind: "category", Name: "Lu"}}, Negated: true}
	assert.Equal(t, `\P{Lu}`, emit(t, flavor.PCRE, neg))
}

func TestCardinalityOneClassCollapsesToLiteral(t *testing.T) {
	node := ir.Class{Intervals: []ir.Interval{{Lo: 'a', Hi: 'a'}}}
	assert.Equal(t, "a", emit(t, flavor.PCRE, node))
}

func TestCardinalityOneClassEscapesMetacharacter(t *testing.T) {
	node := ir.Class{Intervals: []ir.Interval{{Lo: '.', Hi: '.'}}}
	assert.Equal(t, `\.`, emit(t, flavor.PCRE, node))
}

func TestNegatedCardinalityOneClassDoesNotCollapse(t *testing.T) {
	node := ir.Class{Intervals: []ir.Interval{{Lo: 'a', Hi: 'a'}}, Negated: true}
	assert.Equal(t, "[^a]", emit(t, flavor.PCRE, node))
}

// TestTwoCharIntervalSpellsBothChars: `ab` is one byte shorter than `a-b`
// and reads better, so a two-character interval never uses the dash form.
func TestTwoCharIntervalSpellsBothChars(t *testing.T) {
	node := ir.Class{Intervals: []ir.Interval{{Lo: 'a', Hi: 'b'}, {Lo: 'x', Hi: 'z'}}}
	assert.Equal(t, "[abx-z]", emit(t, flavor.PCRE, node))
}
