package charclass_test

import (
	"testing"

	"github.com/patterncomp/patterncomp/internal/charclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRangeCoalescesOverlaps(t *testing.T) {
	s := charclass.NewSet()
	s.AddRange('a', 'f')
	s.AddRange('d', 'z')
	cls := s.ToIR()
	require.Len(t, cls.Intervals, 1)
	assert.Equal(t, 'a', cls.Intervals[0].Lo)
	assert.Equal(t, 'z', cls.Intervals[0].Hi)
}

func TestAddRangeKeepsDisjointIntervalsSeparate(t *testing.T) {
	s := charclass.NewSet()
	s.AddChar('a')
	s.AddChar('z')
	cls := s.ToIR()
	assert.Len(t, cls.Intervals, 2)
}

func TestNegateIsInvolution(t *testing.T) {
	s := charclass.NewSet()
	s.AddRange('a', 'z')
	s.Negate()
	s.Negate()
	cls := s.ToIR()
	require.Len(t, cls.Intervals, 1)
	assert.Equal(t, 'a', cls.Intervals[0].Lo)
	assert.Equal(t, 'z', cls.Intervals[0].Hi)
	assert.False(t, cls.Negated)
}

func TestUnionCombinesMembers(t *testing.T) {
	a := charclass.NewSet()
	a.AddRange('a', 'c')
	b := charclass.NewSet()
	b.AddRange('x', 'z')
	a.Union(b)
	cls := a.ToIR()
	assert.Len(t, cls.Intervals, 2)
}

func TestIntersectKeepsOnlyOverlap(t *testing.T) {
	a := charclass.NewSet()
	a.AddRange('a', 'm')
	b := charclass.NewSet()
	b.AddRange('g', 'z')
	a.Intersect(b)
	cls := a.ToIR()
	require.Len(t, cls.Intervals, 1)
	assert.Equal(t, 'g', cls.Intervals[0].Lo)
	assert.Equal(t, 'm', cls.Intervals[0].Hi)
}

func TestIntersectOfDisjointSetsIsEmpty(t *testing.T) {
	a := charclass.NewSet()
	a.AddRange('a', 'c')
	b := charclass.NewSet()
	b.AddRange('x', 'z')
	a.Intersect(b)
	cls := a.ToIR()
	assert.Empty(t, cls.Intervals)
}

// TestIntersectMaterializesPendingNegationOnBothOperands guards a fix where
// Intersect ignored a pending Negate() on either operand and intersected the
// raw (un-complemented) interval lists instead.
func TestIntersectMaterializesPendingNegationOnBothOperands(t *testing.T) {
	a := charclass.NewSet()
	a.AddRange('a', 'z')
	a.Negate() // everything except a-z

	b := charclass.NewSet()
	b.AddRange('c', 'e')
	b.AddRange('x', 'z')
	b.Negate() // everything except c-e, x-z

	a.Intersect(b) // (not a-z) ∩ (not c-e, x-z) == not(a-z ∪ c-e ∪ x-z) == not a-z, since c-e,x-z ⊂ a-z
	cls := a.ToIR()
	require.False(t, cls.Negated)
	require.Len(t, cls.Intervals, 2)
	assert.Equal(t, rune(0), cls.Intervals[0].Lo)
	assert.Equal(t, rune('a'-1), cls.Intervals[0].Hi)
	assert.Equal(t, rune('z'+1), cls.Intervals[1].Lo)
}

func TestShorthandRangeTableKnownNames(t *testing.T) {
	_, ok := charclass.ShorthandRangeTable("digit")
	assert.True(t, ok)
	_, ok = charclass.ShorthandRangeTable("not-a-shorthand")
	assert.False(t, ok)
}

func TestPosixRangeTableKnownNames(t *testing.T) {
	_, ok := charclass.PosixRangeTable("alpha")
	assert.True(t, ok)
	_, ok = charclass.PosixRangeTable("not-a-posix-class")
	assert.False(t, ok)
}

func TestAsciiGroupNamesIncludesKnownGroups(t *testing.T) {
	names := charclass.AsciiGroupNames()
	assert.Contains(t, names, "ascii_alpha")
	assert.Contains(t, names, "ascii_word")
	assert.Contains(t, names, "ascii")
}
