package groups_test

import (
	"testing"

	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/internal/groups"
	"github.com/patterncomp/patterncomp/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOrFail(t *testing.T, source string) ast.Node {
	t.Helper()
	node, _, err := parser.Parse(source, 0)
	require.NoError(t, err)
	return node
}

func TestCollectNumbersGroupsInSourceOrder(t *testing.T) {
	root := parseOrFail(t, `:first('a') :second('b') :('c')`)
	info, err := groups.Collect(root)
	require.NoError(t, err)
	require.Len(t, info.Groups, 3)
	assert.Equal(t, 1, info.Groups[0].Number)
	assert.Equal(t, "first", info.Groups[0].Name)
	assert.Equal(t, 2, info.Groups[1].Number)
	assert.Equal(t, "second", info.Groups[1].Name)
	assert.Equal(t, 3, info.Groups[2].Number)
	assert.Equal(t, "", info.Groups[2].Name)
}

func TestCollectIndexesNamesByNumber(t *testing.T) {
	root := parseOrFail(t, `:foo('a') :bar('b')`)
	info, err := groups.Collect(root)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Names["foo"])
	assert.Equal(t, 2, info.Names["bar"])
}

func TestCollectRejectsDuplicateGroupName(t *testing.T) {
	root := parseOrFail(t, `:dup('a') :dup('b')`)
	_, err := groups.Collect(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "G0002")
}

func TestCollectRejectsCaptureInsideLetBody(t *testing.T) {
	root := parseOrFail(t, `let x = :name('a'); x`)
	_, err := groups.Collect(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "G0001")
}

func TestCollectRejectsReferenceInsideLetBody(t *testing.T) {
	root := parseOrFail(t, `:name('a') (let x = ::name; x)`)
	_, err := groups.Collect(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "G0003")
}

func TestCollectAcceptsNonCyclicVariableChain(t *testing.T) {
	root := parseOrFail(t, `let a = 'x'; let b = a; b`)
	_, err := groups.Collect(root)
	require.NoError(t, err)
}

// Variable resolution itself (including cycle detection under shadowing)
// is internal/compiler's job, not groups.Collect's; see
// internal/compiler/compiler_test.go for the cycle and shadowing cases.
