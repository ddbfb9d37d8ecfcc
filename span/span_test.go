package span_test

import (
	"testing"

	"github.com/patterncomp/patterncomp/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBackwardsRange(t *testing.T) {
	assert.Panics(t, func() { span.New(5, 2) })
}

func TestNewAcceptsHalfOpenRange(t *testing.T) {
	s := span.New(2, 5)
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Empty())
}

func TestEmptySentinel(t *testing.T) {
	assert.True(t, span.Span{}.Empty())
	assert.Equal(t, 0, span.Span{}.Len())
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		a, b span.Span
		want span.Span
	}{
		{"disjoint", span.New(0, 2), span.New(5, 8), span.Span{Start: 0, End: 8}},
		{"overlapping", span.New(0, 5), span.New(3, 8), span.Span{Start: 0, End: 8}},
		{"a empty", span.Span{}, span.New(3, 8), span.New(3, 8)},
		{"b empty", span.New(3, 8), span.Span{}, span.New(3, 8)},
		{"both empty", span.Span{}, span.Span{}, span.Span{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, span.Join(tt.a, tt.b))
		})
	}
}

func TestSlice(t *testing.T) {
	source := "hello world"
	assert.Equal(t, "hello", span.New(0, 5).Slice(source))
	assert.Equal(t, "world", span.New(6, 11).Slice(source))
	assert.Equal(t, "", span.Span{Start: 0, End: 100}.Slice(source))
	assert.Equal(t, "", span.Span{Start: -1, End: 3}.Slice(source))
}

func TestString(t *testing.T) {
	assert.Equal(t, "2..5", span.New(2, 5).String())
}
