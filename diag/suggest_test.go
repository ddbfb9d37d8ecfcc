package diag_test

import (
	"testing"

	"github.com/patterncomp/patterncomp/diag"
	"github.com/stretchr/testify/assert"
)

func TestSuggestClosestMatch(t *testing.T) {
	got := diag.Suggest("nam", []string{"name", "number", "grapheme"})
	assert.Equal(t, "name", got)
}

func TestSuggestEmptyCandidates(t *testing.T) {
	assert.Equal(t, "", diag.Suggest("anything", nil))
}

func TestDidYouMeanFormatsHelpText(t *testing.T) {
	got := diag.DidYouMean("nam", []string{"name"})
	assert.Equal(t, "did you mean `name`?", got)
}

func TestDidYouMeanEmptyWhenNoCandidates(t *testing.T) {
	assert.Equal(t, "", diag.DidYouMean("nam", nil))
}
