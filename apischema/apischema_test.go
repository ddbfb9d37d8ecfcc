package apischema_test

import (
	"testing"

	"github.com/patterncomp/patterncomp/apischema"
	"github.com/stretchr/testify/assert"
)

func TestValidateOptionsAcceptsMinimalValidDocument(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{"flavor":"pcre"}`))
	assert.NoError(t, err)
}

func TestValidateOptionsAcceptsFullDocument(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{
		"flavor": "rust",
		"max_range_size": 1000,
		"allowed_features": {"lookahead": "supported"},
		"suppress": ["compat", "deprecated"],
		"recursion_limit": 256
	}`))
	assert.NoError(t, err)
}

func TestValidateOptionsRejectsUnknownFlavor(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{"flavor":"regexp2000"}`))
	assert.Error(t, err)
}

func TestValidateOptionsRejectsMissingFlavor(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{"max_range_size": 10}`))
	assert.Error(t, err)
}

func TestValidateOptionsRejectsUnknownProperty(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{"flavor":"pcre","bogus_field":true}`))
	assert.Error(t, err)
}

func TestValidateOptionsRejectsInvalidJSON(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{not json`))
	assert.Error(t, err)
}

func TestValidateOptionsRejectsOutOfRangeMaxRangeSize(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{"flavor":"pcre","max_range_size":0}`))
	assert.Error(t, err)
}

func TestValidateOptionsRejectsDuplicateSuppressEntries(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{"flavor":"pcre","suppress":["compat","compat"]}`))
	assert.Error(t, err)
}

func TestValidateOptionsRejectsUnsuppressibleKind(t *testing.T) {
	err := apischema.ValidateOptions([]byte(`{"flavor":"pcre","suppress":["syntax"]}`))
	assert.Error(t, err)
}
