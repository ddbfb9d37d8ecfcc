package flavor_test

import (
	"encoding/json"
	"testing"

	"github.com/patterncomp/patterncomp/flavor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRoundTripsThroughParse(t *testing.T) {
	for _, f := range flavor.All() {
		parsed, err := flavor.Parse(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
}

func TestParseUnknownFlavor(t *testing.T) {
	_, err := flavor.Parse("not-a-flavor")
	assert.Error(t, err)
}

func TestAllHasEightFlavors(t *testing.T) {
	assert.Len(t, flavor.All(), 8)
}

func TestJSONMarshalUnmarshal(t *testing.T) {
	type wrapper struct {
		Flavor flavor.Flavor `json:"flavor"`
	}
	b, err := json.Marshal(wrapper{Flavor: flavor.Rust})
	require.NoError(t, err)
	assert.JSONEq(t, `{"flavor":"rust"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"flavor":"python"}`), &w))
	assert.Equal(t, flavor.Python, w.Flavor)
}

func TestUnmarshalUnknownFlavorErrors(t *testing.T) {
	var f flavor.Flavor
	err := f.UnmarshalText([]byte("klingon"))
	assert.Error(t, err)
}

func TestSupportsDefaultsToSupportedWhenAbsentFromMatrix(t *testing.T) {
	// FeatureDot has no row in features.go's matrix, so every flavor must
	// report Supported for it.
	assert.Equal(t, flavor.Supported, flavor.Supports(flavor.FeatureDot, flavor.PCRE))
}

func TestSupportsRustBackreferencesUnsupported(t *testing.T) {
	assert.Equal(t, flavor.Unsupported, flavor.Supports(flavor.FeatureBackreferences, flavor.Rust))
}

func TestSupportsRE2BackreferencesUnsupported(t *testing.T) {
	assert.Equal(t, flavor.Unsupported, flavor.Supports(flavor.FeatureBackreferences, flavor.RE2))
}

func TestSupportsPCREBackreferencesSupported(t *testing.T) {
	assert.Equal(t, flavor.Supported, flavor.Supports(flavor.FeatureBackreferences, flavor.PCRE))
}

func TestAllFeaturesNonEmpty(t *testing.T) {
	assert.NotEmpty(t, flavor.AllFeatures())
}
