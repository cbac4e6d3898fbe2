package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/segstat/internal/model"
)

func TestParseKeyRoundTrip(t *testing.T) {
	for _, raw := range []string{"ehlogin", "ellogin", "pcountry:FI", "purl:http://a:b"} {
		k, err := ParseKey(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, k.String())
	}

	k, err := ParseKey("purl:http://a:b")
	require.NoError(t, err)
	assert.Equal(t, "url", k.Name)
	assert.Equal(t, "http://a:b", k.Value)
}

func TestParseKeyRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "e", "exlogin", "pcountry", "xfoo"} {
		_, err := ParseKey(raw)
		assert.Error(t, err, raw)
	}
}

func TestEventClassCutoff(t *testing.T) {
	assert.Equal(t, model.ClassLow, EventClass([]model.HourCount{{Hour: 1, Count: 1}, {Hour: 2, Count: 2}}, 4))
	assert.Equal(t, model.ClassHigh, EventClass([]model.HourCount{{Hour: 1, Count: 3}, {Hour: 2, Count: 1}}, 4))
	assert.Equal(t, model.ClassLow, EventClass(nil, 4))
}

func TestBuildSkipsMissingUID(t *testing.T) {
	profiles := []model.Profile{
		{UID: "u1", Events: map[string][]model.HourCount{"login": {{Hour: 1, Count: 5}}}},
		{UID: "  ", Events: map[string][]model.HourCount{"login": {{Hour: 1, Count: 1}}}},
		{UID: "u2", Events: map[string][]model.HourCount{"login": {{Hour: 1, Count: 1}}}},
	}
	res := Build(profiles, model.DefaultFeatureConfig())
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, res.Index.Universe(), 2)
	assert.True(t, res.Index.Holders(model.EventKey(model.ClassHigh, "login")).Has("u1"))
	assert.True(t, res.Index.Holders(model.EventKey(model.ClassLow, "login")).Has("u2"))
}

func TestBuildTruncatesAndDeduplicatesPropertyValues(t *testing.T) {
	profiles := []model.Profile{{
		UID: "u1",
		Properties: map[string][]string{
			"agent": {"abcdef", "abcdxx", "zz"},
		},
	}}
	res := Build(profiles, model.FeatureConfig{Cutoff: 4, MaxValueLen: 4})
	keys := res.Index.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, "pagent:abcd", keys[0].String())
	assert.Equal(t, "pagent:zz", keys[1].String())
}

func TestIndexNeverStoresEmptySets(t *testing.T) {
	ix := NewIndex()
	assert.Nil(t, ix.Holders(model.PropertyKey("a", "b")))
	assert.Equal(t, 0, ix.Len())
	ix.Add(model.PropertyKey("a", "b"), "u1")
	for _, k := range ix.Keys() {
		assert.NotEmpty(t, ix.Holders(k))
	}
	assert.Equal(t, 1, ix.CountIn(model.PropertyKey("a", "b"), model.NewUserSet("u1", "u9")))
}
