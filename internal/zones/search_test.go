package zones

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identifiers(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Zone.Identifier
	}
	return out
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := testCatalog(t)
	assert.Empty(t, Search("", c, 10))
	assert.Empty(t, Search("   \t", c, 10))
	assert.Empty(t, Search("dhaka", nil, 10))
}

func TestSearch_PrefixScenario(t *testing.T) {
	c := testCatalog(t)

	results := Search("dha", c, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "Asia/Dhaka", results[0].Zone.Identifier)
	assert.Equal(t, RankPrefix, results[0].Rank)
	assert.Equal(t, "Dhaka, Asia — GMT+6", results[0].Zone.Display())
}

func TestSearch_CityIsExactFirst(t *testing.T) {
	c := testCatalog(t)
	for _, e := range c.Entries() {
		results := Search(e.City, c, 0)
		require.NotEmpty(t, results, e.City)
		assert.Equal(t, e.Identifier, results[0].Zone.Identifier)
		assert.Equal(t, RankExact, results[0].Rank)
	}
}

func TestSearch_HostCityIsExactFirst(t *testing.T) {
	c, err := Build()
	if err != nil {
		t.Skipf("no host zone data: %v", err)
	}
	for _, e := range c.Entries() {
		results := Search(e.City, c, 0)
		require.NotEmpty(t, results, e.City)
		assert.Equal(t, e.Identifier, results[0].Zone.Identifier, "search %q", e.City)
		assert.Equal(t, RankExact, results[0].Rank, "search %q", e.City)
	}
}

func TestSearch_NormalizesQuery(t *testing.T) {
	c := testCatalog(t)
	results := Search("  NEW york ", c, 0)
	require.Len(t, results, 1)
	assert.Equal(t, RankExact, results[0].Rank)
}

func TestSearch_RankOrdering(t *testing.T) {
	c, err := NewCatalog([]ZoneEntry{
		{Identifier: "Test/Paris", City: "Paris", Region: "Test"},
		{Identifier: "Test/Parisville", City: "Parisville", Region: "Test"},
		{Identifier: "Test/Old_Paris", City: "Old Paris", Region: "Test"},
		{Identifier: "Paris/Central", City: "Central", Region: "Paris"},
		{Identifier: "Test/Lyon", City: "Lyon", Region: "Test"},
	})
	require.NoError(t, err)

	results := Search("paris", c, 0)
	assert.Equal(t, []string{"Test/Paris", "Test/Parisville", "Paris/Central", "Test/Old_Paris"}, identifiers(results))
	assert.Equal(t, []MatchRank{RankExact, RankPrefix, RankSubstring, RankSubstring},
		[]MatchRank{results[0].Rank, results[1].Rank, results[2].Rank, results[3].Rank})
}

func TestSearch_IdentifierBreaksCityTies(t *testing.T) {
	c, err := NewCatalog([]ZoneEntry{
		{Identifier: "B/Springfield", City: "Springfield", Region: "B"},
		{Identifier: "A/Springfield", City: "Springfield", Region: "A"},
	})
	require.NoError(t, err)

	results := Search("springfield", c, 0)
	assert.Equal(t, []string{"A/Springfield", "B/Springfield"}, identifiers(results))
}

func TestSearch_RegionMatchesAreSubstring(t *testing.T) {
	c := testCatalog(t)
	results := Search("asia", c, 0)
	assert.Equal(t, []string{"Asia/Dhaka", "Asia/Kolkata"}, identifiers(results))
	for _, r := range results {
		assert.Equal(t, RankSubstring, r.Rank)
	}
}

func TestSearch_Limit(t *testing.T) {
	c := testCatalog(t)
	assert.Len(t, Search("a", c, 2), 2)
	assert.Len(t, c.Search("a", 0), len(Search("a", c, -1)))
}

func TestSearch_Deterministic(t *testing.T) {
	c := testCatalog(t)
	for _, q := range []string{"a", "o", "pacific", "new"} {
		assert.Equal(t, Search(q, c, 0), Search(q, c, 0), q)
	}
}

func TestMatchRank_String(t *testing.T) {
	assert.Equal(t, "exact", RankExact.String())
	assert.Equal(t, "prefix", RankPrefix.String())
	assert.Equal(t, "substring", RankSubstring.String())
	assert.Equal(t, "unknown", MatchRank(9).String())
}

func TestSuggestions(t *testing.T) {
	c := testCatalog(t)

	got := Suggestions(c, 0)
	require.Len(t, got, c.Len())
	// Popular zones come first in curated order.
	assert.Equal(t, "Europe/London", got[0].Identifier)
	assert.Equal(t, "America/New_York", got[1].Identifier)
	assert.Equal(t, "Asia/Kolkata", got[2].Identifier)
	assert.Equal(t, "Asia/Dhaka", got[3].Identifier)

	assert.Len(t, Suggestions(c, 2), 2)
	assert.Nil(t, Suggestions(nil, 5))
	assert.NotNil(t, GetPopularZone("Asia/Tokyo"))
	assert.Nil(t, GetPopularZone("Mars/Base"))
}
