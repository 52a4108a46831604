package zones

import (
	"sort"
	"strings"
)

// MatchRank orders search hits; lower ranks sort first.
type MatchRank int

const (
	RankExact MatchRank = iota
	RankPrefix
	RankSubstring
)

func (r MatchRank) String() string {
	switch r {
	case RankExact:
		return "exact"
	case RankPrefix:
		return "prefix"
	case RankSubstring:
		return "substring"
	default:
		return "unknown"
	}
}

// SearchResult pairs a zone with how it matched the query.
type SearchResult struct {
	Zone ZoneEntry
	Rank MatchRank
}

// Search matches query against every zone's city (primary) and region
// (secondary). Results are ordered by rank, then city, then identifier, and
// truncated to limit when limit > 0. An empty query yields no results.
func Search(query string, c *Catalog, limit int) []SearchResult {
	q := normalize(query)
	if q == "" || c == nil {
		return nil
	}

	var results []SearchResult
	for _, e := range c.entries {
		if rank, ok := match(q, e); ok {
			results = append(results, SearchResult{Zone: e, Rank: rank})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		ac, bc := normalize(a.Zone.City), normalize(b.Zone.City)
		if ac != bc {
			return ac < bc
		}
		if a.Zone.City != b.Zone.City {
			return a.Zone.City < b.Zone.City
		}
		return a.Zone.Identifier < b.Zone.Identifier
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Search is shorthand for Search(query, c, limit).
func (c *Catalog) Search(query string, limit int) []SearchResult {
	return Search(query, c, limit)
}

func match(q string, e ZoneEntry) (MatchRank, bool) {
	city := normalize(e.City)
	switch {
	case city == q:
		return RankExact, true
	case strings.HasPrefix(city, q):
		return RankPrefix, true
	case strings.Contains(city, q), strings.Contains(normalize(e.Region), q):
		return RankSubstring, true
	}
	return 0, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
