package zones

// PopularZone is a frequently picked zone shown before any query is typed.
type PopularZone struct {
	Identifier  string // IANA name like "America/New_York"
	Label       string // Short label like "US/Eastern"
	Description string
}

// PopularZones are listed first in the picker, in this order.
var PopularZones = []PopularZone{
	{Identifier: "Etc/UTC", Label: "UTC", Description: "Coordinated Universal Time"},
	{Identifier: "Europe/London", Label: "UK", Description: "UK Time (London)"},
	{Identifier: "America/New_York", Label: "US/Eastern", Description: "US Eastern Time (New York)"},
	{Identifier: "America/Chicago", Label: "US/Central", Description: "US Central Time (Chicago)"},
	{Identifier: "America/Denver", Label: "US/Mountain", Description: "US Mountain Time (Denver)"},
	{Identifier: "America/Los_Angeles", Label: "US/Pacific", Description: "US Pacific Time (Los Angeles)"},
	{Identifier: "Europe/Paris", Label: "Central Europe", Description: "Central European Time (Paris, Berlin)"},
	{Identifier: "Asia/Dubai", Label: "UAE", Description: "Gulf Time (Dubai, Abu Dhabi)"},
	{Identifier: "Asia/Kolkata", Label: "India", Description: "India Time (Mumbai, Delhi)"},
	{Identifier: "Asia/Dhaka", Label: "Bangladesh", Description: "Bangladesh Time (Dhaka)"},
	{Identifier: "Asia/Singapore", Label: "Singapore", Description: "Singapore Time"},
	{Identifier: "Asia/Shanghai", Label: "China", Description: "China Time (Shanghai, Beijing)"},
	{Identifier: "Asia/Tokyo", Label: "Japan", Description: "Japan Time (Tokyo)"},
	{Identifier: "Australia/Sydney", Label: "Australia/Sydney", Description: "Australian Eastern Time (Sydney)"},
	{Identifier: "Pacific/Auckland", Label: "New Zealand", Description: "New Zealand (Auckland, Wellington)"},
}

// GetPopularZone returns the curated entry for identifier, or nil.
func GetPopularZone(identifier string) *PopularZone {
	for i := range PopularZones {
		if PopularZones[i].Identifier == identifier {
			return &PopularZones[i]
		}
	}
	return nil
}

// Suggestions returns the popular zones present in c followed by the rest of
// the catalog, capped at limit when limit > 0.
func Suggestions(c *Catalog, limit int) []ZoneEntry {
	if c == nil {
		return nil
	}
	out := make([]ZoneEntry, 0, len(PopularZones))
	picked := make(map[string]bool, len(PopularZones))
	for _, p := range PopularZones {
		if e, err := c.Lookup(p.Identifier); err == nil {
			out = append(out, e)
			picked[e.Identifier] = true
		}
	}
	for _, e := range c.entries {
		if limit > 0 && len(out) >= limit {
			break
		}
		if !picked[e.Identifier] {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
