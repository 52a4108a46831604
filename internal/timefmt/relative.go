package timefmt

import (
	"fmt"
	"time"
)

// Unit sizes are in seconds. Counting in int64 seconds keeps instants more
// than 292 years apart out of time.Duration's saturation.
var relativeUnits = []struct {
	seconds int64
	suffix  string
}{
	{7 * 24 * 3600, "w"},
	{24 * 3600, "d"},
	{3600, "h"},
	{60, "m"},
}

// Relative phrases the distance from now back to instant, e.g. "2h ago",
// "in 3d" or "just now". Counts are truncated toward zero.
func Relative(instant, now time.Time) string {
	delta := now.Unix() - instant.Unix()
	// Sub-second parts only matter when they carry the distance across a
	// whole second boundary.
	if ns := int64(now.Nanosecond()) - int64(instant.Nanosecond()); ns < 0 && delta > 0 {
		delta--
	} else if ns > 0 && delta < 0 {
		delta++
	}
	future := delta < 0
	if future {
		delta = -delta
	}
	for _, u := range relativeUnits {
		if delta < u.seconds {
			continue
		}
		n := delta / u.seconds
		if future {
			return fmt.Sprintf("in %d%s", n, u.suffix)
		}
		return fmt.Sprintf("%d%s ago", n, u.suffix)
	}
	return "just now"
}
