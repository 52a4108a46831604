package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// StoredLayout is the canonical form instants are persisted in.
const StoredLayout = "2006-01-02T15:04:05+00:00"

// Offset-bearing ISO-8601 layouts accepted on input. Every layout requires a
// zone designator, so naive timestamps never parse.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
}

// ParseInstant parses an ISO-8601 timestamp with an explicit UTC offset.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrInvalidInstant)
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an offset-bearing ISO-8601 timestamp", ErrInvalidInstant, s)
}

// FormatInstant renders t in the canonical stored form.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(StoredLayout)
}
