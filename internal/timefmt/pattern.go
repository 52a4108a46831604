package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// tokenFunc renders one pattern token for t. abbr is the zone abbreviation
// to use, which may be empty.
type tokenFunc func(t time.Time, abbr string) string

// tokens is the fixed strftime-style table understood in custom patterns.
var tokens = map[byte]tokenFunc{
	'Y': func(t time.Time, _ string) string { return fmt.Sprintf("%04d", t.Year()) },
	'y': func(t time.Time, _ string) string { return fmt.Sprintf("%02d", t.Year()%100) },
	'm': func(t time.Time, _ string) string { return fmt.Sprintf("%02d", int(t.Month())) },
	'd': func(t time.Time, _ string) string { return fmt.Sprintf("%02d", t.Day()) },
	'e': func(t time.Time, _ string) string { return fmt.Sprintf("%2d", t.Day()) },
	'H': func(t time.Time, _ string) string { return fmt.Sprintf("%02d", t.Hour()) },
	'I': func(t time.Time, _ string) string { return t.Format("03") },
	'p': func(t time.Time, _ string) string { return t.Format("PM") },
	'M': func(t time.Time, _ string) string { return fmt.Sprintf("%02d", t.Minute()) },
	'S': func(t time.Time, _ string) string { return fmt.Sprintf("%02d", t.Second()) },
	'f': func(t time.Time, _ string) string { return fmt.Sprintf("%06d", t.Nanosecond()/1000) },
	'j': func(t time.Time, _ string) string { return fmt.Sprintf("%03d", t.YearDay()) },
	'a': func(t time.Time, _ string) string { return t.Format("Mon") },
	'A': func(t time.Time, _ string) string { return t.Weekday().String() },
	'b': func(t time.Time, _ string) string { return t.Format("Jan") },
	'B': func(t time.Time, _ string) string { return t.Month().String() },
	'z': func(t time.Time, _ string) string { return t.Format("-0700") },
	'Z': func(t time.Time, abbr string) string {
		if abbr != "" {
			return abbr
		}
		return t.Format("-07:00")
	},
}

// HasRecognizedToken reports whether pattern contains at least one token
// from the table. A literal "%%" does not count.
func HasRecognizedToken(pattern string) bool {
	for i := 0; i < len(pattern)-1; i++ {
		if pattern[i] != '%' {
			continue
		}
		next := pattern[i+1]
		if next == '%' {
			i++
			continue
		}
		if _, ok := tokens[next]; ok {
			return true
		}
	}
	return false
}

// applyPattern expands tokens in pattern against t. Unrecognized tokens and
// a trailing lone '%' are copied through literally.
func applyPattern(pattern string, t time.Time, abbr string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 16)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i == len(pattern)-1 {
			b.WriteByte(c)
			continue
		}
		next := pattern[i+1]
		switch fn, ok := tokens[next]; {
		case next == '%':
			b.WriteByte('%')
		case ok:
			b.WriteString(fn(t, abbr))
		default:
			b.WriteByte('%')
			b.WriteByte(next)
		}
		i++
	}
	return b.String()
}
