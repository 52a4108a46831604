package timefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ishaan812/spendlog/internal/zones"
)

const localLayout = "2006-01-02 15:04:05 -07:00"

// Formatter renders stored instants according to a Preferences value. It
// holds no mutable state and is safe for concurrent use.
type Formatter struct {
	catalog *zones.Catalog
	local   *time.Location
	log     zerolog.Logger
}

type Option func(*Formatter)

// WithLocal sets the zone used when Preferences name no zone.
func WithLocal(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.local = loc
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(f *Formatter) { f.log = log }
}

// NewFormatter returns a Formatter resolving named zones through catalog.
// catalog may be nil, in which case only UTC and host-local rendering work.
func NewFormatter(catalog *zones.Catalog, opts ...Option) *Formatter {
	f := &Formatter{
		catalog: catalog,
		local:   time.Local,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result is one element of a FormatAll batch.
type Result struct {
	Value string
	Err   error
}

// Format renders instant per prefs. now is only parsed when prefs asks for a
// relative phrase.
func (f *Formatter) Format(instant string, prefs Preferences, now string) (string, error) {
	t, err := ParseInstant(instant)
	if err != nil {
		return "", err
	}
	var current time.Time
	if prefs.ShowRelative {
		current, err = ParseInstant(now)
		if err != nil {
			return "", fmt.Errorf("now: %w", err)
		}
	}
	return f.FormatTime(t, prefs, current)
}

// FormatTime is Format for already parsed values.
func (f *Formatter) FormatTime(t time.Time, prefs Preferences, now time.Time) (string, error) {
	if err := prefs.Validate(); err != nil {
		return "", err
	}

	var out string
	switch prefs.Mode {
	case ModeUTC:
		out = FormatInstant(t)
	case ModeLocal:
		loc, abbr, err := f.resolve(prefs.ZoneIdentifier)
		if err != nil {
			return "", err
		}
		local := t.In(loc)
		out = local.Format(localLayout)
		if abbr == "" {
			abbr = hostAbbreviation(local)
		}
		if abbr != "" {
			out += " " + abbr
		}
	case ModeCustom:
		loc, abbr, err := f.resolve(prefs.ZoneIdentifier)
		if err != nil {
			return "", err
		}
		local := t.In(loc)
		if abbr == "" {
			abbr = hostAbbreviation(local)
		}
		out = applyPattern(prefs.CustomPattern, local, abbr)
	default:
		return "", fmt.Errorf("%w: unknown timestamp mode %d", ErrInvalidPreference, int(prefs.Mode))
	}

	if prefs.ShowRelative {
		out += " (" + Relative(t, now) + ")"
	}
	return out, nil
}

// FormatAll formats every instant independently; one bad value does not stop
// the batch.
func (f *Formatter) FormatAll(instants []string, prefs Preferences, now string) []Result {
	results := make([]Result, len(instants))
	for i, s := range instants {
		v, err := f.Format(s, prefs, now)
		if err != nil {
			f.log.Debug().Err(err).Str("instant", s).Msg("format failed")
		}
		results[i] = Result{Value: v, Err: err}
	}
	return results
}

// Location returns the zone prefs render into. UTC mode always yields time.UTC.
func (f *Formatter) Location(prefs Preferences) (*time.Location, error) {
	if prefs.Mode == ModeUTC {
		return time.UTC, nil
	}
	loc, _, err := f.resolve(prefs.ZoneIdentifier)
	return loc, err
}

func (f *Formatter) resolve(id string) (*time.Location, string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return f.local, "", nil
	}
	if f.catalog == nil {
		return nil, "", fmt.Errorf("resolve zone %q: %w", id, zones.ErrCatalogUnavailable)
	}
	entry, err := f.catalog.Lookup(id)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %q: %w", ErrUnknownZone, id, err)
	}
	return entry.Location(), entry.Abbreviation, nil
}

// hostAbbreviation returns t's zone name when it is alphabetic. Hosts often
// report numeric names such as "+06" which add nothing to the offset.
func hostAbbreviation(t time.Time) string {
	name, _ := t.Zone()
	return zones.AlphabeticAbbreviation(name)
}
