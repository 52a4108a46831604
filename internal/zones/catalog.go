package zones

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
)

var (
	// ErrCatalogUnavailable is returned when the host has no usable zone data.
	ErrCatalogUnavailable = errors.New("zone catalog unavailable")
	// ErrZoneNotFound is returned by Lookup for identifiers missing from the catalog.
	ErrZoneNotFound = errors.New("zone not found")
)

const (
	minOffsetMinutes = -12 * 60
	maxOffsetMinutes = 14 * 60
)

// ZoneEntry is one time zone of the catalog. BaseOffsetMinutes is frozen at
// catalog-build time and reused for every conversion during the run.
type ZoneEntry struct {
	Identifier        string
	City              string
	Region            string
	Abbreviation      string
	BaseOffsetMinutes int
}

// Catalog is an immutable, ordered set of zones. It is safe for concurrent reads.
type Catalog struct {
	entries []ZoneEntry
	index   map[string]int
	builtAt time.Time
}

type options struct {
	roots     []string
	reference time.Time
	logger    zerolog.Logger
}

// Option configures catalog construction.
type Option func(*options)

// WithRoots overrides the zoneinfo directories walked by Build.
func WithRoots(roots ...string) Option {
	return func(o *options) { o.roots = roots }
}

// WithReferenceTime sets the instant at which zone offsets are frozen.
func WithReferenceTime(t time.Time) Option {
	return func(o *options) { o.reference = t }
}

// WithLogger attaches a logger used for skipped zones and build stats.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{
		roots:  DefaultRoots(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reference.IsZero() {
		o.reference = time.Now()
	}
	return o
}

// Build walks the host zone database and returns a catalog of every canonical
// zone it can load.
func Build(opts ...Option) (*Catalog, error) {
	o := newOptions(opts)
	names := discoverNames(o.roots, o.logger)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no zoneinfo data under %s", ErrCatalogUnavailable, strings.Join(o.roots, ", "))
	}
	return fromNames(names, o)
}

// FromNames builds a catalog from an explicit list of IANA names. Names the
// host cannot load are skipped.
func FromNames(names []string, opts ...Option) (*Catalog, error) {
	return fromNames(names, newOptions(opts))
}

func fromNames(names []string, o options) (*Catalog, error) {
	entries := make([]ZoneEntry, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		loc, err := time.LoadLocation(name)
		if err != nil {
			o.logger.Debug().Str("zone", name).Err(err).Msg("skipping unloadable zone")
			continue
		}
		entry := newEntry(name, loc, o.reference)
		if !validOffset(entry.BaseOffsetMinutes) {
			o.logger.Debug().Str("zone", name).Int("offset_minutes", entry.BaseOffsetMinutes).Msg("skipping zone with out-of-range offset")
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: none of %d zone names could be loaded", ErrCatalogUnavailable, len(names))
	}

	c := newCatalog(entries, o.reference)
	o.logger.Debug().Int("zones", c.Len()).Time("reference", o.reference).Msg("zone catalog built")
	return c, nil
}

// NewCatalog returns a catalog holding exactly the given entries.
func NewCatalog(entries []ZoneEntry) (*Catalog, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Identifier == "" {
			return nil, errors.New("zone entry without identifier")
		}
		if seen[e.Identifier] {
			return nil, fmt.Errorf("duplicate zone identifier %q", e.Identifier)
		}
		if !validOffset(e.BaseOffsetMinutes) {
			return nil, fmt.Errorf("zone %q: offset %d minutes out of range", e.Identifier, e.BaseOffsetMinutes)
		}
		seen[e.Identifier] = true
	}
	return newCatalog(append([]ZoneEntry(nil), entries...), time.Time{}), nil
}

func newCatalog(entries []ZoneEntry, builtAt time.Time) *Catalog {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Identifier < entries[j].Identifier
	})
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Identifier] = i
	}
	return &Catalog{entries: entries, index: index, builtAt: builtAt}
}

func newEntry(name string, loc *time.Location, ref time.Time) ZoneEntry {
	abbr, offset := ref.In(loc).Zone()
	city, region := splitName(name)
	return ZoneEntry{
		Identifier:        name,
		City:              city,
		Region:            region,
		Abbreviation:      AlphabeticAbbreviation(abbr),
		BaseOffsetMinutes: offset / 60,
	}
}

// splitName derives display names from an IANA identifier:
// "America/Argentina/Buenos_Aires" -> ("Buenos Aires", "America/Argentina").
func splitName(name string) (city, region string) {
	parts := strings.Split(name, "/")
	city = strings.ReplaceAll(parts[len(parts)-1], "_", " ")
	if len(parts) > 1 {
		region = strings.ReplaceAll(strings.Join(parts[:len(parts)-1], "/"), "_", " ")
	}
	return city, region
}

// AlphabeticAbbreviation returns abbr when it is made only of letters. Numeric
// names such as "+06", which the tz database uses for zones without a
// customary abbreviation, yield "".
func AlphabeticAbbreviation(abbr string) string {
	if abbr == "" {
		return ""
	}
	for _, r := range abbr {
		if !unicode.IsLetter(r) {
			return ""
		}
	}
	return abbr
}

func validOffset(minutes int) bool {
	return minutes >= minOffsetMinutes && minutes <= maxOffsetMinutes
}

// Lookup returns the entry with the given identifier.
func (c *Catalog) Lookup(identifier string) (ZoneEntry, error) {
	if c != nil {
		if i, ok := c.index[identifier]; ok {
			return c.entries[i], nil
		}
	}
	return ZoneEntry{}, fmt.Errorf("%w: %q", ErrZoneNotFound, identifier)
}

// Entries returns a copy of the catalog in identifier order.
func (c *Catalog) Entries() []ZoneEntry {
	if c == nil {
		return nil
	}
	return append([]ZoneEntry(nil), c.entries...)
}

// Len returns the number of zones.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// BuiltAt is the reference instant offsets were frozen at. Zero for literal catalogs.
func (c *Catalog) BuiltAt() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.builtAt
}

// Location returns a fixed zone at the entry's frozen offset.
func (e ZoneEntry) Location() *time.Location {
	return time.FixedZone(e.Abbreviation, e.BaseOffsetMinutes*60)
}

// Display renders the entry the way the zone picker lists it:
// "{city}, {region} — GMT±X". Entries without a region (only possible for
// literal catalogs, never for tz names) render as "{city} — GMT±X".
func (e ZoneEntry) Display() string {
	if e.Region == "" {
		return fmt.Sprintf("%s — %s", e.City, FormatOffset(e.BaseOffsetMinutes))
	}
	return fmt.Sprintf("%s, %s — %s", e.City, e.Region, FormatOffset(e.BaseOffsetMinutes))
}

// FormatOffset renders minutes east of UTC as GMT+6, GMT+5:30, GMT-11.
func FormatOffset(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("GMT%s%d", sign, h)
	}
	return fmt.Sprintf("GMT%s%d:%02d", sign, h, m)
}
