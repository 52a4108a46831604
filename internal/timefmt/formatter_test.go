package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan812/spendlog/internal/zones"
)

const (
	sampleInstant = "2026-01-03T12:30:00+00:00"
	sampleNow     = "2026-01-03T14:30:00+00:00"
)

var plusSix = time.FixedZone("", 6*60*60)

func testCatalog(t *testing.T) *zones.Catalog {
	t.Helper()
	c, err := zones.NewCatalog([]zones.ZoneEntry{
		{Identifier: "Asia/Dhaka", City: "Dhaka", Region: "Asia", BaseOffsetMinutes: 360},
		{Identifier: "Asia/Kolkata", City: "Kolkata", Region: "Asia", Abbreviation: "IST", BaseOffsetMinutes: 330},
		{Identifier: "America/New_York", City: "New York", Region: "America", Abbreviation: "EST", BaseOffsetMinutes: -300},
	})
	require.NoError(t, err)
	return c
}

func TestFormat_UTCWithRelative(t *testing.T) {
	f := NewFormatter(testCatalog(t))
	got, err := f.Format(sampleInstant, Preferences{Mode: ModeUTC, ShowRelative: true}, sampleNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03T12:30:00+00:00 (2h ago)", got)
}

func TestFormat_RelativeFarFuture(t *testing.T) {
	f := NewFormatter(testCatalog(t))
	got, err := f.Format("2600-01-01T00:00:00Z", Preferences{Mode: ModeUTC, ShowRelative: true}, "2026-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2600-01-01T00:00:00+00:00 (in 29949w)", got)
}

func TestFormat_UTCIgnoresNowAndZone(t *testing.T) {
	f := NewFormatter(testCatalog(t), WithLocal(plusSix))
	instants := []string{
		"2026-01-03T12:30:00+00:00",
		"2026-01-03T18:30:00+06:00",
		"2026-01-03T12:30:00Z",
		"2026-01-03 07:30:00-0500",
	}
	for _, in := range instants {
		for _, zone := range []string{"", "Asia/Kolkata", "nonexistent"} {
			for _, now := range []string{"", sampleNow, "garbage"} {
				got, err := f.Format(in, Preferences{Mode: ModeUTC, ZoneIdentifier: zone}, now)
				require.NoError(t, err)
				assert.Equal(t, "2026-01-03T12:30:00+00:00", got, "instant=%s zone=%s now=%s", in, zone, now)
			}
		}
	}
}

func TestFormat_CustomHostLocal(t *testing.T) {
	f := NewFormatter(testCatalog(t), WithLocal(plusSix))
	got, err := f.Format(sampleInstant, Preferences{Mode: ModeCustom, CustomPattern: "%Y-%m-%d"}, sampleNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03", got)

	got, err = f.Format(sampleInstant, Preferences{Mode: ModeCustom, CustomPattern: "%H:%M %z %Z"}, "")
	require.NoError(t, err)
	assert.Equal(t, "18:30 +0600 +06:00", got)
}

func TestFormat_CustomNamedZone(t *testing.T) {
	f := NewFormatter(testCatalog(t))
	prefs := Preferences{Mode: ModeCustom, ZoneIdentifier: "Asia/Kolkata", CustomPattern: "%d %b %Y, %I:%M %p %Z (%%)"}
	got, err := f.Format(sampleInstant, prefs, "")
	require.NoError(t, err)
	assert.Equal(t, "03 Jan 2026, 06:00 PM IST (%)", got)
}

func TestFormat_Local(t *testing.T) {
	f := NewFormatter(testCatalog(t), WithLocal(plusSix))

	got, err := f.Format(sampleInstant, Preferences{Mode: ModeLocal}, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03 18:30:00 +06:00", got)

	got, err = f.Format(sampleInstant, Preferences{Mode: ModeLocal, ZoneIdentifier: "America/New_York"}, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03 07:30:00 -05:00 EST", got)

	got, err = f.Format(sampleInstant, Preferences{Mode: ModeLocal, ZoneIdentifier: "Asia/Dhaka", ShowRelative: true}, sampleNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03 18:30:00 +06:00 (2h ago)", got)
}

func TestFormat_LocalUsesFrozenOffset(t *testing.T) {
	f := NewFormatter(testCatalog(t))
	// July instant still renders at the January offset the catalog froze.
	got, err := f.Format("2026-07-03T12:30:00Z", Preferences{Mode: ModeLocal, ZoneIdentifier: "America/New_York"}, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-03 07:30:00 -05:00 EST", got)
}

func TestFormat_Errors(t *testing.T) {
	f := NewFormatter(testCatalog(t))

	tests := []struct {
		name    string
		instant string
		prefs   Preferences
		now     string
		want    error
	}{
		{"empty custom pattern", sampleInstant, Preferences{Mode: ModeCustom}, "", ErrInvalidPreference},
		{"pattern without tokens", sampleInstant, Preferences{Mode: ModeCustom, CustomPattern: "date: %% %q"}, "", ErrInvalidPreference},
		{"unknown mode", sampleInstant, Preferences{Mode: Mode(7)}, "", ErrInvalidPreference},
		{"unknown zone", sampleInstant, Preferences{Mode: ModeLocal, ZoneIdentifier: "nonexistent"}, "", ErrUnknownZone},
		{"unknown zone custom", sampleInstant, Preferences{Mode: ModeCustom, ZoneIdentifier: "nonexistent", CustomPattern: "%Y"}, "", ErrUnknownZone},
		{"naive instant", "2026-01-03T12:30:00", Preferences{Mode: ModeUTC}, "", ErrInvalidInstant},
		{"empty instant", "", Preferences{Mode: ModeUTC}, "", ErrInvalidInstant},
		{"garbage instant", "yesterday", Preferences{Mode: ModeUTC}, "", ErrInvalidInstant},
		{"bad now with relative", sampleInstant, Preferences{Mode: ModeUTC, ShowRelative: true}, "later", ErrInvalidInstant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Format(tt.instant, tt.prefs, tt.now)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFormat_UnknownZoneWrapsNotFound(t *testing.T) {
	f := NewFormatter(testCatalog(t))
	_, err := f.Format(sampleInstant, Preferences{Mode: ModeLocal, ZoneIdentifier: "nonexistent"}, "")
	assert.ErrorIs(t, err, zones.ErrZoneNotFound)
}

func TestFormat_NilCatalog(t *testing.T) {
	f := NewFormatter(nil, WithLocal(plusSix))

	got, err := f.Format(sampleInstant, Preferences{Mode: ModeUTC, ShowRelative: true}, sampleNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03T12:30:00+00:00 (2h ago)", got)

	got, err = f.Format(sampleInstant, Preferences{Mode: ModeCustom, CustomPattern: "%Y-%m-%d"}, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03", got)

	_, err = f.Format(sampleInstant, Preferences{Mode: ModeLocal, ZoneIdentifier: "Asia/Dhaka"}, "")
	assert.ErrorIs(t, err, zones.ErrCatalogUnavailable)
}

func TestFormatAll(t *testing.T) {
	f := NewFormatter(testCatalog(t))
	results := f.FormatAll([]string{sampleInstant, "bad", "2026-01-03T13:30:00Z"}, Preferences{Mode: ModeUTC}, "")
	require.Len(t, results, 3)
	assert.Equal(t, "2026-01-03T12:30:00+00:00", results[0].Value)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrInvalidInstant)
	assert.Equal(t, "2026-01-03T13:30:00+00:00", results[2].Value)
}

func TestLocation(t *testing.T) {
	f := NewFormatter(testCatalog(t), WithLocal(plusSix))

	loc, err := f.Location(Preferences{Mode: ModeUTC, ZoneIdentifier: "nonexistent"})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = f.Location(Preferences{Mode: ModeLocal})
	require.NoError(t, err)
	assert.Equal(t, plusSix, loc)

	loc, err = f.Location(Preferences{Mode: ModeCustom, ZoneIdentifier: "Asia/Kolkata"})
	require.NoError(t, err)
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).In(loc).Zone()
	assert.Equal(t, 330*60, offset)

	_, err = f.Location(Preferences{Mode: ModeLocal, ZoneIdentifier: "nonexistent"})
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestHostAbbreviation_MatchesCatalogRule(t *testing.T) {
	for _, name := range []string{"IST", "MÉZ", "+06", ""} {
		at := time.Date(2026, 1, 3, 12, 0, 0, 0, time.FixedZone(name, 3600))
		assert.Equal(t, zones.AlphabeticAbbreviation(name), hostAbbreviation(at), "zone=%q", name)
	}
	assert.Equal(t, "MÉZ", hostAbbreviation(time.Date(2026, 1, 3, 12, 0, 0, 0, time.FixedZone("MÉZ", 3600))))
}
