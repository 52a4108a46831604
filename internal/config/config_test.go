package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan812/spendlog/internal/timefmt"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join(dir, "config.json"), GetConfigPath())
	assert.Equal(t, filepath.Join(dir, "logs", "spendlog.log"), GetLogPath())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := Default()
	require.NoError(t, cfg.EnsureDefaultProfile())
	cfg.Display = DisplayConfig{TimestampMode: "custom", CustomFormat: "%d/%m %H:%M", ShowRelative: true, Timezone: "Asia/Dhaka"}
	cfg.Currency = "৳"
	require.NoError(t, cfg.Save())

	info, err := os.Stat(GetConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(GetConfigPath()), 0755))

	require.NoError(t, os.WriteFile(GetConfigPath(), []byte(`{"display":{"timestamp_mode":"sideways"}}`), 0600))
	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, os.WriteFile(GetConfigPath(), []byte(`{not json`), 0600))
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"utc mode", func(c *Config) { c.Display.TimestampMode = "utc" }, true},
		{"custom without pattern", func(c *Config) { c.Display.TimestampMode = "custom"; c.Display.CustomFormat = "" }, false},
		{"custom without tokens", func(c *Config) { c.Display.TimestampMode = "custom"; c.Display.CustomFormat = "today" }, false},
		{"bad mode", func(c *Config) { c.Display.TimestampMode = "iso" }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"zero log size", func(c *Config) { c.Log.MaxSizeMB = 0 }, false},
		{"no currency", func(c *Config) { c.Currency = "" }, false},
		{"missing active profile", func(c *Config) {
			c.Profiles = map[string]*Profile{"home": {Name: "home"}}
			c.ActiveProfile = "work"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestPreferences(t *testing.T) {
	cfg := Default()
	prefs, err := cfg.Preferences()
	require.NoError(t, err)
	assert.Equal(t, timefmt.Preferences{Mode: timefmt.ModeLocal}, prefs)

	cfg.Display = DisplayConfig{TimestampMode: "custom", CustomFormat: "%Y", Timezone: "Asia/Dhaka", ShowRelative: true}
	prefs, err = cfg.Preferences()
	require.NoError(t, err)
	assert.Equal(t, timefmt.Preferences{Mode: timefmt.ModeCustom, ZoneIdentifier: "Asia/Dhaka", CustomPattern: "%Y", ShowRelative: true}, prefs)

	cfg.Display.TimestampMode = "bogus"
	_, err = cfg.Preferences()
	assert.ErrorIs(t, err, timefmt.ErrInvalidPreference)
}

func TestDefault_CustomPatternCarriesZone(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "%Y-%m-%d %H:%M:%S %Z", cfg.Display.CustomFormat)

	cfg.Display.TimestampMode = "custom"
	require.NoError(t, cfg.Validate())
	prefs, err := cfg.Preferences()
	require.NoError(t, err)
	assert.Equal(t, "%Y-%m-%d %H:%M:%S %Z", prefs.CustomPattern)
}

func TestZoneIdentifier(t *testing.T) {
	assert.Equal(t, "", ZoneIdentifier("system"))
	assert.Equal(t, "", ZoneIdentifier(" System "))
	assert.Equal(t, "", ZoneIdentifier(""))
	assert.Equal(t, "Europe/London", ZoneIdentifier("Europe/London"))
}

func TestProfiles(t *testing.T) {
	dir := isolate(t)
	cfg := Default()

	require.NoError(t, cfg.EnsureDefaultProfile())
	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.DirExists(t, filepath.Join(dir, "profiles", "default"))

	require.NoError(t, cfg.CreateProfile("work", "Work expenses"))
	assert.Error(t, cfg.CreateProfile("work", "again"))
	assert.Error(t, cfg.CreateProfile("../escape", ""))
	assert.Equal(t, []string{"default", "work"}, cfg.ListProfiles())

	require.NoError(t, cfg.SetActiveProfile("work"))
	assert.Equal(t, "work", cfg.GetActiveProfile().Name)
	assert.ErrorIs(t, cfg.SetActiveProfile("nope"), ErrProfileNotFound)

	assert.Error(t, cfg.DeleteProfile("work", true), "active profile cannot be deleted")
	require.NoError(t, cfg.SetActiveProfile("default"))
	require.NoError(t, cfg.DeleteProfile("work", true))
	assert.NoDirExists(t, filepath.Join(dir, "profiles", "work"))
	assert.ErrorIs(t, cfg.DeleteProfile("work", false), ErrProfileNotFound)

	assert.Equal(t, filepath.Join(dir, "profiles", "default", "expenses.duckdb"), GetProfileDBPath("default"))
	assert.Equal(t, filepath.Join(dir, "profiles", "default", "backups"), GetProfileBackupDir("default"))
}
