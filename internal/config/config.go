package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ishaan812/spendlog/internal/timefmt"
)

// HomeEnv overrides the spendlog data directory.
const HomeEnv = "SPENDLOG_HOME"

// SystemZone is the stored timezone value meaning "use the host zone".
const SystemZone = "system"

var ErrProfileNotFound = errors.New("profile not found")

// Profile is a separate ledger with its own database and backups.
type Profile struct {
	Name        string `json:"name" validate:"required,profilename"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// DisplayConfig is the persisted form of timefmt.Preferences.
type DisplayConfig struct {
	TimestampMode string `json:"timestamp_mode" validate:"omitempty,oneof=local utc custom"`
	CustomFormat  string `json:"custom_format,omitempty" validate:"required_if=TimestampMode custom,strftime"`
	ShowRelative  bool   `json:"show_relative"`
	Timezone      string `json:"timezone,omitempty"`
}

type LogConfig struct {
	Level      string `json:"level" validate:"loglevel"`
	Format     string `json:"format" validate:"omitempty,oneof=console json"`
	MaxSizeMB  int    `json:"max_size_mb" validate:"min=1"`
	MaxBackups int    `json:"max_backups" validate:"min=0"`
}

type Config struct {
	Display  DisplayConfig `json:"display"`
	Log      LogConfig     `json:"log"`
	Currency string        `json:"currency" validate:"required,max=8"`

	// Profiles
	Profiles      map[string]*Profile `json:"profiles,omitempty" validate:"dive"`
	ActiveProfile string              `json:"active_profile,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			TimestampMode: "local",
			CustomFormat:  "%Y-%m-%d %H:%M:%S %Z",
			ShowRelative:  false,
			Timezone:      SystemZone,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Currency: "$",
	}
}

// GetSpendlogDir returns the base data directory, honouring SPENDLOG_HOME.
func GetSpendlogDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".spendlog"
	}
	return filepath.Join(homeDir, ".spendlog")
}

func GetConfigPath() string {
	return filepath.Join(GetSpendlogDir(), "config.json")
}

// GetLogPath returns the rotating log file location.
func GetLogPath() string {
	return filepath.Join(GetSpendlogDir(), "logs", "spendlog.log")
}

func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Preferences converts the display section for the formatter.
func (c *Config) Preferences() (timefmt.Preferences, error) {
	mode, err := timefmt.ParseMode(c.Display.TimestampMode)
	if err != nil {
		return timefmt.Preferences{}, err
	}
	prefs := timefmt.Preferences{
		Mode:           mode,
		ZoneIdentifier: ZoneIdentifier(c.Display.Timezone),
		ShowRelative:   c.Display.ShowRelative,
	}
	if mode == timefmt.ModeCustom {
		prefs.CustomPattern = c.Display.CustomFormat
	}
	return prefs, nil
}

// ZoneIdentifier maps the stored timezone value to a catalog identifier; the
// host zone is the empty identifier.
func ZoneIdentifier(stored string) string {
	stored = strings.TrimSpace(stored)
	if strings.EqualFold(stored, SystemZone) {
		return ""
	}
	return stored
}

// GetActiveProfile returns the active profile, or nil if none
func (c *Config) GetActiveProfile() *Profile {
	if c.ActiveProfile == "" || c.Profiles == nil {
		return nil
	}
	return c.Profiles[c.ActiveProfile]
}

// GetActiveProfileName returns the active profile name, defaulting to "default"
func (c *Config) GetActiveProfileName() string {
	if c.ActiveProfile == "" {
		return "default"
	}
	return c.ActiveProfile
}

func getProfileDir(name string) string {
	return filepath.Join(GetSpendlogDir(), "profiles", name)
}

// GetProfileDBPath returns the ledger database path for a given profile
func GetProfileDBPath(name string) string {
	return filepath.Join(getProfileDir(name), "expenses.duckdb")
}

// GetProfileBackupDir returns where backups of a profile's ledger live.
func GetProfileBackupDir(name string) string {
	return filepath.Join(getProfileDir(name), "backups")
}

// CreateProfile creates a new profile
func (c *Config) CreateProfile(name, description string) error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}

	if _, exists := c.Profiles[name]; exists {
		return fmt.Errorf("profile '%s' already exists", name)
	}

	profile := &Profile{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := validate.Struct(profile); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	if err := os.MkdirAll(getProfileDir(name), 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	c.Profiles[name] = profile
	return nil
}

// DeleteProfile removes a profile and optionally its data
func (c *Config) DeleteProfile(name string, deleteData bool) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("%w: '%s'", ErrProfileNotFound, name)
	}

	if c.ActiveProfile == name {
		return fmt.Errorf("cannot delete active profile '%s'; switch to another profile first", name)
	}

	if deleteData {
		if err := os.RemoveAll(getProfileDir(name)); err != nil {
			return fmt.Errorf("failed to delete profile data: %w", err)
		}
	}

	delete(c.Profiles, name)
	return nil
}

// SetActiveProfile switches to a different profile
func (c *Config) SetActiveProfile(name string) error {
	if c.Profiles == nil || c.Profiles[name] == nil {
		return fmt.Errorf("%w: '%s'", ErrProfileNotFound, name)
	}
	c.ActiveProfile = name
	return nil
}

// EnsureDefaultProfile ensures a default profile exists
func (c *Config) EnsureDefaultProfile() error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}

	if _, exists := c.Profiles["default"]; !exists {
		if err := c.CreateProfile("default", "Default profile"); err != nil {
			return err
		}
	}

	if c.ActiveProfile == "" {
		c.ActiveProfile = "default"
	}

	return nil
}

// ListProfiles returns all profile names, sorted
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
