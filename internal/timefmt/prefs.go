package timefmt

import (
	"fmt"
	"strings"
)

// Mode selects how an instant is rendered.
type Mode int

const (
	ModeLocal Mode = iota
	ModeUTC
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeUTC:
		return "utc"
	case ModeCustom:
		return "custom"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "local", "utc" or "custom" in any case. An empty string is local.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return ModeLocal, nil
	case "utc":
		return ModeUTC, nil
	case "custom":
		return ModeCustom, nil
	default:
		return ModeLocal, fmt.Errorf("%w: unknown timestamp mode %q", ErrInvalidPreference, s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: unknown timestamp mode %d", ErrInvalidPreference, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Mode) valid() bool {
	return m >= ModeLocal && m <= ModeCustom
}

// Preferences is the display selection handed to the Formatter by its caller.
// An empty ZoneIdentifier means the host's local zone.
type Preferences struct {
	Mode           Mode   `json:"mode"`
	ZoneIdentifier string `json:"zone,omitempty"`
	CustomPattern  string `json:"custom_pattern,omitempty"`
	ShowRelative   bool   `json:"show_relative"`
}

// Validate checks the preference invariants without consulting a catalog.
func (p Preferences) Validate() error {
	switch p.Mode {
	case ModeLocal, ModeUTC:
		return nil
	case ModeCustom:
		if strings.TrimSpace(p.CustomPattern) == "" {
			return fmt.Errorf("%w: custom mode requires a pattern", ErrInvalidPreference)
		}
		if !HasRecognizedToken(p.CustomPattern) {
			return fmt.Errorf("%w: pattern %q has no recognized tokens", ErrInvalidPreference, p.CustomPattern)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown timestamp mode %d", ErrInvalidPreference, int(p.Mode))
	}
}
