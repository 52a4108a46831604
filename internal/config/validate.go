package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ishaan812/spendlog/internal/timefmt"
)

var ErrInvalidConfig = errors.New("invalid config")

var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,31}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error":
			return true
		default:
			return false
		}
	})

	// Empty patterns are left to required_if.
	_ = v.RegisterValidation("strftime", func(fl validator.FieldLevel) bool {
		pattern := fl.Field().String()
		return pattern == "" || timefmt.HasRecognizedToken(pattern)
	})

	_ = v.RegisterValidation("profilename", func(fl validator.FieldLevel) bool {
		return profileNamePattern.MatchString(fl.Field().String())
	})

	return v
}

// Validate checks field constraints and that the active profile exists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.ActiveProfile != "" && len(c.Profiles) > 0 && c.Profiles[c.ActiveProfile] == nil {
		return fmt.Errorf("%w: active profile '%s' does not exist", ErrInvalidConfig, c.ActiveProfile)
	}
	return nil
}
