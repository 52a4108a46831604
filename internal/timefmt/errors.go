package timefmt

import "errors"

var (
	ErrInvalidInstant    = errors.New("invalid instant")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrUnknownZone       = errors.New("unknown zone")
)
