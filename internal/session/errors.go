package session

import "errors"

// Sentinel errors for the session package.
var (
	ErrInvalidKey     = errors.New("session: invalid store key")
	ErrNotJSON        = errors.New("session: value is not valid JSON")
	ErrCorrupt        = errors.New("session: corrupt persisted data")
	ErrUnknownSetting = errors.New("session: unknown setting")
	ErrInvalidSetting = errors.New("session: invalid setting value")
)
