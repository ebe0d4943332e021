package settings

import "errors"

// Sentinel errors for settings operations.
var (
	ErrUnknownKey   = errors.New("unknown settings key")
	ErrInvalidValue = errors.New("invalid settings value")
	ErrPersist      = errors.New("persist settings failed")
	ErrLoad         = errors.New("load settings failed")
)
