package worker

import "errors"

// Sentinel errors for dispatcher lifecycle.
var (
	ErrAlreadyStarted = errors.New("dispatcher already started")
	ErrStopped        = errors.New("dispatcher stopped")
)
