package hiscores

import "errors"

// Sentinel errors returned by Lookup.
var (
	// ErrNoData is returned for any non-2xx response. Most often the subject is unranked.
	ErrNoData = errors.New("no hiscore data")
	// ErrTransport is returned when the service could not be reached.
	ErrTransport = errors.New("hiscore transport failure")
	// ErrEmptySubject is returned when the subject name is blank.
	ErrEmptySubject = errors.New("empty subject")
)
