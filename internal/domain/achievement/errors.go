package achievement

import "errors"

// ErrMalformedLine marks a response line whose numeric fields could not be parsed.
var ErrMalformedLine = errors.New("malformed hiscore line")
