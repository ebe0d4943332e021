package model

// Outcome is the verdict on one raw detection.
type Outcome int

const (
	// Accepted means the subject was marked seen and queued for lookup.
	Accepted Outcome = iota
	// RejectedEmpty means the name was blank after normalization.
	RejectedEmpty
	// RejectedSelf means the name is the local observer.
	RejectedSelf
	// RejectedIgnored means the subject is on the ignore list.
	RejectedIgnored
	// RejectedSuppressed means the subject was handled within the suppression window.
	RejectedSuppressed
	// RejectedBackpressure means the queue refused the request.
	RejectedBackpressure
	// RejectedDisabled means the detection source is switched off in settings.
	RejectedDisabled
	// RejectedStopped means the pipeline is not running.
	RejectedStopped
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedEmpty:
		return "rejected_empty"
	case RejectedSelf:
		return "rejected_self"
	case RejectedIgnored:
		return "rejected_ignored"
	case RejectedSuppressed:
		return "rejected_suppressed"
	case RejectedBackpressure:
		return "rejected_backpressure"
	case RejectedDisabled:
		return "rejected_disabled"
	case RejectedStopped:
		return "rejected_stopped"
	}
	return "unknown"
}

// MarshalText renders the outcome by name in JSON responses.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Detection pairs a normalized name with its outcome.
type Detection struct {
	Name    string  `json:"name"`
	Outcome Outcome `json:"outcome"`
}
