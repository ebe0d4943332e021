// Package simulate plays the event source and the hiscore service for local runs.
package simulate

import "time"

// Config holds configuration for an event run.
type Config struct {
	BaseURL    string        // Base URL of the daemon
	NumEvents  int           // Number of events to generate
	Players    int           // Size of the name pool events draw from
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Settle     time.Duration // Wait before alerts are fetched
	AlertLimit int           // Number of recent alerts to print
	Verbose    bool          // Log every request
}

// HiscoresConfig holds configuration for the fake hiscore service.
type HiscoresConfig struct {
	Addr string
	// NotFoundRatio is the fraction of names answered with 404, in [0, 1].
	NotFoundRatio float64
	// NotableRatio is the fraction of categories given a top rank, in [0, 1].
	NotableRatio float64
}

// EventKind selects the endpoint an event is posted to.
type EventKind int

const (
	KindObserved EventKind = iota
	KindJoin
	KindMembers
)

func (k EventKind) String() string {
	switch k {
	case KindJoin:
		return "join"
	case KindMembers:
		return "members"
	default:
		return "observed"
	}
}

// Event is one request to the daemon.
type Event struct {
	ID        string
	Kind      EventKind
	Name      string
	LocalSelf bool
	Members   []string
}

// Stats holds run statistics
type Stats struct {
	EventsGenerated int
	Submitted       int
	Accepted        int
	Rejected        int
	Backpressure    int
	Failed          int
	Alerts          int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
