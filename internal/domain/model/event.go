// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// SourceClass is the priority class of a detection.
type SourceClass int

const (
	// Ambient detections come from proximity and wait behind everything else.
	Ambient SourceClass = iota
	// Social detections come from chat channels and jump the ambient backlog.
	Social
)

func (c SourceClass) String() string {
	switch c {
	case Social:
		return "social"
	default:
		return "ambient"
	}
}

// Source identifies which event adapter produced a detection.
type Source int

const (
	// SourceNearby is a player appearing in the local area.
	SourceNearby Source = iota
	// SourceFriendsChat is a member joining the friends chat channel.
	SourceFriendsChat
	// SourceClanChat is a member newly present in the clan channel.
	SourceClanChat
)

// Class returns the priority class of the source.
func (s Source) Class() SourceClass {
	if s == SourceNearby {
		return Ambient
	}
	return Social
}

func (s Source) String() string {
	switch s {
	case SourceFriendsChat:
		return "friends_chat"
	case SourceClanChat:
		return "clan_chat"
	default:
		return "nearby"
	}
}

// Phrase is the text placed between the subject and the achievement list.
func (s Source) Phrase() string {
	switch s {
	case SourceFriendsChat:
		return " joined your friends chat and is notable for: "
	case SourceClanChat:
		return " is in your clan chat and is notable for: "
	default:
		return " is nearby and is notable for: "
	}
}

// ParseSource maps the wire name of a source back to its value.
func ParseSource(s string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearby":
		return SourceNearby, true
	case "friends_chat":
		return SourceFriendsChat, true
	case "clan_chat":
		return SourceClanChat, true
	}
	return SourceNearby, false
}

// DetectionRequest is one accepted detection waiting for a lookup.
type DetectionRequest struct {
	SubjectID  string      // normalized display name
	Source     Source      // adapter that produced it
	Class      SourceClass // priority class derived from Source
	ObservedAt time.Time   // acceptance time
}

// NewDetectionRequest builds a request for an already normalized subject.
func NewDetectionRequest(subject string, source Source, at time.Time) DetectionRequest {
	return DetectionRequest{
		SubjectID:  subject,
		Source:     source,
		Class:      source.Class(),
		ObservedAt: at,
	}
}
