// Package presenter renders alerts on a single presentation goroutine.
package presenter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SourceSystem is the Source of notices that are not about a subject.
const SourceSystem = "system"

// Alert is one message handed to the presentation surface.
type Alert struct {
	ID           uuid.UUID `json:"id"`
	Subject      string    `json:"subject,omitempty"`
	Source       string    `json:"source"`
	Message      string    `json:"message"`
	Color        string    `json:"color"`
	Achievements []string  `json:"achievements,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAlert stamps a new alert with an id and creation time.
func NewAlert(subject, source, message, color string, achievements []string) Alert {
	return Alert{
		ID:           uuid.New(),
		Subject:      subject,
		Source:       source,
		Message:      message,
		Color:        color,
		Achievements: achievements,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewNotice builds a system notice such as a start or stop message.
func NewNotice(message, color string) Alert {
	return NewAlert("", SourceSystem, message, color, nil)
}

// Sink receives alerts. Sinks are only ever called from the presenter
// goroutine, so they need no locking for their own output.
type Sink interface {
	Present(ctx context.Context, a Alert) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, a Alert) error

// Present calls f.
func (f SinkFunc) Present(ctx context.Context, a Alert) error { return f(ctx, a) }
