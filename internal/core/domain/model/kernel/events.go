package kernel

import "time"

// DomainEvent is an outbound fact recorded by an aggregate and published
// after the unit of work that produced it commits.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
	// Recipients lists the users that should be told about the event.
	Recipients() []UUID
}

// EventRecorder is embedded by aggregates that emit domain events.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

func (r *EventRecorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}
