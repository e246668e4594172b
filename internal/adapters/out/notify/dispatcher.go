package notify

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
)

// Sink receives the notifications produced for one event.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event kernel.DomainEvent, notifications []ports.Notification) error
}

// Dispatcher implements ports.EventPublisher. A failing sink is logged and
// skipped; the remaining sinks still receive the event.
type Dispatcher struct {
	sinks  []Sink
	logger *slog.Logger
}

func NewDispatcher(logger *slog.Logger, sinks ...Sink) *Dispatcher {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Dispatcher{
		sinks:  active,
		logger: logger.With("component", "notify_dispatcher"),
	}
}

func (d *Dispatcher) Publish(ctx context.Context, events ...kernel.DomainEvent) {
	for _, event := range events {
		notifications := Notifications(event)
		for _, sink := range d.sinks {
			if err := sink.Deliver(ctx, event, notifications); err != nil {
				d.logger.ErrorContext(ctx, "Notification sink failed",
					"sink", sink.Name(),
					"event", event.EventName(),
					"error", err,
				)
			}
		}
	}
}

// Notifications builds one inbox entry per recipient of the event.
func Notifications(event kernel.DomainEvent) []ports.Notification {
	recipients := event.Recipients()
	out := make([]ports.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		title, message, _ := describeFor(event, recipient)
		out = append(out, ports.Notification{
			ID:          uuid.NewString(),
			RecipientID: recipient,
			Event:       event.EventName(),
			Title:       title,
			Message:     message,
			CreatedAt:   event.OccurredAt(),
		})
	}
	return out
}

func toMessage(event kernel.DomainEvent, n ports.Notification) Message {
	_, _, jobID := describe(event)
	return Message{
		ID:          n.ID,
		Event:       n.Event,
		RecipientID: n.RecipientID.String(),
		Title:       n.Title,
		Message:     n.Message,
		JobID:       jobID,
		OccurredAt:  event.OccurredAt(),
	}
}
