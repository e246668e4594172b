package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// EventPublisher delivers committed domain events to the notification sinks.
// Publishing never fails the command that produced the events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent)
}

// EvidenceVerifier checks that the proof images a driver references exist.
type EvidenceVerifier interface {
	Verify(ctx context.Context, imageRefs []string) error
}

// FaceMatcher compares a freshly taken driver photo with the one on file.
type FaceMatcher interface {
	Match(ctx context.Context, referenceRef, candidateRef string) (bool, error)
}

type Notification struct {
	ID          string
	RecipientID kernel.UUID
	Event       string
	Title       string
	Message     string
	Read        bool
	CreatedAt   time.Time
}

// NotificationInbox keeps the notifications shown to a user.
type NotificationInbox interface {
	Save(ctx context.Context, notifications ...Notification) error
	List(ctx context.Context, recipientID kernel.UUID, limit int) ([]Notification, error)
}

type ReceiptLine struct {
	Label  string
	Amount kernel.Money
	Status string
	At     time.Time
}

// Receipt is the settlement summary of one job.
type Receipt struct {
	JobID        kernel.UUID
	OrderNumber  string
	Title        string
	CustomerName string
	DriverName   string
	Lines        []ReceiptLine
	Total        kernel.Money
	IssuedAt     time.Time
}

// ReceiptRenderer turns a receipt into a downloadable document. It returns
// the document bytes and a file name.
type ReceiptRenderer interface {
	Render(ctx context.Context, receipt Receipt) ([]byte, string, error)
}
