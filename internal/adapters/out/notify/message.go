// Package notify delivers committed domain events to users and downstream
// consumers. A Dispatcher turns each event into one notification per
// recipient and hands them to every configured sink: the websocket hub for
// connected clients, the inbox for later reading and the message broker.
package notify

import (
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
)

// Message is the JSON document pushed to websocket clients and the broker.
type Message struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"`
	RecipientID string    `json:"recipientId,omitempty"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	JobID       string    `json:"jobId,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// describe renders the human readable part of an event.
func describe(event kernel.DomainEvent) (title, message, jobID string) {
	switch e := event.(type) {
	case job.DriverApplied:
		return "New applicant",
			fmt.Sprintf("A driver applied for job %s.", e.OrderNumber), e.JobID.String()
	case job.JobAssigned:
		return "Job assigned",
			fmt.Sprintf("Job %s has been assigned.", e.OrderNumber), e.JobID.String()
	case job.DropOffAdvanced:
		return "Delivery update",
			fmt.Sprintf("Job %s: %s", e.OrderNumber, e.Message), e.JobID.String()
	case job.DeliveryCompleted:
		return "Delivery completed",
			fmt.Sprintf("Job %s has been delivered.", e.OrderNumber), e.JobID.String()
	case job.JobQuit:
		return "Driver quit",
			fmt.Sprintf("The driver quit job %s.", e.OrderNumber), e.JobID.String()
	case payment.PaymentDeducted:
		if e.IsTip {
			return "Tip charged", fmt.Sprintf("A tip of %s was charged to your card.", e.Amount), e.JobID.String()
		}
		return "Payment received", fmt.Sprintf("%s was charged to your card.", e.Amount), e.JobID.String()
	case payment.PaymentTransferred:
		if e.IsTip {
			return "Tip received", fmt.Sprintf("You received a tip of %s.", e.Amount), e.JobID.String()
		}
		return "Payment sent", fmt.Sprintf("%s was transferred to your account.", e.Amount), e.JobID.String()
	case payment.WithdrawRequested:
		return "Withdrawal requested",
			fmt.Sprintf("Your withdrawal of %s is %s.", e.Amount, e.Status), ""
	default:
		return event.EventName(), "", ""
	}
}

// JobAssigned goes to the winner and to the rejected applicants with
// different wording.
func describeFor(event kernel.DomainEvent, recipient kernel.UUID) (title, message, jobID string) {
	title, message, jobID = describe(event)
	if e, ok := event.(job.JobAssigned); ok {
		if recipient.IsEqual(e.DriverID) {
			return "You got the job", fmt.Sprintf("You were selected for job %s.", e.OrderNumber), jobID
		}
		return "Job filled", fmt.Sprintf("Job %s went to another driver.", e.OrderNumber), jobID
	}
	return title, message, jobID
}
