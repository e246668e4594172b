package payment

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

const (
	EventPaymentDeducted    = "payment.deducted"
	EventPaymentTransferred = "payment.transferred"
	EventWithdrawRequested  = "payment.withdraw_requested"
)

type PaymentDeducted struct {
	EntryID          kernel.UUID
	JobID            kernel.UUID
	CustomerID       kernel.UUID
	Amount           kernel.Money
	IsTip            bool
	PaymentIntentRef string
	At               time.Time
}

func (e PaymentDeducted) EventName() string         { return EventPaymentDeducted }
func (e PaymentDeducted) OccurredAt() time.Time     { return e.At }
func (e PaymentDeducted) Recipients() []kernel.UUID { return []kernel.UUID{e.CustomerID} }

type PaymentTransferred struct {
	EntryID     kernel.UUID
	SourceID    kernel.UUID
	JobID       kernel.UUID
	DriverID    kernel.UUID
	Amount      kernel.Money
	IsTip       bool
	TransferRef string
	At          time.Time
}

func (e PaymentTransferred) EventName() string         { return EventPaymentTransferred }
func (e PaymentTransferred) OccurredAt() time.Time     { return e.At }
func (e PaymentTransferred) Recipients() []kernel.UUID { return []kernel.UUID{e.DriverID} }

type WithdrawRequested struct {
	WithdrawID kernel.UUID
	DriverID   kernel.UUID
	Amount     kernel.Money
	Status     WithdrawStatus
	At         time.Time
}

func (e WithdrawRequested) EventName() string         { return EventWithdrawRequested }
func (e WithdrawRequested) OccurredAt() time.Time     { return e.At }
func (e WithdrawRequested) Recipients() []kernel.UUID { return []kernel.UUID{e.DriverID} }
