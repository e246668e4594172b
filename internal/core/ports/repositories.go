// Package ports defines the contracts between the application core and its
// adapters: repositories, the unit of work, the payment processor and the
// outbound notification sinks.
package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/core/domain/model/user"
)

// JobRepository defines the persistence contract for job aggregates and the
// drop-offs they own.
//
// Every write is conditional. A write that finds the row changed since it was
// read fails with an IllegalTransitionError and leaves the stored job intact.
type JobRepository interface {
	// Add persists a new job and assigns it the next order number. Order
	// numbers start at the configured first number and grow by one.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists the job if its version still matches the stored one.
	// On success the aggregate's version is advanced.
	Update(ctx context.Context, aggregate *job.Job) error

	// UpdateAssignment persists a freshly selected delivery partner. The write
	// only succeeds while the stored job has no partner, so of two concurrent
	// selections exactly one wins.
	UpdateAssignment(ctx context.Context, aggregate *job.Job) error

	// MarkAmountDeducted flips is_amount_deducted from false to true. It
	// reports false when the flag was already set.
	MarkAmountDeducted(ctx context.Context, jobID kernel.UUID) (bool, error)

	// Get retrieves a job with its drop-offs and quit history.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)
}

// UserRepository defines the persistence contract for user accounts.
type UserRepository interface {
	Add(ctx context.Context, aggregate *user.User) error
	Update(ctx context.Context, aggregate *user.User) error
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetByPaymentAccount finds the user linked to a processor account id.
	GetByPaymentAccount(ctx context.Context, accountID string) (*user.User, error)
}

// PaymentRepository is the append-only settlement ledger.
type PaymentRepository interface {
	// Add appends an entry. Two deductions with the same payment intent
	// reference are rejected.
	Add(ctx context.Context, entry *payment.Entry) error

	Get(ctx context.Context, id kernel.UUID) (*payment.Entry, error)

	// FindDeductions lists the job's customer deductions, oldest first.
	FindDeductions(ctx context.Context, jobID kernel.UUID) ([]*payment.Entry, error)

	// FindByPaymentIntent returns the customer deduction carrying the ref.
	FindByPaymentIntent(ctx context.Context, paymentIntentRef string) (*payment.Entry, error)

	// FindByCard returns the most recent customer deduction charged to the card.
	FindByCard(ctx context.Context, cardRef string) (*payment.Entry, error)

	// ClaimTransfer flips the transferred flag from false to true. It reports
	// false when another caller holds the claim.
	ClaimTransfer(ctx context.Context, id kernel.UUID) (bool, error)

	// ReleaseTransfer gives a claim back after the processor refused the transfer.
	ReleaseTransfer(ctx context.Context, id kernel.UUID) error

	// Resolve stores the final outcome of a PENDING entry. It reports false
	// when the entry was no longer pending.
	Resolve(ctx context.Context, entry *payment.Entry) (bool, error)

	// FindPendingDeductions lists deductions still PENDING that were created before olderThan.
	FindPendingDeductions(ctx context.Context, olderThan time.Time, limit int) ([]*payment.Entry, error)

	// FindUntransferredDeductions lists COMPLETED deductions that never funded a transfer.
	FindUntransferredDeductions(ctx context.Context, limit int) ([]*payment.Entry, error)
}

// WithdrawRepository stores driver payouts.
type WithdrawRepository interface {
	Add(ctx context.Context, withdraw *payment.Withdraw) error
}

// ReviewRepository stores reviews. A job receives at most one review from
// its driver; a second one is rejected with an IllegalTransitionError.
type ReviewRepository interface {
	Add(ctx context.Context, aggregate *review.Review) error
}
