package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes. The domain
// events of tracked aggregates are published once Commit succeeds.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and publishes recorded events.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and drops recorded events.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	JobRepository() JobRepository
	UserRepository() UserRepository
	PaymentRepository() PaymentRepository
	WithdrawRepository() WithdrawRepository
	ReviewRepository() ReviewRepository
}
