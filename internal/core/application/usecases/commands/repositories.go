// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	WithdrawRepoFactory interface {
		WithdrawRepository() ports.WithdrawRepository
	}

	ReviewRepoFactory interface {
		ReviewRepository() ports.ReviewRepository
	}

	// UserUoW manages transactions for user-only operations.
	UserUoW interface {
		TxManager
		UserRepoFactory
	}

	UserUoWFactory interface {
		Create() UserUoW
	}

	// JobUoW manages transactions that change a job after checking the
	// roles of the users involved.
	JobUoW interface {
		TxManager
		JobRepoFactory
		UserRepoFactory
	}

	JobUoWFactory interface {
		Create() JobUoW
	}

	ReviewUoW interface {
		TxManager
		JobRepoFactory
		ReviewRepoFactory
	}

	ReviewUoWFactory interface {
		Create() ReviewUoW
	}

	// SettlementUoW spans the job, its users and the payment ledger.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   claimed, err := uow.PaymentRepository().ClaimTransfer(ctx, entryID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	SettlementUoW interface {
		TxManager
		JobRepoFactory
		UserRepoFactory
		PaymentRepoFactory
	}

	SettlementUoWFactory interface {
		Create() SettlementUoW
	}

	WithdrawUoW interface {
		TxManager
		UserRepoFactory
		WithdrawRepoFactory
	}

	WithdrawUoWFactory interface {
		Create() WithdrawUoW
	}
)
