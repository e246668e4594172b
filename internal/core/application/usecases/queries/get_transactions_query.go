package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetTransactionsQueryIsNotConstructed = errors.New(
	"GetTransactionsQuery must be created via NewGetTransactionsQuery constructor",
)

// GetTransactionsQuery lists a user's ledger, newest first. Drivers also
// see their payouts.
type GetTransactionsQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetTransactionsQuery(userID kernel.UUID) (GetTransactionsQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetTransactionsQuery{}, err
	}
	return GetTransactionsQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrGetTransactionsQueryIsNotConstructed)
}

func (q GetTransactionsQuery) UserID() kernel.UUID {
	return q.userID
}

type TransactionView struct {
	ID              kernel.UUID
	JobID           *kernel.UUID
	OrderNumber     string
	TransactionType string
	Amount          kernel.Money
	Status          string
	IsTip           bool
	Transferred     bool
	CreatedAt       time.Time
}
