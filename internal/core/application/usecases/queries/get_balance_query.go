package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetBalanceQueryIsNotConstructed = errors.New(
	"GetBalanceQuery must be created via NewGetBalanceQuery constructor",
)

// GetBalanceQuery reads a driver's balance at the payment processor.
type GetBalanceQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetBalanceQuery(driverID kernel.UUID) (GetBalanceQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetBalanceQuery{}, err
	}
	return GetBalanceQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetBalanceQueryIsNotConstructed)
}

func (q GetBalanceQuery) DriverID() kernel.UUID {
	return q.driverID
}

// GetBalanceQueryResponse is zero with AccountLinked false for drivers who
// have not finished onboarding.
type GetBalanceQueryResponse struct {
	AccountLinked bool
	Available     kernel.Money
	Pending       kernel.Money
}
