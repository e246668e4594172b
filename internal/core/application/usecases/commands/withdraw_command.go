package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/guard"
)

var ErrWithdrawCommandIsNotConstructed = errors.New(
	"WithdrawCommand must be created via NewWithdrawCommand constructor",
)

// WithdrawCommand pays part of a driver's balance out to an external
// account. The withdraw id doubles as the payout idempotency key.
type WithdrawCommand struct {
	withdrawID  kernel.UUID
	driverID    kernel.UUID
	amount      kernel.Money
	destination string

	guard guard.ConstructorGuard
}

func NewWithdrawCommand(
	withdrawID, driverID kernel.UUID,
	amount kernel.Money,
	destination string,
) (WithdrawCommand, error) {
	var amountErr, destinationErr error
	if !amount.IsPositive() {
		amountErr = payment.ErrAmountMustBePositive
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		destinationErr = payment.ErrDestinationIsRequired
	}
	if err := errors.Join(withdrawID.Validate(), driverID.Validate(), amountErr, destinationErr); err != nil {
		return WithdrawCommand{}, err
	}
	return WithdrawCommand{
		withdrawID:  withdrawID,
		driverID:    driverID,
		amount:      amount,
		destination: destination,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c WithdrawCommand) Validate() error {
	return c.guard.Validate(ErrWithdrawCommandIsNotConstructed)
}

func (c WithdrawCommand) WithdrawID() kernel.UUID { return c.withdrawID }
func (c WithdrawCommand) DriverID() kernel.UUID   { return c.driverID }
func (c WithdrawCommand) Amount() kernel.Money    { return c.amount }
func (c WithdrawCommand) Destination() string     { return c.destination }
