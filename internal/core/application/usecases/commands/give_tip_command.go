package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGiveTipCommandIsNotConstructed = errors.New(
	"GiveTipCommand must be created via NewGiveTipCommand constructor",
)

// GiveTipCommand charges the customer an extra amount for the driver.
// Repeating a command with the same tip id never charges twice.
type GiveTipCommand struct {
	tipID      kernel.UUID
	jobID      kernel.UUID
	customerID kernel.UUID
	amount     kernel.Money

	guard guard.ConstructorGuard
}

func NewGiveTipCommand(tipID, jobID, customerID kernel.UUID, amount kernel.Money) (GiveTipCommand, error) {
	var amountErr error
	if !amount.IsPositive() {
		amountErr = job.ErrAmountMustBePositive
	}
	if err := errors.Join(tipID.Validate(), jobID.Validate(), customerID.Validate(), amountErr); err != nil {
		return GiveTipCommand{}, err
	}
	return GiveTipCommand{
		tipID:      tipID,
		jobID:      jobID,
		customerID: customerID,
		amount:     amount,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c GiveTipCommand) Validate() error {
	return c.guard.Validate(ErrGiveTipCommandIsNotConstructed)
}

func (c GiveTipCommand) TipID() kernel.UUID      { return c.tipID }
func (c GiveTipCommand) JobID() kernel.UUID      { return c.jobID }
func (c GiveTipCommand) CustomerID() kernel.UUID { return c.customerID }
func (c GiveTipCommand) Amount() kernel.Money    { return c.amount }
