package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrTransferToDriverCommandIsNotConstructed = errors.New(
	"TransferToDriverCommand must be created via NewTransferToDriverCommand constructor",
)

// TransferToDriverCommand releases the held deduction of a delivered job to
// its driver. Amount is optional and defaults to the whole deduction; the
// commission is taken from whichever amount is forwarded.
type TransferToDriverCommand struct {
	jobID   kernel.UUID
	actorID kernel.UUID
	amount  *kernel.Money

	guard guard.ConstructorGuard
}

func NewTransferToDriverCommand(jobID, actorID kernel.UUID, amount *kernel.Money) (TransferToDriverCommand, error) {
	var amountErr error
	if amount != nil && !amount.IsPositive() {
		amountErr = job.ErrAmountMustBePositive
	}
	if err := errors.Join(jobID.Validate(), actorID.Validate(), amountErr); err != nil {
		return TransferToDriverCommand{}, err
	}
	return TransferToDriverCommand{
		jobID:   jobID,
		actorID: actorID,
		amount:  amount,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c TransferToDriverCommand) Validate() error {
	return c.guard.Validate(ErrTransferToDriverCommandIsNotConstructed)
}

func (c TransferToDriverCommand) JobID() kernel.UUID    { return c.jobID }
func (c TransferToDriverCommand) ActorID() kernel.UUID  { return c.actorID }
func (c TransferToDriverCommand) Amount() *kernel.Money { return c.amount }
