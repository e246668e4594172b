package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrDeductFromCustomerCommandIsNotConstructed = errors.New(
	"DeductFromCustomerCommand must be created via NewDeductFromCustomerCommand constructor",
)

// DeductFromCustomerCommand charges the customer for a job. Amount is
// optional and defaults to the job amount.
type DeductFromCustomerCommand struct {
	jobID   kernel.UUID
	actorID kernel.UUID
	amount  *kernel.Money

	guard guard.ConstructorGuard
}

func NewDeductFromCustomerCommand(jobID, actorID kernel.UUID, amount *kernel.Money) (DeductFromCustomerCommand, error) {
	var amountErr error
	if amount != nil && !amount.IsPositive() {
		amountErr = job.ErrAmountMustBePositive
	}
	if err := errors.Join(jobID.Validate(), actorID.Validate(), amountErr); err != nil {
		return DeductFromCustomerCommand{}, err
	}
	return DeductFromCustomerCommand{
		jobID:   jobID,
		actorID: actorID,
		amount:  amount,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c DeductFromCustomerCommand) Validate() error {
	return c.guard.Validate(ErrDeductFromCustomerCommandIsNotConstructed)
}

func (c DeductFromCustomerCommand) JobID() kernel.UUID    { return c.jobID }
func (c DeductFromCustomerCommand) ActorID() kernel.UUID  { return c.actorID }
func (c DeductFromCustomerCommand) Amount() *kernel.Money { return c.amount }
