package commands

import (
	"context"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/ports"
)

// DeductFromCustomerCommandHandler takes a job's amount from the customer's
// default card and holds it until the transfer to the driver.
//
// The job is marked deducted only on a confirmed charge. A declined charge
// returns a DEDUCTION_FAILED PaymentError and may be retried. A charge whose
// outcome is unknown is recorded as PENDING and further attempts are refused
// until it is resolved.
type DeductFromCustomerCommandHandler struct {
	engine settlementEngine
}

func NewDeductFromCustomerCommandHandler(
	uowFactory SettlementUoWFactory,
	processor ports.PaymentProcessor,
	opts SettlementOptions,
) DeductFromCustomerCommandHandler {
	return DeductFromCustomerCommandHandler{
		engine: newSettlementEngine(uowFactory, processor, opts),
	}
}

func (h DeductFromCustomerCommandHandler) Handle(ctx context.Context, cmd DeductFromCustomerCommand) (DeductionOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return DeductionOutcome{}, err
	}

	req, err := h.engine.prepareDeduction(ctx, cmd.JobID(), cmd.Amount(), func(aggregate *job.Job) error {
		return authorizeSettlement(aggregate, cmd.ActorID(), "deduct payment for this job")
	})
	if err != nil {
		return DeductionOutcome{}, err
	}

	outcome, _, err := h.engine.charge(ctx, req)
	return outcome, err
}
