package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// SettlementResult reports what a settlement run did. Transfer is nil when
// the deduction is still pending.
type SettlementResult struct {
	Deduction *DeductionOutcome
	Transfer  *TransferOutcome
}

// SettleJobCommandHandler deducts the job amount from the customer and then
// transfers the driver's share. A job that was already deducted goes
// straight to the transfer, so a settlement interrupted between the two
// steps can be resumed.
type SettleJobCommandHandler struct {
	engine settlementEngine
}

func NewSettleJobCommandHandler(
	uowFactory SettlementUoWFactory,
	processor ports.PaymentProcessor,
	opts SettlementOptions,
) SettleJobCommandHandler {
	return SettleJobCommandHandler{
		engine: newSettlementEngine(uowFactory, processor, opts),
	}
}

func (h SettleJobCommandHandler) Handle(ctx context.Context, cmd SettleJobCommand) (SettlementResult, error) {
	var result SettlementResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	authorize := func(aggregate *job.Job) error {
		if !aggregate.IsPartner(cmd.DriverID()) {
			return errs.NewAuthorizationError("settle this job", cmd.DriverID().String())
		}
		return aggregate.EnsureDelivered("settle job")
	}

	req, err := h.engine.prepareDeduction(ctx, cmd.JobID(), nil, authorize)
	switch {
	case errors.Is(err, ErrAlreadyDeducted):
	case err != nil:
		return result, err
	default:
		deduction, _, chargeErr := h.engine.charge(ctx, req)
		if chargeErr != nil {
			return result, chargeErr
		}
		result.Deduction = &deduction
		if deduction.IsPending() {
			return result, nil
		}
	}

	source, driver, err := h.engine.prepareTransfer(ctx, cmd.JobID(), authorize)
	if err != nil {
		return result, err
	}

	transfer, err := h.engine.transfer(ctx, source, driver, nil)
	if err != nil {
		return result, err
	}
	result.Transfer = &transfer

	return result, nil
}
