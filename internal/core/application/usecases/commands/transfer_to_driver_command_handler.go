package commands

import (
	"context"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/ports"
)

// TransferToDriverCommandHandler sends the driver's share of the job's
// completed deduction to the driver's connected account. A deduction funds
// at most one transfer, whichever of this handler, the webhook or the
// reconciliation job gets there first.
type TransferToDriverCommandHandler struct {
	engine settlementEngine
}

func NewTransferToDriverCommandHandler(
	uowFactory SettlementUoWFactory,
	processor ports.PaymentProcessor,
	opts SettlementOptions,
) TransferToDriverCommandHandler {
	return TransferToDriverCommandHandler{
		engine: newSettlementEngine(uowFactory, processor, opts),
	}
}

func (h TransferToDriverCommandHandler) Handle(ctx context.Context, cmd TransferToDriverCommand) (TransferOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return TransferOutcome{}, err
	}

	source, driver, err := h.engine.prepareTransfer(ctx, cmd.JobID(), func(aggregate *job.Job) error {
		return authorizeSettlement(aggregate, cmd.ActorID(), "transfer payment for this job")
	})
	if err != nil {
		return TransferOutcome{}, err
	}

	return h.engine.transfer(ctx, source, driver, cmd.Amount())
}
