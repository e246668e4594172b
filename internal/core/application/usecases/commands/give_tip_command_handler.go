package commands

import (
	"context"

	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// GiveTipCommandHandler runs an independent deduct and transfer pair for a
// tip. Tips never touch the job's own deduction flag.
type GiveTipCommandHandler struct {
	engine settlementEngine
}

func NewGiveTipCommandHandler(
	uowFactory SettlementUoWFactory,
	processor ports.PaymentProcessor,
	opts SettlementOptions,
) GiveTipCommandHandler {
	return GiveTipCommandHandler{
		engine: newSettlementEngine(uowFactory, processor, opts),
	}
}

func (h GiveTipCommandHandler) Handle(ctx context.Context, cmd GiveTipCommand) (SettlementResult, error) {
	var result SettlementResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	var (
		req    chargeRequest
		driver *user.User
	)
	err := h.engine.inTx(ctx, func(uow SettlementUoW) error {
		aggregate, err := uow.JobRepository().Get(ctx, cmd.JobID())
		if err != nil {
			return err
		}
		if !aggregate.CustomerID().IsEqual(cmd.CustomerID()) {
			return errs.NewAuthorizationError("tip on this job", cmd.CustomerID().String())
		}
		if err = aggregate.EnsureDelivered("tip"); err != nil {
			return err
		}
		if aggregate.DeliveryPartner() == nil {
			return ErrNoDeliveryPartner
		}

		userRepo := uow.UserRepository()
		customer, err := userRepo.Get(ctx, cmd.CustomerID())
		if err != nil {
			return err
		}
		driver, err = userRepo.Get(ctx, *aggregate.DeliveryPartner())
		if err != nil {
			return err
		}

		req = chargeRequest{
			job:            aggregate,
			customer:       customer,
			amount:         cmd.Amount(),
			isTip:          true,
			idempotencyKey: tipDeductionKey(cmd.JobID(), cmd.TipID()),
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	deduction, entry, err := h.engine.charge(ctx, req)
	if err != nil {
		return result, err
	}
	result.Deduction = &deduction
	if deduction.IsPending() {
		return result, nil
	}

	transfer, err := h.engine.transfer(ctx, entry, driver, nil)
	if err != nil {
		return result, err
	}
	result.Transfer = &transfer

	return result, nil
}
