package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/ports"
)

type ReconcileReport struct {
	Resolved     int
	StillPending int
	Transferred  int
	Failed       int
}

// ReconcileSettlementsCommandHandler is the safety net behind webhooks. It
// settles PENDING deductions by asking the processor and retries transfers
// that were never made. One entry failing does not stop the batch.
type ReconcileSettlementsCommandHandler struct {
	engine settlementEngine
}

func NewReconcileSettlementsCommandHandler(
	uowFactory SettlementUoWFactory,
	processor ports.PaymentProcessor,
	opts SettlementOptions,
) ReconcileSettlementsCommandHandler {
	return ReconcileSettlementsCommandHandler{
		engine: newSettlementEngine(uowFactory, processor, opts),
	}
}

func (h ReconcileSettlementsCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileSettlementsCommand,
) (ReconcileReport, error) {
	var report ReconcileReport
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	var pending, untransferred []*payment.Entry
	err := h.engine.inTx(ctx, func(uow SettlementUoW) error {
		repo := uow.PaymentRepository()

		var err error
		pending, err = repo.FindPendingDeductions(ctx, time.Now().UTC().Add(-cmd.MinAge()), cmd.BatchSize())
		if err != nil {
			return err
		}
		untransferred, err = repo.FindUntransferredDeductions(ctx, cmd.BatchSize())
		return err
	})
	if err != nil {
		return report, err
	}

	for _, entry := range pending {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		h.settlePending(ctx, entry, &report)
	}

	for _, entry := range untransferred {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		transferred, err := h.engine.transferIfDue(ctx, entry)
		if err != nil {
			report.Failed++
			h.engine.logger.Error("retrying transfer failed", "entry_id", entry.ID().String(), "error", err)
			continue
		}
		if transferred {
			report.Transferred++
		}
	}

	return report, nil
}

func (h ReconcileSettlementsCommandHandler) settlePending(ctx context.Context, entry *payment.Entry, report *ReconcileReport) {
	logger := h.engine.logger.With("entry_id", entry.ID().String())

	status, result, ok, err := h.engine.lookupOutcome(ctx, entry)
	if err != nil {
		report.Failed++
		logger.Error("looking up pending deduction failed", "error", err)
		return
	}
	if !ok {
		report.StillPending++
		return
	}

	resolved, err := h.engine.resolve(ctx, entry, status, result.PaymentIntentRef, result.ChargeRef)
	if err != nil {
		report.Failed++
		logger.Error("resolving pending deduction failed", "error", err)
		return
	}
	if resolved {
		report.Resolved++
	}
	if !resolved || status != payment.Completed {
		return
	}

	transferred, err := h.engine.transferIfDue(ctx, entry)
	if err != nil {
		report.Failed++
		logger.Error("transfer after resolution failed", "error", err)
		return
	}
	if transferred {
		report.Transferred++
	}
}
