package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// WebhookResult tells the caller what a notification changed. Nothing is
// an error when the notification concerns an entry this service never made.
type WebhookResult struct {
	Resolved    bool
	Transferred bool
	AccountID   string
}

// ReconcileWebhookCommandHandler applies processor notifications. A
// finalized charge resolves its PENDING deduction and, when the job is
// already delivered, funds the driver transfer. An account update marks the
// driver's connected account ready.
type ReconcileWebhookCommandHandler struct {
	engine settlementEngine
}

func NewReconcileWebhookCommandHandler(
	uowFactory SettlementUoWFactory,
	processor ports.PaymentProcessor,
	opts SettlementOptions,
) ReconcileWebhookCommandHandler {
	return ReconcileWebhookCommandHandler{
		engine: newSettlementEngine(uowFactory, processor, opts),
	}
}

func (h ReconcileWebhookCommandHandler) Handle(ctx context.Context, cmd ReconcileWebhookCommand) (WebhookResult, error) {
	if err := cmd.Validate(); err != nil {
		return WebhookResult{}, err
	}

	event := cmd.Event()
	logger := h.engine.logger.With("event_id", event.ID, "event_type", event.Type)

	switch event.Kind {
	case ports.WebhookChargeSucceeded:
		return h.handleCharge(ctx, event, payment.Completed)
	case ports.WebhookChargeFailed:
		return h.handleCharge(ctx, event, payment.Failed)
	case ports.WebhookAccountUpdated:
		return h.handleAccount(ctx, event)
	default:
		logger.Debug("ignoring webhook event")
		return WebhookResult{}, nil
	}
}

func (h ReconcileWebhookCommandHandler) handleCharge(
	ctx context.Context,
	event ports.WebhookEvent,
	outcome payment.Status,
) (WebhookResult, error) {
	logger := h.engine.logger.With("event_id", event.ID, "payment_intent", event.PaymentIntentRef)

	entry, err := h.findEntry(ctx, event)
	if errors.Is(err, errs.ErrObjectNotFound) {
		logger.Warn("webhook for unknown deduction dropped")
		return WebhookResult{}, nil
	}
	if err != nil {
		return WebhookResult{}, err
	}

	var result WebhookResult
	result.Resolved, err = h.engine.resolve(ctx, entry, outcome, event.PaymentIntentRef, event.ChargeRef)
	if err != nil {
		return result, err
	}
	if outcome != payment.Completed {
		logger.Info("deduction failed at the processor", "entry_id", entry.ID().String())
		return result, nil
	}

	// a deduction may already have been completed synchronously; the
	// transfer below is still due if nobody has made it
	if !result.Resolved {
		if entry, err = h.reload(ctx, entry.ID()); err != nil {
			return result, err
		}
	}

	result.Transferred, err = h.engine.transferIfDue(ctx, entry)
	return result, err
}

// findEntry looks the deduction up by intent and falls back to the card the
// charge was made with.
func (h ReconcileWebhookCommandHandler) findEntry(ctx context.Context, event ports.WebhookEvent) (*payment.Entry, error) {
	var entry *payment.Entry
	err := h.engine.inTx(ctx, func(uow SettlementUoW) error {
		repo := uow.PaymentRepository()

		var findErr error
		if event.PaymentIntentRef != "" {
			entry, findErr = repo.FindByPaymentIntent(ctx, event.PaymentIntentRef)
			if !errors.Is(findErr, errs.ErrObjectNotFound) {
				return findErr
			}
		}
		if event.CardRef == "" {
			return errs.NewObjectNotFoundError("payment intent", event.PaymentIntentRef)
		}

		entry, findErr = repo.FindByCard(ctx, event.CardRef)
		if findErr != nil {
			return findErr
		}
		ref := entry.Refs().PaymentIntentRef
		if ref != "" && ref != event.PaymentIntentRef {
			return errs.NewObjectNotFoundError("payment intent", event.PaymentIntentRef)
		}
		return nil
	})
	return entry, err
}

func (h ReconcileWebhookCommandHandler) reload(ctx context.Context, id kernel.UUID) (*payment.Entry, error) {
	var entry *payment.Entry
	err := h.engine.inTx(ctx, func(uow SettlementUoW) error {
		var getErr error
		entry, getErr = uow.PaymentRepository().Get(ctx, id)
		return getErr
	})
	return entry, err
}

func (h ReconcileWebhookCommandHandler) handleAccount(ctx context.Context, event ports.WebhookEvent) (WebhookResult, error) {
	result := WebhookResult{AccountID: event.AccountRef}
	if !event.AccountReady || event.AccountRef == "" {
		return result, nil
	}

	err := h.engine.inTx(ctx, func(uow SettlementUoW) error {
		repo := uow.UserRepository()
		driver, err := repo.GetByPaymentAccount(ctx, event.AccountRef)
		if err != nil {
			return err
		}
		if driver.PaymentAccountReady() {
			return nil
		}
		if err = driver.MarkPaymentAccountReady(); err != nil {
			return err
		}
		return repo.Update(ctx, driver)
	})
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.engine.logger.Warn("account update for unknown user dropped", "account_ref", event.AccountRef)
		return result, nil
	}
	return result, err
}
