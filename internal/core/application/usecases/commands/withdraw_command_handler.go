package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// WithdrawCommandHandler requests an instant payout from the driver's
// connected account. The withdraw is recorded whatever the processor says:
// PAID when it reports so, FAILED on a refusal and PENDING otherwise.
type WithdrawCommandHandler struct {
	uowFactory WithdrawUoWFactory
	processor  ports.PaymentProcessor
	timeout    time.Duration
	logger     *slog.Logger
}

func NewWithdrawCommandHandler(
	uowFactory WithdrawUoWFactory,
	processor ports.PaymentProcessor,
	timeout time.Duration,
	logger *slog.Logger,
) WithdrawCommandHandler {
	if timeout <= 0 {
		timeout = DefaultProcessorTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return WithdrawCommandHandler{
		uowFactory: uowFactory,
		processor:  processor,
		timeout:    timeout,
		logger:     logger.With("component", "withdraw"),
	}
}

func (h WithdrawCommandHandler) Handle(ctx context.Context, cmd WithdrawCommand) (*payment.Withdraw, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	driver, err := h.loadDriver(ctx, cmd)
	if err != nil {
		return nil, err
	}
	accountRef, ok := driver.PaymentAccountID()
	if !ok || !driver.PaymentAccountReady() {
		return nil, errs.NewPaymentError(errs.PayoutFailed, "driver has no connected payment account")
	}

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	result, payoutErr := h.processor.Payout(callCtx, ports.PayoutRequest{
		AccountRef:     accountRef,
		Destination:    cmd.Destination(),
		Amount:         cmd.Amount(),
		IdempotencyKey: "withdraw:" + cmd.WithdrawID().String(),
	})

	status := payment.ParseWithdrawStatus(result.Status)
	switch {
	case payoutErr != nil && isUnknownOutcome(payoutErr):
		h.logger.Warn("payout outcome unknown, recording as pending",
			"withdraw_id", cmd.WithdrawID().String(), "error", payoutErr)
		status = payment.WithdrawPending
	case payoutErr != nil:
		status = payment.WithdrawFailed
	}

	withdraw, err := payment.NewWithdraw(
		cmd.WithdrawID(), driver.ID(), cmd.Amount(), cmd.Destination(), result.PayoutRef, status,
	)
	if err != nil {
		return nil, err
	}

	recordCtx := context.WithoutCancel(ctx)
	if err = h.record(recordCtx, withdraw); err != nil {
		return nil, err
	}

	if status == payment.WithdrawFailed {
		return withdraw, errs.NewPaymentErrorWithCause(errs.PayoutFailed, "payout was refused", payoutErr)
	}
	return withdraw, nil
}

func (h WithdrawCommandHandler) loadDriver(ctx context.Context, cmd WithdrawCommand) (*user.User, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driver, err := loadActor(ctx, uow.UserRepository(), cmd.DriverID(), user.Driver, "withdraw")
	if err != nil {
		return nil, err
	}

	return driver, uow.Commit(ctx)
}

func (h WithdrawCommandHandler) record(ctx context.Context, withdraw *payment.Withdraw) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.WithdrawRepository().Add(ctx, withdraw); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
