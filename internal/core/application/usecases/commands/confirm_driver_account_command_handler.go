package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ConfirmDriverAccountCommandHandler checks with the processor whether the
// driver finished onboarding and records it. It reports the readiness.
type ConfirmDriverAccountCommandHandler struct {
	linker accountLinker
}

func NewConfirmDriverAccountCommandHandler(
	uowFactory UserUoWFactory,
	processor ports.PaymentProcessor,
	timeout time.Duration,
) ConfirmDriverAccountCommandHandler {
	return ConfirmDriverAccountCommandHandler{
		linker: newAccountLinker(uowFactory, processor, timeout),
	}
}

func (h ConfirmDriverAccountCommandHandler) Handle(ctx context.Context, cmd ConfirmDriverAccountCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	var accountRef string
	err := h.linker.withUser(ctx, cmd.DriverID(), user.Driver, "confirm a payout account",
		func(_ ports.UserRepository, u *user.User) error {
			ref, ok := u.PaymentAccountID()
			if !ok {
				return errs.NewIllegalTransitionError("confirm payment account", "no payment account is linked")
			}
			accountRef = ref
			return nil
		})
	if err != nil {
		return false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, h.linker.timeout)
	defer cancel()

	ready, err := h.linker.processor.AccountReady(callCtx, accountRef)
	if err != nil || !ready {
		return false, err
	}

	err = h.linker.withUser(ctx, cmd.DriverID(), user.Driver, "confirm a payout account",
		func(repo ports.UserRepository, u *user.User) error {
			if u.PaymentAccountReady() {
				return nil
			}
			if err := u.MarkPaymentAccountReady(); err != nil {
				return err
			}
			return repo.Update(ctx, u)
		})
	return err == nil, err
}
