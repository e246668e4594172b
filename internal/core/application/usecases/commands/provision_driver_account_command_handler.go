package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

type OnboardingLink struct {
	AccountID string
	URL       string
	Ready     bool
}

// ProvisionDriverAccountCommandHandler creates the driver's connected
// account when missing and returns where to finish onboarding.
type ProvisionDriverAccountCommandHandler struct {
	linker accountLinker
}

func NewProvisionDriverAccountCommandHandler(
	uowFactory UserUoWFactory,
	processor ports.PaymentProcessor,
	timeout time.Duration,
) ProvisionDriverAccountCommandHandler {
	return ProvisionDriverAccountCommandHandler{
		linker: newAccountLinker(uowFactory, processor, timeout),
	}
}

func (h ProvisionDriverAccountCommandHandler) Handle(
	ctx context.Context,
	cmd ProvisionDriverAccountCommand,
) (OnboardingLink, error) {
	if err := cmd.Validate(); err != nil {
		return OnboardingLink{}, err
	}

	processor := h.linker.processor
	driver, accountRef, err := h.linker.ensureAccount(ctx, cmd.DriverID(), user.Driver, "connect a payout account",
		func(ctx context.Context, u *user.User) (string, error) {
			return processor.CreateConnectedAccount(ctx, u.Email())
		})
	if err != nil {
		return OnboardingLink{}, err
	}

	link := OnboardingLink{AccountID: accountRef, Ready: driver.PaymentAccountReady()}
	if link.Ready {
		return link, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, h.linker.timeout)
	defer cancel()

	link.URL, err = processor.CreateOnboardingLink(callCtx, accountRef, cmd.RefreshURL(), cmd.ReturnURL())
	if err != nil {
		return OnboardingLink{}, errs.NewPaymentErrorWithCause(errs.PayoutFailed, "onboarding link was not created", err)
	}
	return link, nil
}
