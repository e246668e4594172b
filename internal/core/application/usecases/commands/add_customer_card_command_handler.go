package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

type AddCustomerCardCommandHandler struct {
	linker accountLinker
}

func NewAddCustomerCardCommandHandler(
	uowFactory UserUoWFactory,
	processor ports.PaymentProcessor,
	timeout time.Duration,
) AddCustomerCardCommandHandler {
	return AddCustomerCardCommandHandler{
		linker: newAccountLinker(uowFactory, processor, timeout),
	}
}

// Handle returns the processor customer reference the card was attached to.
func (h AddCustomerCardCommandHandler) Handle(ctx context.Context, cmd AddCustomerCardCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	processor := h.linker.processor
	_, customerRef, err := h.linker.ensureAccount(ctx, cmd.CustomerID(), user.Customer, "add a card",
		func(ctx context.Context, u *user.User) (string, error) {
			return processor.CreateCustomer(ctx, ports.CustomerRequest{
				Name:  u.Name(),
				Email: u.Email(),
				Phone: u.Phone(),
			})
		})
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, h.linker.timeout)
	defer cancel()

	if err = processor.AttachCard(callCtx, customerRef, cmd.PaymentMethodRef(), cmd.MakeDefault()); err != nil {
		return "", errs.NewPaymentErrorWithCause(errs.DeductionFailed, "card was not attached", err)
	}
	return customerRef, nil
}
