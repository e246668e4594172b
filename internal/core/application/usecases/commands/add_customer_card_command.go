package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAddCustomerCardCommandIsNotConstructed = errors.New(
	"AddCustomerCardCommand must be created via NewAddCustomerCardCommand constructor",
)

// AddCustomerCardCommand attaches a tokenized card to the customer's
// processor record, creating the record on first use.
type AddCustomerCardCommand struct {
	customerID       kernel.UUID
	paymentMethodRef string
	makeDefault      bool

	guard guard.ConstructorGuard
}

func NewAddCustomerCardCommand(customerID kernel.UUID, paymentMethodRef string, makeDefault bool) (AddCustomerCardCommand, error) {
	var refErr error
	paymentMethodRef = strings.TrimSpace(paymentMethodRef)
	if paymentMethodRef == "" {
		refErr = errs.NewValueIsRequiredError("payment method")
	}
	if err := errors.Join(customerID.Validate(), refErr); err != nil {
		return AddCustomerCardCommand{}, err
	}
	return AddCustomerCardCommand{
		customerID:       customerID,
		paymentMethodRef: paymentMethodRef,
		makeDefault:      makeDefault,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c AddCustomerCardCommand) Validate() error {
	return c.guard.Validate(ErrAddCustomerCardCommandIsNotConstructed)
}

func (c AddCustomerCardCommand) CustomerID() kernel.UUID  { return c.customerID }
func (c AddCustomerCardCommand) PaymentMethodRef() string { return c.paymentMethodRef }
func (c AddCustomerCardCommand) MakeDefault() bool        { return c.makeDefault }
