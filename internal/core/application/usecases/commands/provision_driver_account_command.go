package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrProvisionDriverAccountCommandIsNotConstructed = errors.New(
	"ProvisionDriverAccountCommand must be created via NewProvisionDriverAccountCommand constructor",
)

// ProvisionDriverAccountCommand asks for an onboarding link. The processor
// sends the driver back to returnURL when onboarding is done and to
// refreshURL when the link expired.
type ProvisionDriverAccountCommand struct {
	driverID   kernel.UUID
	refreshURL string
	returnURL  string

	guard guard.ConstructorGuard
}

func NewProvisionDriverAccountCommand(driverID kernel.UUID, refreshURL, returnURL string) (ProvisionDriverAccountCommand, error) {
	var refreshErr, returnErr error
	refreshURL, returnURL = strings.TrimSpace(refreshURL), strings.TrimSpace(returnURL)
	if refreshURL == "" {
		refreshErr = errs.NewValueIsRequiredError("refresh url")
	}
	if returnURL == "" {
		returnErr = errs.NewValueIsRequiredError("return url")
	}
	if err := errors.Join(driverID.Validate(), refreshErr, returnErr); err != nil {
		return ProvisionDriverAccountCommand{}, err
	}
	return ProvisionDriverAccountCommand{
		driverID:   driverID,
		refreshURL: refreshURL,
		returnURL:  returnURL,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ProvisionDriverAccountCommand) Validate() error {
	return c.guard.Validate(ErrProvisionDriverAccountCommandIsNotConstructed)
}

func (c ProvisionDriverAccountCommand) DriverID() kernel.UUID { return c.driverID }
func (c ProvisionDriverAccountCommand) RefreshURL() string    { return c.refreshURL }
func (c ProvisionDriverAccountCommand) ReturnURL() string     { return c.returnURL }
