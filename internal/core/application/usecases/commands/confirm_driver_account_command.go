package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrConfirmDriverAccountCommandIsNotConstructed = errors.New(
	"ConfirmDriverAccountCommand must be created via NewConfirmDriverAccountCommand constructor",
)

type ConfirmDriverAccountCommand struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmDriverAccountCommand(driverID kernel.UUID) (ConfirmDriverAccountCommand, error) {
	if err := driverID.Validate(); err != nil {
		return ConfirmDriverAccountCommand{}, err
	}
	return ConfirmDriverAccountCommand{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmDriverAccountCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDriverAccountCommandIsNotConstructed)
}

func (c ConfirmDriverAccountCommand) DriverID() kernel.UUID { return c.driverID }
