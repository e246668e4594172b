package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrSettleJobCommandIsNotConstructed = errors.New(
	"SettleJobCommand must be created via NewSettleJobCommand constructor",
)

// SettleJobCommand is sent by the driver of a delivered job to get paid.
type SettleJobCommand struct {
	jobID    kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewSettleJobCommand(jobID, driverID kernel.UUID) (SettleJobCommand, error) {
	if err := errors.Join(jobID.Validate(), driverID.Validate()); err != nil {
		return SettleJobCommand{}, err
	}
	return SettleJobCommand{
		jobID:    jobID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SettleJobCommand) Validate() error {
	return c.guard.Validate(ErrSettleJobCommandIsNotConstructed)
}

func (c SettleJobCommand) JobID() kernel.UUID    { return c.jobID }
func (c SettleJobCommand) DriverID() kernel.UUID { return c.driverID }
