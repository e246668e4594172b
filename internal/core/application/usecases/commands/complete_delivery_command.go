package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

type CompleteDeliveryCommand struct {
	jobID    kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(jobID, driverID kernel.UUID) (CompleteDeliveryCommand, error) {
	if err := errors.Join(jobID.Validate(), driverID.Validate()); err != nil {
		return CompleteDeliveryCommand{}, err
	}
	return CompleteDeliveryCommand{
		jobID:    jobID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) JobID() kernel.UUID    { return c.jobID }
func (c CompleteDeliveryCommand) DriverID() kernel.UUID { return c.driverID }
