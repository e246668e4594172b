package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrApplyForJobCommandIsNotConstructed = errors.New(
	"ApplyForJobCommand must be created via NewApplyForJobCommand constructor",
)

// ApplyForJobCommand adds a driver to the applicants of an open job.
type ApplyForJobCommand struct {
	jobID    kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewApplyForJobCommand(jobID, driverID kernel.UUID) (ApplyForJobCommand, error) {
	if err := errors.Join(jobID.Validate(), driverID.Validate()); err != nil {
		return ApplyForJobCommand{}, err
	}
	return ApplyForJobCommand{
		jobID:    jobID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyForJobCommand) Validate() error {
	return c.guard.Validate(ErrApplyForJobCommandIsNotConstructed)
}

func (c ApplyForJobCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c ApplyForJobCommand) DriverID() kernel.UUID {
	return c.driverID
}
