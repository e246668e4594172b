package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAdvanceDropOffCommandIsNotConstructed = errors.New(
	"AdvanceDropOffCommand must be created via NewAdvanceDropOffCommand constructor",
)

// AdvanceDropOffCommand moves one drop-off of a job to its next status,
// attaching whatever proof the driver supplied.
//
// Example:
//
//	ref := "pickups/7f3c.jpg"
//	cmd, _ := NewAdvanceDropOffCommand(jobID, driverID, dropOffID, job.OnTheWayToDropOff,
//	    job.Evidence{PickupImageRef: &ref})
//	message, err := handler.Handle(ctx, cmd) // "On the way to drop-off"
type AdvanceDropOffCommand struct {
	jobID     kernel.UUID
	driverID  kernel.UUID
	dropOffID kernel.UUID
	target    job.DropOffStatus
	evidence  job.Evidence

	guard guard.ConstructorGuard
}

func NewAdvanceDropOffCommand(
	jobID, driverID, dropOffID kernel.UUID,
	target job.DropOffStatus,
	evidence job.Evidence,
) (AdvanceDropOffCommand, error) {
	if err := errors.Join(
		jobID.Validate(),
		driverID.Validate(),
		dropOffID.Validate(),
		target.Validate(),
	); err != nil {
		return AdvanceDropOffCommand{}, err
	}
	if evidence.DropOffPoint != nil {
		if err := evidence.DropOffPoint.Validate(); err != nil {
			return AdvanceDropOffCommand{}, err
		}
	}

	return AdvanceDropOffCommand{
		jobID:     jobID,
		driverID:  driverID,
		dropOffID: dropOffID,
		target:    target,
		evidence:  evidence,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceDropOffCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDropOffCommandIsNotConstructed)
}

func (c AdvanceDropOffCommand) JobID() kernel.UUID        { return c.jobID }
func (c AdvanceDropOffCommand) DriverID() kernel.UUID     { return c.driverID }
func (c AdvanceDropOffCommand) DropOffID() kernel.UUID    { return c.dropOffID }
func (c AdvanceDropOffCommand) Target() job.DropOffStatus { return c.target }
func (c AdvanceDropOffCommand) Evidence() job.Evidence    { return c.evidence }
