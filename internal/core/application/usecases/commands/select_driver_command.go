package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrSelectDriverCommandIsNotConstructed = errors.New(
	"SelectDriverCommand must be created via NewSelectDriverCommand constructor",
)

// SelectDriverCommand lets the owning customer pick one of the applicants.
type SelectDriverCommand struct {
	jobID      kernel.UUID
	customerID kernel.UUID
	driverID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewSelectDriverCommand(jobID, customerID, driverID kernel.UUID) (SelectDriverCommand, error) {
	if err := errors.Join(jobID.Validate(), customerID.Validate(), driverID.Validate()); err != nil {
		return SelectDriverCommand{}, err
	}
	return SelectDriverCommand{
		jobID:      jobID,
		customerID: customerID,
		driverID:   driverID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SelectDriverCommand) Validate() error {
	return c.guard.Validate(ErrSelectDriverCommandIsNotConstructed)
}

func (c SelectDriverCommand) JobID() kernel.UUID      { return c.jobID }
func (c SelectDriverCommand) CustomerID() kernel.UUID { return c.customerID }
func (c SelectDriverCommand) DriverID() kernel.UUID   { return c.driverID }
