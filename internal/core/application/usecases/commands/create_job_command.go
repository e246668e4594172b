package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCreateJobCommandIsNotConstructed = errors.New(
	"CreateJobCommand must be created via NewCreateJobCommand constructor",
)

// DropOffInput describes one leg of a job being posted.
type DropOffInput struct {
	Location     kernel.Location
	Items        job.Items
	Instructions string
}

// CreateJobCommand posts a new delivery job on behalf of a customer.
// Amount is optional; the handler falls back to the configured default.
//
// Example:
//
//	cmd, err := NewCreateJobCommand(kernel.NewUUID(), customerID, "Move a sofa", pickup,
//	    job.Schedule{PickupDate: "2025-05-01"}, job.SingleDropOff, nil, legs)
//	if err != nil {
//	    return fmt.Errorf("invalid job: %w", err)
//	}
type CreateJobCommand struct {
	jobID      kernel.UUID
	customerID kernel.UUID
	title      string
	pickup     kernel.Location
	schedule   job.Schedule
	jobType    job.Type
	amount     *kernel.Money
	dropOffs   []DropOffInput

	guard guard.ConstructorGuard
}

func NewCreateJobCommand(
	jobID kernel.UUID,
	customerID kernel.UUID,
	title string,
	pickup kernel.Location,
	schedule job.Schedule,
	jobType job.Type,
	amount *kernel.Money,
	dropOffs []DropOffInput,
) (CreateJobCommand, error) {
	cmd := CreateJobCommand{
		title:    strings.TrimSpace(title),
		schedule: schedule,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setCustomerID(customerID),
		cmd.setPickup(pickup),
		cmd.setJobType(jobType),
		cmd.setAmount(amount),
		cmd.setDropOffs(dropOffs),
	); err != nil {
		return CreateJobCommand{}, err
	}

	return cmd, nil
}

func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

func (c CreateJobCommand) JobID() kernel.UUID       { return c.jobID }
func (c CreateJobCommand) CustomerID() kernel.UUID  { return c.customerID }
func (c CreateJobCommand) Title() string            { return c.title }
func (c CreateJobCommand) Pickup() kernel.Location  { return c.pickup }
func (c CreateJobCommand) Schedule() job.Schedule   { return c.schedule }
func (c CreateJobCommand) JobType() job.Type        { return c.jobType }
func (c CreateJobCommand) Amount() *kernel.Money    { return c.amount }
func (c CreateJobCommand) DropOffs() []DropOffInput { return c.dropOffs }

func (c *CreateJobCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.jobID = id
	return nil
}

func (c *CreateJobCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}

func (c *CreateJobCommand) setPickup(pickup kernel.Location) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	c.pickup = pickup
	return nil
}

func (c *CreateJobCommand) setJobType(jobType job.Type) error {
	if err := jobType.Validate(); err != nil {
		return err
	}
	c.jobType = jobType
	return nil
}

func (c *CreateJobCommand) setAmount(amount *kernel.Money) error {
	if amount != nil && !amount.IsPositive() {
		return job.ErrAmountMustBePositive
	}
	c.amount = amount
	return nil
}

func (c *CreateJobCommand) setDropOffs(dropOffs []DropOffInput) error {
	if len(dropOffs) == 0 {
		return job.ErrDropOffsAreRequired
	}
	for _, d := range dropOffs {
		if err := errors.Join(d.Location.Validate(), d.Items.Validate()); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("drop-off", err)
		}
	}
	c.dropOffs = dropOffs
	return nil
}
