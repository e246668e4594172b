package commands

import (
	"context"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
)

// CreateJobCommandHandler posts a job for a customer and gives it the next
// order number.
type CreateJobCommandHandler struct {
	uowFactory    JobUoWFactory
	defaultAmount kernel.Money
}

func NewCreateJobCommandHandler(uowFactory JobUoWFactory, defaultAmount kernel.Money) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory:    uowFactory,
		defaultAmount: defaultAmount,
	}
}

// Handle returns the stored job so the caller can read its order number.
func (h CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) (*job.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	amount := h.defaultAmount
	if cmd.Amount() != nil {
		amount = *cmd.Amount()
	}

	legs := make([]*job.DropOff, 0, len(cmd.DropOffs()))
	for _, in := range cmd.DropOffs() {
		leg, err := job.NewDropOff(kernel.NewUUID(), in.Location, in.Items, in.Instructions)
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}

	aggregate, err := job.NewJob(
		cmd.JobID(),
		cmd.CustomerID(),
		cmd.Title(),
		cmd.Pickup(),
		cmd.Schedule(),
		cmd.JobType(),
		amount,
		legs,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err = loadActor(ctx, uow.UserRepository(), cmd.CustomerID(), user.Customer, "create a job"); err != nil {
		return nil, err
	}

	if err = uow.JobRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
