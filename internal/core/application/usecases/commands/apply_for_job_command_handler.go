package commands

import (
	"context"

	"marketplace/internal/core/domain/model/user"
)

// ApplyForJobCommandHandler records a driver's application. The customer is
// notified through the DriverApplied event once the transaction commits.
type ApplyForJobCommandHandler struct {
	uowFactory JobUoWFactory
}

func NewApplyForJobCommandHandler(uowFactory JobUoWFactory) ApplyForJobCommandHandler {
	return ApplyForJobCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h ApplyForJobCommandHandler) Handle(ctx context.Context, cmd ApplyForJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := loadActor(ctx, uow.UserRepository(), cmd.DriverID(), user.Driver, "apply for a job"); err != nil {
		return err
	}

	jobRepo := uow.JobRepository()
	aggregate, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	if err = aggregate.Apply(cmd.DriverID()); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
