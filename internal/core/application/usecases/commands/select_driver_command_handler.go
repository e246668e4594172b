package commands

import (
	"context"

	"marketplace/internal/core/domain/model/user"
)

// SelectDriverCommandHandler assigns a delivery partner. The write is
// conditional on the job still having no partner, so when two selections
// race only one of them is stored; the other fails with an
// IllegalTransitionError.
type SelectDriverCommandHandler struct {
	uowFactory JobUoWFactory
}

func NewSelectDriverCommandHandler(uowFactory JobUoWFactory) SelectDriverCommandHandler {
	return SelectDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h SelectDriverCommandHandler) Handle(ctx context.Context, cmd SelectDriverCommand) error {
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

	userRepo := uow.UserRepository()
	if _, err := loadActor(ctx, userRepo, cmd.CustomerID(), user.Customer, "select a driver"); err != nil {
		return err
	}
	if _, err := loadActor(ctx, userRepo, cmd.DriverID(), user.Driver, "be selected as a driver"); err != nil {
		return err
	}

	jobRepo := uow.JobRepository()
	aggregate, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	if err = aggregate.SelectDriver(cmd.CustomerID(), cmd.DriverID()); err != nil {
		return err
	}

	if err = jobRepo.UpdateAssignment(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
