package commands

import (
	"context"
)

// QuitJobCommandHandler cancels the job and frees the driver. A canceled job
// is not offered to other drivers again.
type QuitJobCommandHandler struct {
	uowFactory JobUoWFactory
}

func NewQuitJobCommandHandler(uowFactory JobUoWFactory) QuitJobCommandHandler {
	return QuitJobCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h QuitJobCommandHandler) Handle(ctx context.Context, cmd QuitJobCommand) error {
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

	jobRepo := uow.JobRepository()
	aggregate, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	if err = aggregate.Quit(cmd.DriverID(), cmd.Reason()); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
