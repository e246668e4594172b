package commands

import (
	"context"

	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

var ErrDriverImageMismatch = errs.NewValueIsInvalidError("driver image does not match the photo on file")

// VerifyDriverImageCommandHandler compares the driver's fresh photo with
// the stored one and, on a match, marks the job's partner as verified.
type VerifyDriverImageCommandHandler struct {
	uowFactory JobUoWFactory
	matcher    ports.FaceMatcher
}

func NewVerifyDriverImageCommandHandler(uowFactory JobUoWFactory, matcher ports.FaceMatcher) VerifyDriverImageCommandHandler {
	return VerifyDriverImageCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
	}
}

func (h VerifyDriverImageCommandHandler) Handle(ctx context.Context, cmd VerifyDriverImageCommand) error {
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

	driver, err := loadActor(ctx, uow.UserRepository(), cmd.DriverID(), user.Driver, "verify a driver image")
	if err != nil {
		return err
	}
	if driver.PhotoRef() == "" {
		return errs.NewIllegalTransitionError("verify driver image", "driver has no photo on file")
	}

	jobRepo := uow.JobRepository()
	aggregate, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}
	if !aggregate.IsPartner(cmd.DriverID()) {
		return errs.NewAuthorizationError("verify the driver image for this job", cmd.DriverID().String())
	}

	matched, err := h.matcher.Match(ctx, driver.PhotoRef(), cmd.ImageRef())
	if err != nil {
		return err
	}
	if !matched {
		return ErrDriverImageMismatch
	}

	if err = aggregate.VerifyPartnerImage(cmd.DriverID()); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
