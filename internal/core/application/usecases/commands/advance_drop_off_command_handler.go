package commands

import (
	"context"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// AdvanceDropOffCommandHandler applies a drop-off status change. The job is
// written back with a version check against the state read in this handler,
// so a concurrent change to the same job makes this call fail instead of
// being overwritten.
type AdvanceDropOffCommandHandler struct {
	uowFactory JobUoWFactory
	verifier   ports.EvidenceVerifier
	// requireImageVerification gates progress on a passed driver face match
	requireImageVerification bool
}

// NewAdvanceDropOffCommandHandler accepts a nil verifier, in which case
// image references are stored without being checked.
func NewAdvanceDropOffCommandHandler(
	uowFactory JobUoWFactory,
	verifier ports.EvidenceVerifier,
	requireImageVerification bool,
) AdvanceDropOffCommandHandler {
	return AdvanceDropOffCommandHandler{
		uowFactory:               uowFactory,
		verifier:                 verifier,
		requireImageVerification: requireImageVerification,
	}
}

// Handle returns the message describing the status reached.
func (h AdvanceDropOffCommandHandler) Handle(ctx context.Context, cmd AdvanceDropOffCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	aggregate, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return "", err
	}

	if h.requireImageVerification && aggregate.IsPartner(cmd.DriverID()) && !aggregate.PartnerImageVerified() {
		return "", errs.NewIllegalTransitionError("advance drop-off", "driver image is not verified")
	}

	message, err := aggregate.AdvanceDropOff(cmd.DriverID(), cmd.DropOffID(), cmd.Target(), cmd.Evidence())
	if err != nil {
		return "", err
	}

	if refs := cmd.Evidence().ImageRefs(); h.verifier != nil && len(refs) > 0 {
		if err = h.verifier.Verify(ctx, refs); err != nil {
			return "", errs.NewValueIsInvalidErrorWithCause("evidence", err)
		}
	}

	if err = jobRepo.Update(ctx, aggregate); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return message, nil
}
