package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/pkg/errs"
)

// LeaveReviewCommandHandler stores the assigned driver's review of a
// delivered job. The store rejects a second review for the same job.
type LeaveReviewCommandHandler struct {
	uowFactory ReviewUoWFactory
}

func NewLeaveReviewCommandHandler(uowFactory ReviewUoWFactory) LeaveReviewCommandHandler {
	return LeaveReviewCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h LeaveReviewCommandHandler) Handle(ctx context.Context, cmd LeaveReviewCommand) (*review.Review, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.JobRepository().Get(ctx, cmd.JobID())
	if err != nil {
		return nil, err
	}
	if !aggregate.IsPartner(cmd.DriverID()) {
		return nil, errs.NewAuthorizationError("review this job", cmd.DriverID().String())
	}
	if err = aggregate.EnsureDelivered("review"); err != nil {
		return nil, err
	}

	r, err := review.NewReview(kernel.NewUUID(), cmd.JobID(), cmd.DriverID(), aggregate.CustomerID(),
		cmd.Rating(), cmd.Text())
	if err != nil {
		return nil, err
	}

	if err = uow.ReviewRepository().Add(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}
