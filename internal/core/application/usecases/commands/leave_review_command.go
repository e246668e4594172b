package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/review"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrLeaveReviewCommandIsNotConstructed = errors.New(
	"LeaveReviewCommand must be created via NewLeaveReviewCommand constructor",
)

type LeaveReviewCommand struct {
	jobID    kernel.UUID
	driverID kernel.UUID
	rating   int
	text     string

	guard guard.ConstructorGuard
}

func NewLeaveReviewCommand(jobID, driverID kernel.UUID, rating int, text string) (LeaveReviewCommand, error) {
	var ratingErr error
	if rating < review.MinRating || rating > review.MaxRating {
		ratingErr = errs.NewValueIsOutOfRangeError("rating", rating, review.MinRating, review.MaxRating)
	}
	if err := errors.Join(jobID.Validate(), driverID.Validate(), ratingErr); err != nil {
		return LeaveReviewCommand{}, err
	}
	return LeaveReviewCommand{
		jobID:    jobID,
		driverID: driverID,
		rating:   rating,
		text:     strings.TrimSpace(text),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c LeaveReviewCommand) Validate() error {
	return c.guard.Validate(ErrLeaveReviewCommandIsNotConstructed)
}

func (c LeaveReviewCommand) JobID() kernel.UUID    { return c.jobID }
func (c LeaveReviewCommand) DriverID() kernel.UUID { return c.driverID }
func (c LeaveReviewCommand) Rating() int           { return c.rating }
func (c LeaveReviewCommand) Text() string          { return c.text }
