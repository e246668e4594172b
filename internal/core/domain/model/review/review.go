package review

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ErrReviewIsNotConstructed = errors.New("Review must be created via NewReview constructor")

// Review is the driver's rating of a delivered job. Reviews are append-only.
type Review struct {
	id         kernel.UUID
	jobID      kernel.UUID
	driverID   kernel.UUID
	customerID kernel.UUID
	rating     int
	text       string
	createdAt  time.Time
	guard      guard.ConstructorGuard
}

func NewReview(id, jobID, driverID, customerID kernel.UUID, rating int, text string) (*Review, error) {
	if err := errors.Join(
		id.Validate(),
		jobID.Validate(),
		driverID.Validate(),
		customerID.Validate(),
		validateRating(rating),
	); err != nil {
		return nil, err
	}

	return &Review{
		id:         id,
		jobID:      jobID,
		driverID:   driverID,
		customerID: customerID,
		rating:     rating,
		text:       strings.TrimSpace(text),
		createdAt:  time.Now().UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func RestoreReview(
	id, jobID, driverID, customerID kernel.UUID, rating int, text string, createdAt time.Time,
) (*Review, error) {
	r, err := NewReview(id, jobID, driverID, customerID, rating, text)
	if err != nil {
		return nil, err
	}
	r.createdAt = createdAt
	return r, nil
}

func (r *Review) Validate() error {
	if r == nil {
		return ErrReviewIsNotConstructed
	}
	return r.guard.Validate(ErrReviewIsNotConstructed)
}

func (r *Review) ID() kernel.UUID         { return r.id }
func (r *Review) JobID() kernel.UUID      { return r.jobID }
func (r *Review) DriverID() kernel.UUID   { return r.driverID }
func (r *Review) CustomerID() kernel.UUID { return r.customerID }
func (r *Review) Rating() int             { return r.rating }
func (r *Review) Text() string            { return r.text }
func (r *Review) CreatedAt() time.Time    { return r.createdAt }

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	return nil
}
